package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetboard/internal/domain"
	"sheetboard/internal/service"
	"sheetboard/internal/transport/http/ez"
	mdw "sheetboard/internal/transport/http/middleware"
)

type PlanHandler struct{ svc *service.PlanService }

func NewPlanHandler(svc *service.PlanService) *PlanHandler { return &PlanHandler{svc: svc} }

type buyPlanOut struct {
	Message string      `json:"message"`
	Plan    domain.Plan `json:"plan"`
}

func (h *PlanHandler) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(g, ez.Action[service.BuyPlanInput, buyPlanOut]{
		Method: http.MethodPost,
		Path:   "/buy-plan",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.BuyPlanInput) (buyPlanOut, error) {
			plan, err := h.svc.BuyPlan(c.Request.Context(), c.GetString(mdw.KeyUserID), *in)
			if err != nil {
				return buyPlanOut{}, err
			}
			return buyPlanOut{Message: "Plan purchased successfully", Plan: plan}, nil
		},
	})
}
