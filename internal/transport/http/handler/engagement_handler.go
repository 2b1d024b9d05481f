package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetboard/internal/domain"
	"sheetboard/internal/service"
	"sheetboard/internal/transport/http/ez"
	mdw "sheetboard/internal/transport/http/middleware"
	resp "sheetboard/internal/transport/http/response"
)

type EngagementHandler struct{ svc *service.EngagementService }

func NewEngagementHandler(svc *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{svc: svc}
}

func (h *EngagementHandler) MountPublic(g *gin.RouterGroup) {
	ez.RegisterAction(g, ez.Action[service.SubscribeInput, resp.Message]{
		Method: http.MethodPost,
		Path:   "/subscriber",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.SubscribeInput) (resp.Message, error) {
			if _, err := h.svc.Subscribe(c.Request.Context(), *in); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Thanks for subscribing!"}, nil
		},
	})
}

type testimonialOut struct {
	Message     string              `json:"message"`
	Testimonial *domain.Testimonial `json:"testimonial"`
}

func (h *EngagementHandler) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(g, ez.Action[service.TestimonialInput, testimonialOut]{
		Method: http.MethodPost,
		Path:   "/testimonials",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.TestimonialInput) (testimonialOut, error) {
			t, err := h.svc.CreateTestimonial(c.Request.Context(), c.GetString(mdw.KeyUserID), *in)
			if err != nil {
				return testimonialOut{}, err
			}
			return testimonialOut{Message: "Thanks for your feedback!", Testimonial: t}, nil
		},
	})
}
