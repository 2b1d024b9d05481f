package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetboard/internal/domain"
	"sheetboard/internal/service"
	"sheetboard/internal/transport/http/ez"
	resp "sheetboard/internal/transport/http/response"
)

type AdminHandler struct{ svc *service.AdminService }

func NewAdminHandler(svc *service.AdminService) *AdminHandler { return &AdminHandler{svc: svc} }

type blockOut struct {
	Message string `json:"message"`
	Blocked bool   `json:"blocked"`
}

func (h *AdminHandler) MountAdmin(g *gin.RouterGroup) {
	ez.RegisterAction(g, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			return h.svc.Users(c.Request.Context())
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, []domain.File]{
		Method: http.MethodGet,
		Path:   "/files",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.File, error) {
			return h.svc.Files(c.Request.Context())
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, []service.UserUsage]{
		Method: http.MethodGet,
		Path:   "/analytics",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.UserUsage, error) {
			return h.svc.Analytics(c.Request.Context())
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/user/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			if err := h.svc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "User and their files deleted successfully"}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[service.BlockInput, blockOut]{
		Method: http.MethodPatch,
		Path:   "/user/block/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.BlockInput) (blockOut, error) {
			u, err := h.svc.BlockUser(c.Request.Context(), c.Param("id"), *in)
			if err != nil {
				return blockOut{}, err
			}
			msg := "User unblocked successfully"
			if u.Blocked {
				msg = "User blocked successfully"
			}
			return blockOut{Message: msg, Blocked: u.Blocked}, nil
		},
	})
}
