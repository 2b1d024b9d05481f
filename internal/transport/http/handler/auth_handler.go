package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetboard/internal/domain"
	"sheetboard/internal/service"
	"sheetboard/internal/transport/http/ez"
	mdw "sheetboard/internal/transport/http/middleware"
)

type AuthHandler struct{ svc *service.AuthService }

func NewAuthHandler(svc *service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountPublic(g *gin.RouterGroup) {
	ez.RegisterAction(g, ez.Action[service.SignupInput, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.SignupInput) (*service.Session, error) {
			return h.svc.Signup(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(g, ez.Action[service.LoginInput, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.LoginInput) (*service.Session, error) {
			return h.svc.Login(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(g, ez.Action[service.GoogleInput, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/google-auth",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.GoogleInput) (*service.Session, error) {
			return h.svc.GoogleAuth(c.Request.Context(), *in)
		},
	})
}

type statusOut struct {
	IsLoggedIn bool         `json:"isLoggedIn"`
	User       *domain.User `json:"user,omitempty"`
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(g, ez.Action[struct{}, statusOut]{
		Method: http.MethodGet,
		Path:   "/auth/status",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (statusOut, error) {
			u := mdw.CurrentUser(c)
			return statusOut{IsLoggedIn: u != nil, User: u}, nil
		},
	})
	ez.RegisterAction(g, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.Me(c.Request.Context(), c.GetString(mdw.KeyUserID))
		},
	})
}
