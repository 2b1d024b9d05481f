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

type FileHandler struct{ svc *service.FileService }

func NewFileHandler(svc *service.FileService) *FileHandler { return &FileHandler{svc: svc} }

type uploadOut struct {
	Message string        `json:"message"`
	Files   []domain.File `json:"files"`
}

type analyzeOut struct {
	Message  string       `json:"message"`
	FileName string       `json:"fileName"`
	Data     []domain.Row `json:"data"`
}

func (h *FileHandler) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(g, ez.Action[struct{}, uploadOut]{
		Method: http.MethodPost,
		Path:   "/upload",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (uploadOut, error) {
			parts, err := formFiles(c, fileField)
			if err != nil {
				return uploadOut{}, err
			}
			files, err := h.svc.Upload(c.Request.Context(), c.GetString(mdw.KeyUserID), parts)
			if err != nil {
				return uploadOut{}, err
			}
			return uploadOut{Message: "Files uploaded successfully", Files: files}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, analyzeOut]{
		Method: http.MethodPost,
		Path:   "/analyze",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (analyzeOut, error) {
			part, err := formFile(c, fileField)
			if err != nil {
				return analyzeOut{}, err
			}
			rows, err := h.svc.Analyze(c.Request.Context(), part)
			if err != nil {
				return analyzeOut{}, err
			}
			return analyzeOut{Message: "File analyzed successfully", FileName: part.Name, Data: rows}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, analyzeOut]{
		Method: http.MethodPost,
		Path:   "/analyze/:fileId",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (analyzeOut, error) {
			f, err := h.svc.AnalyzeStored(c.Request.Context(), c.Param("fileId"), c.GetString(mdw.KeyUserID))
			if err != nil {
				return analyzeOut{}, err
			}
			return analyzeOut{Message: "File analysis fetched successfully", FileName: f.FileName, Data: f.Data}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, []service.ListItem]{
		Method: http.MethodGet,
		Path:   "/list",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.ListItem, error) {
			return h.svc.List(c.Request.Context(), c.GetString(mdw.KeyUserID))
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, []domain.File]{
		Method: http.MethodGet,
		Path:   "/uploads",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.File, error) {
			return h.svc.Uploads(c.Request.Context(), c.GetString(mdw.KeyUserID))
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/delete/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			if err := h.svc.Delete(c.Request.Context(), c.Param("id"), mdw.CurrentUser(c)); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "File deleted successfully"}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/file/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			if err := h.svc.DeleteOwned(c.Request.Context(), c.Param("id"), c.GetString(mdw.KeyUserID)); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "File deleted successfully"}, nil
		},
	})
}
