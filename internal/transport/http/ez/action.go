package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sheetboard/internal/core/apperr"
	resp "sheetboard/internal/transport/http/response"
)

type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindQuery Binder = "query" // ?a=b
	BindNone  Binder = "none"  // handler reads c.Param / c.FormFile itself
)

// Action is one typed route: I is bound from the request, O is written as JSON.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Status  int // success status, 200 when zero
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](g gin.IRoutes, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			if IsTooLarge(bindErr) {
				resp.Abort(c, http.StatusRequestEntityTooLarge, "")
				return
			}
			resp.Abort(c, http.StatusBadRequest, "")
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		g.GET(a.Path, h)
	case http.MethodPut:
		g.PUT(a.Path, h)
	case http.MethodPatch:
		g.PATCH(a.Path, h)
	case http.MethodDelete:
		g.DELETE(a.Path, h)
	default:
		g.POST(a.Path, h)
	}
}

// Fail maps err onto the response. Unclassified errors are attached to the
// context for the access log and reported as a bare 500.
func Fail(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Err != nil {
			_ = c.Error(ae.Err)
		}
		resp.Abort(c, ae.Code, ae.Msg)
		return
	}
	_ = c.Error(err)
	resp.Abort(c, http.StatusInternalServerError, "")
}

// IsTooLarge reports whether err came from a body that crossed the MaxBodyBytes ceiling.
func IsTooLarge(err error) bool {
	if err == nil {
		return false
	}
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}
