package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetboard/internal/core/apperr"
	"sheetboard/internal/service"
	"sheetboard/internal/transport/http/ez"
)

const (
	fileField       = "file"
	msgFileTooLarge = "File too large"
)

// formFiles reads every part sent under field. A request that is not multipart
// yields no parts rather than an error.
func formFiles(c *gin.Context, field string) ([]service.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if ez.IsTooLarge(err) {
			return nil, apperr.BadRequest(msgFileTooLarge)
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, nil
		}
		return nil, apperr.BadRequest(err.Error())
	}
	headers := form.File[field]
	out := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		u, err := readPart(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// formFile reads the single part under field, nil when absent.
func formFile(c *gin.Context, field string) (*service.Upload, error) {
	parts, err := formFiles(c, field)
	if err != nil || len(parts) == 0 {
		return nil, err
	}
	return &parts[0], nil
}

func readPart(fh *multipart.FileHeader) (service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, fmt.Errorf("open part %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return service.Upload{}, fmt.Errorf("read part %s: %w", fh.Filename, err)
	}
	return service.Upload{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}
