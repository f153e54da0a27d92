package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// formFile reads an optional multipart file into memory. A missing field
// yields nil.
func formFile(c *gin.Context, field string, maxBytes int64) (*domain.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperror.BadRequest("Invalid multipart form")
	}
	if fh.Size > maxBytes {
		return nil, apperror.BadRequest(fmt.Sprintf("File exceeds the %d MB limit", maxBytes>>20))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.BadRequest("Uploaded file could not be read")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, apperror.BadRequest("Uploaded file could not be read")
	}
	if int64(len(data)) > maxBytes {
		return nil, apperror.BadRequest(fmt.Sprintf("File exceeds the %d MB limit", maxBytes>>20))
	}
	return &domain.Upload{Filename: fh.Filename, Data: data}, nil
}

// checkUploadQuota enforces the per-user daily upload cap.
func checkUploadQuota(c *gin.Context, limiter *security.UploadLimiter, userID string) error {
	if limiter == nil {
		return nil
	}
	allowed, err := limiter.AllowUpload(c.Request.Context(), userID)
	if err != nil {
		return apperror.ServiceUnavailable("Uploads are temporarily unavailable. Please try again.")
	}
	if !allowed {
		return apperror.TooManyRequests("Daily upload limit reached. Please try again tomorrow.")
	}
	return nil
}

// optionalForm returns a pointer to the form value, or nil when the key is absent.
func optionalForm(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}
