// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"net/http"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Failure struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	ErrorCode string   `json:"errorCode,omitempty"`
	Error     string   `json:"error,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

func OK(c *gin.Context, message string, data any) {
	write(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data any) {
	write(c, http.StatusCreated, message, data)
}

func write(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Error aborts the request with the envelope for err. Unknown errors become
// SERVER_ERROR. Outside release mode the underlying cause is echoed in the
// error field.
func Error(c *gin.Context, err error) {
	appErr := apperror.From(err)

	body := Failure{
		Success:   false,
		Message:   appErr.Message,
		ErrorCode: appErr.Code,
		Errors:    appErr.Details,
	}
	if appErr.Err != nil && gin.Mode() != gin.ReleaseMode {
		body.Error = appErr.Err.Error()
	}

	if appErr.Kind == apperror.KindInternal {
		logger.Log.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("code", appErr.Code),
			zap.Error(appErr),
		)
	}

	c.AbortWithStatusJSON(appErr.Kind.HTTPStatus(), body)
}
