package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/response"
	"github.com/aromakopi/pos-backend/internal/validation"
	"github.com/gin-gonic/gin"
)

const validatedBodyKey = "validated_body"

// ValidateBody parses the JSON body into a fresh T and validates it. Keys
// that T does not declare are dropped. On success the parsed value replaces
// the raw body for the rest of the chain; read it with Body.
func ValidateBody[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := new(T)

		if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
			response.Error(c, apperror.Validation([]string{decodeMessage(err)}))
			return
		}

		if problems := validation.Struct(req); len(problems) > 0 {
			response.Error(c, apperror.Validation(problems))
			return
		}

		c.Set(validatedBodyKey, req)
		c.Next()
	}
}

// Body returns the value stored by ValidateBody[T]. It panics when the route
// was not wired with ValidateBody for the same T.
func Body[T any](c *gin.Context) *T {
	return c.MustGet(validatedBodyKey).(*T)
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s has the wrong type, expected %s", typeErr.Field, typeErr.Type.String())
	}
	return "request body must be valid JSON"
}
