package handler

import (
	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/middleware"
	"github.com/aromakopi/pos-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathID parses the :id route parameter, writing a validation error when it
// is not a UUID.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation([]string{"id must be a valid UUID"}))
		return uuid.Nil, false
	}
	return id, true
}

// caller returns the authenticated identity. Routes using it always sit
// behind Authenticate.
func caller(c *gin.Context) (middleware.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, apperror.Unauthorized(apperror.CodeNotAuthenticated, "Authentication required"))
	}
	return identity, ok
}
