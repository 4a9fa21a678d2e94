package middleware

import (
	"context"
	"strings"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/metrics"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/response"
	"github.com/aromakopi/pos-backend/internal/utils"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenCookie is the cookie carrying the identity token.
const TokenCookie = "token"

const identityKey = "identity"

// Identity is what handlers learn about the caller. It never carries the
// password hash or profile data.
type Identity struct {
	UserID uuid.UUID   `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// UserLookup reloads the caller on every request.
type UserLookup interface {
	GetActiveUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Authenticator struct {
	users     UserLookup
	jwtSecret string
}

func NewAuthenticator(users UserLookup, jwtSecret string) *Authenticator {
	return &Authenticator{users: users, jwtSecret: jwtSecret}
}

// Authenticate admits requests carrying a valid token for an active user
// whose role is in roles and whose profile matches that role.
func (a *Authenticator) Authenticate(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		// 1. Token from cookie, then Authorization header
		tokenString := extractToken(c)
		if tokenString == "" {
			reject(c, apperror.Unauthorized(apperror.CodeNoToken, "Authentication required"))
			return
		}

		// 2. Secret must be configured
		if a.jwtSecret == "" {
			reject(c, apperror.JWTConfig())
			return
		}

		// 3. Verify token
		claims, err := utils.ValidateToken(tokenString, a.jwtSecret)
		if err != nil {
			logger.Log.Debug("Token rejected", zap.String("ip", c.ClientIP()), zap.Error(err))
			reject(c, apperror.Unauthorized(apperror.CodeInvalidToken, "Invalid or expired token"))
			return
		}

		// 4. Reload the user, active only
		user, err := a.users.GetActiveUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Log.Error("Failed to load user for authentication",
				zap.String("user_id", claims.UserID.String()),
				zap.Error(err),
			)
			reject(c, &apperror.Error{
				Kind:    apperror.KindUnauthorized,
				Code:    apperror.CodeNotAuthenticated,
				Message: "Authentication failed",
				Err:     err,
			})
			return
		}
		if user == nil {
			reject(c, apperror.Unauthorized(apperror.CodeInvalidUser, "User not found or inactive"))
			return
		}

		// 5. Role allow-list
		if !allowed[user.Role] {
			logger.Log.Warn("Role not allowed",
				zap.String("user_id", user.ID.String()),
				zap.String("role", string(user.Role)),
				zap.String("path", c.FullPath()),
			)
			reject(c, apperror.Forbidden(apperror.CodeForbidden, "You do not have access to this resource"))
			return
		}

		// 6. Profile must match the role
		if _, ok := user.ActiveProfile(); !ok {
			logger.Log.Warn("User profile does not match role",
				zap.String("user_id", user.ID.String()),
				zap.String("role", string(user.Role)),
			)
			reject(c, apperror.Forbidden(apperror.CodeInvalidProfile, "User profile is invalid for this role"))
			return
		}

		// 7. Attach identity
		c.Set(identityKey, Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
		c.Next()
	}
}

// CurrentIdentity returns the identity attached by Authenticate.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(TokenCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func reject(c *gin.Context, err *apperror.Error) {
	metrics.AuthFailuresTotal.WithLabelValues(err.Code).Inc()
	response.Error(c, err)
}
