package handler

import (
	"net/http"

	"github.com/aromakopi/pos-backend/internal/metrics"
	"github.com/aromakopi/pos-backend/internal/middleware"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/response"
	"github.com/aromakopi/pos-backend/internal/service"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService  *service.AuthService
	isProduction bool
}

func NewAuthHandler(authService *service.AuthService, isProduction bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		isProduction: isProduction,
	}
}

type registeredUser struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Role          models.Role `json:"role"`
	MemberID      string      `json:"memberId"`
	LoyaltyPoints int         `json:"loyaltyPoints"`
	RedirectURL   string      `json:"redirectUrl"`
}

type loggedInUser struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	RedirectURL string      `json:"redirectUrl"`
}

// loginPath is where a freshly registered customer is sent.
const loginPath = "/auth/login"

// Register creates a customer account. No cookie is set; the client logs in
// afterwards.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	req := middleware.Body[service.RegisterInput](c)

	logger.Log.Info("User registration attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	user, err := h.authService.Register(c.Request.Context(), *req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Registration successful", registeredUser{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		MemberID:      user.CustomerProfile.MemberID,
		LoyaltyPoints: user.CustomerProfile.LoyaltyPoints,
		RedirectURL:   loginPath,
	})
}

// Login verifies credentials and sets the token cookie.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	req := middleware.Body[service.LoginInput](c)

	logger.Log.Info("User login attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	user, token, err := h.authService.Login(c.Request.Context(), *req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// HTTP-only cookie; the token never appears in the body
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		middleware.TokenCookie,
		token,
		int(h.authService.TokenTTL().Seconds()),
		"/",
		"",
		h.isProduction,
		true,
	)
	metrics.LoginsTotal.WithLabelValues(string(user.Role)).Inc()

	response.OK(c, "Login successful", loggedInUser{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		RedirectURL: user.Role.DashboardPath(),
	})
}

// Logout clears the token cookie. It succeeds with or without a session.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.isProduction, true)
	response.OK(c, "Logout successful", nil)
}

// Me echoes the identity attached by the auth middleware.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	response.OK(c, "Authenticated user", identity)
}
