package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/repository"
	"github.com/aromakopi/pos-backend/internal/utils"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InitialLoyaltyPoints is credited to every new customer.
const InitialLoyaltyPoints = 10

var (
	ErrEmailTaken         = apperror.Conflict(apperror.CodeEmailTaken, "Email is already registered")
	ErrInvalidCredentials = apperror.Unauthorized(apperror.CodeInvalidCredentials, "Invalid email or password")
	ErrInvalidProfile     = apperror.Forbidden(apperror.CodeInvalidProfile, "User profile is invalid for this role")
	ErrPasswordTooLong    = apperror.Validation([]string{"password must be at most 72 bytes"})
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72,password"`
}

func (in *RegisterInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72,password"`
}

func (in *LoginInput) Normalize() {
	in.Email = normalizeEmail(in.Email)
}

type AuthService struct {
	userRepo      *repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	if jwtExpiration <= 0 {
		jwtExpiration = utils.TokenTTL
	}
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// TokenTTL is the lifetime of issued tokens and of the token cookie.
func (s *AuthService) TokenTTL() time.Duration {
	return s.jwtExpiration
}

// Register creates an active CUSTOMER with its profile. No token is issued.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	start := time.Now()

	logger.Log.Debug("Processing customer registration",
		zap.String("email", in.Email),
	)

	// 1. Check if email already exists
	existing, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		logger.Log.Warn("Email already exists", zap.String("email", in.Email))
		return nil, ErrEmailTaken
	}

	// 2. Hash password
	hashStart := time.Now()
	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, apperror.Internal(err)
	}
	hashDuration := time.Since(hashStart)

	// 3. Create user and profile together
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashedPassword,
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	if err := s.userRepo.CreateCustomer(ctx, user, InitialLoyaltyPoints); err != nil {
		// A concurrent registration may win the race past the lookup above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Log.Warn("Email taken during insert", zap.String("email", in.Email))
			return nil, ErrEmailTaken
		}
		logger.Log.Error("Failed to create customer",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("Customer registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("member_id", user.CustomerProfile.MemberID),
		zap.Duration("hash_duration", hashDuration),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, nil
}

// Login checks credentials and the role/profile invariant, then issues a
// token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	start := time.Now()

	logger.Log.Debug("Processing user login", zap.String("email", in.Email))

	// 1. Get active user by email
	user, err := s.userRepo.GetActiveUserByEmail(ctx, in.Email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return nil, "", apperror.Internal(err)
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found or inactive", zap.String("email", in.Email))
		return nil, "", ErrInvalidCredentials
	}

	// 2. Verify password
	if !utils.VerifyPassword(in.Password, user.PasswordHash) {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("user_id", user.ID.String()),
		)
		return nil, "", ErrInvalidCredentials
	}

	// 3. Profile must match role
	if _, ok := user.ActiveProfile(); !ok {
		logger.Log.Warn("Login failed: profile does not match role",
			zap.String("user_id", user.ID.String()),
			zap.String("role", string(user.Role)),
		)
		return nil, "", ErrInvalidProfile
	}

	// 4. Issue token
	if s.jwtSecret == "" {
		logger.Log.Error("JWT_SECRET is not configured")
		return nil, "", apperror.JWTConfig()
	}
	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", apperror.Internal(err)
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
