package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/repository"
	"github.com/aromakopi/pos-backend/internal/utils"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrUserNotFound = apperror.NotFound("User not found")

type UpdateCustomerProfileInput struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone          *string `json:"phone" validate:"omitempty,phone_id"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,max=500"`
}

func (in *UpdateCustomerProfileInput) Normalize() {
	trimPtr(in.Name)
	trimPtr(in.Phone)
	trimPtr(in.ProfilePicture)
}

func (in *UpdateCustomerProfileInput) CheckFields() []string {
	if in.Name == nil && in.Phone == nil && in.ProfilePicture == nil {
		return []string{"at least one field must be provided"}
	}
	return nil
}

type UpdateAdminSettingInput struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email           *string `json:"email" validate:"omitempty,email,max=100"`
	Phone           *string `json:"phone" validate:"omitempty,phone_id"`
	ProfilePicture  *string `json:"profilePicture" validate:"omitempty,max=500"`
	CurrentPassword *string `json:"currentPassword" validate:"omitempty,maxbytes=72"`
	NewPassword     *string `json:"newPassword" validate:"omitempty,min=8,maxbytes=72,password"`
	ConfirmPassword *string `json:"confirmPassword" validate:"omitempty,maxbytes=72"`
}

func (in *UpdateAdminSettingInput) Normalize() {
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		in.Email = &e
	}
	trimPtr(in.Name)
	trimPtr(in.Phone)
	trimPtr(in.ProfilePicture)
}

// CheckFields enforces the password change rules: the three password
// fields travel together, the new one differs from the current one and is
// confirmed.
func (in *UpdateAdminSettingInput) CheckFields() []string {
	changing := in.CurrentPassword != nil || in.NewPassword != nil || in.ConfirmPassword != nil
	if !changing && in.Name == nil && in.Email == nil && in.Phone == nil && in.ProfilePicture == nil {
		return []string{"at least one field must be provided"}
	}
	if !changing {
		return nil
	}
	if in.CurrentPassword == nil || in.NewPassword == nil || in.ConfirmPassword == nil {
		return []string{"currentPassword, newPassword and confirmPassword must be provided together"}
	}

	var problems []string
	if *in.NewPassword == *in.CurrentPassword {
		problems = append(problems, "newPassword must differ from currentPassword")
	}
	if *in.ConfirmPassword != *in.NewPassword {
		problems = append(problems, "confirmPassword must match newPassword")
	}
	return problems
}

type CustomerDashboard struct {
	User          *models.User     `json:"user"`
	MemberID      string           `json:"memberId"`
	LoyaltyPoints int              `json:"loyaltyPoints"`
	Rewards       []*models.Reward `json:"rewards"`
}

type KasirDashboard struct {
	User       *models.User `json:"user"`
	ShiftStart string       `json:"shiftStart"`
	ShiftEnd   string       `json:"shiftEnd"`
	TodayOrder int          `json:"todayOrder"`
}

type AdminStats struct {
	Categories int64 `json:"categories"`
	Menus      int64 `json:"menus"`
	Tables     int64 `json:"tables"`
	Kasir      int64 `json:"kasir"`
	Customers  int64 `json:"customers"`
}

type AdminDashboard struct {
	User        *models.User `json:"user"`
	Permissions []string     `json:"permissions"`
	Stats       AdminStats   `json:"stats"`
}

type ProfileService struct {
	users      *repository.UserRepository
	categories *repository.CategoryRepository
	menus      *repository.MenuRepository
	tables     *repository.TableRepository
	rewards    *repository.RewardRepository
}

func NewProfileService(
	users *repository.UserRepository,
	categories *repository.CategoryRepository,
	menus *repository.MenuRepository,
	tables *repository.TableRepository,
	rewards *repository.RewardRepository,
) *ProfileService {
	return &ProfileService{
		users:      users,
		categories: categories,
		menus:      menus,
		tables:     tables,
		rewards:    rewards,
	}
}

func (s *ProfileService) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetActiveUserByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *ProfileService) CustomerDashboard(ctx context.Context, id uuid.UUID) (*CustomerDashboard, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.CustomerProfile == nil {
		return nil, ErrInvalidProfile
	}

	all, err := s.rewards.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	rewards := make([]*models.Reward, 0, len(all))
	for _, r := range all {
		if r.IsActive {
			rewards = append(rewards, r)
		}
	}

	return &CustomerDashboard{
		User:          user,
		MemberID:      user.CustomerProfile.MemberID,
		LoyaltyPoints: user.CustomerProfile.LoyaltyPoints,
		Rewards:       rewards,
	}, nil
}

func (s *ProfileService) KasirDashboard(ctx context.Context, id uuid.UUID) (*KasirDashboard, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.KasirProfile == nil {
		return nil, ErrInvalidProfile
	}
	return &KasirDashboard{
		User:       user,
		ShiftStart: user.KasirProfile.ShiftStart,
		ShiftEnd:   user.KasirProfile.ShiftEnd,
		TodayOrder: user.KasirProfile.TodayOrder,
	}, nil
}

func (s *ProfileService) AdminDashboard(ctx context.Context, id uuid.UUID) (*AdminDashboard, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.AdminProfile == nil {
		return nil, ErrInvalidProfile
	}

	var stats AdminStats
	counts := []struct {
		dst *int64
		fn  func(context.Context) (int64, error)
	}{
		{&stats.Categories, s.categories.Count},
		{&stats.Menus, s.menus.Count},
		{&stats.Tables, s.tables.Count},
		{&stats.Kasir, func(ctx context.Context) (int64, error) { return s.users.CountByRole(ctx, models.RoleKasir) }},
		{&stats.Customers, func(ctx context.Context) (int64, error) { return s.users.CountByRole(ctx, models.RoleCustomer) }},
	}
	for _, c := range counts {
		n, err := c.fn(ctx)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		*c.dst = n
	}

	permissions := user.AdminProfile.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return &AdminDashboard{User: user, Permissions: permissions, Stats: stats}, nil
}

// UpdateCustomerProfile edits the caller's own contact details.
func (s *ProfileService) UpdateCustomerProfile(ctx context.Context, id uuid.UUID, in UpdateCustomerProfileInput) (*models.User, error) {
	if _, err := s.loadUser(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	setIf(fields, "name", in.Name)
	setIf(fields, "phone", in.Phone)
	setIf(fields, "profile_picture", in.ProfilePicture)

	if err := s.users.UpdateUser(ctx, id, fields); err != nil {
		return nil, apperror.Internal(err)
	}
	logger.Log.Info("Customer profile updated", zap.String("user_id", id.String()))
	return s.loadUser(ctx, id)
}

// UpdateAdminSetting edits the admin's own account. A password change
// requires the current password.
func (s *ProfileService) UpdateAdminSetting(ctx context.Context, id uuid.UUID, in UpdateAdminSettingInput) (*models.User, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	setIf(fields, "name", in.Name)
	setIf(fields, "phone", in.Phone)
	setIf(fields, "profile_picture", in.ProfilePicture)

	if in.Email != nil && !strings.EqualFold(*in.Email, user.Email) {
		other, err := s.users.GetUserByEmail(ctx, *in.Email)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if other != nil && other.ID != id {
			return nil, ErrEmailTaken
		}
		fields["email"] = *in.Email
	}

	if in.NewPassword != nil {
		if !utils.VerifyPassword(*in.CurrentPassword, user.PasswordHash) {
			logger.Log.Warn("Admin setting rejected: wrong current password", zap.String("user_id", id.String()))
			return nil, apperror.Validation([]string{"currentPassword is incorrect"})
		}
		hash, err := utils.HashPassword(*in.NewPassword)
		if err != nil {
			if errors.Is(err, utils.ErrPasswordTooLong) {
				return nil, apperror.Validation([]string{"newPassword must be at most 72 bytes"})
			}
			return nil, apperror.Internal(err)
		}
		fields["password_hash"] = hash
	}

	if err := s.users.UpdateUser(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("Admin setting updated",
		zap.String("user_id", id.String()),
		zap.Bool("password_changed", in.NewPassword != nil),
	)
	return s.loadUser(ctx, id)
}
