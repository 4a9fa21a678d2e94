package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/broker"
	"github.com/aromakopi/pos-backend/internal/mailer"
	"github.com/aromakopi/pos-backend/internal/metrics"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/repository"
	"github.com/aromakopi/pos-backend/internal/utils"
	"github.com/aromakopi/pos-backend/internal/worker"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrKasirNotFound = apperror.NotFound("Kasir not found")

type CreateKasirInput struct {
	Name           string  `json:"name" validate:"required,min=2,max=100"`
	Email          string  `json:"email" validate:"required,email,max=100"`
	Phone          string  `json:"phone" validate:"required,phone_id"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,max=500"`
	ShiftStart     string  `json:"shiftStart" validate:"required,max=20"`
	ShiftEnd       string  `json:"shiftEnd" validate:"required,max=20"`
	IsActive       *bool   `json:"isActive"`
}

func (in *CreateKasirInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ShiftStart = strings.TrimSpace(in.ShiftStart)
	in.ShiftEnd = strings.TrimSpace(in.ShiftEnd)
}

func (in *CreateKasirInput) ApplyDefaults() {
	if in.IsActive == nil {
		active := true
		in.IsActive = &active
	}
}

type UpdateKasirInput struct {
	Name           *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email          *string `json:"email" validate:"omitempty,email,max=100"`
	Phone          *string `json:"phone" validate:"omitempty,phone_id"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,max=500"`
	ShiftStart     *string `json:"shiftStart" validate:"omitempty,max=20"`
	ShiftEnd       *string `json:"shiftEnd" validate:"omitempty,max=20"`
	IsActive       *bool   `json:"isActive"`
}

func (in *UpdateKasirInput) Normalize() {
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		in.Email = &e
	}
	trimPtr(in.Name)
	trimPtr(in.Phone)
	trimPtr(in.ShiftStart)
	trimPtr(in.ShiftEnd)
}

func (in *UpdateKasirInput) CheckFields() []string {
	if in.Name == nil && in.Email == nil && in.Phone == nil && in.ProfilePicture == nil &&
		in.ShiftStart == nil && in.ShiftEnd == nil && in.IsActive == nil {
		return []string{"at least one field must be provided"}
	}
	return nil
}

// MemberView is what a kasir sees when looking up a loyalty member.
type MemberView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	MemberID      string    `json:"memberId"`
	LoyaltyPoints int       `json:"loyaltyPoints"`
}

type KasirService struct {
	userRepo *repository.UserRepository
	jobs     broker.JobBroker
	loginURL string
}

// NewKasirService wires the kasir account flows. jobs may be nil, in which
// case welcome emails are skipped.
func NewKasirService(userRepo *repository.UserRepository, jobs broker.JobBroker, loginURL string) *KasirService {
	return &KasirService{userRepo: userRepo, jobs: jobs, loginURL: loginURL}
}

// Create adds a KASIR account with a generated password and queues the
// welcome email. Queue failures are logged and never fail the request.
func (s *KasirService) Create(ctx context.Context, in CreateKasirInput) (*models.User, error) {
	existing, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		logger.Log.Warn("Kasir email already exists", zap.String("email", in.Email))
		return nil, ErrEmailTaken
	}

	password, err := utils.GenerateTemporaryPassword()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	phone := in.Phone
	user := &models.User{
		Name:           in.Name,
		Email:          in.Email,
		PasswordHash:   hash,
		Role:           models.RoleKasir,
		Phone:          &phone,
		ProfilePicture: in.ProfilePicture,
		IsActive:       *in.IsActive,
	}
	profile := &models.KasirProfile{ShiftStart: in.ShiftStart, ShiftEnd: in.ShiftEnd}

	if err := s.userRepo.CreateKasir(ctx, user, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		logger.Log.Error("Failed to create kasir", zap.String("email", in.Email), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	s.enqueueWelcome(ctx, user, password)

	logger.Log.Info("Kasir created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)
	return user, nil
}

func (s *KasirService) enqueueWelcome(ctx context.Context, user *models.User, password string) {
	if s.jobs == nil {
		logger.Log.Warn("No job broker configured, welcome email skipped", zap.String("user_id", user.ID.String()))
		metrics.JobsEnqueuedTotal.WithLabelValues(worker.JobKasirWelcome, "skipped").Inc()
		return
	}

	payload := mailer.KasirWelcome{
		Name:      user.Name,
		Email:     user.Email,
		Password:  password,
		LoginURL:  s.loginURL,
		ShiftFrom: user.KasirProfile.ShiftStart,
		ShiftTo:   user.KasirProfile.ShiftEnd,
	}
	if err := s.jobs.Enqueue(ctx, broker.QueueEmail, worker.JobKasirWelcome, payload); err != nil {
		logger.Log.Warn("Failed to queue kasir welcome email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		metrics.JobsEnqueuedTotal.WithLabelValues(worker.JobKasirWelcome, "failed").Inc()
		return
	}
	metrics.JobsEnqueuedTotal.WithLabelValues(worker.JobKasirWelcome, "ok").Inc()
}

func (s *KasirService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.GetUsersByRole(ctx, models.RoleKasir)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

func (s *KasirService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil || user.Role != models.RoleKasir {
		return nil, ErrKasirNotFound
	}
	return user, nil
}

func (s *KasirService) Update(ctx context.Context, id uuid.UUID, in UpdateKasirInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		other, err := s.userRepo.GetUserByEmail(ctx, *in.Email)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if other != nil && other.ID != id {
			return nil, ErrEmailTaken
		}
	}

	userFields := map[string]any{}
	setIf(userFields, "name", in.Name)
	setIf(userFields, "email", in.Email)
	setIf(userFields, "phone", in.Phone)
	setIf(userFields, "profile_picture", in.ProfilePicture)
	setIf(userFields, "is_active", in.IsActive)

	profileFields := map[string]any{}
	setIf(profileFields, "shift_start", in.ShiftStart)
	setIf(profileFields, "shift_end", in.ShiftEnd)

	if err := s.userRepo.UpdateKasir(ctx, id, userFields, profileFields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("Kasir updated", zap.String("user_id", id.String()))
	return s.Get(ctx, id)
}

func (s *KasirService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.DeleteKasir(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	logger.Log.Info("Kasir deleted", zap.String("user_id", id.String()))
	return nil
}

// FindMember looks up an active customer by member id for the cashier.
func (s *KasirService) FindMember(ctx context.Context, memberID string) (*MemberView, error) {
	memberID = strings.ToUpper(strings.TrimSpace(memberID))
	if memberID == "" {
		return nil, apperror.Validation([]string{"memberId is required"})
	}

	user, err := s.userRepo.GetCustomerByMemberID(ctx, memberID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil || !user.IsActive || user.CustomerProfile == nil {
		return nil, apperror.NotFound("Member not found")
	}

	return &MemberView{
		ID:            user.ID,
		Name:          user.Name,
		MemberID:      user.CustomerProfile.MemberID,
		LoyaltyPoints: user.CustomerProfile.LoyaltyPoints,
	}, nil
}
