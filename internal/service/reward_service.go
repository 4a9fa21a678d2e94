package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/repository"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrRewardNotFound = apperror.NotFound("Reward not found")
	ErrRewardExists   = apperror.Conflict(apperror.CodeUniqueViolation, "Reward title already exists")
)

type CreateRewardInput struct {
	Title       string            `json:"title" validate:"required,min=2,max=100"`
	Description string            `json:"description" validate:"max=500"`
	Type        models.RewardType `json:"type" validate:"required,oneof=REWARD VOUCHER"`
	Conditions  string            `json:"conditions" validate:"max=500"`
	Points      *int              `json:"points" validate:"omitempty,gt=0"`
	Code        *string           `json:"code" validate:"omitempty,min=3,max=50"`
	ExpiryDate  *time.Time        `json:"expiryDate"`
	IsActive    *bool             `json:"isActive"`
}

func (in *CreateRewardInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Conditions = strings.TrimSpace(in.Conditions)
	if in.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*in.Code))
		in.Code = &code
	}
}

func (in *CreateRewardInput) ApplyDefaults() {
	if in.IsActive == nil {
		active := true
		in.IsActive = &active
	}
}

func (in *CreateRewardInput) CheckFields() []string {
	return checkRewardShape(in.Type, in.Points, in.Code)
}

type UpdateRewardInput struct {
	Title       *string            `json:"title" validate:"omitempty,min=2,max=100"`
	Description *string            `json:"description" validate:"omitempty,max=500"`
	Type        *models.RewardType `json:"type" validate:"omitempty,oneof=REWARD VOUCHER"`
	Conditions  *string            `json:"conditions" validate:"omitempty,max=500"`
	Points      *int               `json:"points" validate:"omitempty,gt=0"`
	Code        *string            `json:"code" validate:"omitempty,min=3,max=50"`
	ExpiryDate  *time.Time         `json:"expiryDate"`
	IsActive    *bool              `json:"isActive"`
}

func (in *UpdateRewardInput) Normalize() {
	trimPtr(in.Title)
	trimPtr(in.Description)
	trimPtr(in.Conditions)
	if in.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*in.Code))
		in.Code = &code
	}
}

func (in *UpdateRewardInput) CheckFields() []string {
	if in.Title == nil && in.Description == nil && in.Type == nil && in.Conditions == nil &&
		in.Points == nil && in.Code == nil && in.ExpiryDate == nil && in.IsActive == nil {
		return []string{"at least one field must be provided"}
	}
	if in.Type != nil {
		return checkRewardShape(*in.Type, in.Points, in.Code)
	}
	return nil
}

// checkRewardShape enforces the fields each reward type needs when the
// type is being set.
func checkRewardShape(t models.RewardType, points *int, code *string) []string {
	switch t {
	case models.RewardTypeReward:
		if points == nil {
			return []string{"points is required for type REWARD"}
		}
	case models.RewardTypeVoucher:
		if code == nil || *code == "" {
			return []string{"code is required for type VOUCHER"}
		}
	}
	return nil
}

type RewardService struct {
	repo *repository.RewardRepository
}

func NewRewardService(repo *repository.RewardRepository) *RewardService {
	return &RewardService{repo: repo}
}

func (s *RewardService) Create(ctx context.Context, createdBy uuid.UUID, in CreateRewardInput) (*models.Reward, error) {
	existing, err := s.repo.GetByTitle(ctx, in.Title)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, ErrRewardExists
	}

	reward := &models.Reward{
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Conditions:  in.Conditions,
		IsActive:    *in.IsActive,
		CreatedByID: &createdBy,
	}
	if in.Type == models.RewardTypeReward {
		reward.Points = in.Points
	} else {
		reward.Code = in.Code
		reward.ExpiryDate = in.ExpiryDate
	}

	if err := s.repo.Create(ctx, reward); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRewardExists
		}
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("Reward created",
		zap.String("reward_id", reward.ID.String()),
		zap.String("type", string(reward.Type)),
	)
	return reward, nil
}

func (s *RewardService) List(ctx context.Context) ([]*models.Reward, error) {
	rewards, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rewards, nil
}

func (s *RewardService) Get(ctx context.Context, id uuid.UUID) (*models.Reward, error) {
	reward, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}
	return reward, nil
}

// Update clears the fields that do not belong to the resulting type.
func (s *RewardService) Update(ctx context.Context, id uuid.UUID, in UpdateRewardInput) (*models.Reward, error) {
	reward, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil && !strings.EqualFold(*in.Title, reward.Title) {
		other, err := s.repo.GetByTitle(ctx, *in.Title)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if other != nil && other.ID != id {
			return nil, ErrRewardExists
		}
	}

	fields := map[string]any{}
	setIf(fields, "title", in.Title)
	setIf(fields, "description", in.Description)
	setIf(fields, "conditions", in.Conditions)
	setIf(fields, "is_active", in.IsActive)

	kind := reward.Type
	if in.Type != nil {
		kind = *in.Type
		fields["type"] = kind
	}
	switch kind {
	case models.RewardTypeReward:
		setIf(fields, "points", in.Points)
		fields["code"] = nil
		fields["expiry_date"] = nil
	case models.RewardTypeVoucher:
		setIf(fields, "code", in.Code)
		setIf(fields, "expiry_date", in.ExpiryDate)
		fields["points"] = nil
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRewardExists
		}
		return nil, apperror.Internal(err)
	}
	return s.Get(ctx, id)
}

func (s *RewardService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	logger.Log.Info("Reward deleted", zap.String("reward_id", id.String()))
	return nil
}
