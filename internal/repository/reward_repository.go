package repository

import (
	"context"
	"errors"

	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{db: db}
}

func (r *RewardRepository) Create(ctx context.Context, reward *models.Reward) error {
	return r.db.WithContext(ctx).Create(reward).Error
}

func (r *RewardRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reward, error) {
	var reward models.Reward
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reward).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

func (r *RewardRepository) GetByTitle(ctx context.Context, title string) (*models.Reward, error) {
	var reward models.Reward
	err := r.db.WithContext(ctx).Where("LOWER(title) = LOWER(?)", title).First(&reward).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

func (r *RewardRepository) List(ctx context.Context) ([]*models.Reward, error) {
	var rewards []*models.Reward
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rewards).Error
	return rewards, err
}

func (r *RewardRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Reward{}).Where("id = ?", id).Updates(fields).Error
}

func (r *RewardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Reward{}).Error
}
