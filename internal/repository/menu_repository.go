package repository

import (
	"context"
	"errors"

	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) Create(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Omit("Category").Create(menu).Error
}

func (r *MenuRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	var menu models.Menu
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&menu).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &menu, nil
}

// List returns menus with their category, optionally only active menus in
// active categories.
func (r *MenuRepository) List(ctx context.Context, activeOnly bool) ([]*models.Menu, error) {
	var menus []*models.Menu
	q := r.db.WithContext(ctx).Preload("Category").Order("menus.name ASC")
	if activeOnly {
		q = q.Joins("JOIN categories ON categories.id = menus.category_id").
			Where("menus.is_active = ? AND categories.is_active = ?", true, true)
	}
	err := q.Find(&menus).Error
	return menus, err
}

func (r *MenuRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Menu{}).Where("id = ?", id).Updates(fields).Error
}

func (r *MenuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Menu{}).Error
}

func (r *MenuRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Menu{}).Count(&count).Error
	return count, err
}
