package repository

import (
	"context"
	"errors"

	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{db: db}
}

func (r *TableRepository) Create(ctx context.Context, table *models.Table) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *TableRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	var table models.Table
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &table, nil
}

func (r *TableRepository) GetByNumber(ctx context.Context, number int) (*models.Table, error) {
	var table models.Table
	err := r.db.WithContext(ctx).Where("number = ?", number).First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &table, nil
}

func (r *TableRepository) List(ctx context.Context) ([]*models.Table, error) {
	var tables []*models.Table
	err := r.db.WithContext(ctx).Order("number ASC").Find(&tables).Error
	return tables, err
}

func (r *TableRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Table{}).Where("id = ?", id).Updates(fields).Error
}

func (r *TableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Table{}).Error
}

func (r *TableRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Table{}).Count(&count).Error
	return count, err
}
