package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/repository"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = apperror.NotFound("Category not found")
	ErrCategoryExists   = apperror.Conflict(apperror.CodeUniqueViolation, "Category name already exists")
	ErrCategoryInUse    = apperror.Business("Category is still used by one or more menus")
)

type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=255"`
	Icon        string `json:"icon" validate:"max=100"`
	IsActive    *bool  `json:"isActive"`
}

func (in *CreateCategoryInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Icon = strings.TrimSpace(in.Icon)
}

func (in *CreateCategoryInput) ApplyDefaults() {
	if in.IsActive == nil {
		active := true
		in.IsActive = &active
	}
}

type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
	IsActive    *bool   `json:"isActive"`
}

func (in *UpdateCategoryInput) Normalize() {
	trimPtr(in.Name)
	trimPtr(in.Description)
	trimPtr(in.Icon)
}

func (in *UpdateCategoryInput) CheckFields() []string {
	if in.Name == nil && in.Description == nil && in.Icon == nil && in.IsActive == nil {
		return []string{"at least one field must be provided"}
	}
	return nil
}

type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) Create(ctx context.Context, createdBy uuid.UUID, in CreateCategoryInput) (*models.Category, error) {
	existing, err := s.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	category := &models.Category{
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		IsActive:    *in.IsActive,
		CreatedByID: &createdBy,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
	)
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]*models.Category, error) {
	categories, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in UpdateCategoryInput) (*models.Category, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if in.Name != nil {
		other, err := s.repo.GetByName(ctx, *in.Name)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if other != nil && other.ID != id {
			return nil, ErrCategoryExists
		}
	}

	fields := map[string]any{}
	setIf(fields, "name", in.Name)
	setIf(fields, "description", in.Description)
	setIf(fields, "icon", in.Icon)
	setIf(fields, "is_active", in.IsActive)

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, apperror.Internal(err)
	}
	return s.Get(ctx, id)
}

// Delete refuses while any menu still points at the category.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountMenus(ctx, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if count > 0 {
		logger.Log.Warn("Category delete refused, menus attached",
			zap.String("category_id", id.String()),
			zap.Int64("menus", count),
		)
		return ErrCategoryInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	logger.Log.Info("Category deleted", zap.String("category_id", id.String()))
	return nil
}
