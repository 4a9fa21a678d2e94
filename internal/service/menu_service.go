package service

import (
	"context"
	"strings"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/repository"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrMenuNotFound = apperror.NotFound("Menu not found")

type CreateMenuInput struct {
	Name              string          `json:"name" validate:"required,min=2,max=100"`
	ImageURL          string          `json:"imageUrl" validate:"max=500"`
	CategoryID        uuid.UUID       `json:"categoryId" validate:"required"`
	Stock             int             `json:"stock" validate:"required,gt=0"`
	ProductionCapital decimal.Decimal `json:"productionCapital" validate:"gt=0"`
	SellingPrice      decimal.Decimal `json:"sellingPrice" validate:"gt=0"`
	IsActive          *bool           `json:"isActive"`
}

func (in *CreateMenuInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
}

func (in *CreateMenuInput) ApplyDefaults() {
	if in.IsActive == nil {
		active := true
		in.IsActive = &active
	}
}

type UpdateMenuInput struct {
	Name              *string          `json:"name" validate:"omitempty,min=2,max=100"`
	ImageURL          *string          `json:"imageUrl" validate:"omitempty,max=500"`
	CategoryID        *uuid.UUID       `json:"categoryId"`
	Stock             *int             `json:"stock" validate:"omitempty,gt=0"`
	ProductionCapital *decimal.Decimal `json:"productionCapital" validate:"omitempty,gt=0"`
	SellingPrice      *decimal.Decimal `json:"sellingPrice" validate:"omitempty,gt=0"`
	IsActive          *bool            `json:"isActive"`
}

func (in *UpdateMenuInput) Normalize() {
	trimPtr(in.Name)
	trimPtr(in.ImageURL)
}

func (in *UpdateMenuInput) CheckFields() []string {
	if in.Name == nil && in.ImageURL == nil && in.CategoryID == nil && in.Stock == nil &&
		in.ProductionCapital == nil && in.SellingPrice == nil && in.IsActive == nil {
		return []string{"at least one field must be provided"}
	}
	return nil
}

type MenuService struct {
	menus      *repository.MenuRepository
	categories *repository.CategoryRepository
}

func NewMenuService(menus *repository.MenuRepository, categories *repository.CategoryRepository) *MenuService {
	return &MenuService{menus: menus, categories: categories}
}

func (s *MenuService) Create(ctx context.Context, in CreateMenuInput) (*models.Menu, error) {
	category, err := s.requireCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	menu := &models.Menu{
		Name:              in.Name,
		ImageURL:          in.ImageURL,
		CategoryID:        in.CategoryID,
		Stock:             in.Stock,
		ProductionCapital: in.ProductionCapital,
		SellingPrice:      in.SellingPrice,
		IsActive:          *in.IsActive,
	}
	menu.ApplyProfit()

	if err := s.menus.Create(ctx, menu); err != nil {
		return nil, apperror.Internal(err)
	}
	menu.Category = category

	logger.Log.Info("Menu created",
		zap.String("menu_id", menu.ID.String()),
		zap.String("name", menu.Name),
		zap.String("profit", menu.Profit.StringFixed(2)),
	)
	return menu, nil
}

func (s *MenuService) List(ctx context.Context, activeOnly bool) ([]*models.Menu, error) {
	menus, err := s.menus.List(ctx, activeOnly)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return menus, nil
}

func (s *MenuService) Get(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	menu, err := s.menus.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if menu == nil {
		return nil, ErrMenuNotFound
	}
	return menu, nil
}

// Update recomputes profit whenever either price changes.
func (s *MenuService) Update(ctx context.Context, id uuid.UUID, in UpdateMenuInput) (*models.Menu, error) {
	menu, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		if _, err := s.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	fields := map[string]any{}
	setIf(fields, "name", in.Name)
	setIf(fields, "image_url", in.ImageURL)
	setIf(fields, "category_id", in.CategoryID)
	setIf(fields, "stock", in.Stock)

	if in.ProductionCapital != nil || in.SellingPrice != nil {
		if in.ProductionCapital != nil {
			menu.ProductionCapital = *in.ProductionCapital
		}
		if in.SellingPrice != nil {
			menu.SellingPrice = *in.SellingPrice
		}
		menu.ApplyProfit()
		fields["production_capital"] = menu.ProductionCapital
		fields["selling_price"] = menu.SellingPrice
		fields["profit"] = menu.Profit
	}
	setIf(fields, "is_active", in.IsActive)

	if err := s.menus.Update(ctx, id, fields); err != nil {
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("Menu updated", zap.String("menu_id", id.String()))
	return s.Get(ctx, id)
}

func (s *MenuService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.menus.Delete(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	logger.Log.Info("Menu deleted", zap.String("menu_id", id.String()))
	return nil
}

func (s *MenuService) requireCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if category == nil {
		return nil, apperror.Validation([]string{"categoryId does not reference an existing category"})
	}
	return category, nil
}
