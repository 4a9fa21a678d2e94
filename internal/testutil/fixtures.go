package testutil

import (
	"context"
	"testing"

	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/repository"
	"github.com/aromakopi/pos-backend/internal/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword satisfies the password rules and is used by every fixture.
const DefaultPassword = "Secret123"

func newUser(t *testing.T, name, email string, role models.Role) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(DefaultPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
}

// CreateCustomer inserts an active customer with a generated member id.
func CreateCustomer(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := newUser(t, name, email, models.RoleCustomer)
	if err := repository.NewUserRepository(db).CreateCustomer(context.Background(), user, 10); err != nil {
		t.Fatalf("Failed to create customer: %v", err)
	}
	return user
}

// CreateKasir inserts an active kasir with a morning shift.
func CreateKasir(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := newUser(t, name, email, models.RoleKasir)
	profile := &models.KasirProfile{ShiftStart: "08:00", ShiftEnd: "16:00"}
	if err := repository.NewUserRepository(db).CreateKasir(context.Background(), user, profile); err != nil {
		t.Fatalf("Failed to create kasir: %v", err)
	}
	return user
}

func CreateAdmin(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := newUser(t, name, email, models.RoleAdmin)
	profile := &models.AdminProfile{Permissions: []string{"all"}}
	if err := repository.NewUserRepository(db).CreateAdmin(context.Background(), user, profile); err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}
	return user
}

// CreateUserWithoutProfile inserts a user whose role has no matching
// profile record.
func CreateUserWithoutProfile(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := newUser(t, "Broken", email, role)
	if err := db.Omit(clause.Associations).Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, IsActive: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return category
}

func CreateMenu(t *testing.T, db *gorm.DB, name string, category *models.Category) *models.Menu {
	t.Helper()
	menu := &models.Menu{
		Name:              name,
		CategoryID:        category.ID,
		Stock:             10,
		ProductionCapital: decimal.NewFromInt(8000),
		SellingPrice:      decimal.NewFromInt(18000),
		IsActive:          true,
	}
	menu.ApplyProfit()
	if err := db.Omit("Category").Create(menu).Error; err != nil {
		t.Fatalf("Failed to create menu: %v", err)
	}
	return menu
}
