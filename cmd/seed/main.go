package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/aromakopi/pos-backend/internal/config"
	"github.com/aromakopi/pos-backend/internal/database"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/repository"
	"github.com/aromakopi/pos-backend/internal/utils"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"go.uber.org/zap"
)

var defaultCategories = []models.Category{
	{Name: "Coffee", Description: "Espresso based and manual brew", Icon: "coffee"},
	{Name: "Non Coffee", Description: "Tea, chocolate and milk drinks", Icon: "cup"},
	{Name: "Food", Description: "Main dishes and rice bowls", Icon: "utensils"},
	{Name: "Snack", Description: "Pastries and light bites", Icon: "cookie"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(logger.Options{
		Development: true,
		Level:       cfg.LogLevel,
		Component:   "seed",
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to connect database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Migration failed", zap.Error(err))
	}

	ctx := context.Background()

	// Get admin credentials from env
	adminName := os.Getenv("ADMIN_NAME")
	adminEmail := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminName == "" || adminEmail == "" || adminPassword == "" {
		logger.Log.Fatal("Missing environment variables: ADMIN_NAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	users := repository.NewUserRepository(db)

	existing, err := users.GetUserByEmail(ctx, adminEmail)
	if err != nil {
		logger.Log.Fatal("Failed to look up admin", zap.Error(err))
	}
	if existing != nil {
		logger.Log.Info("Admin user already exists", zap.String("email", existing.Email))
	} else {
		passwordHash, err := utils.HashPassword(adminPassword)
		if err != nil {
			logger.Log.Fatal("Failed to hash password", zap.Error(err))
		}

		admin := &models.User{
			Name:         adminName,
			Email:        adminEmail,
			PasswordHash: passwordHash,
			Role:         models.RoleAdmin,
			IsActive:     true,
		}
		profile := &models.AdminProfile{Permissions: []string{"all"}}
		if err := users.CreateAdmin(ctx, admin, profile); err != nil {
			logger.Log.Fatal("Failed to create admin", zap.Error(err))
		}
		logger.Log.Info("Admin user created successfully",
			zap.String("user_id", admin.ID.String()),
			zap.String("email", admin.Email),
		)
	}

	categories := repository.NewCategoryRepository(db)
	for _, c := range defaultCategories {
		found, err := categories.GetByName(ctx, c.Name)
		if err != nil {
			logger.Log.Fatal("Failed to look up category", zap.String("name", c.Name), zap.Error(err))
		}
		if found != nil {
			continue
		}

		category := c
		category.IsActive = true
		if err := categories.Create(ctx, &category); err != nil {
			logger.Log.Fatal("Failed to create category", zap.String("name", c.Name), zap.Error(err))
		}
		logger.Log.Info("Category seeded", zap.String("name", category.Name))
	}
}
