// Package router wires repositories, services and handlers into the gin
// engine.
package router

import (
	"strings"
	"time"

	"github.com/aromakopi/pos-backend/internal/broker"
	"github.com/aromakopi/pos-backend/internal/config"
	"github.com/aromakopi/pos-backend/internal/handler"
	"github.com/aromakopi/pos-backend/internal/middleware"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/repository"
	"github.com/aromakopi/pos-backend/internal/service"
	"github.com/aromakopi/pos-backend/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators the routes need. Redis, Jobs and
// Storage may be nil; the matching features are then switched off.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Jobs    broker.JobBroker
	Storage storage.Storage
}

func New(d Deps) *gin.Engine {
	cfg := d.Config

	// Initialize repositories
	userRepo := repository.NewUserRepository(d.DB)
	categoryRepo := repository.NewCategoryRepository(d.DB)
	menuRepo := repository.NewMenuRepository(d.DB)
	tableRepo := repository.NewTableRepository(d.DB)
	rewardRepo := repository.NewRewardRepository(d.DB)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	kasirService := service.NewKasirService(userRepo, d.Jobs, cfg.LoginURL)
	categoryService := service.NewCategoryService(categoryRepo)
	menuService := service.NewMenuService(menuRepo, categoryRepo)
	tableService := service.NewTableService(tableRepo)
	rewardService := service.NewRewardService(rewardRepo)
	profileService := service.NewProfileService(userRepo, categoryRepo, menuRepo, tableRepo, rewardRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction())
	adminHandler := handler.NewAdminHandler(kasirService, profileService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	menuHandler := handler.NewMenuHandler(menuService)
	tableHandler := handler.NewTableHandler(tableService)
	rewardHandler := handler.NewRewardHandler(rewardService)
	dashboardHandler := handler.NewDashboardHandler(profileService, kasirService)
	healthHandler := handler.NewHealthHandler(d.DB, d.Redis)

	auth := middleware.NewAuthenticator(userRepo, cfg.JWTSecret)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.SecurityHeaders(middleware.SecurityConfig{
		IsProduction: cfg.IsProduction(),
		ImageBaseURL: cfg.StoragePublicBaseURL,
	}))

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Locally stored images are served straight from disk
	if local, ok := d.Storage.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.StoragePublicBaseURL, "/") {
		r.Static(cfg.StoragePublicBaseURL, local.BaseDir())
	}

	api := r.Group("/api")
	api.GET("/menus", menuHandler.List)

	// Public auth routes, rate limited per IP when Redis is available
	authGroup := api.Group("/auth")
	if d.Redis != nil {
		limiter := middleware.NewRateLimiter(d.Redis, middleware.RateLimiterConfig{
			Prefix:      "ratelimit:auth",
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
			BlockTime:   cfg.RateLimitBlockTime,
		})
		authGroup.Use(limiter.Middleware())
	}
	{
		authGroup.POST("/register", middleware.ValidateBody[service.RegisterInput](), authHandler.Register)
		authGroup.POST("/login", middleware.ValidateBody[service.LoginInput](), authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", auth.Authenticate(models.Roles...), authHandler.Me)
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/customer", auth.Authenticate(models.RoleCustomer), dashboardHandler.Customer)
		dashboard.GET("/kasir", auth.Authenticate(models.RoleKasir), dashboardHandler.Kasir)
		dashboard.GET("/admin", auth.Authenticate(models.RoleAdmin), dashboardHandler.Admin)
	}

	customer := api.Group("/customer", auth.Authenticate(models.RoleCustomer))
	{
		customer.PATCH("/profile", middleware.ValidateBody[service.UpdateCustomerProfileInput](), dashboardHandler.UpdateCustomerProfile)
	}

	kasir := api.Group("/kasir", auth.Authenticate(models.RoleKasir))
	{
		kasir.GET("/menu", menuHandler.List)
		kasir.GET("/category", categoryHandler.List)
		kasir.GET("/table", tableHandler.List)
		kasir.GET("/member", dashboardHandler.FindMember)
	}

	admin := api.Group("/admin", auth.Authenticate(models.RoleAdmin))
	{
		admin.POST("/category", middleware.ValidateBody[service.CreateCategoryInput](), categoryHandler.Create)
		admin.GET("/category", categoryHandler.List)
		admin.GET("/category/:id", categoryHandler.Get)
		admin.PATCH("/category/:id", middleware.ValidateBody[service.UpdateCategoryInput](), categoryHandler.Update)
		admin.DELETE("/category/:id", categoryHandler.Delete)

		admin.POST("/menu", middleware.ValidateBody[service.CreateMenuInput](), menuHandler.Create)
		admin.GET("/menu", menuHandler.List)
		admin.GET("/menu/:id", menuHandler.Get)
		admin.PATCH("/menu/:id", middleware.ValidateBody[service.UpdateMenuInput](), menuHandler.Update)
		admin.DELETE("/menu/:id", menuHandler.Delete)

		admin.POST("/table", middleware.ValidateBody[service.CreateTableInput](), tableHandler.Create)
		admin.GET("/table", tableHandler.List)
		admin.GET("/table/:id", tableHandler.Get)
		admin.PATCH("/table/:id", middleware.ValidateBody[service.UpdateTableInput](), tableHandler.Update)
		admin.DELETE("/table/:id", tableHandler.Delete)

		admin.POST("/reward", middleware.ValidateBody[service.CreateRewardInput](), rewardHandler.Create)
		admin.GET("/reward", rewardHandler.List)
		admin.GET("/reward/:id", rewardHandler.Get)
		admin.PATCH("/reward/:id", middleware.ValidateBody[service.UpdateRewardInput](), rewardHandler.Update)
		admin.DELETE("/reward/:id", rewardHandler.Delete)

		admin.POST("/kasir", middleware.ValidateBody[service.CreateKasirInput](), adminHandler.CreateKasir)
		admin.GET("/kasir", adminHandler.ListKasir)
		admin.GET("/kasir/:id", adminHandler.GetKasir)
		admin.PATCH("/kasir/:id", middleware.ValidateBody[service.UpdateKasirInput](), adminHandler.UpdateKasir)
		admin.DELETE("/kasir/:id", adminHandler.DeleteKasir)

		admin.PATCH("/setting", middleware.ValidateBody[service.UpdateAdminSettingInput](), adminHandler.UpdateSetting)
	}

	if d.Storage != nil {
		uploadHandler := handler.NewUploadHandler(d.Storage, cfg.StoragePublicBaseURL, cfg.UploadMaxBytes)
		api.POST("/upload", auth.Authenticate(models.Roles...), uploadHandler.Upload)
	}

	return r
}
