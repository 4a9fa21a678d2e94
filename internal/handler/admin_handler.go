package handler

import (
	"github.com/aromakopi/pos-backend/internal/middleware"
	"github.com/aromakopi/pos-backend/internal/response"
	"github.com/aromakopi/pos-backend/internal/service"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler manages kasir accounts and the admin's own settings.
type AdminHandler struct {
	kasirService   *service.KasirService
	profileService *service.ProfileService
}

func NewAdminHandler(kasirService *service.KasirService, profileService *service.ProfileService) *AdminHandler {
	return &AdminHandler{
		kasirService:   kasirService,
		profileService: profileService,
	}
}

// CreateKasir adds a cashier account and queues its credentials email.
// POST /api/admin/kasir
func (h *AdminHandler) CreateKasir(c *gin.Context) {
	req := middleware.Body[service.CreateKasirInput](c)
	identity, ok := caller(c)
	if !ok {
		return
	}

	logger.Log.Info("Admin creating kasir",
		zap.String("admin_id", identity.UserID.String()),
		zap.String("email", req.Email),
	)

	user, err := h.kasirService.Create(c.Request.Context(), *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Kasir created successfully", user)
}

// GET /api/admin/kasir
func (h *AdminHandler) ListKasir(c *gin.Context) {
	users, err := h.kasirService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Kasir retrieved successfully", users)
}

// GET /api/admin/kasir/:id
func (h *AdminHandler) GetKasir(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.kasirService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Kasir retrieved successfully", user)
}

// PATCH /api/admin/kasir/:id
func (h *AdminHandler) UpdateKasir(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req := middleware.Body[service.UpdateKasirInput](c)

	user, err := h.kasirService.Update(c.Request.Context(), id, *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Kasir updated successfully", user)
}

// DELETE /api/admin/kasir/:id
func (h *AdminHandler) DeleteKasir(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	identity, ok := caller(c)
	if !ok {
		return
	}

	logger.Log.Info("Admin deleting kasir",
		zap.String("admin_id", identity.UserID.String()),
		zap.String("kasir_id", id.String()),
	)

	if err := h.kasirService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Kasir deleted successfully", nil)
}

// UpdateSetting edits the calling admin's own account.
// PATCH /api/admin/setting
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	req := middleware.Body[service.UpdateAdminSettingInput](c)
	identity, ok := caller(c)
	if !ok {
		return
	}

	user, err := h.profileService.UpdateAdminSetting(c.Request.Context(), identity.UserID, *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Setting updated successfully", user)
}
