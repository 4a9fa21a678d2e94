package handler

import (
	"github.com/aromakopi/pos-backend/internal/middleware"
	"github.com/aromakopi/pos-backend/internal/response"
	"github.com/aromakopi/pos-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the per-role landing data and the customer's own
// profile edits.
type DashboardHandler struct {
	profileService *service.ProfileService
	kasirService   *service.KasirService
}

func NewDashboardHandler(profileService *service.ProfileService, kasirService *service.KasirService) *DashboardHandler {
	return &DashboardHandler{
		profileService: profileService,
		kasirService:   kasirService,
	}
}

// GET /api/dashboard/customer
func (h *DashboardHandler) Customer(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	data, err := h.profileService.CustomerDashboard(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer dashboard", data)
}

// GET /api/dashboard/kasir
func (h *DashboardHandler) Kasir(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	data, err := h.profileService.KasirDashboard(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Kasir dashboard", data)
}

// GET /api/dashboard/admin
func (h *DashboardHandler) Admin(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	data, err := h.profileService.AdminDashboard(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Admin dashboard", data)
}

// PATCH /api/customer/profile
func (h *DashboardHandler) UpdateCustomerProfile(c *gin.Context) {
	req := middleware.Body[service.UpdateCustomerProfileInput](c)
	identity, ok := caller(c)
	if !ok {
		return
	}

	user, err := h.profileService.UpdateCustomerProfile(c.Request.Context(), identity.UserID, *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Profile updated successfully", user)
}

// FindMember lets a kasir look up a loyalty member at the counter.
// GET /api/kasir/member?memberId=
func (h *DashboardHandler) FindMember(c *gin.Context) {
	member, err := h.kasirService.FindMember(c.Request.Context(), c.Query("memberId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Member found", member)
}
