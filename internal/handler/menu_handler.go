package handler

import (
	"github.com/aromakopi/pos-backend/internal/middleware"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/response"
	"github.com/aromakopi/pos-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuService *service.MenuService
}

func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// POST /api/admin/menu
func (h *MenuHandler) Create(c *gin.Context) {
	req := middleware.Body[service.CreateMenuInput](c)

	menu, err := h.menuService.Create(c.Request.Context(), *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Menu created successfully", menu)
}

// List returns every menu to admins. Kasir and public callers only see
// active menus in active categories.
// GET /api/menus, GET /api/kasir/menu, GET /api/admin/menu
func (h *MenuHandler) List(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	activeOnly := identity.Role != models.RoleAdmin

	menus, err := h.menuService.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menus retrieved successfully", menus)
}

// GET /api/admin/menu/:id
func (h *MenuHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	menu, err := h.menuService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu retrieved successfully", menu)
}

// PATCH /api/admin/menu/:id
func (h *MenuHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req := middleware.Body[service.UpdateMenuInput](c)

	menu, err := h.menuService.Update(c.Request.Context(), id, *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu updated successfully", menu)
}

// DELETE /api/admin/menu/:id
func (h *MenuHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.menuService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu deleted successfully", nil)
}
