package handler

import (
	"github.com/aromakopi/pos-backend/internal/middleware"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/response"
	"github.com/aromakopi/pos-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// POST /api/admin/category
func (h *CategoryHandler) Create(c *gin.Context) {
	req := middleware.Body[service.CreateCategoryInput](c)
	identity, ok := caller(c)
	if !ok {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), identity.UserID, *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Category created successfully", category)
}

// List returns every category to admins and only active ones elsewhere.
// GET /api/admin/category, GET /api/kasir/category
func (h *CategoryHandler) List(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	activeOnly := identity.Role != models.RoleAdmin

	categories, err := h.categoryService.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Categories retrieved successfully", categories)
}

// GET /api/admin/category/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	category, err := h.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category retrieved successfully", category)
}

// PATCH /api/admin/category/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req := middleware.Body[service.UpdateCategoryInput](c)

	category, err := h.categoryService.Update(c.Request.Context(), id, *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category updated successfully", category)
}

// DELETE /api/admin/category/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category deleted successfully", nil)
}
