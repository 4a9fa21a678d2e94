package handler

import (
	"github.com/aromakopi/pos-backend/internal/middleware"
	"github.com/aromakopi/pos-backend/internal/response"
	"github.com/aromakopi/pos-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	tableService *service.TableService
}

func NewTableHandler(tableService *service.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

// POST /api/admin/table
func (h *TableHandler) Create(c *gin.Context) {
	req := middleware.Body[service.CreateTableInput](c)

	table, err := h.tableService.Create(c.Request.Context(), *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Table created successfully", table)
}

// GET /api/admin/table, GET /api/kasir/table
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.tableService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tables retrieved successfully", tables)
}

// GET /api/admin/table/:id
func (h *TableHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	table, err := h.tableService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Table retrieved successfully", table)
}

// PATCH /api/admin/table/:id
func (h *TableHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req := middleware.Body[service.UpdateTableInput](c)

	table, err := h.tableService.Update(c.Request.Context(), id, *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Table updated successfully", table)
}

// DELETE /api/admin/table/:id
func (h *TableHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.tableService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Table deleted successfully", nil)
}
