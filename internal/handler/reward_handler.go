package handler

import (
	"github.com/aromakopi/pos-backend/internal/middleware"
	"github.com/aromakopi/pos-backend/internal/response"
	"github.com/aromakopi/pos-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type RewardHandler struct {
	rewardService *service.RewardService
}

func NewRewardHandler(rewardService *service.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// POST /api/admin/reward
func (h *RewardHandler) Create(c *gin.Context) {
	req := middleware.Body[service.CreateRewardInput](c)
	identity, ok := caller(c)
	if !ok {
		return
	}

	reward, err := h.rewardService.Create(c.Request.Context(), identity.UserID, *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Reward created successfully", reward)
}

// GET /api/admin/reward
func (h *RewardHandler) List(c *gin.Context) {
	rewards, err := h.rewardService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Rewards retrieved successfully", rewards)
}

// GET /api/admin/reward/:id
func (h *RewardHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	reward, err := h.rewardService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reward retrieved successfully", reward)
}

// PATCH /api/admin/reward/:id
func (h *RewardHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req := middleware.Body[service.UpdateRewardInput](c)

	reward, err := h.rewardService.Update(c.Request.Context(), id, *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reward updated successfully", reward)
}

// DELETE /api/admin/reward/:id
func (h *RewardHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.rewardService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reward deleted successfully", nil)
}
