package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	kitchenApp "github.com/slatepos/slate/internal/application/kitchen"
	"github.com/slatepos/slate/internal/shared/logger"
	"github.com/slatepos/slate/internal/shared/utils"
)

// KDSHandler serves the kitchen display board on a KDS-role device.
type KDSHandler struct {
	kitchen *kitchenApp.Service
	logger  logger.Interface
}

// NewKDSHandler creates a new KDSHandler.
func NewKDSHandler(kitchen *kitchenApp.Service, log logger.Interface) *KDSHandler {
	return &KDSHandler{
		kitchen: kitchen,
		logger:  log,
	}
}

// ListTickets handles GET /kds/tickets?location_id=...
func (h *KDSHandler) ListTickets(c *gin.Context) {
	resp, err := h.kitchen.ListActive(c.Request.Context(), c.Query("location_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// StartTicket handles POST /kds/tickets/:id/start
func (h *KDSHandler) StartTicket(c *gin.Context) {
	resp, err := h.kitchen.StartTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "ticket started", resp)
}

// MarkReady handles POST /kds/tickets/:id/ready
func (h *KDSHandler) MarkReady(c *gin.Context) {
	resp, err := h.kitchen.MarkReady(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "ticket ready", resp)
}

// RemoveTicket handles DELETE /kds/tickets/:id
func (h *KDSHandler) RemoveTicket(c *gin.Context) {
	if err := h.kitchen.Remove(c.Request.Context(), c.Param("id")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "ticket removed", nil)
}
