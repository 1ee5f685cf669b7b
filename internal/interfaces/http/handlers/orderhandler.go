package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	posApp "github.com/slatepos/slate/internal/application/pos"
	"github.com/slatepos/slate/internal/application/pos/dto"
	"github.com/slatepos/slate/internal/shared/logger"
	"github.com/slatepos/slate/internal/shared/utils"
)

// OrderHandler serves order intake and lookup on the POS device.
type OrderHandler struct {
	orders *posApp.Service
	logger logger.Interface
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *posApp.Service, log logger.Interface) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: log,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	resp, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, resp, "order created")
}

// ListOrders handles GET /orders?location_id=...
func (h *OrderHandler) ListOrders(c *gin.Context) {
	locationID := c.Query("location_id")
	if locationID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "location_id is required")
		return
	}

	resp, err := h.orders.ListTickets(c.Request.Context(), locationID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	resp, err := h.orders.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}
