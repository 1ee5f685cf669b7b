package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	workdayApp "github.com/slatepos/slate/internal/application/workday"
	"github.com/slatepos/slate/internal/shared/logger"
	"github.com/slatepos/slate/internal/shared/utils"
)

// WorkdayHandler serves shift open and close.
type WorkdayHandler struct {
	workdays *workdayApp.Service
	logger   logger.Interface
}

// NewWorkdayHandler creates a new WorkdayHandler.
func NewWorkdayHandler(workdays *workdayApp.Service, log logger.Interface) *WorkdayHandler {
	return &WorkdayHandler{
		workdays: workdays,
		logger:   log,
	}
}

type shiftRequest struct {
	LocationID string `json:"location_id" binding:"required"`
	UserID     string `json:"user_id" binding:"required"`
	// Force closes the shift even while other records are unsynced.
	Force bool `json:"force"`
}

// GetActive handles GET /workdays/active?location_id=...
func (h *WorkdayHandler) GetActive(c *gin.Context) {
	locationID := c.Query("location_id")
	if locationID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "location_id is required")
		return
	}

	resp, err := h.workdays.GetActive(c.Request.Context(), locationID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// OpenShift handles POST /workdays/open
func (h *WorkdayHandler) OpenShift(c *gin.Context) {
	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	resp, err := h.workdays.OpenShift(c.Request.Context(), req.LocationID, req.UserID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, resp, "shift opened")
}

// CloseShift handles POST /workdays/close
func (h *WorkdayHandler) CloseShift(c *gin.Context) {
	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	resp, err := h.workdays.CloseShift(c.Request.Context(), req.LocationID, req.UserID, req.Force)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "shift closed", resp)
}
