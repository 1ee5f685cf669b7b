// Package handlers provides HTTP handlers for the local API surface.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	deviceApp "github.com/slatepos/slate/internal/application/device"
	"github.com/slatepos/slate/internal/application/device/dto"
	syncApp "github.com/slatepos/slate/internal/application/sync"
	"github.com/slatepos/slate/internal/infrastructure/services"
	"github.com/slatepos/slate/internal/shared/logger"
	"github.com/slatepos/slate/internal/shared/utils"
)

// DeviceHandler serves the device profile and role management endpoints.
type DeviceHandler struct {
	devices *deviceApp.Service
	syncSvc *syncApp.Service
	hub     *services.DeviceHub
	logger  logger.Interface
}

// NewDeviceHandler creates a new DeviceHandler. hub may be nil when the
// device is not running as POS.
func NewDeviceHandler(devices *deviceApp.Service, syncSvc *syncApp.Service, hub *services.DeviceHub, log logger.Interface) *DeviceHandler {
	return &DeviceHandler{
		devices: devices,
		syncSvc: syncSvc,
		hub:     hub,
		logger:  log,
	}
}

// GetDevice handles GET /device
func (h *DeviceHandler) GetDevice(c *gin.Context) {
	resp, err := h.devices.GetDevice(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// RegisterDevice handles POST /device
func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	var req dto.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	resp, err := h.devices.RegisterDevice(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, resp, "device registered")
}

// SetRole handles PATCH /device/role
func (h *DeviceHandler) SetRole(c *gin.Context) {
	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	resp, err := h.devices.SetRole(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "role updated", resp)
}

// Rename handles PATCH /device/name
func (h *DeviceHandler) Rename(c *gin.Context) {
	var req dto.RenameDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	resp, err := h.devices.Rename(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "device renamed", resp)
}

// Connections handles GET /device/connections
func (h *DeviceHandler) Connections(c *gin.Context) {
	if h.hub == nil {
		utils.SuccessResponse(c, http.StatusOK, "", []services.ConnectedDevice{})
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", h.hub.ConnectedDevices())
}

// ClearData handles DELETE /device/data. The wipe is refused while any
// local ticket has not reached the backend, unless force=true confirms the
// caller accepts losing them.
func (h *DeviceHandler) ClearData(c *gin.Context) {
	if c.Query("force") != "true" {
		ok, err := h.syncSvc.CanLogout(c.Request.Context())
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		if !ok {
			utils.ErrorResponse(c, http.StatusConflict, "unsynced tickets remain, sync before clearing data")
			return
		}
	}

	if err := h.devices.ClearDeviceData(c.Request.Context()); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "device data cleared", nil)
}
