package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	syncApp "github.com/slatepos/slate/internal/application/sync"
	"github.com/slatepos/slate/internal/shared/logger"
	"github.com/slatepos/slate/internal/shared/utils"
)

// SyncHandler exposes catalog pulls, ticket pushes and the sync status.
type SyncHandler struct {
	syncSvc *syncApp.Service
	logger  logger.Interface
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncSvc *syncApp.Service, log logger.Interface) *SyncHandler {
	return &SyncHandler{
		syncSvc: syncSvc,
		logger:  log,
	}
}

// PullCatalog handles POST /sync/catalog
func (h *SyncHandler) PullCatalog(c *gin.Context) {
	resp, err := h.syncSvc.PullCatalog(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "catalog updated", resp)
}

// Push handles POST /sync/push
func (h *SyncHandler) Push(c *gin.Context) {
	tickets, workdays, err := h.syncSvc.PushAll(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "push complete", gin.H{
		"tickets":  tickets,
		"workdays": workdays,
	})
}

// Status handles GET /sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	resp, err := h.syncSvc.Stats(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// Online handles GET /sync/online
func (h *SyncHandler) Online(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"online": h.syncSvc.IsOnline(c.Request.Context()),
	})
}
