package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	queueApp "github.com/slatepos/slate/internal/application/queue"
	"github.com/slatepos/slate/internal/shared/logger"
	"github.com/slatepos/slate/internal/shared/utils"
)

// QueueHandler serves the queue display board on a QUEUE-role device.
type QueueHandler struct {
	queue  *queueApp.Service
	logger logger.Interface
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(queue *queueApp.Service, log logger.Interface) *QueueHandler {
	return &QueueHandler{
		queue:  queue,
		logger: log,
	}
}

// Board handles GET /queue/board?location_id=...
func (h *QueueHandler) Board(c *gin.Context) {
	waiting, called, err := h.queue.Board(c.Request.Context(), c.Query("location_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"waiting": waiting,
		"called":  called,
	})
}

// ServeToken handles POST /queue/tokens/:id/serve
func (h *QueueHandler) ServeToken(c *gin.Context) {
	resp, err := h.queue.ServeToken(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "token served", resp)
}
