// Package http wires the local HTTP API and the hub WebSocket endpoint.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slatepos/slate/internal/interfaces/http/handlers"
	"github.com/slatepos/slate/internal/interfaces/http/handlers/hub"
	"github.com/slatepos/slate/internal/interfaces/http/middleware"
	"github.com/slatepos/slate/internal/shared/logger"
)

// Deps carries the handlers to mount. Role-specific handlers stay nil on
// devices that do not serve them and their routes are simply not mounted.
type Deps struct {
	Device  *handlers.DeviceHandler
	Order   *handlers.OrderHandler
	Sync    *handlers.SyncHandler
	Workday *handlers.WorkdayHandler
	KDS     *handlers.KDSHandler
	Queue   *handlers.QueueHandler
	HubWS   *hub.Handler
	Logger  logger.Interface
}

// NewRouter builds the gin engine for the current device role.
func NewRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recovery())

	r.GET("/up", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.HEAD("/up", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if deps.HubWS != nil {
		r.GET("/ws", deps.HubWS.DeviceWS)
	}

	api := r.Group("/api/v1")

	if deps.Device != nil {
		api.GET("/device", deps.Device.GetDevice)
		api.POST("/device", deps.Device.RegisterDevice)
		api.PATCH("/device/role", deps.Device.SetRole)
		api.PATCH("/device/name", deps.Device.Rename)
		api.GET("/device/connections", deps.Device.Connections)
		api.DELETE("/device/data", deps.Device.ClearData)
	}

	if deps.Sync != nil {
		api.POST("/sync/catalog", deps.Sync.PullCatalog)
		api.POST("/sync/push", deps.Sync.Push)
		api.GET("/sync/status", deps.Sync.Status)
		api.GET("/sync/online", deps.Sync.Online)
	}

	if deps.Order != nil {
		api.POST("/orders", deps.Order.CreateOrder)
		api.GET("/orders", deps.Order.ListOrders)
		api.GET("/orders/:id", deps.Order.GetOrder)
	}

	if deps.Workday != nil {
		api.GET("/workdays/active", deps.Workday.GetActive)
		api.POST("/workdays/open", deps.Workday.OpenShift)
		api.POST("/workdays/close", deps.Workday.CloseShift)
	}

	if deps.KDS != nil {
		api.GET("/kds/tickets", deps.KDS.ListTickets)
		api.POST("/kds/tickets/:id/start", deps.KDS.StartTicket)
		api.POST("/kds/tickets/:id/ready", deps.KDS.MarkReady)
		api.DELETE("/kds/tickets/:id", deps.KDS.RemoveTicket)
	}

	if deps.Queue != nil {
		api.GET("/queue/board", deps.Queue.Board)
		api.POST("/queue/tokens/:id/serve", deps.Queue.ServeToken)
	}

	return r
}
