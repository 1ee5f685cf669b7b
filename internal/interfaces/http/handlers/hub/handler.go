// Package hub provides the WebSocket endpoint satellite devices connect to
// when this instance runs as the POS hub.
package hub

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/slatepos/slate/internal/infrastructure/services"
	"github.com/slatepos/slate/internal/shared/config"
	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

const registerWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Hub and devices share a LAN; origin checks add nothing here.
		return true
	},
}

// Handler handles WebSocket connections from satellite devices.
type Handler struct {
	hub    *services.DeviceHub
	logger logger.Interface

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

// NewHandler creates a new Handler with keepalive timing from cfg.
func NewHandler(hub *services.DeviceHub, cfg config.HubConfig, log logger.Interface) *Handler {
	return &Handler{
		hub:        hub,
		logger:     log,
		writeWait:  cfg.WriteWait(),
		pongWait:   cfg.PongWait(),
		pingPeriod: cfg.PingPeriod(),
	}
}

// DeviceWS handles WebSocket connections from devices.
// GET /ws
func (h *Handler) DeviceWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorw("failed to upgrade to websocket",
			"error", err,
			"ip", c.ClientIP(),
		)
		return
	}

	// The first frame must be a valid register message; anything else
	// closes the socket before the connection joins the hub.
	reg, err := h.awaitRegister(conn)
	if err != nil {
		h.logger.Warnw("websocket registration failed",
			"error", err,
			"ip", c.ClientIP(),
		)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(h.writeWait))
		conn.Close()
		return
	}

	deviceConn := h.hub.RegisterDevice(reg.DeviceID, reg.DeviceType, conn)

	h.sendRegisterAck(deviceConn)

	h.logger.Infow("device websocket connected",
		"device_id", reg.DeviceID,
		"device_type", reg.DeviceType,
		"device_name", reg.DeviceName,
		"ip", c.ClientIP(),
	)

	go h.writePump(reg.DeviceID, conn, deviceConn.Send)
	h.readPump(deviceConn)
}

type registration struct {
	DeviceID   string
	DeviceType hubprotocol.DeviceType
	DeviceName string
}

func (h *Handler) awaitRegister(conn *websocket.Conn) (*registration, error) {
	conn.SetReadLimit(65536)
	conn.SetReadDeadline(time.Now().Add(registerWait))

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return nil, errRegisterTimeout(err)
	}

	msg, err := hubprotocol.Decode(raw)
	if err != nil {
		return nil, err
	}
	if msg.MessageType != hubprotocol.MsgTypeRegister {
		return nil, errFirstFrameNotRegister(msg.MessageType)
	}

	payload, err := hubprotocol.DecodePayload(msg)
	if err != nil {
		return nil, err
	}
	reg := payload.(*hubprotocol.RegisterPayload)
	if reg.DeviceID == "" {
		return nil, errMissingField("device_id")
	}
	if !reg.DeviceType.IsValid() {
		return nil, errInvalidDeviceType(string(reg.DeviceType))
	}

	return &registration{
		DeviceID:   reg.DeviceID,
		DeviceType: reg.DeviceType,
		DeviceName: reg.DeviceName,
	}, nil
}

func (h *Handler) sendRegisterAck(dc *services.DeviceConn) {
	ack := hubprotocol.RegisterAckPayload{
		DeviceID:         dc.DeviceID,
		ConnectedDevices: len(h.hub.ConnectedDevices()),
	}
	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeRegisterAck, dc.DeviceID, hubprotocol.DeviceTypePOS, ack)
	if err != nil {
		h.logger.Errorw("failed to build register_ack", "error", err)
		return
	}
	select {
	case dc.Send <- msg:
	default:
	}
}

// readPump reads messages from a device WebSocket. It unregisters its own
// DeviceConn on exit; if the device already re-registered on a fresh socket,
// the hub ignores the stale unregister.
func (h *Handler) readPump(dc *services.DeviceConn) {
	deviceID := dc.DeviceID
	conn := dc.Conn
	defer func() {
		h.hub.UnregisterDevice(dc)
		conn.Close()
	}()

	conn.SetReadLimit(65536)
	conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warnw("device websocket read error",
					"error", err,
					"device_id", deviceID,
				)
			}
			break
		}

		msg, err := hubprotocol.Decode(raw)
		if err != nil {
			h.logger.Warnw("failed to parse device message",
				"error", err,
				"device_id", deviceID,
			)
			continue
		}

		if msg.MessageType == hubprotocol.MsgTypeRegister {
			// Already registered on this socket.
			continue
		}

		if !h.hub.RouteMessage(deviceID, msg) {
			h.logger.Warnw("unhandled device message type",
				"type", msg.MessageType,
				"device_id", deviceID,
			)
		}
	}
}

// writePump writes messages to a device WebSocket.
func (h *Handler) writePump(deviceID string, conn *websocket.Conn, send chan *hubprotocol.Message) {
	ticker := time.NewTicker(h.pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(h.writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warnw("failed to write to device websocket",
					"error", err,
					"device_id", deviceID,
				)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(h.writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
