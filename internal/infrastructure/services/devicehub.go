// Package services provides infrastructure services.
package services

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

// DeviceHub manages WebSocket connections from satellite devices when this
// device runs as the POS hub. Connections are keyed by device id and
// indexed by device type for role-targeted broadcasts.
type DeviceHub struct {
	devices   map[string]*DeviceConn
	byType    map[hubprotocol.DeviceType]map[string]*DeviceConn
	devicesMu sync.RWMutex

	messageHandlers   []MessageHandler
	messageHandlersMu sync.RWMutex

	onDeviceOnline  func(deviceID string, deviceType hubprotocol.DeviceType)
	onDeviceOffline func(deviceID string, deviceType hubprotocol.DeviceType)

	logger logger.Interface
}

// DeviceConn represents one registered device WebSocket connection.
type DeviceConn struct {
	DeviceID    string
	DeviceType  hubprotocol.DeviceType
	Conn        *websocket.Conn
	Send        chan *hubprotocol.Message
	LastSeen    time.Time
	ConnectedAt time.Time
}

// NewDeviceHub creates a new DeviceHub instance.
func NewDeviceHub(log logger.Interface) *DeviceHub {
	return &DeviceHub{
		devices:         make(map[string]*DeviceConn),
		byType:          make(map[hubprotocol.DeviceType]map[string]*DeviceConn),
		messageHandlers: make([]MessageHandler, 0),
		logger:          log,
	}
}

// RegisterMessageHandler registers a handler for inbound device messages.
// Handlers are consulted in registration order; the first one that reports
// the message handled wins.
func (h *DeviceHub) RegisterMessageHandler(handler MessageHandler) {
	h.messageHandlersMu.Lock()
	defer h.messageHandlersMu.Unlock()
	h.messageHandlers = append(h.messageHandlers, handler)
	h.logger.Infow("message handler registered", "handler", handler.String())
}

// RouteMessage routes an inbound message to registered handlers.
func (h *DeviceHub) RouteMessage(deviceID string, msg *hubprotocol.Message) bool {
	h.devicesMu.Lock()
	if conn, ok := h.devices[deviceID]; ok {
		conn.LastSeen = time.Now()
	}
	h.devicesMu.Unlock()

	h.messageHandlersMu.RLock()
	defer h.messageHandlersMu.RUnlock()

	for _, handler := range h.messageHandlers {
		if handler.HandleMessage(deviceID, msg) {
			return true
		}
	}
	return false
}

// SetOnDeviceOnline sets the callback for device online events.
func (h *DeviceHub) SetOnDeviceOnline(fn func(deviceID string, deviceType hubprotocol.DeviceType)) {
	h.onDeviceOnline = fn
}

// SetOnDeviceOffline sets the callback for device offline events.
func (h *DeviceHub) SetOnDeviceOffline(fn func(deviceID string, deviceType hubprotocol.DeviceType)) {
	h.onDeviceOffline = fn
}

// RegisterDevice registers a device connection. A second registration with
// the same device id closes the previous connection first, so a reconnecting
// device never leaves a stale entry behind.
func (h *DeviceHub) RegisterDevice(deviceID string, deviceType hubprotocol.DeviceType, conn *websocket.Conn) *DeviceConn {
	h.devicesMu.Lock()
	defer h.devicesMu.Unlock()

	if existing, ok := h.devices[deviceID]; ok {
		close(existing.Send)
		existing.Conn.Close()
		h.removeFromTypeIndex(existing)
	}

	deviceConn := &DeviceConn{
		DeviceID:    deviceID,
		DeviceType:  deviceType,
		Conn:        conn,
		Send:        make(chan *hubprotocol.Message, 256),
		LastSeen:    time.Now(),
		ConnectedAt: time.Now(),
	}
	h.devices[deviceID] = deviceConn

	if h.byType[deviceType] == nil {
		h.byType[deviceType] = make(map[string]*DeviceConn)
	}
	h.byType[deviceType][deviceID] = deviceConn

	h.logger.Infow("device connected via websocket",
		"device_id", deviceID,
		"device_type", deviceType,
	)

	if h.onDeviceOnline != nil {
		go h.onDeviceOnline(deviceID, deviceType)
	}

	return deviceConn
}

// UnregisterDevice removes a device connection. The registered entry is only
// removed when it is the same connection: when a device re-registers, the
// read pump of the replaced socket still runs its deferred unregister, and
// that late call must not tear down the replacement.
func (h *DeviceHub) UnregisterDevice(conn *DeviceConn) {
	h.devicesMu.Lock()
	defer h.devicesMu.Unlock()

	current, ok := h.devices[conn.DeviceID]
	if !ok || current != conn {
		return
	}

	close(conn.Send)
	delete(h.devices, conn.DeviceID)
	h.removeFromTypeIndex(conn)

	h.logger.Infow("device disconnected",
		"device_id", conn.DeviceID,
		"device_type", conn.DeviceType,
	)

	if h.onDeviceOffline != nil {
		go h.onDeviceOffline(conn.DeviceID, conn.DeviceType)
	}
}

func (h *DeviceHub) removeFromTypeIndex(conn *DeviceConn) {
	if typed, ok := h.byType[conn.DeviceType]; ok {
		delete(typed, conn.DeviceID)
		if len(typed) == 0 {
			delete(h.byType, conn.DeviceType)
		}
	}
}

// SendToDevice sends a message to one connected device.
func (h *DeviceHub) SendToDevice(deviceID string, msg *hubprotocol.Message) error {
	h.devicesMu.RLock()
	defer h.devicesMu.RUnlock()

	conn, ok := h.devices[deviceID]
	if !ok {
		return ErrDeviceNotConnected
	}

	select {
	case conn.Send <- msg:
		return nil
	default:
		return ErrSendChannelFull
	}
}

// BroadcastToType sends a message to every connected device of the given
// type. Devices whose send buffer is full are skipped rather than blocking
// the broadcast.
func (h *DeviceHub) BroadcastToType(deviceType hubprotocol.DeviceType, msg *hubprotocol.Message) int {
	h.devicesMu.RLock()
	defer h.devicesMu.RUnlock()

	sent := 0
	for _, conn := range h.byType[deviceType] {
		select {
		case conn.Send <- msg:
			sent++
		default:
			h.logger.Warnw("send channel full, dropping broadcast",
				"device_id", conn.DeviceID,
				"device_type", deviceType,
				"message_type", msg.MessageType,
			)
		}
	}
	return sent
}

// BroadcastToKDS sends a message to all connected kitchen displays.
func (h *DeviceHub) BroadcastToKDS(msg *hubprotocol.Message) int {
	return h.BroadcastToType(hubprotocol.DeviceTypeKDS, msg)
}

// BroadcastToQueue sends a message to all connected queue displays.
func (h *DeviceHub) BroadcastToQueue(msg *hubprotocol.Message) int {
	return h.BroadcastToType(hubprotocol.DeviceTypeQueue, msg)
}

// IsDeviceOnline checks if a device is connected.
func (h *DeviceHub) IsDeviceOnline(deviceID string) bool {
	h.devicesMu.RLock()
	defer h.devicesMu.RUnlock()
	_, ok := h.devices[deviceID]
	return ok
}

// ConnectedDevice is a read-only snapshot of one hub connection.
type ConnectedDevice struct {
	DeviceID    string                 `json:"device_id"`
	DeviceType  hubprotocol.DeviceType `json:"device_type"`
	ConnectedAt time.Time              `json:"connected_at"`
	LastSeen    time.Time              `json:"last_seen"`
}

// ConnectedDevices returns a snapshot of all connected devices.
func (h *DeviceHub) ConnectedDevices() []ConnectedDevice {
	h.devicesMu.RLock()
	defer h.devicesMu.RUnlock()

	out := make([]ConnectedDevice, 0, len(h.devices))
	for _, conn := range h.devices {
		out = append(out, ConnectedDevice{
			DeviceID:    conn.DeviceID,
			DeviceType:  conn.DeviceType,
			ConnectedAt: conn.ConnectedAt,
			LastSeen:    conn.LastSeen,
		})
	}
	return out
}

// MessageHandler defines the interface for handling inbound device messages.
type MessageHandler interface {
	// String returns the handler name for logging purposes.
	String() string
	// HandleMessage processes a message from a connected device.
	// Returns true if the message was handled, false otherwise.
	HandleMessage(deviceID string, msg *hubprotocol.Message) bool
}

// Hub errors.
var (
	ErrDeviceNotConnected = &HubError{Code: "DEVICE_NOT_CONNECTED", Message: "device not connected"}
	ErrSendChannelFull    = &HubError{Code: "SEND_CHANNEL_FULL", Message: "send channel full"}
)

// HubError represents a device hub error.
type HubError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *HubError) Error() string {
	return e.Message
}
