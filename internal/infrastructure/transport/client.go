// Package transport implements the WebSocket client used by satellite
// devices to stay connected to the POS hub.
package transport

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"

	"github.com/slatepos/slate/internal/shared/config"
	apperrors "github.com/slatepos/slate/internal/shared/errors"
	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

const maxMessageSize = 65536

// ErrRetriesExhausted is returned by Run when the reconnect budget is spent
// without a successful registration.
var ErrRetriesExhausted = apperrors.NewTransportError("reconnect attempts exhausted", nil)

// Handler processes one inbound hub message.
type Handler func(msg *hubprotocol.Message)

// Identity describes this device to the hub during registration.
type Identity struct {
	DeviceID   string
	DeviceType hubprotocol.DeviceType
	DeviceName string
}

// Client maintains a registered WebSocket connection to the hub. Lost
// connections are retried with a fixed delay up to a capped number of
// attempts; a successful registration resets the budget.
type Client struct {
	cfg      config.TransportConfig
	identity Identity
	log      logger.Interface

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration

	mu    sync.Mutex
	state State
	conn  *websocket.Conn
	send  chan *hubprotocol.Message

	handlersMu sync.RWMutex
	handlers   map[string][]Handler

	attempts  int
	stopRetry bool

	onStateChange func(old, new State)

	// wait is replaceable in tests so reconnect delays do not slow suites.
	wait func(ctx context.Context, d time.Duration) error
}

// NewClient creates a hub client for the given device identity. hubCfg
// carries the keepalive timing shared with the hub server.
func NewClient(cfg config.TransportConfig, hubCfg config.HubConfig, identity Identity, log logger.Interface) *Client {
	return &Client{
		cfg:        cfg,
		identity:   identity,
		state:      StateDisconnected,
		handlers:   make(map[string][]Handler),
		log:        log.Named("transport"),
		wait:       defaultWait,
		writeWait:  hubCfg.WriteWait(),
		pongWait:   hubCfg.PongWait(),
		pingPeriod: hubCfg.PingPeriod(),
	}
}

func defaultWait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// OnMessage registers a handler for a message type. The wildcard "*"
// matches every type. Handlers run in registration order on the read
// goroutine.
func (c *Client) OnMessage(msgType string, handler Handler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[msgType] = append(c.handlers[msgType], handler)
}

// SetOnStateChange sets the callback invoked on every state transition.
func (c *Client) SetOnStateChange(fn func(old, new State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStateChange = fn
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected reports whether the client holds a registered hub connection.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

func (c *Client) setState(next State) {
	c.mu.Lock()
	prev := c.state
	c.state = next
	fn := c.onStateChange
	c.mu.Unlock()

	if prev != next {
		c.log.Infow("connection state changed", "from", prev, "to", next)
		if fn != nil {
			fn(prev, next)
		}
	}
}

// Send queues a message for delivery to the hub. When the client is not
// connected the message is dropped with a warning; offline operation must
// never block on the transport.
func (c *Client) Send(msg *hubprotocol.Message) {
	c.mu.Lock()
	state := c.state
	send := c.send
	c.mu.Unlock()

	if state != StateConnected || send == nil {
		c.log.Warnw("not connected, dropping outbound message",
			"message_type", msg.MessageType,
			"state", state,
		)
		return
	}

	select {
	case send <- msg:
	default:
		c.log.Warnw("send buffer full, dropping outbound message",
			"message_type", msg.MessageType,
		)
	}
}

// Run connects to the hub and blocks until the context is canceled,
// Disconnect is called, or the reconnect budget is exhausted.
func (c *Client) Run(ctx context.Context) error {
	c.mu.Lock()
	c.stopRetry = false
	c.attempts = 0
	c.mu.Unlock()

	delay := time.Duration(c.cfg.ReconnectDelayMs) * time.Millisecond
	if delay <= 0 {
		delay = 3 * time.Second
	}
	bo := backoff.NewConstantBackOff(delay)

	for {
		if ctx.Err() != nil {
			c.setState(StateDisconnected)
			return ctx.Err()
		}

		err := c.runOnce(ctx)
		c.setState(StateDisconnected)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.mu.Lock()
		stopped := c.stopRetry
		c.attempts++
		attempts := c.attempts
		c.mu.Unlock()

		if stopped {
			return nil
		}
		if attempts >= c.cfg.MaxReconnectAttempts {
			c.log.Errorw("reconnect attempts exhausted",
				"attempts", attempts,
				"error", err,
			)
			return ErrRetriesExhausted
		}

		next := bo.NextBackOff()
		c.log.Infow("reconnecting to hub",
			"attempt", attempts,
			"max_attempts", c.cfg.MaxReconnectAttempts,
			"delay", next,
			"error", err,
		)
		if waitErr := c.wait(ctx, next); waitErr != nil {
			c.setState(StateDisconnected)
			return waitErr
		}
	}
}

// Disconnect closes the active connection and disables reconnection.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.stopRetry = true
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.writeWait))
		conn.Close()
	}
}

// runOnce executes a single connect, register, pump lifecycle.
func (c *Client) runOnce(ctx context.Context) error {
	c.setState(StateConnecting)

	wsURL, err := c.buildWSURL()
	if err != nil {
		return apperrors.NewTransportError("invalid hub url", err)
	}

	handshake := time.Duration(c.cfg.HandshakeTimeoutSecs) * time.Second
	if handshake <= 0 {
		handshake = 10 * time.Second
	}
	dialer := websocket.Dialer{HandshakeTimeout: handshake}

	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return apperrors.NewTransportError(
				fmt.Sprintf("websocket dial failed with status %d", resp.StatusCode), err)
		}
		return apperrors.NewTransportError("websocket dial failed", err)
	}

	c.setState(StateRegistering)

	if err := c.register(conn); err != nil {
		conn.Close()
		return err
	}

	send := make(chan *hubprotocol.Message, 256)
	c.mu.Lock()
	c.conn = conn
	c.send = send
	c.attempts = 0
	c.mu.Unlock()

	c.setState(StateConnected)

	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.send = nil
		c.mu.Unlock()
		conn.Close()
	}()

	errChan := make(chan error, 2)
	done := make(chan struct{})

	go func() {
		errChan <- c.writePump(ctx, conn, send, done)
	}()
	go func() {
		errChan <- c.readPump(conn)
	}()

	err = <-errChan
	close(done)
	return err
}

// register sends the registration message on the fresh connection. The hub
// answers with register_ack, which is dispatched like any other message.
func (c *Client) register(conn *websocket.Conn) error {
	payload := hubprotocol.RegisterPayload{
		DeviceID:   c.identity.DeviceID,
		DeviceType: c.identity.DeviceType,
		DeviceName: c.identity.DeviceName,
	}
	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeRegister, c.identity.DeviceID, c.identity.DeviceType, payload)
	if err != nil {
		return apperrors.NewTransportError("failed to build register message", err)
	}

	conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		return apperrors.NewTransportError("failed to send register message", err)
	}
	return nil
}

func (c *Client) readPump(conn *websocket.Conn) error {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(c.pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return apperrors.NewTransportError("read failed", err)
		}

		msg, err := hubprotocol.Decode(raw)
		if err != nil {
			c.log.Warnw("discarding malformed hub message", "error", err)
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg *hubprotocol.Message) {
	c.handlersMu.RLock()
	handlers := make([]Handler, 0, len(c.handlers[msg.MessageType])+len(c.handlers["*"]))
	handlers = append(handlers, c.handlers[msg.MessageType]...)
	handlers = append(handlers, c.handlers["*"]...)
	c.handlersMu.RUnlock()

	for _, h := range handlers {
		h(msg)
	}
}

func (c *Client) writePump(ctx context.Context, conn *websocket.Conn, send chan *hubprotocol.Message, done chan struct{}) error {
	ticker := time.NewTicker(c.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ctx.Err()

		case <-done:
			return nil

		case msg := <-send:
			conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return apperrors.NewTransportError("write failed", err)
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return apperrors.NewTransportError("ping failed", err)
			}
		}
	}
}

func (c *Client) buildWSURL() (string, error) {
	u, err := url.Parse(c.cfg.HubURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	if !strings.HasSuffix(u.Path, "/ws") {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	}
	return u.String(), nil
}
