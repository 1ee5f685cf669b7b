package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

func newTestHub() *DeviceHub {
	return NewDeviceHub(logger.NewLogger())
}

// dialTestConn returns a live server-side websocket connection.
func dialTestConn(t *testing.T) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	conn := <-serverConns
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRegisterDevice(t *testing.T) {
	t.Run("registers and indexes by type", func(t *testing.T) {
		hub := newTestHub()

		hub.RegisterDevice("dev-kds", hubprotocol.DeviceTypeKDS, nil)

		assert.True(t, hub.IsDeviceOnline("dev-kds"))

		devices := hub.ConnectedDevices()
		require.Len(t, devices, 1)
		assert.Equal(t, hubprotocol.DeviceTypeKDS, devices[0].DeviceType)
	})

	t.Run("re-registration closes the previous connection", func(t *testing.T) {
		hub := newTestHub()

		old := hub.RegisterDevice("dev-kds", hubprotocol.DeviceTypeKDS, dialTestConn(t))
		replacement := hub.RegisterDevice("dev-kds", hubprotocol.DeviceTypeQueue, dialTestConn(t))

		// The old send channel is closed so its write pump exits.
		_, stillOpen := <-old.Send
		assert.False(t, stillOpen)

		assert.True(t, hub.IsDeviceOnline("dev-kds"))
		require.Len(t, hub.ConnectedDevices(), 1)

		// The type index follows the replacement's type.
		msg := &hubprotocol.Message{MessageType: hubprotocol.MsgTypeNewOrder}
		assert.Zero(t, hub.BroadcastToKDS(msg))
		assert.Equal(t, 1, hub.BroadcastToQueue(msg))
		assert.Equal(t, msg, <-replacement.Send)
	})
}

func TestUnregisterDevice(t *testing.T) {
	t.Run("removes the connection", func(t *testing.T) {
		hub := newTestHub()

		conn := hub.RegisterDevice("dev-kds", hubprotocol.DeviceTypeKDS, nil)
		hub.UnregisterDevice(conn)

		assert.False(t, hub.IsDeviceOnline("dev-kds"))
		assert.Empty(t, hub.ConnectedDevices())

		_, stillOpen := <-conn.Send
		assert.False(t, stillOpen)

		// Unregistering twice is harmless.
		hub.UnregisterDevice(conn)
	})

	t.Run("stale unregister does not evict a replacement", func(t *testing.T) {
		hub := newTestHub()

		old := hub.RegisterDevice("dev-kds", hubprotocol.DeviceTypeKDS, dialTestConn(t))
		replacement := hub.RegisterDevice("dev-kds", hubprotocol.DeviceTypeKDS, dialTestConn(t))

		// The read pump of the replaced socket fires its deferred
		// unregister after the device already reconnected.
		hub.UnregisterDevice(old)

		assert.True(t, hub.IsDeviceOnline("dev-kds"))
		require.Len(t, hub.ConnectedDevices(), 1)

		// The replacement's send channel is still live.
		msg := &hubprotocol.Message{MessageType: hubprotocol.MsgTypeNewOrder}
		require.NoError(t, hub.SendToDevice("dev-kds", msg))
		assert.Equal(t, msg, <-replacement.Send)

		// Unregistering the current connection still works.
		hub.UnregisterDevice(replacement)
		assert.False(t, hub.IsDeviceOnline("dev-kds"))
	})
}

func TestSendToDevice(t *testing.T) {
	hub := newTestHub()
	msg := &hubprotocol.Message{MessageType: hubprotocol.MsgTypeOrderReady}

	t.Run("disconnected device errors", func(t *testing.T) {
		assert.ErrorIs(t, hub.SendToDevice("dev-kds", msg), ErrDeviceNotConnected)
	})

	t.Run("queues onto the send channel", func(t *testing.T) {
		conn := hub.RegisterDevice("dev-kds", hubprotocol.DeviceTypeKDS, nil)

		require.NoError(t, hub.SendToDevice("dev-kds", msg))
		assert.Equal(t, msg, <-conn.Send)
	})

	t.Run("full send channel errors instead of blocking", func(t *testing.T) {
		conn := hub.RegisterDevice("dev-slow", hubprotocol.DeviceTypeKDS, nil)
		for i := 0; i < cap(conn.Send); i++ {
			require.NoError(t, hub.SendToDevice("dev-slow", msg))
		}

		assert.ErrorIs(t, hub.SendToDevice("dev-slow", msg), ErrSendChannelFull)
	})
}

func TestBroadcastToType(t *testing.T) {
	hub := newTestHub()
	msg := &hubprotocol.Message{MessageType: hubprotocol.MsgTypeNewOrder}

	kds1 := hub.RegisterDevice("kds-1", hubprotocol.DeviceTypeKDS, nil)
	kds2 := hub.RegisterDevice("kds-2", hubprotocol.DeviceTypeKDS, nil)
	queue1 := hub.RegisterDevice("queue-1", hubprotocol.DeviceTypeQueue, nil)

	t.Run("reaches only the targeted type", func(t *testing.T) {
		sent := hub.BroadcastToKDS(msg)
		assert.Equal(t, 2, sent)

		assert.Equal(t, msg, <-kds1.Send)
		assert.Equal(t, msg, <-kds2.Send)
		assert.Empty(t, queue1.Send)
	})

	t.Run("no devices of the type sends nothing", func(t *testing.T) {
		assert.Zero(t, hub.BroadcastToType(hubprotocol.DeviceTypeKiosk, msg))
	})

	t.Run("full buffers are skipped", func(t *testing.T) {
		for i := 0; i < cap(kds1.Send); i++ {
			kds1.Send <- msg
		}

		sent := hub.BroadcastToKDS(msg)
		assert.Equal(t, 1, sent)
		assert.Equal(t, msg, <-kds2.Send)
	})
}

type recordingHandler struct {
	name    string
	handled bool
	seen    []*hubprotocol.Message
}

func (h *recordingHandler) String() string { return h.name }

func (h *recordingHandler) HandleMessage(deviceID string, msg *hubprotocol.Message) bool {
	h.seen = append(h.seen, msg)
	return h.handled
}

func TestRouteMessage(t *testing.T) {
	msg := &hubprotocol.Message{MessageType: hubprotocol.MsgTypeOrderReady}

	t.Run("first handler that claims the message wins", func(t *testing.T) {
		hub := newTestHub()
		first := &recordingHandler{name: "first", handled: true}
		second := &recordingHandler{name: "second", handled: true}
		hub.RegisterMessageHandler(first)
		hub.RegisterMessageHandler(second)

		assert.True(t, hub.RouteMessage("dev-kds", msg))
		assert.Len(t, first.seen, 1)
		assert.Empty(t, second.seen)
	})

	t.Run("unclaimed messages fall through", func(t *testing.T) {
		hub := newTestHub()
		handler := &recordingHandler{name: "pass", handled: false}
		hub.RegisterMessageHandler(handler)

		assert.False(t, hub.RouteMessage("dev-kds", msg))
		assert.Len(t, handler.seen, 1)
	})

	t.Run("routing refreshes last seen", func(t *testing.T) {
		hub := newTestHub()
		hub.RegisterDevice("dev-kds", hubprotocol.DeviceTypeKDS, nil)
		before := hub.ConnectedDevices()[0].LastSeen

		hub.RouteMessage("dev-kds", msg)

		after := hub.ConnectedDevices()[0].LastSeen
		assert.False(t, after.Before(before))
	})
}
