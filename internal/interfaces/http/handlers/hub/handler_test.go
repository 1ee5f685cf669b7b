package hub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slatepos/slate/internal/infrastructure/services"
	"github.com/slatepos/slate/internal/shared/config"
	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

type hubFixture struct {
	hub *services.DeviceHub
	srv *httptest.Server
}

func setupHubServer(t *testing.T) *hubFixture {
	t.Helper()

	gin.SetMode(gin.TestMode)
	deviceHub := services.NewDeviceHub(logger.NewLogger())
	handler := NewHandler(deviceHub, config.HubConfig{}, logger.NewLogger())

	router := gin.New()
	router.GET("/ws", handler.DeviceWS)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &hubFixture{hub: deviceHub, srv: srv}
}

func (f *hubFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func registerFrame(t *testing.T, deviceID string, deviceType hubprotocol.DeviceType) *hubprotocol.Message {
	t.Helper()
	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeRegister, deviceID, deviceType,
		hubprotocol.RegisterPayload{DeviceID: deviceID, DeviceType: deviceType, DeviceName: "Test Device"})
	require.NoError(t, err)
	return msg
}

func readMessage(t *testing.T, conn *websocket.Conn) *hubprotocol.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := hubprotocol.Decode(raw)
	require.NoError(t, err)
	return msg
}

func TestDeviceWSRegistration(t *testing.T) {
	t.Run("valid register joins the hub and gets an ack", func(t *testing.T) {
		f := setupHubServer(t)
		conn := f.dial(t)

		require.NoError(t, conn.WriteJSON(registerFrame(t, "dev-kds", hubprotocol.DeviceTypeKDS)))

		ack := readMessage(t, conn)
		assert.Equal(t, hubprotocol.MsgTypeRegisterAck, ack.MessageType)

		payload, err := hubprotocol.DecodePayload(ack)
		require.NoError(t, err)
		ackPayload, ok := payload.(*hubprotocol.RegisterAckPayload)
		require.True(t, ok)
		assert.Equal(t, "dev-kds", ackPayload.DeviceID)
		assert.Equal(t, 1, ackPayload.ConnectedDevices)

		require.Eventually(t, func() bool {
			return f.hub.IsDeviceOnline("dev-kds")
		}, 5*time.Second, 10*time.Millisecond)
	})

	t.Run("first frame other than register closes the socket", func(t *testing.T) {
		f := setupHubServer(t)
		conn := f.dial(t)

		msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeOrderReady, "dev-kds", hubprotocol.DeviceTypeKDS,
			hubprotocol.OrderReadyPayload{TicketID: "tk-1"})
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(msg))

		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, _, err = conn.ReadMessage()
		require.Error(t, err)
		assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
		assert.False(t, f.hub.IsDeviceOnline("dev-kds"))
	})

	t.Run("register without device_id is rejected", func(t *testing.T) {
		f := setupHubServer(t)
		conn := f.dial(t)

		msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeRegister, "", hubprotocol.DeviceTypeKDS,
			hubprotocol.RegisterPayload{DeviceType: hubprotocol.DeviceTypeKDS})
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(msg))

		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, _, err = conn.ReadMessage()
		require.Error(t, err)
		assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
	})

	t.Run("register with unknown device type is rejected", func(t *testing.T) {
		f := setupHubServer(t)
		conn := f.dial(t)

		msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeRegister, "dev-x", "TABLET",
			hubprotocol.RegisterPayload{DeviceID: "dev-x", DeviceType: "TABLET"})
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(msg))

		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, _, err = conn.ReadMessage()
		require.Error(t, err)
		assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
	})

	t.Run("malformed first frame is rejected", func(t *testing.T) {
		f := setupHubServer(t)
		conn := f.dial(t)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"message_type":`)))

		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, _, err := conn.ReadMessage()
		require.Error(t, err)
		assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
	})
}

func TestDeviceWSMessageRouting(t *testing.T) {
	f := setupHubServer(t)

	routed := make(chan *hubprotocol.Message, 1)
	f.hub.RegisterMessageHandler(handlerFunc{fn: func(deviceID string, msg *hubprotocol.Message) bool {
		routed <- msg
		return true
	}})

	conn := f.dial(t)
	require.NoError(t, conn.WriteJSON(registerFrame(t, "dev-kds", hubprotocol.DeviceTypeKDS)))
	readMessage(t, conn) // ack

	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeOrderReady, "dev-kds", hubprotocol.DeviceTypeKDS,
		hubprotocol.OrderReadyPayload{TicketID: "tk-1", TokenNumber: 1})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))

	select {
	case got := <-routed:
		assert.Equal(t, hubprotocol.MsgTypeOrderReady, got.MessageType)
	case <-time.After(5 * time.Second):
		t.Fatal("message never routed")
	}
}

func TestDeviceWSDisconnectUnregisters(t *testing.T) {
	f := setupHubServer(t)

	conn := f.dial(t)
	require.NoError(t, conn.WriteJSON(registerFrame(t, "dev-kds", hubprotocol.DeviceTypeKDS)))
	readMessage(t, conn) // ack

	require.Eventually(t, func() bool {
		return f.hub.IsDeviceOnline("dev-kds")
	}, 5*time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return !f.hub.IsDeviceOnline("dev-kds")
	}, 5*time.Second, 10*time.Millisecond)
}

func TestDeviceWSReRegistration(t *testing.T) {
	f := setupHubServer(t)

	first := f.dial(t)
	require.NoError(t, first.WriteJSON(registerFrame(t, "dev-kds", hubprotocol.DeviceTypeKDS)))
	readMessage(t, first) // ack

	// Same device id on a fresh socket replaces the first connection.
	second := f.dial(t)
	require.NoError(t, second.WriteJSON(registerFrame(t, "dev-kds", hubprotocol.DeviceTypeKDS)))
	readMessage(t, second) // ack

	// The replaced socket is closed by the hub; wait for its read pump to
	// run the deferred unregister before checking the replacement survived.
	first.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := first.ReadMessage()
	require.Error(t, err)
	time.Sleep(100 * time.Millisecond)

	assert.True(t, f.hub.IsDeviceOnline("dev-kds"))

	// The replacement still receives traffic.
	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeNewOrder, "dev-pos", hubprotocol.DeviceTypePOS,
		hubprotocol.NewOrderPayload{TicketID: "tk-1"})
	require.NoError(t, err)
	require.NoError(t, f.hub.SendToDevice("dev-kds", msg))

	got := readMessage(t, second)
	assert.Equal(t, hubprotocol.MsgTypeNewOrder, got.MessageType)
}

type handlerFunc struct {
	fn func(deviceID string, msg *hubprotocol.Message) bool
}

func (h handlerFunc) String() string { return "test.handlerFunc" }

func (h handlerFunc) HandleMessage(deviceID string, msg *hubprotocol.Message) bool {
	return h.fn(deviceID, msg)
}
