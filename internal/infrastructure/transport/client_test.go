package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slatepos/slate/internal/shared/config"
	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

func testIdentity() Identity {
	return Identity{
		DeviceID:   "dev-kds",
		DeviceType: hubprotocol.DeviceTypeKDS,
		DeviceName: "Kitchen 1",
	}
}

func testConfig(hubURL string) config.TransportConfig {
	return config.TransportConfig{
		HubURL:               hubURL,
		MaxReconnectAttempts: 3,
		ReconnectDelayMs:     1,
		HandshakeTimeoutSecs: 2,
	}
}

// fakeHubServer upgrades incoming sockets and exposes the server side of
// each connection.
type fakeHubServer struct {
	srv   *httptest.Server
	conns chan *websocket.Conn
}

func newFakeHubServer(t *testing.T) *fakeHubServer {
	t.Helper()

	f := &fakeHubServer{conns: make(chan *websocket.Conn, 4)}
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		f.conns <- conn
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeHubServer) url() string { return f.srv.URL }

// accept waits for the next client connection and consumes its register
// frame.
func (f *fakeHubServer) accept(t *testing.T) (*websocket.Conn, *hubprotocol.Message) {
	t.Helper()

	var conn *websocket.Conn
	select {
	case conn = <-f.conns:
	case <-time.After(5 * time.Second):
		t.Fatal("no client connected")
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	msg, err := hubprotocol.Decode(raw)
	require.NoError(t, err)
	return conn, msg
}

func TestBuildWSURL(t *testing.T) {
	cases := []struct {
		hubURL string
		want   string
	}{
		{"http://192.168.1.10:8765", "ws://192.168.1.10:8765/ws"},
		{"https://hub.local", "wss://hub.local/ws"},
		{"http://192.168.1.10:8765/", "ws://192.168.1.10:8765/ws"},
		{"ws://192.168.1.10:8765/ws", "ws://192.168.1.10:8765/ws"},
	}
	for _, tc := range cases {
		c := NewClient(testConfig(tc.hubURL), config.HubConfig{}, testIdentity(), logger.NewLogger())
		got, err := c.buildWSURL()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.hubURL)
	}
}

func TestRunRegistersAndDispatches(t *testing.T) {
	hub := newFakeHubServer(t)
	client := NewClient(testConfig(hub.url()), config.HubConfig{}, testIdentity(), logger.NewLogger())

	var statesMu sync.Mutex
	var states []State
	client.SetOnStateChange(func(old, new State) {
		statesMu.Lock()
		states = append(states, new)
		statesMu.Unlock()
	})

	received := make(chan *hubprotocol.Message, 4)
	client.OnMessage(hubprotocol.MsgTypeNewOrder, func(msg *hubprotocol.Message) {
		received <- msg
	})
	wildcard := make(chan string, 8)
	client.OnMessage("*", func(msg *hubprotocol.Message) {
		wildcard <- msg.MessageType
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- client.Run(ctx) }()

	conn, register := hub.accept(t)

	assert.Equal(t, hubprotocol.MsgTypeRegister, register.MessageType)
	payload, err := hubprotocol.DecodePayload(register)
	require.NoError(t, err)
	reg, ok := payload.(*hubprotocol.RegisterPayload)
	require.True(t, ok)
	assert.Equal(t, "dev-kds", reg.DeviceID)
	assert.Equal(t, hubprotocol.DeviceTypeKDS, reg.DeviceType)

	ack, err := hubprotocol.NewMessage(hubprotocol.MsgTypeRegisterAck, "", hubprotocol.DeviceTypePOS,
		hubprotocol.RegisterAckPayload{DeviceID: "dev-kds", ConnectedDevices: 1})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(ack))

	order, err := hubprotocol.NewMessage(hubprotocol.MsgTypeNewOrder, "dev-pos", hubprotocol.DeviceTypePOS,
		hubprotocol.NewOrderPayload{TicketID: "tk-1", TokenNumber: 1})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(order))

	select {
	case msg := <-received:
		assert.Equal(t, hubprotocol.MsgTypeNewOrder, msg.MessageType)
	case <-time.After(5 * time.Second):
		t.Fatal("new_order never dispatched")
	}

	// The wildcard handler saw both the ack and the order.
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case mt := <-wildcard:
			seen[mt] = true
		case <-time.After(5 * time.Second):
			t.Fatal("wildcard handler missed a message")
		}
	}
	assert.True(t, seen[hubprotocol.MsgTypeRegisterAck])
	assert.True(t, seen[hubprotocol.MsgTypeNewOrder])

	assert.Equal(t, StateConnected, client.State())
	assert.True(t, client.IsConnected())

	cancel()
	select {
	case err := <-runDone:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop on cancel")
	}

	statesMu.Lock()
	defer statesMu.Unlock()
	assert.Equal(t, []State{StateConnecting, StateRegistering, StateConnected, StateDisconnected}, states[:4])
}

func TestRunExhaustsReconnectBudget(t *testing.T) {
	// Plain HTTP server without a websocket endpoint, so every dial fails.
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), config.HubConfig{}, testIdentity(), logger.NewLogger())

	var waits int
	client.wait = func(ctx context.Context, d time.Duration) error {
		waits++
		return nil
	}

	err := client.Run(context.Background())
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	// Three attempts with a delay between consecutive ones.
	assert.Equal(t, 2, waits)
	assert.Equal(t, StateDisconnected, client.State())
}

func TestRunSuccessResetsAttemptBudget(t *testing.T) {
	hub := newFakeHubServer(t)
	client := NewClient(testConfig(hub.url()), config.HubConfig{}, testIdentity(), logger.NewLogger())
	client.wait = func(ctx context.Context, d time.Duration) error { return nil }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- client.Run(ctx) }()

	// Drop the first three connections right after registration. Each
	// successful registration resets the budget, so the client survives more
	// drops than MaxReconnectAttempts allows for consecutive failures.
	for i := 0; i < 3; i++ {
		conn, _ := hub.accept(t)
		conn.Close()
	}

	conn, register := hub.accept(t)
	defer conn.Close()
	assert.Equal(t, hubprotocol.MsgTypeRegister, register.MessageType)

	cancel()
	select {
	case <-runDone:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop on cancel")
	}
}

func TestDisconnectStopsRetrying(t *testing.T) {
	hub := newFakeHubServer(t)
	client := NewClient(testConfig(hub.url()), config.HubConfig{}, testIdentity(), logger.NewLogger())

	runDone := make(chan error, 1)
	go func() { runDone <- client.Run(context.Background()) }()

	conn, _ := hub.accept(t)
	defer conn.Close()

	// Give the client a moment to finish the register bookkeeping.
	require.Eventually(t, func() bool {
		return client.State() == StateConnected
	}, 5*time.Second, 10*time.Millisecond)

	client.Disconnect()

	select {
	case err := <-runDone:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after disconnect")
	}
	assert.Equal(t, StateDisconnected, client.State())
	assert.False(t, client.IsConnected())
}

func TestSendWhileDisconnected(t *testing.T) {
	client := NewClient(testConfig("http://127.0.0.1:1"), config.HubConfig{}, testIdentity(), logger.NewLogger())

	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeOrderReady, "dev-kds", hubprotocol.DeviceTypeKDS, nil)
	require.NoError(t, err)

	// Dropped with a warning, never blocks or panics.
	client.Send(msg)
	assert.Equal(t, StateDisconnected, client.State())
	assert.False(t, client.IsConnected())
}

func TestSendDeliversWhenConnected(t *testing.T) {
	hub := newFakeHubServer(t)
	client := NewClient(testConfig(hub.url()), config.HubConfig{}, testIdentity(), logger.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- client.Run(ctx) }()

	conn, _ := hub.accept(t)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return client.State() == StateConnected
	}, 5*time.Second, 10*time.Millisecond)

	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeOrderReady, "dev-kds", hubprotocol.DeviceTypeKDS,
		hubprotocol.OrderReadyPayload{TicketID: "tk-1", TokenNumber: 1})
	require.NoError(t, err)
	client.Send(msg)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	got, err := hubprotocol.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, hubprotocol.MsgTypeOrderReady, got.MessageType)

	cancel()
	<-runDone
}

func TestConfiguredPingPeriod(t *testing.T) {
	hub := newFakeHubServer(t)
	client := NewClient(testConfig(hub.url()),
		config.HubConfig{PingPeriodSecs: 1}, testIdentity(), logger.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- client.Run(ctx) }()

	conn, _ := hub.accept(t)
	defer conn.Close()

	pinged := make(chan struct{}, 4)
	conn.SetPingHandler(func(string) error {
		pinged <- struct{}{}
		return nil
	})
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-pinged:
	case <-time.After(5 * time.Second):
		t.Fatal("no keepalive ping within the configured period")
	}

	cancel()
	<-runDone
}

func TestRunStopsWhenContextAlreadyCanceled(t *testing.T) {
	client := NewClient(testConfig("http://127.0.0.1:1"), config.HubConfig{}, testIdentity(), logger.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
