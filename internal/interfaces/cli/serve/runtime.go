package serve

import (
	"context"
	"sync"

	kitchenApp "github.com/slatepos/slate/internal/application/kitchen"
	queueApp "github.com/slatepos/slate/internal/application/queue"
	deviceDomain "github.com/slatepos/slate/internal/domain/device"
	"github.com/slatepos/slate/internal/infrastructure/transport"
	"github.com/slatepos/slate/internal/shared/config"
	"github.com/slatepos/slate/internal/shared/goroutine"
	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

// satelliteLink is the swappable outbound path to the hub. It exists so the
// kitchen and queue services can be wired once at startup while the actual
// transport client comes and goes with role changes.
type satelliteLink struct {
	mu     sync.RWMutex
	client *transport.Client
	logger logger.Interface
}

func newSatelliteLink(log logger.Interface) *satelliteLink {
	return &satelliteLink{logger: log.Named("link")}
}

func (l *satelliteLink) set(client *transport.Client) {
	l.mu.Lock()
	l.client = client
	l.mu.Unlock()
}

// Send forwards a message to the hub when a transport client is active.
func (l *satelliteLink) Send(msg *hubprotocol.Message) {
	l.mu.RLock()
	client := l.client
	l.mu.RUnlock()

	if client == nil {
		l.logger.Warnw("no hub link, dropping message", "message_type", msg.MessageType)
		return
	}
	client.Send(msg)
}

// roleRuntime starts and stops the satellite transport client as the device
// role changes. POS runs the hub server and never dials out; every other
// role connects to the configured hub.
type roleRuntime struct {
	cfg     config.TransportConfig
	hubCfg  config.HubConfig
	link    *satelliteLink
	kitchen *kitchenApp.Service
	queue   *queueApp.Service
	logger  logger.Interface

	mu     sync.Mutex
	cancel context.CancelFunc
}

func newRoleRuntime(
	cfg config.TransportConfig,
	hubCfg config.HubConfig,
	link *satelliteLink,
	kitchenSvc *kitchenApp.Service,
	queueSvc *queueApp.Service,
	log logger.Interface,
) *roleRuntime {
	return &roleRuntime{
		cfg:     cfg,
		hubCfg:  hubCfg,
		link:    link,
		kitchen: kitchenSvc,
		queue:   queueSvc,
		logger:  log.Named("runtime"),
	}
}

// Apply reconfigures the transport topology for a role. Any running client
// is torn down first; a hub role leaves the device with no outbound link.
func (r *roleRuntime) Apply(deviceID, deviceName, role string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.link.set(nil)

	parsed, err := deviceDomain.ParseRole(role)
	if err != nil {
		r.logger.Warnw("not starting transport for unknown role", "role", role)
		return
	}
	if parsed.IsHub() {
		r.logger.Infow("device is hub, no outbound transport")
		return
	}
	if deviceID == "" {
		r.logger.Warnw("device not registered yet, transport stays down")
		return
	}
	if r.cfg.HubURL == "" {
		r.logger.Warnw("no hub url configured, transport stays down")
		return
	}

	client := transport.NewClient(r.cfg, r.hubCfg, transport.Identity{
		DeviceID:   deviceID,
		DeviceType: roleToDeviceType(parsed),
		DeviceName: deviceName,
	}, r.logger)

	switch parsed {
	case deviceDomain.RoleKDS:
		client.OnMessage(hubprotocol.MsgTypeNewOrder, r.kitchen.HandleHubMessage)
		client.OnMessage(hubprotocol.MsgTypeOrderCreated, r.kitchen.HandleHubMessage)
	case deviceDomain.RoleQueue:
		client.OnMessage("*", r.queue.HandleHubMessage)
	case deviceDomain.RoleKiosk:
		// Kiosks only send orders; inbound traffic is just the register ack.
	}

	r.link.set(client)

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	goroutine.SafeGo(r.logger, "transport-client", func() {
		if err := client.Run(ctx); err != nil && ctx.Err() == nil {
			r.logger.Errorw("transport client stopped", "error", err)
		}
	})

	r.logger.Infow("transport client started",
		"role", parsed,
		"hub_url", r.cfg.HubURL,
	)
}

// Stop tears down any running transport client.
func (r *roleRuntime) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.link.set(nil)
}

func roleToDeviceType(role deviceDomain.Role) hubprotocol.DeviceType {
	switch role {
	case deviceDomain.RoleKDS:
		return hubprotocol.DeviceTypeKDS
	case deviceDomain.RoleQueue:
		return hubprotocol.DeviceTypeQueue
	case deviceDomain.RoleKiosk:
		return hubprotocol.DeviceTypeKiosk
	default:
		return hubprotocol.DeviceTypePOS
	}
}
