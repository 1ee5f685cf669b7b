// Package device implements the device registry and role manager.
package device

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/slatepos/slate/internal/application/device/dto"
	"github.com/slatepos/slate/internal/domain/appstate"
	"github.com/slatepos/slate/internal/domain/catalog"
	deviceDomain "github.com/slatepos/slate/internal/domain/device"
	"github.com/slatepos/slate/internal/domain/kitchen"
	"github.com/slatepos/slate/internal/domain/queue"
	"github.com/slatepos/slate/internal/domain/ticket"
	"github.com/slatepos/slate/internal/domain/workday"
	"github.com/slatepos/slate/internal/shared/bus"
	apperrors "github.com/slatepos/slate/internal/shared/errors"
	"github.com/slatepos/slate/internal/shared/id"
	"github.com/slatepos/slate/internal/shared/logger"
)

// Service manages the single local device profile. Role changes are
// published on the bus so the composition root can swap the transport
// topology without restarting the process.
type Service struct {
	devices  deviceDomain.Repository
	appState appstate.Repository

	tickets  ticket.Repository
	workdays workday.Repository
	kitchen  kitchen.Repository
	queue    queue.Repository
	catalog  catalog.Repository

	publisher bus.Publisher
	validate  *validator.Validate
	logger    logger.Interface
}

// NewService creates the device service.
func NewService(
	devices deviceDomain.Repository,
	appState appstate.Repository,
	tickets ticket.Repository,
	workdays workday.Repository,
	kitchenRepo kitchen.Repository,
	queueRepo queue.Repository,
	catalogRepo catalog.Repository,
	publisher bus.Publisher,
	log logger.Interface,
) *Service {
	return &Service{
		devices:   devices,
		appState:  appState,
		tickets:   tickets,
		workdays:  workdays,
		kitchen:   kitchenRepo,
		queue:     queueRepo,
		catalog:   catalogRepo,
		publisher: publisher,
		validate:  validator.New(),
		logger:    log.Named("device"),
	}
}

// GetDevice returns the current device profile, or a not-found error before
// first registration.
func (s *Service) GetDevice(ctx context.Context) (*dto.DeviceResponse, error) {
	profile, err := s.devices.Get(ctx)
	if err != nil {
		return nil, err
	}
	return toResponse(profile), nil
}

// RegisterDevice creates the device profile on first boot. The generated id
// is stable for the lifetime of the installation.
func (s *Service) RegisterDevice(ctx context.Context, req dto.RegisterDeviceRequest) (*dto.DeviceResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid device registration", err)
	}

	role, err := deviceDomain.ParseRole(req.Role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	profile, err := deviceDomain.NewProfile(id.MustGenerateWithPrefix(id.PrefixDevice, id.DefaultLength), req.Name, role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	if err := s.devices.Save(ctx, profile); err != nil {
		return nil, err
	}
	if err := s.appState.SetDeviceRole(ctx, role.String()); err != nil {
		return nil, err
	}

	s.logger.Infow("device registered",
		"device_id", profile.ID(),
		"name", profile.Name(),
		"role", profile.Role(),
	)
	return toResponse(profile), nil
}

// SetRole changes the device role. The change only rewrites the profile row
// and the app-state mirror; tickets, catalog and displays stay untouched. A
// RoleChangedEvent is published for transport reconfiguration.
func (s *Service) SetRole(ctx context.Context, req dto.ChangeRoleRequest) (*dto.DeviceResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid role change", err)
	}

	newRole, err := deviceDomain.ParseRole(req.Role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	profile, err := s.devices.Get(ctx)
	if err != nil {
		return nil, err
	}

	oldRole := profile.Role()
	if err := profile.ChangeRole(newRole); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if err := s.devices.Update(ctx, profile); err != nil {
		return nil, err
	}
	if err := s.appState.SetDeviceRole(ctx, newRole.String()); err != nil {
		return nil, err
	}

	if oldRole != newRole {
		s.logger.Infow("device role changed", "from", oldRole, "to", newRole)
		s.publisher.Publish(bus.TopicRoleChanged, bus.RoleChangedEvent{
			DeviceID: profile.ID(),
			OldRole:  oldRole.String(),
			NewRole:  newRole.String(),
		})
	}
	return toResponse(profile), nil
}

// Rename updates the device display name.
func (s *Service) Rename(ctx context.Context, req dto.RenameDeviceRequest) (*dto.DeviceResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid rename", err)
	}

	profile, err := s.devices.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := profile.Rename(req.Name); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if err := s.devices.Update(ctx, profile); err != nil {
		return nil, err
	}
	return toResponse(profile), nil
}

// SetConfigValue stores a role-specific setting on the profile.
func (s *Service) SetConfigValue(ctx context.Context, key string, value any) error {
	profile, err := s.devices.Get(ctx)
	if err != nil {
		return err
	}
	profile.SetConfigValue(key, value)
	return s.devices.Update(ctx, profile)
}

// ClearDeviceData wipes every local table and resets app state to first
// boot. Unsynced tickets are destroyed with everything else; callers gate
// on CanLogout before offering this operation.
func (s *Service) ClearDeviceData(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"tickets", s.tickets.DeleteAll},
		{"workdays", s.workdays.DeleteAll},
		{"kds_tickets", s.kitchen.DeleteAll},
		{"queue_tokens", s.queue.DeleteAll},
		{"catalog", s.catalog.DeleteAll},
		{"device", s.devices.Delete},
		{"app_state", s.appState.Reset},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			s.logger.Errorw("failed to clear device data", "step", step.name, "error", err)
			return err
		}
	}
	s.logger.Infow("device data cleared")
	return nil
}

func toResponse(p *deviceDomain.Profile) *dto.DeviceResponse {
	return &dto.DeviceResponse{
		ID:        p.ID(),
		Name:      p.Name(),
		Role:      p.Role().String(),
		IsHub:     p.Role().IsHub(),
		Config:    p.Config(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}
