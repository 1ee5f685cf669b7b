package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/slatepos/slate/internal/domain/device"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

// DeviceMapper handles the conversion between the device profile and its model.
type DeviceMapper interface {
	ToModel(p *device.Profile) (*models.DeviceModel, error)
	ToDomain(model *models.DeviceModel) (*device.Profile, error)
}

type deviceMapper struct{}

func NewDeviceMapper() DeviceMapper {
	return &deviceMapper{}
}

func (m *deviceMapper) ToModel(p *device.Profile) (*models.DeviceModel, error) {
	configJSON, err := json.Marshal(p.Config())
	if err != nil {
		return nil, fmt.Errorf("marshal device config: %w", err)
	}
	return &models.DeviceModel{
		ID:        p.ID(),
		Name:      p.Name(),
		Role:      p.Role().String(),
		Config:    datatypes.JSON(configJSON),
		CreatedAt: timeToMilli(p.CreatedAt()),
		UpdatedAt: timeToMilli(p.UpdatedAt()),
	}, nil
}

func (m *deviceMapper) ToDomain(model *models.DeviceModel) (*device.Profile, error) {
	role, err := device.ParseRole(model.Role)
	if err != nil {
		return nil, fmt.Errorf("device %s: %w", model.ID, err)
	}

	config := make(map[string]any)
	if len(model.Config) > 0 {
		if err := json.Unmarshal(model.Config, &config); err != nil {
			return nil, fmt.Errorf("unmarshal device config: %w", err)
		}
	}

	return device.ReconstructProfile(
		model.ID,
		model.Name,
		role,
		config,
		milliToTime(model.CreatedAt),
		milliToTime(model.UpdatedAt),
	)
}
