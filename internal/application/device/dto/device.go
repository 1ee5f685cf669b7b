// Package dto defines request and response types for the device service.
package dto

import "time"

// RegisterDeviceRequest creates the local device profile on first boot.
type RegisterDeviceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Role string `json:"role" validate:"required,oneof=POS KDS QUEUE KIOSK"`
}

// ChangeRoleRequest switches the device to a different role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=POS KDS QUEUE KIOSK"`
}

// RenameDeviceRequest updates the display name.
type RenameDeviceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// DeviceResponse is the external view of the device profile.
type DeviceResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Role      string         `json:"role"`
	IsHub     bool           `json:"is_hub"`
	Config    map[string]any `json:"config"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
