// Package device holds the device profile aggregate. Exactly one profile
// exists per installed instance; switching role mutates that single row and
// never touches any other persisted entity.
package device

import (
	"fmt"
	"time"
)

type Profile struct {
	id        string
	name      string
	role      Role
	config    map[string]any
	createdAt time.Time
	updatedAt time.Time
}

func NewProfile(id, name string, role Role) (*Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("device id is required")
	}
	if name == "" {
		return nil, fmt.Errorf("device name is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid device role %q", role)
	}

	now := time.Now()
	return &Profile{
		id:        id,
		name:      name,
		role:      role,
		config:    make(map[string]any),
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructProfile(
	id string,
	name string,
	role Role,
	config map[string]any,
	createdAt, updatedAt time.Time,
) (*Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("device id is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid device role %q", role)
	}
	if config == nil {
		config = make(map[string]any)
	}
	return &Profile{
		id:        id,
		name:      name,
		role:      role,
		config:    config,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (p *Profile) ID() string             { return p.id }
func (p *Profile) Name() string           { return p.name }
func (p *Profile) Role() Role             { return p.role }
func (p *Profile) Config() map[string]any { return p.config }
func (p *Profile) CreatedAt() time.Time   { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time   { return p.updatedAt }

// ChangeRole reassigns the device role. Id and name are preserved; the
// operation is idempotent when the role is unchanged.
func (p *Profile) ChangeRole(role Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid device role %q", role)
	}
	if p.role == role {
		return nil
	}
	p.role = role
	p.updatedAt = time.Now()
	return nil
}

// Rename updates the display name.
func (p *Profile) Rename(name string) error {
	if name == "" {
		return fmt.Errorf("device name is required")
	}
	p.name = name
	p.updatedAt = time.Now()
	return nil
}

// SetConfigValue stores a role-specific config value on the profile.
func (p *Profile) SetConfigValue(key string, value any) {
	if p.config == nil {
		p.config = make(map[string]any)
	}
	p.config[key] = value
	p.updatedAt = time.Now()
}
