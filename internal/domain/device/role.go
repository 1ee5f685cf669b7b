package device

import "fmt"

// Role is the closed set of modes a device instance can run in. It decides
// whether the instance serves as the websocket hub (POS) or connects to one.
type Role string

const (
	RolePOS   Role = "POS"
	RoleKDS   Role = "KDS"
	RoleQueue Role = "QUEUE"
	RoleKiosk Role = "KIOSK"
)

// AllRoles lists every valid role, in display order.
func AllRoles() []Role {
	return []Role{RolePOS, RoleKDS, RoleQueue, RoleKiosk}
}

// ParseRole converts a stored string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePOS, RoleKDS, RoleQueue, RoleKiosk:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid device role %q", s)
	}
}

// IsValid reports whether the role is a known variant.
func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// IsHub reports whether this role runs the websocket hub.
func (r Role) IsHub() bool {
	return r == RolePOS
}

func (r Role) String() string {
	return string(r)
}
