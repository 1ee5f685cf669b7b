// Package appstate holds the singleton app/session state row. Exactly one
// row (id 1) exists after first boot; fields stay empty until the matching
// setup step completes.
package appstate

// SingletonID is the fixed primary key of the one app state row.
const SingletonID = 1

// State is the app/session state snapshot. Pointer-free string fields use
// "" as the not-yet-configured value, matching how the row starts out.
type State struct {
	TenantDomain     string
	AccessToken      string
	LocationID       string
	BrandID          string
	OrderModeIDs     string // serialized array of enabled order mode ids
	DefaultOrderMode string
	DeviceRole       string
	SyncStatus       string
	Theme            string
	Language         string
	KDSViewSettings  string // serialized view settings blob
}

// SetupComplete reports whether the mandatory setup steps have run.
func (s State) SetupComplete() bool {
	return s.TenantDomain != "" && s.AccessToken != "" &&
		s.LocationID != "" && s.DeviceRole != ""
}
