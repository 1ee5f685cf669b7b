package models

// AppStateModel is the singleton app/session state row (id fixed at 1).
type AppStateModel struct {
	ID               int    `gorm:"primaryKey"`
	TenantDomain     string `gorm:"size:200"`
	AccessToken      string `gorm:"type:text"`
	LocationID       string `gorm:"size:50"`
	BrandID          string `gorm:"size:50"`
	OrderModeIDs     string `gorm:"type:text;not null;default:'[]'"`
	DefaultOrderMode string `gorm:"size:50"`
	DeviceRole       string `gorm:"size:20"`
	SyncStatus       string `gorm:"size:20"`
	Theme            string `gorm:"size:50"`
	Language         string `gorm:"size:10"`
	KDSViewSettings  string `gorm:"type:text"`
	UpdatedAt        int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (AppStateModel) TableName() string {
	return "app_state"
}
