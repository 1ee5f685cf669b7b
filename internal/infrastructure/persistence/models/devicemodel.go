package models

import "gorm.io/datatypes"

// DeviceModel holds the single device profile row.
type DeviceModel struct {
	ID        string         `gorm:"primaryKey;size:36"`
	Name      string         `gorm:"size:100;not null"`
	Role      string         `gorm:"size:20;not null"`
	Config    datatypes.JSON
	CreatedAt int64          `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64          `gorm:"autoUpdateTime:milli;not null"`
}

func (DeviceModel) TableName() string {
	return "device_profiles"
}
