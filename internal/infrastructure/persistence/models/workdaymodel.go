package models

type WorkdayModel struct {
	LocalID      string  `gorm:"primaryKey;size:36"`
	WorkdayID    string  `gorm:"size:50;index"`
	LocationID   string  `gorm:"size:50;not null;index"`
	StartUserID  string  `gorm:"size:50;not null"`
	StartTime    int64   `gorm:"not null"`
	EndUserID    string  `gorm:"size:50"`
	EndTime      *int64  `gorm:"index"`
	TotalSales   float64 `gorm:"not null;default:0"`
	TotalTickets int     `gorm:"not null;default:0"`
	AutoClosed   bool    `gorm:"not null;default:false"`
	SyncStatus   string  `gorm:"size:20;not null;index"`
	SyncError    string  `gorm:"type:text"`
	SyncAttempts int     `gorm:"not null;default:0"`
	CreatedAt    int64   `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt    int64   `gorm:"autoUpdateTime:milli;not null"`
	SyncedAt     *int64
}

func (WorkdayModel) TableName() string {
	return "workdays"
}
