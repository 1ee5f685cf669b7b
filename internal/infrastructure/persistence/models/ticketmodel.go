package models

import "gorm.io/datatypes"

type TicketModel struct {
	ID            string         `gorm:"primaryKey;size:36"`
	TicketNumber  string         `gorm:"size:50;not null;index"`
	TicketData    datatypes.JSON `gorm:"not null"`
	SyncStatus    string         `gorm:"size:20;not null;index"`
	SyncError     string         `gorm:"type:text"`
	SyncAttempts  int            `gorm:"not null;default:0"`
	OrderStatus   string         `gorm:"size:20;not null;index"`
	LocationID    string         `gorm:"size:50;not null;index;uniqueIndex:idx_tickets_queue_alloc"`
	OrderModeName string         `gorm:"size:100"`
	TotalAmount   float64        `gorm:"not null;default:0"`
	QueueNumber   int            `gorm:"not null;uniqueIndex:idx_tickets_queue_alloc"`
	BusinessDate  string         `gorm:"size:10;not null;uniqueIndex:idx_tickets_queue_alloc"`
	CreatedAt     int64          `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt     int64          `gorm:"autoUpdateTime:milli;not null"`
	SyncedAt      *int64

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return "tickets"
}
