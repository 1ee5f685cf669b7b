package models

import "gorm.io/datatypes"

type KDSTicketModel struct {
	ID            string         `gorm:"primaryKey;size:36"`
	TicketNumber  string         `gorm:"size:50;not null"`
	OrderID       string         `gorm:"size:36;index"`
	LocationID    string         `gorm:"size:50;index"`
	OrderModeName string         `gorm:"size:100"`
	Status        string         `gorm:"size:20;not null;index"`
	Items         datatypes.JSON
	TotalAmount   float64        `gorm:"not null;default:0"`
	TokenNumber   int            `gorm:"not null;default:0"`
	CreatedAt     int64          `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt     int64          `gorm:"autoUpdateTime:milli;not null"`
}

func (KDSTicketModel) TableName() string {
	return "kds_tickets"
}
