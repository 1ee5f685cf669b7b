package models

type QueueTokenModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	TicketID     string `gorm:"size:36;index"`
	TicketNumber string `gorm:"size:50"`
	TokenNumber  int    `gorm:"not null"`
	Status       string `gorm:"size:20;not null;index"`
	Source       string `gorm:"size:50"`
	LocationID   string `gorm:"size:50;index"`
	OrderMode    string `gorm:"size:100"`
	CreatedAt    int64  `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt    int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (QueueTokenModel) TableName() string {
	return "queue_tokens"
}
