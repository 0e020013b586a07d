package models

type TicketModel struct {
	ID               uint   `gorm:"primaryKey"`
	Number           string `gorm:"uniqueIndex:uk_tickets_number;size:32;not null"`
	ClientID         uint   `gorm:"not null;index"`
	Subject          string `gorm:"size:200;not null"`
	Description      string `gorm:"type:text"`
	Status           string `gorm:"size:20;not null;index"`
	Priority         string `gorm:"size:20;not null"`
	SupportType      string `gorm:"size:20;not null"`
	AssigneeID       *uint  `gorm:"index"`
	TimeSpentMinutes int    `gorm:"not null;default:0"`
	ClosingNotes     string `gorm:"type:text"`
	ClosedAt         *int64
	CreatedAt        int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt        int64 `gorm:"autoUpdateTime:milli;not null"`
}

func (TicketModel) TableName() string {
	return "tickets"
}

// TicketMessageModel stores the author as two nullable columns; exactly one
// is set.
type TicketMessageModel struct {
	ID             uint   `gorm:"primaryKey"`
	TicketID       uint   `gorm:"not null;index"`
	UserID         *uint  `gorm:"index"`
	ClientAccessID *uint  `gorm:"index"`
	Body           string `gorm:"type:text;not null"`
	IsInternal     bool   `gorm:"not null;default:false"`
	CreatedAt      int64  `gorm:"autoCreateTime:milli;not null;index"`
}

func (TicketMessageModel) TableName() string {
	return "ticket_messages"
}

type TicketActivityModel struct {
	ID        uint   `gorm:"primaryKey"`
	TicketID  uint   `gorm:"not null;index"`
	Action    string `gorm:"size:32;not null"`
	Detail    string `gorm:"type:text"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null;index"`
}

func (TicketActivityModel) TableName() string {
	return "ticket_activity_logs"
}
