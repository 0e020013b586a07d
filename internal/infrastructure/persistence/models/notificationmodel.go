package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationModel struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         uint   `gorm:"not null;index:idx_notifications_user_read"`
	Type           string `gorm:"size:32;not null"`
	Title          string `gorm:"size:255;not null"`
	Body           string `gorm:"type:text"`
	Link           string `gorm:"size:500"`
	RelatedEventID *uint
	RelatedTaskID  *uint
	IsRead         bool `gorm:"not null;default:false;index:idx_notifications_user_read"`
	ReadAt         *time.Time
	Metadata       datatypes.JSONMap
	CreatedAt      time.Time `gorm:"index"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

type NotificationPreferenceModel struct {
	UserID             uint `gorm:"primaryKey;autoIncrement:false"`
	EmailEnabled       bool `gorm:"not null"`
	BrowserEnabled     bool `gorm:"not null"`
	InAppCenterEnabled bool `gorm:"not null"`

	EmailEventReminder bool `gorm:"not null"`
	EmailEventAssigned bool `gorm:"not null"`
	EmailTaskAssigned  bool `gorm:"not null"`
	EmailTaskDueSoon   bool `gorm:"not null"`
	EmailTaskOverdue   bool `gorm:"not null"`
	EmailTicketReply   bool `gorm:"not null"`

	BrowserEventReminder bool `gorm:"not null"`
	BrowserEventAssigned bool `gorm:"not null"`
	BrowserTaskAssigned  bool `gorm:"not null"`
	BrowserTaskDueSoon   bool `gorm:"not null"`
	BrowserTaskOverdue   bool `gorm:"not null"`
	BrowserTicketReply   bool `gorm:"not null"`

	UpdatedAt time.Time
}

func (NotificationPreferenceModel) TableName() string {
	return "notification_preferences"
}
