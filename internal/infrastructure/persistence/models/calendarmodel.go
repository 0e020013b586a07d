package models

import (
	"time"

	"gorm.io/datatypes"
)

type CalendarEventModel struct {
	ID             uint      `gorm:"primaryKey"`
	Title          string    `gorm:"size:200;not null"`
	StartTime      time.Time `gorm:"not null;index"`
	EndTime        time.Time `gorm:"not null"`
	Location       string    `gorm:"size:255"`
	AssignedTo     *uint     `gorm:"index"`
	CreatedBy      uint      `gorm:"not null"`
	ParticipantIDs datatypes.JSONSlice[uint]
}

func (CalendarEventModel) TableName() string {
	return "calendar_events"
}

type EventReminderModel struct {
	ID              uint      `gorm:"primaryKey"`
	EventID         uint      `gorm:"not null;index"`
	ReminderType    string    `gorm:"size:20;not null"`
	ScheduledAt     time.Time `gorm:"not null;index:idx_event_reminders_due"`
	EmailEnabled    bool      `gorm:"not null;default:false"`
	EmailSent       bool      `gorm:"not null;default:false"`
	EmailSentAt     *time.Time
	BrowserEnabled  bool `gorm:"not null"`
	BrowserSent     bool `gorm:"not null;default:false"`
	BrowserSentAt   *time.Time
	BrowserAttempts int       `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (EventReminderModel) TableName() string {
	return "event_reminders"
}

type TaskModel struct {
	ID                uint       `gorm:"primaryKey"`
	Title             string     `gorm:"size:200;not null"`
	DueAt             *time.Time `gorm:"index"`
	AssigneeIDs       datatypes.JSONSlice[uint]
	CreatedBy         uint `gorm:"not null"`
	Completed         bool `gorm:"not null;default:false"`
	DueSoonNotifiedAt *time.Time
	OverdueNotifiedAt *time.Time
}

func (TaskModel) TableName() string {
	return "tasks"
}
