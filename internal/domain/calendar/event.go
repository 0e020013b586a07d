// Package calendar holds the calendar events that reminders hang off, the
// reminder offsets, and the reminder record the sweeper consumes.
package calendar

import (
	"context"
	"time"
)

// Event is the read model of a calendar entry that reminders need. Event
// editing itself happens elsewhere.
type Event struct {
	id             uint
	title          string
	startTime      time.Time
	endTime        time.Time
	location       string
	assignedTo     *uint
	createdBy      uint
	participantIDs []uint
}

func ReconstructEvent(
	id uint,
	title string,
	startTime, endTime time.Time,
	location string,
	assignedTo *uint,
	createdBy uint,
	participantIDs []uint,
) *Event {
	return &Event{
		id:             id,
		title:          title,
		startTime:      startTime,
		endTime:        endTime,
		location:       location,
		assignedTo:     assignedTo,
		createdBy:      createdBy,
		participantIDs: participantIDs,
	}
}

func (e *Event) ID() uint {
	return e.id
}

func (e *Event) Title() string {
	return e.title
}

func (e *Event) StartTime() time.Time {
	return e.startTime
}

func (e *Event) EndTime() time.Time {
	return e.endTime
}

func (e *Event) Location() string {
	return e.location
}

func (e *Event) AssignedTo() *uint {
	return e.assignedTo
}

func (e *Event) CreatedBy() uint {
	return e.createdBy
}

func (e *Event) ParticipantIDs() []uint {
	out := make([]uint, len(e.participantIDs))
	copy(out, e.participantIDs)
	return out
}

func (e *Event) HasAssignee() bool {
	return e.assignedTo != nil && *e.assignedTo != 0
}

// ReminderTarget is the user a reminder goes to: the assignee, or the
// creator when nobody is assigned.
func (e *Event) ReminderTarget() uint {
	if e.HasAssignee() {
		return *e.assignedTo
	}
	return e.createdBy
}

type EventRepository interface {
	GetByID(ctx context.Context, id uint) (*Event, error)
}
