package ticket

import "time"

type ActivityAction string

const (
	ActionCreated      ActivityAction = "created"
	ActionUpdated      ActivityAction = "updated"
	ActionAssigned     ActivityAction = "assigned"
	ActionClosed       ActivityAction = "closed"
	ActionReopened     ActivityAction = "reopened"
	ActionTimeLogged   ActivityAction = "time_logged"
	ActionMessageAdded ActivityAction = "message_added"
)

func (a ActivityAction) String() string {
	return string(a)
}

// ActivityEntry is an immutable audit record.
type ActivityEntry struct {
	id        uint
	ticketID  uint
	action    ActivityAction
	detail    string
	createdAt time.Time
}

func newActivity(ticketID uint, action ActivityAction, detail string, now time.Time) *ActivityEntry {
	return &ActivityEntry{
		ticketID:  ticketID,
		action:    action,
		detail:    detail,
		createdAt: now,
	}
}

func ReconstructActivityEntry(id, ticketID uint, action ActivityAction, detail string, createdAt time.Time) *ActivityEntry {
	return &ActivityEntry{
		id:        id,
		ticketID:  ticketID,
		action:    action,
		detail:    detail,
		createdAt: createdAt,
	}
}

func (e *ActivityEntry) ID() uint {
	return e.id
}

func (e *ActivityEntry) TicketID() uint {
	return e.ticketID
}

func (e *ActivityEntry) Action() ActivityAction {
	return e.action
}

func (e *ActivityEntry) Detail() string {
	return e.detail
}

func (e *ActivityEntry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *ActivityEntry) SetID(id uint) {
	e.id = id
}
