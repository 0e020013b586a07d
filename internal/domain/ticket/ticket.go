// Package ticket models a support case and the state machine that moves it
// between OPEN, IN_PROGRESS, WAITING_CLIENT and CLOSED. Every transition
// yields exactly one ActivityEntry for the audit trail.
package ticket

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/corvid-crm/corvid/internal/domain/ticket/valueobjects"
	"github.com/corvid-crm/corvid/internal/shared/errors"
)

const (
	maxSubjectLength     = 200
	maxDescriptionLength = 10000
)

type Ticket struct {
	id               uint
	number           string
	clientID         uint
	subject          string
	description      string
	status           vo.TicketStatus
	priority         vo.Priority
	supportType      vo.SupportType
	assigneeID       *uint
	timeSpentMinutes int
	closingNotes     string
	closedAt         *time.Time
	createdAt        time.Time
	updatedAt        time.Time
}

func NewTicket(
	clientID uint,
	subject string,
	description string,
	priority vo.Priority,
	supportType vo.SupportType,
	now time.Time,
) (*Ticket, error) {
	subject = strings.TrimSpace(subject)
	if clientID == 0 {
		return nil, errors.NewValidationError("client is required")
	}
	if subject == "" {
		return nil, errors.NewValidationError("subject is required")
	}
	if len(subject) > maxSubjectLength {
		return nil, errors.NewValidationError(fmt.Sprintf("subject exceeds maximum length of %d characters", maxSubjectLength))
	}
	if len(description) > maxDescriptionLength {
		return nil, errors.NewValidationError(fmt.Sprintf("description exceeds maximum length of %d characters", maxDescriptionLength))
	}
	if !priority.IsValid() {
		return nil, errors.NewValidationError("invalid priority", priority.String())
	}
	if !supportType.IsValid() {
		return nil, errors.NewValidationError("invalid support type", supportType.String())
	}

	return &Ticket{
		clientID:    clientID,
		subject:     subject,
		description: description,
		status:      vo.StatusOpen,
		priority:    priority,
		supportType: supportType,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructTicket(
	id uint,
	number string,
	clientID uint,
	subject string,
	description string,
	status vo.TicketStatus,
	priority vo.Priority,
	supportType vo.SupportType,
	assigneeID *uint,
	timeSpentMinutes int,
	closingNotes string,
	closedAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if number == "" {
		return nil, fmt.Errorf("ticket number is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", priority)
	}
	if !supportType.IsValid() {
		return nil, fmt.Errorf("invalid support type: %s", supportType)
	}

	return &Ticket{
		id:               id,
		number:           number,
		clientID:         clientID,
		subject:          subject,
		description:      description,
		status:           status,
		priority:         priority,
		supportType:      supportType,
		assigneeID:       assigneeID,
		timeSpentMinutes: timeSpentMinutes,
		closingNotes:     closingNotes,
		closedAt:         closedAt,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) Number() string {
	return t.number
}

func (t *Ticket) ClientID() uint {
	return t.clientID
}

func (t *Ticket) Subject() string {
	return t.subject
}

func (t *Ticket) Description() string {
	return t.description
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) Priority() vo.Priority {
	return t.priority
}

func (t *Ticket) SupportType() vo.SupportType {
	return t.supportType
}

func (t *Ticket) AssigneeID() *uint {
	return t.assigneeID
}

func (t *Ticket) TimeSpentMinutes() int {
	return t.timeSpentMinutes
}

func (t *Ticket) ClosingNotes() string {
	return t.closingNotes
}

func (t *Ticket) ClosedAt() *time.Time {
	return t.closedAt
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

// SetNumber assigns the human-readable number. It may be replaced until the
// ticket is persisted, which lets creation retry on a number collision.
func (t *Ticket) SetNumber(number string) error {
	if t.id != 0 {
		return fmt.Errorf("ticket number is already set")
	}
	if number == "" {
		return fmt.Errorf("ticket number cannot be empty")
	}
	t.number = number
	return nil
}

// CreatedEntry records the creation of a persisted ticket.
func (t *Ticket) CreatedEntry() *ActivityEntry {
	return newActivity(t.id, ActionCreated, fmt.Sprintf("Ticket %s created: %s", t.number, t.subject), t.createdAt)
}

// AddMessage validates and appends a message, applying the implicit status
// rule: a staff message (internal or not) moves WAITING_CLIENT to
// IN_PROGRESS, and a client message moves IN_PROGRESS to WAITING_CLIENT.
// Every other status is left alone.
func (t *Ticket) AddMessage(author Author, body string, internal bool, now time.Time) (*Message, *ActivityEntry, error) {
	msg, err := newMessage(t.id, author, body, internal, now)
	if err != nil {
		return nil, nil, err
	}

	from := t.status
	switch {
	case author.IsStaff() && t.status.IsWaitingClient():
		t.status = vo.StatusInProgress
	case author.IsClient() && t.status.IsInProgress():
		t.status = vo.StatusWaitingClient
	}
	t.updatedAt = now

	var detail string
	switch {
	case internal:
		detail = "Internal note added"
	case author.IsStaff():
		detail = "Staff reply added"
	default:
		detail = "Client reply added"
	}
	if from != t.status {
		detail += fmt.Sprintf("; status %s -> %s", from, t.status)
	}

	return msg, newActivity(t.id, ActionMessageAdded, detail, now), nil
}

// Assign sets the assignee and forces IN_PROGRESS from any status. Assigning
// a closed ticket reactivates it, so closedAt is cleared as in Reopen.
func (t *Ticket) Assign(userID uint, assigneeName string, now time.Time) (*ActivityEntry, error) {
	if userID == 0 {
		return nil, errors.NewValidationError("assignee is required")
	}
	t.assigneeID = &userID
	t.status = vo.StatusInProgress
	t.closedAt = nil
	t.updatedAt = now

	if assigneeName == "" {
		assigneeName = fmt.Sprintf("user #%d", userID)
	}
	return newActivity(t.id, ActionAssigned, "Assigned to "+assigneeName, now), nil
}

// Close moves the ticket to CLOSED and overwrites the time counter with
// minutes. The counter is not additive here, unlike LogTime.
func (t *Ticket) Close(notes string, minutes int, now time.Time) (*ActivityEntry, error) {
	if minutes < 0 {
		return nil, errors.NewValidationError("time spent cannot be negative")
	}
	t.status = vo.StatusClosed
	t.closingNotes = strings.TrimSpace(notes)
	t.timeSpentMinutes = minutes
	closedAt := now
	t.closedAt = &closedAt
	t.updatedAt = now

	detail := fmt.Sprintf("Ticket closed; time spent %d min", minutes)
	if t.closingNotes != "" {
		detail += "; notes: " + t.closingNotes
	}
	return newActivity(t.id, ActionClosed, detail, now), nil
}

// Reopen returns the ticket to OPEN from any status and clears closedAt.
func (t *Ticket) Reopen(now time.Time) *ActivityEntry {
	from := t.status
	t.status = vo.StatusOpen
	t.closedAt = nil
	t.updatedAt = now
	return newActivity(t.id, ActionReopened, fmt.Sprintf("Ticket reopened from %s", from), now)
}

// LogTime adds minutes to the time counter.
func (t *Ticket) LogTime(minutes int, now time.Time) (*ActivityEntry, error) {
	if minutes <= 0 {
		return nil, errors.NewValidationError("minutes must be a positive number")
	}
	t.timeSpentMinutes += minutes
	t.updatedAt = now
	return newActivity(t.id, ActionTimeLogged,
		fmt.Sprintf("Logged %d min (total %d min)", minutes, t.timeSpentMinutes), now), nil
}

// Changes lists the editable fields; nil means unchanged.
type Changes struct {
	Subject     *string
	Description *string
	Priority    *vo.Priority
	SupportType *vo.SupportType
}

// Update applies changes and summarises every field that actually changed in
// a single entry. It returns a nil entry when nothing changed.
func (t *Ticket) Update(c Changes, now time.Time) (*ActivityEntry, error) {
	var parts []string

	if c.Subject != nil {
		subject := strings.TrimSpace(*c.Subject)
		if subject == "" {
			return nil, errors.NewValidationError("subject is required")
		}
		if len(subject) > maxSubjectLength {
			return nil, errors.NewValidationError(fmt.Sprintf("subject exceeds maximum length of %d characters", maxSubjectLength))
		}
		if subject != t.subject {
			parts = append(parts, fmt.Sprintf("subject %q -> %q", t.subject, subject))
			t.subject = subject
		}
	}
	if c.Description != nil && *c.Description != t.description {
		if len(*c.Description) > maxDescriptionLength {
			return nil, errors.NewValidationError(fmt.Sprintf("description exceeds maximum length of %d characters", maxDescriptionLength))
		}
		parts = append(parts, "description edited")
		t.description = *c.Description
	}
	if c.Priority != nil && *c.Priority != t.priority {
		if !c.Priority.IsValid() {
			return nil, errors.NewValidationError("invalid priority", c.Priority.String())
		}
		parts = append(parts, fmt.Sprintf("priority %s -> %s", t.priority, *c.Priority))
		t.priority = *c.Priority
	}
	if c.SupportType != nil && *c.SupportType != t.supportType {
		if !c.SupportType.IsValid() {
			return nil, errors.NewValidationError("invalid support type", c.SupportType.String())
		}
		parts = append(parts, fmt.Sprintf("support type %s -> %s", t.supportType, *c.SupportType))
		t.supportType = *c.SupportType
	}

	if len(parts) == 0 {
		return nil, nil
	}
	t.updatedAt = now
	return newActivity(t.id, ActionUpdated, strings.Join(parts, "; "), now), nil
}
