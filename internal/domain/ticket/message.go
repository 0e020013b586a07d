package ticket

import (
	"strings"
	"time"

	"github.com/corvid-crm/corvid/internal/shared/errors"
)

// Message is one append-only entry in a ticket conversation.
type Message struct {
	id        uint
	ticketID  uint
	author    Author
	body      string
	internal  bool
	createdAt time.Time
}

func newMessage(ticketID uint, author Author, body string, internal bool, now time.Time) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.NewValidationError("message body is required")
	}
	if err := author.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if internal && author.IsClient() {
		return nil, errors.NewValidationError("clients cannot post internal notes")
	}
	return &Message{
		ticketID:  ticketID,
		author:    author,
		body:      body,
		internal:  internal,
		createdAt: now,
	}, nil
}

func ReconstructMessage(id, ticketID uint, author Author, body string, internal bool, createdAt time.Time) *Message {
	return &Message{
		id:        id,
		ticketID:  ticketID,
		author:    author,
		body:      body,
		internal:  internal,
		createdAt: createdAt,
	}
}

func (m *Message) ID() uint {
	return m.id
}

func (m *Message) TicketID() uint {
	return m.ticketID
}

func (m *Message) Author() Author {
	return m.author
}

func (m *Message) Body() string {
	return m.body
}

func (m *Message) IsInternal() bool {
	return m.internal
}

func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Message) SetID(id uint) {
	m.id = id
}

// IsClientFacing reports whether the client should be told about m.
func (m *Message) IsClientFacing() bool {
	return m.author.IsStaff() && !m.internal
}
