// Package notification holds in-app notifications and the per-user channel
// preferences that gate every outbound message.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	maxTitleLength = 200
	maxBodyLength  = 5000
)

// Notification is an in-app message for one user. Only the recipient may
// change its read state.
type Notification struct {
	id             uint
	userID         uint
	notifType      Type
	title          string
	body           string
	link           string
	relatedEventID *uint
	relatedTaskID  *uint
	read           bool
	readAt         *time.Time
	metadata       map[string]any
	createdAt      time.Time
}

// Draft carries the caller-supplied fields of a new notification.
type Draft struct {
	UserID         uint
	Type           Type
	Title          string
	Body           string
	Link           string
	RelatedEventID *uint
	RelatedTaskID  *uint
	Metadata       map[string]any
}

func NewNotification(d Draft, now time.Time) (*Notification, error) {
	title := strings.TrimSpace(d.Title)
	if d.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !d.Type.IsValid() {
		return nil, fmt.Errorf("invalid notification type: %s", d.Type)
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}
	body := d.Body
	if len(body) > maxBodyLength {
		body = body[:maxBodyLength]
	}

	return &Notification{
		userID:         d.UserID,
		notifType:      d.Type,
		title:          title,
		body:           body,
		link:           d.Link,
		relatedEventID: d.RelatedEventID,
		relatedTaskID:  d.RelatedTaskID,
		metadata:       d.Metadata,
		createdAt:      now,
	}, nil
}

func ReconstructNotification(
	id, userID uint,
	notifType Type,
	title, body, link string,
	relatedEventID, relatedTaskID *uint,
	read bool,
	readAt *time.Time,
	metadata map[string]any,
	createdAt time.Time,
) *Notification {
	return &Notification{
		id:             id,
		userID:         userID,
		notifType:      notifType,
		title:          title,
		body:           body,
		link:           link,
		relatedEventID: relatedEventID,
		relatedTaskID:  relatedTaskID,
		read:           read,
		readAt:         readAt,
		metadata:       metadata,
		createdAt:      createdAt,
	}
}

func (n *Notification) ID() uint {
	return n.id
}

func (n *Notification) UserID() uint {
	return n.userID
}

func (n *Notification) Type() Type {
	return n.notifType
}

func (n *Notification) Title() string {
	return n.title
}

func (n *Notification) Body() string {
	return n.body
}

func (n *Notification) Link() string {
	return n.link
}

func (n *Notification) RelatedEventID() *uint {
	return n.relatedEventID
}

func (n *Notification) RelatedTaskID() *uint {
	return n.relatedTaskID
}

func (n *Notification) IsRead() bool {
	return n.read
}

func (n *Notification) ReadAt() *time.Time {
	return n.readAt
}

func (n *Notification) Metadata() map[string]any {
	out := make(map[string]any, len(n.metadata))
	for k, v := range n.metadata {
		out[k] = v
	}
	return out
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Notification) SetID(id uint) error {
	if n.id != 0 {
		return fmt.Errorf("notification ID is already set")
	}
	n.id = id
	return nil
}

// IsOwnedBy reports whether userID is the recipient.
func (n *Notification) IsOwnedBy(userID uint) bool {
	return n.userID == userID
}

// MarkRead is idempotent; the first read time is kept.
func (n *Notification) MarkRead(now time.Time) {
	if n.read {
		return
	}
	n.read = true
	readAt := now
	n.readAt = &readAt
}

type ListFilter struct {
	UnreadOnly bool
	Page       int
	PageSize   int
}

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id uint) (*Notification, error)
	ListByUser(ctx context.Context, userID uint, filter ListFilter) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id, userID uint, at time.Time) error
	MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error)
}
