package notification

import (
	"context"
	"time"

	"github.com/corvid-crm/corvid/internal/shared/errors"
)

// Toggles holds one switch per event kind for a single channel.
type Toggles struct {
	EventReminder bool
	EventAssigned bool
	TaskAssigned  bool
	TaskDueSoon   bool
	TaskOverdue   bool
	TicketReply   bool
}

func allOn() Toggles {
	return Toggles{
		EventReminder: true,
		EventAssigned: true,
		TaskAssigned:  true,
		TaskDueSoon:   true,
		TaskOverdue:   true,
		TicketReply:   true,
	}
}

// For returns the toggle for t. Types without a dedicated toggle are allowed.
func (tg Toggles) For(t Type) bool {
	switch t {
	case TypeEventReminder:
		return tg.EventReminder
	case TypeEventAssigned:
		return tg.EventAssigned
	case TypeTaskAssigned:
		return tg.TaskAssigned
	case TypeTaskDueSoon:
		return tg.TaskDueSoon
	case TypeTaskOverdue:
		return tg.TaskOverdue
	case TypeTicketReply:
		return tg.TicketReply
	default:
		return true
	}
}

// Preference is a user's channel settings. A user without a stored row is
// treated exactly like DefaultPreference: everything enabled.
type Preference struct {
	userID      uint
	emailOn     bool
	browserOn   bool
	inAppCenter bool
	email       Toggles
	browser     Toggles
	updatedAt   time.Time
}

func DefaultPreference(userID uint) *Preference {
	return &Preference{
		userID:      userID,
		emailOn:     true,
		browserOn:   true,
		inAppCenter: true,
		email:       allOn(),
		browser:     allOn(),
	}
}

func ReconstructPreference(userID uint, emailOn, browserOn, inAppCenter bool, email, browser Toggles, updatedAt time.Time) *Preference {
	return &Preference{
		userID:      userID,
		emailOn:     emailOn,
		browserOn:   browserOn,
		inAppCenter: inAppCenter,
		email:       email,
		browser:     browser,
		updatedAt:   updatedAt,
	}
}

func (p *Preference) UserID() uint {
	return p.userID
}

func (p *Preference) EmailEnabled() bool {
	return p.emailOn
}

func (p *Preference) BrowserEnabled() bool {
	return p.browserOn
}

func (p *Preference) InAppCenterEnabled() bool {
	return p.inAppCenter
}

func (p *Preference) Email() Toggles {
	return p.email
}

func (p *Preference) Browser() Toggles {
	return p.browser
}

func (p *Preference) UpdatedAt() time.Time {
	return p.updatedAt
}

// Allows reports whether t may be delivered on channel. Both the channel
// master and the per-kind toggle must be on. The in-app center master
// additionally gates browser delivery of ticket replies.
func (p *Preference) Allows(channel errors.Channel, t Type) bool {
	switch channel {
	case errors.ChannelEmail:
		return p.emailOn && p.email.For(t)
	case errors.ChannelBrowser:
		if t == TypeTicketReply && !p.inAppCenter {
			return false
		}
		return p.browserOn && p.browser.For(t)
	default:
		return false
	}
}

// Patch is a partial preference update; nil fields are left unchanged.
type Patch struct {
	EmailEnabled       *bool
	BrowserEnabled     *bool
	InAppCenterEnabled *bool
	Email              TogglesPatch
	Browser            TogglesPatch
}

type TogglesPatch struct {
	EventReminder *bool
	EventAssigned *bool
	TaskAssigned  *bool
	TaskDueSoon   *bool
	TaskOverdue   *bool
	TicketReply   *bool
}

func (tp TogglesPatch) apply(tg *Toggles) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&tg.EventReminder, tp.EventReminder)
	set(&tg.EventAssigned, tp.EventAssigned)
	set(&tg.TaskAssigned, tp.TaskAssigned)
	set(&tg.TaskDueSoon, tp.TaskDueSoon)
	set(&tg.TaskOverdue, tp.TaskOverdue)
	set(&tg.TicketReply, tp.TicketReply)
}

func (p *Preference) Apply(patch Patch, now time.Time) {
	if patch.EmailEnabled != nil {
		p.emailOn = *patch.EmailEnabled
	}
	if patch.BrowserEnabled != nil {
		p.browserOn = *patch.BrowserEnabled
	}
	if patch.InAppCenterEnabled != nil {
		p.inAppCenter = *patch.InAppCenterEnabled
	}
	patch.Email.apply(&p.email)
	patch.Browser.apply(&p.browser)
	p.updatedAt = now
}

type PreferenceRepository interface {
	// Get returns nil without error when the user has no stored row.
	Get(ctx context.Context, userID uint) (*Preference, error)
	Save(ctx context.Context, p *Preference) error
}

// LoadPreference returns the stored preference of userID or, when none is
// stored, DefaultPreference. The default is not persisted.
func LoadPreference(ctx context.Context, repo PreferenceRepository, userID uint) (*Preference, error) {
	p, err := repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return DefaultPreference(userID), nil
	}
	return p, nil
}
