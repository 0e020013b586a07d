// Package client models a client's portal access: who to write to about
// their tickets and how their support time is billed.
package client

import (
	"context"
	"fmt"
)

// Tier decides whether logged support time counts against purchased hours.
type Tier string

const (
	TierStandard Tier = "STANDARD"
	TierMetered  Tier = "METERED"
)

func (t Tier) IsValid() bool {
	return t == TierStandard || t == TierMetered
}

type Access struct {
	id               uint
	clientID         uint
	contactName      string
	email            string
	tier             Tier
	active           bool
	supportHoursUsed float64
	portalUserID     *uint
}

func ReconstructAccess(
	id, clientID uint,
	contactName, email string,
	tier Tier,
	active bool,
	supportHoursUsed float64,
	portalUserID *uint,
) (*Access, error) {
	if id == 0 {
		return nil, fmt.Errorf("client access ID cannot be zero")
	}
	if !tier.IsValid() {
		return nil, fmt.Errorf("invalid tier: %s", tier)
	}
	return &Access{
		id:               id,
		clientID:         clientID,
		contactName:      contactName,
		email:            email,
		tier:             tier,
		active:           active,
		supportHoursUsed: supportHoursUsed,
		portalUserID:     portalUserID,
	}, nil
}

func (a *Access) ID() uint {
	return a.id
}

func (a *Access) ClientID() uint {
	return a.clientID
}

func (a *Access) ContactName() string {
	return a.contactName
}

func (a *Access) Email() string {
	return a.email
}

func (a *Access) Tier() Tier {
	return a.tier
}

func (a *Access) IsActive() bool {
	return a.active
}

func (a *Access) IsMetered() bool {
	return a.tier == TierMetered
}

func (a *Access) SupportHoursUsed() float64 {
	return a.supportHoursUsed
}

// PortalUserID is the in-app account of the client contact, if any.
func (a *Access) PortalUserID() *uint {
	return a.portalUserID
}

// MinutesToHours converts logged minutes to billable hours.
func MinutesToHours(minutes int) float64 {
	return float64(minutes) / 60
}

type AccessRepository interface {
	GetByID(ctx context.Context, id uint) (*Access, error)
	GetByClientID(ctx context.Context, clientID uint) (*Access, error)
	// AddSupportHours increments supportHoursUsed in a single statement.
	AddSupportHours(ctx context.Context, id uint, hours float64) error
}
