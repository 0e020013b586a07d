// Package auth issues and verifies the bearer tokens that identify staff
// users and client portal contacts.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
)

type ActorKind string

const (
	ActorStaff  ActorKind = "staff"
	ActorClient ActorKind = "client"
)

// Actor is the authenticated caller. For staff UserID is the staff user and
// Role is set. For clients ClientAccessID is the portal access record and
// UserID is its portal login, which may be zero.
type Actor struct {
	Kind           ActorKind
	UserID         uint
	ClientAccessID uint
	Role           user.Role
}

func StaffActor(userID uint, role user.Role) Actor {
	return Actor{Kind: ActorStaff, UserID: userID, Role: role}
}

func ClientActor(accessID, portalUserID uint) Actor {
	return Actor{Kind: ActorClient, ClientAccessID: accessID, UserID: portalUserID}
}

func (a Actor) IsStaff() bool {
	return a.Kind == ActorStaff
}

func (a Actor) IsClient() bool {
	return a.Kind == ActorClient
}

// IsElevated reports whether a staff actor may run administrative operations.
func (a Actor) IsElevated() bool {
	return a.IsStaff() && a.Role.IsElevated()
}

type Claims struct {
	Kind           ActorKind `json:"kind"`
	ClientAccessID uint      `json:"client_access_id,omitempty"`
	PortalUserID   uint      `json:"portal_user_id,omitempty"`
	Role           user.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret           []byte
	issuer           string
	accessExpMinutes int
	clock            biztime.Clock
}

func NewJWTService(secret, issuer string, accessExpMinutes int, clock biztime.Clock) *JWTService {
	if accessExpMinutes <= 0 {
		accessExpMinutes = 60
	}
	return &JWTService{
		secret:           []byte(secret),
		issuer:           issuer,
		accessExpMinutes: accessExpMinutes,
		clock:            clock,
	}
}

// Generate signs an access token for actor. The subject is the staff user ID
// or the client access ID.
func (s *JWTService) Generate(actor Actor) (string, error) {
	now := s.clock.Now()

	claims := &Claims{
		Kind: actor.Kind,
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.accessExpMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	switch actor.Kind {
	case ActorStaff:
		if actor.UserID == 0 || !actor.Role.IsValid() {
			return "", fmt.Errorf("staff token needs a user and a valid role")
		}
		claims.Subject = strconv.FormatUint(uint64(actor.UserID), 10)
	case ActorClient:
		if actor.ClientAccessID == 0 {
			return "", fmt.Errorf("client token needs a client access id")
		}
		claims.Subject = strconv.FormatUint(uint64(actor.ClientAccessID), 10)
		claims.ClientAccessID = actor.ClientAccessID
		claims.PortalUserID = actor.UserID
		claims.Role = ""
	default:
		return "", fmt.Errorf("unknown actor kind: %q", actor.Kind)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// Verify parses tokenString and returns the actor it identifies.
func (s *JWTService) Verify(tokenString string) (Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return Actor{}, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Actor{}, fmt.Errorf("invalid token")
	}

	subject, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || subject == 0 {
		return Actor{}, fmt.Errorf("invalid token subject")
	}

	switch claims.Kind {
	case ActorStaff:
		if !claims.Role.IsValid() {
			return Actor{}, fmt.Errorf("invalid staff role: %q", claims.Role)
		}
		return StaffActor(uint(subject), claims.Role), nil
	case ActorClient:
		return ClientActor(uint(subject), claims.PortalUserID), nil
	default:
		return Actor{}, fmt.Errorf("unknown actor kind: %q", claims.Kind)
	}
}
