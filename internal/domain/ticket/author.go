package ticket

import "fmt"

// AuthorKind tells which side of the conversation wrote a message.
type AuthorKind string

const (
	AuthorStaff  AuthorKind = "staff"
	AuthorClient AuthorKind = "client"
)

// Author is either a staff user or a client access, never both. The zero
// value is invalid; build one with StaffAuthor or ClientAuthor.
type Author struct {
	kind AuthorKind
	id   uint
}

func StaffAuthor(userID uint) Author {
	return Author{kind: AuthorStaff, id: userID}
}

func ClientAuthor(clientAccessID uint) Author {
	return Author{kind: AuthorClient, id: clientAccessID}
}

func (a Author) Kind() AuthorKind {
	return a.kind
}

func (a Author) IsStaff() bool {
	return a.kind == AuthorStaff
}

func (a Author) IsClient() bool {
	return a.kind == AuthorClient
}

// StaffUserID returns the user id when the author is staff.
func (a Author) StaffUserID() (uint, bool) {
	return a.id, a.kind == AuthorStaff
}

// ClientAccessID returns the client access id when the author is a client.
func (a Author) ClientAccessID() (uint, bool) {
	return a.id, a.kind == AuthorClient
}

func (a Author) Validate() error {
	if a.kind != AuthorStaff && a.kind != AuthorClient {
		return fmt.Errorf("message author is required")
	}
	if a.id == 0 {
		return fmt.Errorf("%s author id cannot be zero", a.kind)
	}
	return nil
}

func (a Author) String() string {
	return fmt.Sprintf("%s:%d", a.kind, a.id)
}

// AuthorFromColumns rebuilds an Author from the two nullable foreign keys a
// message row stores. Exactly one must be set.
func AuthorFromColumns(userID, clientAccessID *uint) (Author, error) {
	switch {
	case userID != nil && clientAccessID == nil:
		return StaffAuthor(*userID), nil
	case clientAccessID != nil && userID == nil:
		return ClientAuthor(*clientAccessID), nil
	default:
		return Author{}, fmt.Errorf("message must have exactly one author")
	}
}

// Columns is the inverse of AuthorFromColumns.
func (a Author) Columns() (userID, clientAccessID *uint) {
	id := a.id
	if a.kind == AuthorStaff {
		return &id, nil
	}
	return nil, &id
}
