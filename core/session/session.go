package session

import (
	"time"

	"github.com/trezcool/shule/core/access"
)

// Session is the authenticated identity active for the current client
// process. It is immutable once constructed; changing role means logging in
// again, which replaces the whole Session.
type Session struct {
	UserID          string
	Name            string
	Role            access.Role
	SchoolID        string // empty for system admins, required otherwise
	AuthenticatedAt time.Time
}

// Identity is what the identity collaborator reports on successful
// authentication. Facts only, no decisions.
type Identity struct {
	UserID   string
	Name     string
	Role     access.Role
	SchoolID string
}

// New constructs a Session, enforcing the construction invariants:
// the role must be one of the enumerated values, and the school scope must
// match the role (absent for system admins, present for everyone else).
func New(ident Identity, at time.Time) (Session, error) {
	if !ident.Role.Valid() {
		return Session{}, NewAuthenticationError("unknown role %q reported for user %s", ident.Role, ident.UserID)
	}
	if ident.Role.RequiresSchool() && ident.SchoolID == "" {
		return Session{}, NewAuthenticationError("role %q requires a school, none reported for user %s", ident.Role, ident.UserID)
	}
	if !ident.Role.RequiresSchool() && ident.SchoolID != "" {
		return Session{}, NewAuthenticationError("role %q is not school-scoped, school %s reported for user %s", ident.Role, ident.SchoolID, ident.UserID)
	}
	return Session{
		UserID:          ident.UserID,
		Name:            ident.Name,
		Role:            ident.Role,
		SchoolID:        ident.SchoolID,
		AuthenticatedAt: at.UTC(),
	}, nil
}
