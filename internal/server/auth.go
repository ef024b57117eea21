package server

import (
	"errors"
)

// principal is the authenticated caller, threaded explicitly through
// every operation that needs it. There is no ambient request user.
type principal struct {
	UserID   string
	Email    string
	Username string
	IsAdmin  bool
}

var errNoSession = errors.New("no valid session")

// Capability checks are pure functions of the principal and the owning
// entity, evaluated once per operation.

func canManageLocations(p principal) bool {
	return p.IsAdmin
}

func canModifyScenario(p principal, authorID *string) bool {
	return p.IsAdmin || (authorID != nil && *authorID == p.UserID)
}

func canAccessGame(p principal, ownerID string) bool {
	return p.IsAdmin || ownerID == p.UserID
}
