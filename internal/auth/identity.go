// Package auth verifies callers and describes who they are. The card core only
// ever sees an Identity; how it was established is this package's business.
package auth

import "slices"

// RoleCardOwner is required to use any /cashcards endpoint.
const RoleCardOwner = "CARD-OWNER"

// Identity is an authenticated caller.
type Identity struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether id carries role.
func HasRole(id *Identity, role string) bool {
	if id == nil {
		return false
	}
	return slices.Contains(id.Roles, role)
}
