package user

import "strings"

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID   string
	Username string
	Email    string
}

func (p Principal) Valid() bool {
	return strings.TrimSpace(p.UserID) != ""
}
