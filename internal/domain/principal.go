package domain

import "strings"

// GuestIDPrefix marks owner keys minted for anonymous browser sessions.
const GuestIDPrefix = "guest_"

// AuthMethod describes how a caller authenticated with the API.
type AuthMethod string

const (
	AuthMethodJWT   AuthMethod = "jwt"
	AuthMethodGuest AuthMethod = "guest"
)

// Principal captures normalized caller identity independent of auth mechanism.
// ID is the owner key used across threads, projects and shares: the JWT
// subject for authenticated users, or a "guest_<uuid>" cookie value.
type Principal struct {
	ID         string
	AuthMethod AuthMethod
	Subject    string
	Issuer     string
	Email      string
	Name       string
}

// IsGuest reports whether the principal is an anonymous guest session.
func (p Principal) IsGuest() bool {
	return p.AuthMethod == AuthMethodGuest || IsGuestID(p.ID)
}

// IsGuestID reports whether an owner key was minted for a guest session.
func IsGuestID(id string) bool {
	return strings.HasPrefix(id, GuestIDPrefix)
}
