package share

import (
	"strings"

	"github.com/google/uuid"
)

// TokenLength is the length of a share token: two random UUIDs with hyphens
// stripped, 64 hex characters, ~244 bits of entropy.
const TokenLength = 64

// GenerateToken returns a new unguessable share token.
func GenerateToken() string {
	raw := uuid.NewString() + uuid.NewString()
	return strings.ReplaceAll(raw, "-", "")
}

// ValidateToken checks whether a token has the expected 64-hex format.
func ValidateToken(token string) bool {
	if len(token) != TokenLength {
		return false
	}
	for _, c := range token {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
