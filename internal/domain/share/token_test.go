package share_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loom-server/services/chat-api/internal/domain/share"
)

func TestGenerateToken(t *testing.T) {
	token := share.GenerateToken()

	assert.Len(t, token, share.TokenLength)
	assert.True(t, share.ValidateToken(token))
	assert.NotEqual(t, token, share.GenerateToken())
}

func TestValidateToken(t *testing.T) {
	valid := share.GenerateToken()

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"generated token", valid, true},
		{"empty", "", false},
		{"too short", valid[:63], false},
		{"too long", valid + "0", false},
		{"uppercase hex", "ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789", false},
		{"non-hex characters", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", false},
		{"hyphens not stripped", valid[:60] + "-ab1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, share.ValidateToken(tt.token))
		})
	}
}
