package identity_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"loom-server/services/chat-api/internal/domain"
	"loom-server/services/chat-api/internal/domain/identity"
)

type counterFake struct {
	count int64
	err   error
}

func (c *counterFake) CountUserMessages(ctx context.Context, ownerID string) (int64, error) {
	return c.count, c.err
}

func guest() domain.Principal {
	return identity.GuestPrincipal("guest_7b1a6c2e-9f4d-4b83-a5e0-3c8d1f6b2a94")
}

func TestCheckGuestLimit_UnderLimit(t *testing.T) {
	svc := identity.NewService(&counterFake{count: 2}, 3)

	decision := svc.CheckGuestLimit(context.Background(), guest())

	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, decision.Remaining)
}

func TestCheckGuestLimit_AtLimitIsRejected(t *testing.T) {
	svc := identity.NewService(&counterFake{count: 3}, 3)

	decision := svc.CheckGuestLimit(context.Background(), guest())

	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
}

func TestCheckGuestLimit_OverLimitRemainingClampsToZero(t *testing.T) {
	svc := identity.NewService(&counterFake{count: 10}, 3)

	decision := svc.CheckGuestLimit(context.Background(), guest())

	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
}

func TestCheckGuestLimit_CounterFailureFailsOpen(t *testing.T) {
	svc := identity.NewService(&counterFake{err: errors.New("db down")}, 3)

	decision := svc.CheckGuestLimit(context.Background(), guest())

	assert.True(t, decision.Allowed)
	assert.Equal(t, 3, decision.Remaining)
}

func TestCheckGuestLimit_NonGuestIsExempt(t *testing.T) {
	svc := identity.NewService(&counterFake{count: 1000}, 3)

	decision := svc.CheckGuestLimit(context.Background(), domain.Principal{
		ID:         "auth0|someone",
		AuthMethod: domain.AuthMethodJWT,
	})

	assert.True(t, decision.Allowed)
	assert.Equal(t, -1, decision.Remaining)
}

func TestMintGuestID(t *testing.T) {
	id := identity.MintGuestID()

	assert.True(t, strings.HasPrefix(id, domain.GuestIDPrefix))
	assert.True(t, domain.IsGuestID(id))
	assert.NotEqual(t, id, identity.MintGuestID())
}

func TestGuestPrincipal(t *testing.T) {
	p := identity.GuestPrincipal("guest_abc")

	assert.True(t, p.IsGuest())
	assert.Equal(t, "guest_abc", p.ID)
	assert.Equal(t, domain.AuthMethodGuest, p.AuthMethod)
}
