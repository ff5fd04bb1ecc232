package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"loom-server/services/chat-api/internal/domain"
)

// UserMessageCounter counts user-role messages across every thread an owner
// key holds. Implemented by the thread repository.
type UserMessageCounter interface {
	CountUserMessages(ctx context.Context, ownerID string) (int64, error)
}

// QuotaDecision is the outcome of a guest quota check. Remaining is -1 for
// principals the quota does not apply to.
type QuotaDecision struct {
	Allowed   bool
	Remaining int
}

// Service resolves guest identity and enforces the guest prompt quota.
type Service struct {
	counter UserMessageCounter
	limit   int
}

// NewService creates an identity service with the configured lifetime guest
// prompt limit.
func NewService(counter UserMessageCounter, limit int) *Service {
	return &Service{
		counter: counter,
		limit:   limit,
	}
}

// MintGuestID returns a fresh guest owner key.
func MintGuestID() string {
	return domain.GuestIDPrefix + uuid.NewString()
}

// GuestPrincipal builds a guest principal from a cookie-held guest id.
func GuestPrincipal(guestID string) domain.Principal {
	return domain.Principal{
		ID:         guestID,
		AuthMethod: domain.AuthMethodGuest,
	}
}

// CheckGuestLimit counts the guest's lifetime user-role messages against the
// limit. The count is recomputed on every check rather than cached. Any error
// while counting is logged and treated as allowed: availability over
// strictness, deliberately.
func (s *Service) CheckGuestLimit(ctx context.Context, p domain.Principal) QuotaDecision {
	if !p.IsGuest() {
		return QuotaDecision{Allowed: true, Remaining: -1}
	}

	count, err := s.counter.CountUserMessages(ctx, p.ID)
	if err != nil {
		log.Warn().Err(err).Str("guest_id", p.ID).Msg("guest quota check failed, allowing request")
		return QuotaDecision{Allowed: true, Remaining: s.limit}
	}

	remaining := s.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return QuotaDecision{
		Allowed:   int(count) < s.limit,
		Remaining: remaining,
	}
}

// Limit returns the configured guest prompt limit.
func (s *Service) Limit() int {
	return s.limit
}
