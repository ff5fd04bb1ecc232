package migration

import (
	"context"

	"github.com/rs/zerolog/log"

	"loom-server/services/chat-api/internal/domain"
)

// OwnerReassigner bulk-moves records between owner keys. Implemented by the
// thread and project services.
type OwnerReassigner interface {
	ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error)
}

// Result reports how many records changed hands.
type Result struct {
	ThreadsMoved  int64 `json:"threads"`
	ProjectsMoved int64 `json:"projects"`
}

// Service reassigns guest-owned data to a freshly authenticated account.
// Migration is best-effort: it never blocks the login flow that triggered it,
// so failures surface as zero counts, not errors.
type Service struct {
	threads  OwnerReassigner
	projects OwnerReassigner
}

// NewService creates a migration service.
func NewService(threads, projects OwnerReassigner) *Service {
	return &Service{
		threads:  threads,
		projects: projects,
	}
}

// Migrate moves every thread and project owned by guestID to userID. The call
// is idempotent: a second run finds zero matching records and reports zero
// counts. A guestID without the guest prefix is a no-op success.
func (s *Service) Migrate(ctx context.Context, guestID, userID string) Result {
	var result Result

	if !domain.IsGuestID(guestID) || userID == "" {
		return result
	}

	threadsMoved, err := s.threads.ReassignOwner(ctx, guestID, userID)
	if err != nil {
		log.Error().Err(err).Str("guest_id", guestID).Str("user_id", userID).Msg("guest thread migration failed")
	} else {
		result.ThreadsMoved = threadsMoved
	}

	projectsMoved, err := s.projects.ReassignOwner(ctx, guestID, userID)
	if err != nil {
		log.Error().Err(err).Str("guest_id", guestID).Str("user_id", userID).Msg("guest project migration failed")
	} else {
		result.ProjectsMoved = projectsMoved
	}

	return result
}
