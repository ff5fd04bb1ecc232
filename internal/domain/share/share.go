package share

import (
	"context"
	"time"

	"loom-server/services/chat-api/internal/domain/query"
	"loom-server/services/chat-api/internal/domain/thread"
)

// ===============================================
// Share Structure
// ===============================================

// Share is an immutable point-in-time transcript snapshot behind an
// unguessable token. The snapshot never reflects later edits to the source
// thread, and RevokedAt is never cleared once set.
type Share struct {
	ID               uint             `json:"-"`
	Token            string           `json:"token"`
	ThreadID         string           `json:"thread_id"`
	OwnerID          string           `json:"-"`
	Title            string           `json:"title"`
	MessagesSnapshot []thread.Message `json:"messages"`
	RevokedAt        *time.Time       `json:"revoked_at,omitempty"`
	ViewCount        int              `json:"view_count"`
	LastViewedAt     *time.Time       `json:"last_viewed_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// IsRevoked returns true if the share has been revoked
func (s *Share) IsRevoked() bool {
	return s.RevokedAt != nil
}

// ShareURL returns the public URL for the share
func (s *Share) ShareURL(baseURL string) string {
	return baseURL + "/v1/public/shares/" + s.Token
}

// ===============================================
// Share Filter and Repository
// ===============================================

type Filter struct {
	Token          *string
	ThreadID       *string
	OwnerID        *string
	IncludeRevoked bool
}

type Repository interface {
	Create(ctx context.Context, share *Share) error
	FindByToken(ctx context.Context, token string) (*Share, error)
	FindByFilter(ctx context.Context, filter Filter, pagination *query.Pagination) ([]*Share, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Update(ctx context.Context, share *Share) error

	// IncrementViewCount bumps the view counter and last-viewed timestamp.
	IncrementViewCount(ctx context.Context, id uint) error

	// Revoke stamps RevokedAt. Repositories never clear the stamp.
	Revoke(ctx context.Context, id uint, revokedAt time.Time) error
}

// ===============================================
// Collaborators
// ===============================================

// Mailer delivers share links by email. Failures are reported to the caller of
// emailShare but never affect an already-created share.
type Mailer interface {
	SendShareEmail(ctx context.Context, recipient, shareURL, title string, snapshot []thread.Message) error
}
