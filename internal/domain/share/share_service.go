package share

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

const (
	// DefaultUntitledTitle is the fallback title for snapshots
	DefaultUntitledTitle = "Untitled Conversation"
)

// Service handles business logic for transcript shares
type Service struct {
	repo       Repository
	threadRepo thread.Repository
	mailer     Mailer
	baseURL    string
}

// NewService creates a new share service
func NewService(repo Repository, threadRepo thread.Repository, mailer Mailer, baseURL string) *Service {
	return &Service{
		repo:       repo,
		threadRepo: threadRepo,
		mailer:     mailer,
		baseURL:    baseURL,
	}
}

// CreateShareOutput contains the result of creating a share
type CreateShareOutput struct {
	Share    *Share
	ShareURL string
}

// CreateShare snapshots the thread's current messages behind a fresh token.
// The snapshot is a deep copy; later edits to the live thread never reach it.
func (s *Service) CreateShare(ctx context.Context, ownerID, threadID string) (*CreateShareOutput, error) {
	t, err := s.threadRepo.FindByThreadID(ctx, threadID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "thread not found")
	}

	if t.OwnerID != ownerID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"thread not found", nil, "6d9f2b4a-1e7c-4538-80b6-3a5c8e2f9d41")
	}

	title := t.Title
	if title == "" {
		title = DefaultUntitledTitle
	}

	now := time.Now().UTC()
	sh := &Share{
		Token:            GenerateToken(),
		ThreadID:         threadID,
		OwnerID:          ownerID,
		Title:            title,
		MessagesSnapshot: snapshotMessages(t.Messages),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, sh); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create share")
	}

	return &CreateShareOutput{
		Share:    sh,
		ShareURL: sh.ShareURL(s.baseURL),
	}, nil
}

// GetByToken retrieves a share publicly. No ownership check; possession of the
// token is the access model. Revoked shares surface as Gone, unknown tokens as
// NotFound.
func (s *Service) GetByToken(ctx context.Context, token string) (*Share, error) {
	if !ValidateToken(token) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"share not found", nil, "9a3e7c1d-5f8b-4264-b0d9-7e2a4c6f8b15")
	}

	sh, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "share not found")
	}

	if sh.IsRevoked() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeGone,
			"this share has been revoked", nil, "2e8b4d6f-9c1a-4750-a3e8-5b7d9f2c4a63")
	}

	// Increment view count asynchronously (fire and forget)
	go func() {
		bgCtx := context.Background()
		if err := s.repo.IncrementViewCount(bgCtx, sh.ID); err != nil {
			log.Warn().Err(err).Str("token", token).Msg("failed to increment share view count")
		}
	}()

	return sh, nil
}

// ListByOwner lists the caller's shares, optionally including revoked ones.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, includeRevoked bool) ([]*Share, error) {
	filter := Filter{
		OwnerID:        &ownerID,
		IncludeRevoked: includeRevoked,
	}

	shares, err := s.repo.FindByFilter(ctx, filter, nil)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list shares")
	}

	return shares, nil
}

// Revoke stamps RevokedAt on an owned share. Revoking twice returns the
// original timestamp without error.
func (s *Service) Revoke(ctx context.Context, ownerID, token string) (time.Time, error) {
	sh, err := s.ownedShare(ctx, ownerID, token)
	if err != nil {
		return time.Time{}, err
	}

	if sh.IsRevoked() {
		return *sh.RevokedAt, nil
	}

	revokedAt := time.Now().UTC()
	if err := s.repo.Revoke(ctx, sh.ID, revokedAt); err != nil {
		return time.Time{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to revoke share")
	}

	return revokedAt, nil
}

// EmailShare sends the share link to a recipient. NotFound/Gone follow the
// same rules as GetByToken; the token is never regenerated per email.
func (s *Service) EmailShare(ctx context.Context, ownerID, token, recipient string) error {
	sh, err := s.ownedShare(ctx, ownerID, token)
	if err != nil {
		return err
	}

	if sh.IsRevoked() {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeGone,
			"this share has been revoked", nil, "4c7f1a9e-3b6d-4582-90c4-8e1f5d3b7a26")
	}

	if err := s.mailer.SendShareEmail(ctx, recipient, sh.ShareURL(s.baseURL), sh.Title, sh.MessagesSnapshot); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"failed to send share email", err, "b1e6d8f3-7a4c-4029-85b1-9f3e6c2d5a74")
	}

	return nil
}

// Helper methods

func (s *Service) ownedShare(ctx context.Context, ownerID, token string) (*Share, error) {
	if !ValidateToken(token) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"share not found", nil, "8f2c5b9d-1a7e-4396-b2f8-4d6a9c1e3b58")
	}

	sh, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "share not found")
	}

	if sh.OwnerID != ownerID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"share not found", nil, "0d5a8e2c-6f3b-4817-94d0-2b9e7c4f1a36")
	}

	return sh, nil
}

// snapshotMessages deep-copies a message list, including metadata maps.
func snapshotMessages(messages []thread.Message) []thread.Message {
	snapshot := make([]thread.Message, len(messages))
	for i, msg := range messages {
		snapshot[i] = msg
		if msg.Metadata != nil {
			meta := make(map[string]any, len(msg.Metadata))
			for k, v := range msg.Metadata {
				meta[k] = v
			}
			snapshot[i].Metadata = meta
		}
	}
	return snapshot
}
