package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"loom-server/services/chat-api/internal/domain"
	"loom-server/services/chat-api/internal/domain/identity"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// fallbackAssistantText is persisted as the assistant turn when the completion
// provider fails. The user's own message is never rolled back.
const fallbackAssistantText = "Something went wrong while generating a response. Please try again."

// Gateway generates an assistant reply for a conversation history. The call is
// bounded by the implementation's timeout; deadline failures carry the timeout
// error type so handlers can map them to 504.
type Gateway interface {
	Complete(ctx context.Context, messages []thread.Message) (string, error)
}

// Service runs one chat turn: quota gate, persist the user message, call the
// completion provider, persist the assistant reply.
type Service struct {
	threads  *thread.Service
	identity *identity.Service
	gateway  Gateway
}

// NewService creates a chat service.
func NewService(threads *thread.Service, identitySvc *identity.Service, gateway Gateway) *Service {
	return &Service{
		threads:  threads,
		identity: identitySvc,
		gateway:  gateway,
	}
}

// TurnResult is the outcome of a successful chat turn.
type TurnResult struct {
	Thread    *thread.Thread
	Reply     string
	Remaining int
}

// SendMessage executes a chat turn for the principal. A guest over quota is
// rejected before any thread mutation and before the provider is contacted.
// When the provider fails, the already-persisted user message stays and a
// fallback assistant message is appended, then the provider error propagates.
func (s *Service) SendMessage(ctx context.Context, p domain.Principal, threadID, content string) (*TurnResult, error) {
	decision := s.identity.CheckGuestLimit(ctx, p)
	if !decision.Allowed {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeQuotaExceeded,
			"guest message limit reached, sign in to continue",
			nil,
			"a3e5c7d9-1b2f-4a6c-8e0d-3f5a7b9c1d2e",
		)
	}

	t, err := s.threads.UpsertMessage(ctx, p.ID, threadID, thread.Message{
		Role:      thread.RoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	reply, gatewayErr := s.gateway.Complete(ctx, t.Messages)
	if gatewayErr != nil {
		log.Error().Err(gatewayErr).Str("thread_id", threadID).Msg("completion provider failed")

		if _, appendErr := s.threads.UpsertMessage(ctx, p.ID, threadID, thread.Message{
			Role:      thread.RoleAssistant,
			Content:   fallbackAssistantText,
			Timestamp: time.Now().UTC(),
		}); appendErr != nil {
			log.Error().Err(appendErr).Str("thread_id", threadID).Msg("failed to persist fallback assistant message")
		}

		return nil, gatewayErr
	}

	t, err = s.threads.UpsertMessage(ctx, p.ID, threadID, thread.Message{
		Role:      thread.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	remaining := decision.Remaining
	if p.IsGuest() && remaining > 0 {
		remaining--
	}

	return &TurnResult{
		Thread:    t,
		Reply:     reply,
		Remaining: remaining,
	}, nil
}
