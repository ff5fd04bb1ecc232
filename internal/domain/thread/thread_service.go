package thread

import (
	"context"
	"time"

	"loom-server/services/chat-api/internal/domain/query"
	"loom-server/services/chat-api/internal/utils/platformerrors"
	"loom-server/services/chat-api/internal/utils/stringutils"
)

const titleMaxLength = 50

// ProjectUnlinker removes every project chat reference to a thread. Implemented
// by the project service; threads call it when a thread is deleted so no
// project keeps a dangling reference.
type ProjectUnlinker interface {
	RemoveChatEverywhere(ctx context.Context, ownerID, threadID string) (int64, error)
}

// Service handles business logic for threads
type Service struct {
	repo      Repository
	unlinker  ProjectUnlinker
	validator *Validator
}

// NewService creates a new thread service
func NewService(repo Repository, unlinker ProjectUnlinker) *Service {
	return &Service{
		repo:      repo,
		unlinker:  unlinker,
		validator: NewValidator(nil),
	}
}

// ===============================================
// Core Operations
// ===============================================

// UpsertMessage appends a message to the thread, creating the thread on first
// contact with an unseen threadId. The title is derived from the first message.
// Derived fields are recomputed and version bumped on every call.
func (s *Service) UpsertMessage(ctx context.Context, ownerID, threadID string, msg Message) (*Thread, error) {
	if err := s.validator.ValidateThreadID(threadID); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid thread ID", err, "7c1f4a90-2e3b-4d58-9f6a-1b8c5d2e7f03")
	}
	if err := s.validator.ValidateMessage(msg); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid message", err, "3e9b7d21-8f4c-4a6e-b5d0-6c2a9e1f8b47")
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	existing, err := s.repo.FindByThreadID(ctx, threadID)
	if err != nil {
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load thread")
		}

		t := NewThread(threadID, ownerID)
		t.Title = stringutils.GenerateTitle(msg.Content, titleMaxLength)
		t.Messages = append(t.Messages, msg)
		t.Finalize()
		if err := s.repo.Create(ctx, t); err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create thread")
		}
		return t, nil
	}

	if existing.OwnerID != ownerID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "thread not found", nil, "b4d8e2f6-0a1c-4973-8e5b-2f7d9c3a6e18")
	}

	existing.Messages = append(existing.Messages, msg)
	existing.Finalize()
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to append message")
	}

	return existing, nil
}

// EditMessage replaces the content of the message at index, marks it edited and
// drops every later message. The caller re-appends new turns afterwards.
func (s *Service) EditMessage(ctx context.Context, ownerID, threadID string, index int, newContent string) (*Thread, error) {
	t, err := s.GetOwned(ctx, ownerID, threadID)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(t.Messages) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "message index out of range", nil, "f2a6c8d4-5e1b-4037-9c8f-7d3e0b6a2c91")
	}

	if err := s.validator.ValidateMessage(Message{Role: t.Messages[index].Role, Content: newContent}); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid message content", err, "9d5b3f7e-1c4a-4628-a0e9-8b2f6d4c7a35")
	}

	t.Messages = t.Messages[:index+1]
	t.Messages[index].Content = newContent
	t.Messages[index].Edited = true
	t.Messages[index].Timestamp = time.Now().UTC()

	t.Finalize()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to edit message")
	}

	return t, nil
}

// GetOwned retrieves a thread and verifies ownership. Threads owned by someone
// else surface as NotFound rather than Forbidden.
func (s *Service) GetOwned(ctx context.Context, ownerID, threadID string) (*Thread, error) {
	if err := s.validator.ValidateThreadID(threadID); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid thread ID", err, "5a8e1c3b-7f2d-4096-b4a8-3c9e6d0f5b72")
	}

	t, err := s.repo.FindByThreadID(ctx, threadID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "thread not found")
	}

	if t.OwnerID != ownerID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "thread not found", nil, "e7b9d4f1-6a3c-4285-90fd-1e8c5b7a3d64")
	}

	return t, nil
}

// UpdateInput carries the mutable thread properties for PATCH updates.
type UpdateInput struct {
	Title      *string
	IsArchived *bool
	IsPinned   *bool
	Tags       []string
}

// UpdateThread applies title/archive/pin/tag changes.
func (s *Service) UpdateThread(ctx context.Context, ownerID, threadID string, input UpdateInput) (*Thread, error) {
	t, err := s.GetOwned(ctx, ownerID, threadID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if err := s.validator.ValidateTitle(*input.Title); err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid title", err, "c3f7a1e9-4d6b-4850-b2c7-9e0d8f5a1b36")
		}
		t.Title = *input.Title
	}
	if input.IsArchived != nil {
		t.IsArchived = *input.IsArchived
	}
	if input.IsPinned != nil {
		t.IsPinned = *input.IsPinned
	}
	if input.Tags != nil {
		if err := s.validator.ValidateTags(input.Tags); err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid tags", err, "8b2d6f4a-0e9c-47a3-85d1-6f3b9c7e2a50")
		}
		t.Tags = input.Tags
	}

	t.Finalize()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update thread")
	}

	return t, nil
}

// Delete removes a thread permanently and detaches it from every project.
func (s *Service) Delete(ctx context.Context, ownerID, threadID string) error {
	t, err := s.GetOwned(ctx, ownerID, threadID)
	if err != nil {
		return err
	}

	if s.unlinker != nil {
		if _, err := s.unlinker.RemoveChatEverywhere(ctx, ownerID, threadID); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to detach thread from projects")
		}
	}

	if err := s.repo.Delete(ctx, t.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete thread")
	}

	return nil
}

// ListByOwner returns the owner's threads plus a total count.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, pagination *query.Pagination) ([]*Thread, int64, error) {
	filter := Filter{OwnerID: &ownerID}

	threads, err := s.repo.FindByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list threads")
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count threads")
	}

	return threads, total, nil
}

// Search matches threads by title and message content. Title matches rank
// above body-only matches. The total covers every match, not just the
// requested page.
func (s *Service) Search(ctx context.Context, ownerID, text string, pagination *query.Pagination) ([]*Thread, int64, error) {
	threads, total, err := s.repo.Search(ctx, ownerID, text, pagination)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to search threads")
	}
	return threads, total, nil
}

// ReassignOwner bulk-moves every thread from one owner key to another. Used by
// guest-data migration; re-running after success finds zero rows and is not an
// error.
func (s *Service) ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	moved, err := s.repo.ReassignOwner(ctx, oldOwnerID, newOwnerID)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to reassign thread owner")
	}
	return moved, nil
}

// CountUserMessages counts user-role messages across every thread owned by
// ownerID.
func (s *Service) CountUserMessages(ctx context.Context, ownerID string) (int64, error) {
	count, err := s.repo.CountUserMessages(ctx, ownerID)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count user messages")
	}
	return count, nil
}
