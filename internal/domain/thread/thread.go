package thread

import (
	"context"
	"time"

	"loom-server/services/chat-api/internal/domain/query"
)

// ===============================================
// Message Types
// ===============================================

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message is a single turn in a thread. Messages are immutable once appended
// except through the edit-and-truncate flow.
type Message struct {
	Role      MessageRole    `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Edited    bool           `json:"edited,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ===============================================
// Thread Structure
// ===============================================

// Thread is one conversation: an ordered message list under a stable,
// caller-supplied identifier. OwnerID is an opaque principal key, either an
// authenticated user id or a "guest_<uuid>" cookie value.
type Thread struct {
	ID            uint      `json:"-"`
	ThreadID      string    `json:"thread_id"`
	OwnerID       string    `json:"-"`
	Title         string    `json:"title"`
	Messages      []Message `json:"messages,omitempty"`
	ProjectIDs    []string  `json:"project_ids,omitempty"`
	IsArchived    bool      `json:"is_archived"`
	IsPinned      bool      `json:"is_pinned"`
	Tags          []string  `json:"tags,omitempty"`
	TokenCount    int       `json:"token_count"`
	Version       int       `json:"version"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewThread creates a thread shell for an unseen threadId.
func NewThread(threadID, ownerID string) *Thread {
	now := time.Now().UTC()
	return &Thread{
		ThreadID:      threadID,
		OwnerID:       ownerID,
		Messages:      []Message{},
		ProjectIDs:    []string{},
		Tags:          []string{},
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Finalize recomputes the derived fields after a message-list mutation and
// bumps the version. Every mutating save goes through here; there are no
// implicit persistence hooks.
func (t *Thread) Finalize() {
	t.TokenCount = 0
	for _, msg := range t.Messages {
		t.TokenCount += EstimateTokens(msg.Content)
	}

	if len(t.Messages) > 0 {
		t.LastMessageAt = t.Messages[len(t.Messages)-1].Timestamp
	} else {
		t.LastMessageAt = t.CreatedAt
	}

	t.Version++
	t.UpdatedAt = time.Now().UTC()
}

// EstimateTokens approximates the token cost of content as ceil(len/4).
func EstimateTokens(content string) int {
	return (len(content) + 3) / 4
}

// HasProject reports whether the thread is linked to the given project.
func (t *Thread) HasProject(projectID string) bool {
	for _, id := range t.ProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}

// AddProject links a project id, ignoring duplicates.
func (t *Thread) AddProject(projectID string) {
	if !t.HasProject(projectID) {
		t.ProjectIDs = append(t.ProjectIDs, projectID)
	}
}

// RemoveProject unlinks a project id if present.
func (t *Thread) RemoveProject(projectID string) {
	kept := t.ProjectIDs[:0]
	for _, id := range t.ProjectIDs {
		if id != projectID {
			kept = append(kept, id)
		}
	}
	t.ProjectIDs = kept
}

// ===============================================
// Thread Repository
// ===============================================

type Filter struct {
	OwnerID    *string
	ThreadID   *string
	IsArchived *bool
	IsPinned   *bool
}

type Repository interface {
	Create(ctx context.Context, t *Thread) error
	FindByThreadID(ctx context.Context, threadID string) (*Thread, error)
	FindByFilter(ctx context.Context, filter Filter, pagination *query.Pagination) ([]*Thread, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Update(ctx context.Context, t *Thread) error
	Delete(ctx context.Context, id uint) error

	// Search matches title and message content case-insensitively; threads
	// whose title matches rank above body-only matches. The returned total is
	// the match count before pagination.
	Search(ctx context.Context, ownerID, text string, pagination *query.Pagination) ([]*Thread, int64, error)

	// ReassignOwner moves every thread owned by oldOwnerID to newOwnerID and
	// returns the number of rows changed. Safe to re-run.
	ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error)

	// CountUserMessages counts user-role messages across all threads owned by
	// ownerID. Used by the guest quota check.
	CountUserMessages(ctx context.Context, ownerID string) (int64, error)

	// DeleteIdleByOwnerPrefix hard-deletes threads whose owner key carries the
	// prefix and whose last activity predates the cutoff. Used by retention.
	DeleteIdleByOwnerPrefix(ctx context.Context, ownerPrefix string, cutoff time.Time) (int64, error)
}
