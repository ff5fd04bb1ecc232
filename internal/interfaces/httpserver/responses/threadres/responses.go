package threadres

import (
	"time"

	"loom-server/services/chat-api/internal/domain/thread"
)

// ThreadResponse is the API shape of a thread, messages included.
type ThreadResponse struct {
	ThreadID      string           `json:"thread_id"`
	Title         string           `json:"title"`
	Messages      []thread.Message `json:"messages"`
	ProjectIDs    []string         `json:"project_ids"`
	IsArchived    bool             `json:"is_archived"`
	IsPinned      bool             `json:"is_pinned"`
	Tags          []string         `json:"tags"`
	TokenCount    int              `json:"token_count"`
	Version       int              `json:"version"`
	LastMessageAt time.Time        `json:"last_message_at"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewThreadResponse converts a domain thread.
func NewThreadResponse(t *thread.Thread) *ThreadResponse {
	return &ThreadResponse{
		ThreadID:      t.ThreadID,
		Title:         t.Title,
		Messages:      t.Messages,
		ProjectIDs:    t.ProjectIDs,
		IsArchived:    t.IsArchived,
		IsPinned:      t.IsPinned,
		Tags:          t.Tags,
		TokenCount:    t.TokenCount,
		Version:       t.Version,
		LastMessageAt: t.LastMessageAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// ThreadSummaryResponse is the list view: everything except the message list.
type ThreadSummaryResponse struct {
	ThreadID      string    `json:"thread_id"`
	Title         string    `json:"title"`
	ProjectIDs    []string  `json:"project_ids"`
	IsArchived    bool      `json:"is_archived"`
	IsPinned      bool      `json:"is_pinned"`
	Tags          []string  `json:"tags"`
	MessageCount  int       `json:"message_count"`
	TokenCount    int       `json:"token_count"`
	Version       int       `json:"version"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewThreadSummaryResponse converts a domain thread without its messages.
func NewThreadSummaryResponse(t *thread.Thread) *ThreadSummaryResponse {
	return &ThreadSummaryResponse{
		ThreadID:      t.ThreadID,
		Title:         t.Title,
		ProjectIDs:    t.ProjectIDs,
		IsArchived:    t.IsArchived,
		IsPinned:      t.IsPinned,
		Tags:          t.Tags,
		MessageCount:  len(t.Messages),
		TokenCount:    t.TokenCount,
		Version:       t.Version,
		LastMessageAt: t.LastMessageAt,
		CreatedAt:     t.CreatedAt,
	}
}

// ThreadListResponse wraps a page of thread summaries.
type ThreadListResponse struct {
	Object string                   `json:"object"`
	Data   []*ThreadSummaryResponse `json:"data"`
	Total  int64                    `json:"total"`
}

// NewThreadListResponse converts a list of domain threads.
func NewThreadListResponse(threads []*thread.Thread, total int64) *ThreadListResponse {
	data := make([]*ThreadSummaryResponse, 0, len(threads))
	for _, t := range threads {
		data = append(data, NewThreadSummaryResponse(t))
	}
	return &ThreadListResponse{
		Object: "list",
		Data:   data,
		Total:  total,
	}
}

// ThreadDeletedResponse acknowledges a thread deletion.
type ThreadDeletedResponse struct {
	ThreadID string `json:"thread_id"`
	Deleted  bool   `json:"deleted"`
}
