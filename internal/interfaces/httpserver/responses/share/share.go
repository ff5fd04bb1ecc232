package share

import (
	"time"

	"loom-server/services/chat-api/internal/domain/share"
	"loom-server/services/chat-api/internal/domain/thread"
)

// ShareResponse is the owner-facing view of a share.
type ShareResponse struct {
	Token        string     `json:"token"`
	URL          string     `json:"url"`
	ThreadID     string     `json:"thread_id"`
	Title        string     `json:"title"`
	MessageCount int        `json:"message_count"`
	ViewCount    int        `json:"view_count"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewShareResponse converts a domain share.
func NewShareResponse(sh *share.Share, baseURL string) *ShareResponse {
	return &ShareResponse{
		Token:        sh.Token,
		URL:          sh.ShareURL(baseURL),
		ThreadID:     sh.ThreadID,
		Title:        sh.Title,
		MessageCount: len(sh.MessagesSnapshot),
		ViewCount:    sh.ViewCount,
		RevokedAt:    sh.RevokedAt,
		CreatedAt:    sh.CreatedAt,
	}
}

// ShareListResponse wraps the caller's shares.
type ShareListResponse struct {
	Object string           `json:"object"`
	Data   []*ShareResponse `json:"data"`
}

// NewShareListResponse converts a list of domain shares.
func NewShareListResponse(shares []*share.Share, baseURL string) *ShareListResponse {
	data := make([]*ShareResponse, 0, len(shares))
	for _, sh := range shares {
		data = append(data, NewShareResponse(sh, baseURL))
	}
	return &ShareListResponse{
		Object: "list",
		Data:   data,
	}
}

// PublicShareResponse is the anonymous view behind a token. It exposes the
// frozen snapshot, never the live thread.
type PublicShareResponse struct {
	Token     string           `json:"token"`
	Title     string           `json:"title"`
	Messages  []thread.Message `json:"messages"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewPublicShareResponse converts a domain share for public consumption.
func NewPublicShareResponse(sh *share.Share) *PublicShareResponse {
	return &PublicShareResponse{
		Token:     sh.Token,
		Title:     sh.Title,
		Messages:  sh.MessagesSnapshot,
		CreatedAt: sh.CreatedAt,
	}
}

// ShareRevokedResponse acknowledges a revocation with the effective timestamp.
type ShareRevokedResponse struct {
	Token     string    `json:"token"`
	RevokedAt time.Time `json:"revoked_at"`
}

// ShareEmailedResponse acknowledges a share email delivery.
type ShareEmailedResponse struct {
	Token     string `json:"token"`
	Recipient string `json:"recipient"`
	Sent      bool   `json:"sent"`
}
