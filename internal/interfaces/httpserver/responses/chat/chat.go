package chat

import (
	domainchat "loom-server/services/chat-api/internal/domain/chat"
)

// SendMessageResponse is the outcome of a chat turn.
type SendMessageResponse struct {
	Reply      string `json:"reply"`
	ThreadID   string `json:"thread_id"`
	Title      string `json:"title"`
	TokenCount int    `json:"token_count"`
	Version    int    `json:"version"`

	// RemainingGuestMessages is only set for guest principals.
	RemainingGuestMessages *int `json:"remaining_guest_messages,omitempty"`
}

// NewSendMessageResponse builds the response from a turn result.
func NewSendMessageResponse(result *domainchat.TurnResult, isGuest bool) *SendMessageResponse {
	resp := &SendMessageResponse{
		Reply:      result.Reply,
		ThreadID:   result.Thread.ThreadID,
		Title:      result.Thread.Title,
		TokenCount: result.Thread.TokenCount,
		Version:    result.Thread.Version,
	}
	if isGuest {
		remaining := result.Remaining
		resp.RemainingGuestMessages = &remaining
	}
	return resp
}
