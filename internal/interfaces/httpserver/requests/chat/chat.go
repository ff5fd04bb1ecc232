package chat

// SendMessageRequest is the body for a chat turn. ThreadID is caller-supplied
// and stable; an unseen value creates the thread.
type SendMessageRequest struct {
	ThreadID string `json:"thread_id" binding:"required,threadid" example:"thread-8f2e"`
	Message  string `json:"message" binding:"required" example:"Explain goroutines"`
}
