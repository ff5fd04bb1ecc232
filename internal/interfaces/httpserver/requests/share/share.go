package share

// CreateShareRequest snapshots a thread behind a public token.
type CreateShareRequest struct {
	ThreadID string `json:"thread_id" binding:"required,threadid"`
}

// EmailShareRequest sends an existing share link to a recipient.
type EmailShareRequest struct {
	Recipient string `json:"recipient" binding:"required,email"`
}
