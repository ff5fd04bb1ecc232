package threadreq

// UpdateThreadRequest carries partial thread updates. Nil fields are left
// untouched; a non-nil Tags slice replaces the tag list wholesale.
type UpdateThreadRequest struct {
	Title      *string  `json:"title"`
	IsArchived *bool    `json:"is_archived"`
	IsPinned   *bool    `json:"is_pinned"`
	Tags       []string `json:"tags"`
}

// EditMessageRequest rewrites the message at a given index. Every later
// message in the thread is dropped.
type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
