package projectreq

// CreateProjectRequest creates a project under a caller-supplied id. The id
// must be unique across all owners.
type CreateProjectRequest struct {
	ID          string `json:"id" binding:"required" example:"proj-research"`
	Name        string `json:"name" binding:"required" example:"Research"`
	Description string `json:"description" example:"Long-running research chats"`
}

// AddChatRequest links a thread into a project. Title defaults to the thread's
// own title. IsShared allows membership in multiple projects.
type AddChatRequest struct {
	ThreadID string `json:"thread_id" binding:"required,threadid"`
	Title    string `json:"title"`
	IsShared bool   `json:"is_shared"`
}

// MoveChatRequest transfers a chat to another project. MakeCopy keeps the
// source membership and adds an independent reference to the target.
type MoveChatRequest struct {
	TargetProjectID string `json:"target_project_id" binding:"required"`
	MakeCopy        bool   `json:"make_copy"`
}
