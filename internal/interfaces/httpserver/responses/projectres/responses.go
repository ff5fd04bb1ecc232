package projectres

import (
	"time"

	"loom-server/services/chat-api/internal/domain/project"
)

// ChatRefResponse is one project-to-thread reference.
type ChatRefResponse struct {
	ThreadID     string    `json:"thread_id"`
	Title        string    `json:"title"`
	IsShared     bool      `json:"is_shared"`
	LastModified time.Time `json:"last_modified"`
}

// ProjectResponse is the API shape of a project.
type ProjectResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Chats       []ChatRefResponse `json:"chats"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewProjectResponse converts a domain project.
func NewProjectResponse(proj *project.Project) *ProjectResponse {
	chats := make([]ChatRefResponse, 0, len(proj.Chats))
	for _, ref := range proj.Chats {
		chats = append(chats, ChatRefResponse{
			ThreadID:     ref.ThreadID,
			Title:        ref.Title,
			IsShared:     ref.IsShared,
			LastModified: ref.LastModified,
		})
	}
	return &ProjectResponse{
		ID:          proj.ProjectID,
		Name:        proj.Name,
		Description: proj.Description,
		Chats:       chats,
		IsActive:    proj.IsActive,
		CreatedAt:   proj.CreatedAt,
		UpdatedAt:   proj.UpdatedAt,
	}
}

// ProjectListResponse wraps a page of projects.
type ProjectListResponse struct {
	Object string             `json:"object"`
	Data   []*ProjectResponse `json:"data"`
	Total  int64              `json:"total"`
}

// NewProjectListResponse converts a list of domain projects.
func NewProjectListResponse(projects []*project.Project, total int64) *ProjectListResponse {
	data := make([]*ProjectResponse, 0, len(projects))
	for _, proj := range projects {
		data = append(data, NewProjectResponse(proj))
	}
	return &ProjectListResponse{
		Object: "list",
		Data:   data,
		Total:  total,
	}
}

// ProjectDeletedResponse acknowledges a delete.
type ProjectDeletedResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
	Hard    bool   `json:"hard"`
}

// ChatRemovedResponse acknowledges a chat removal.
type ChatRemovedResponse struct {
	ProjectID string `json:"project_id"`
	ThreadID  string `json:"thread_id"`
	Removed   bool   `json:"removed"`
}
