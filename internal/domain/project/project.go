package project

import (
	"context"
	"time"

	"loom-server/services/chat-api/internal/domain/query"
)

// ===============================================
// Project Types
// ===============================================

// ChatRef is a project's reference to a thread. Titles are per-membership so a
// copied chat can be renamed independently of other memberships.
type ChatRef struct {
	ThreadID     string    `json:"thread_id"`
	Title        string    `json:"title"`
	IsShared     bool      `json:"is_shared"`
	LastModified time.Time `json:"last_modified"`
}

// Project groups threads under a caller-supplied unique id. IsActive is the
// soft-delete flag; hard deletion is explicit and permanent.
type Project struct {
	ID          uint      `json:"-"`
	ProjectID   string    `json:"id"`
	OwnerID     string    `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Chats       []ChatRef `json:"chats"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChatIndex returns the position of threadID in Chats, or -1.
func (p *Project) ChatIndex(threadID string) int {
	for i, ref := range p.Chats {
		if ref.ThreadID == threadID {
			return i
		}
	}
	return -1
}

// RemoveChatRef drops the reference to threadID if present and reports whether
// a reference was removed.
func (p *Project) RemoveChatRef(threadID string) bool {
	idx := p.ChatIndex(threadID)
	if idx < 0 {
		return false
	}
	p.Chats = append(p.Chats[:idx], p.Chats[idx+1:]...)
	return true
}

// ===============================================
// Project Repository
// ===============================================

type Filter struct {
	OwnerID         *string
	ProjectID       *string
	IncludeInactive bool
}

type Repository interface {
	Create(ctx context.Context, proj *Project) error

	// GetByProjectID looks a project up across all owners. Used for the
	// global id-uniqueness check on create.
	GetByProjectID(ctx context.Context, projectID string) (*Project, error)

	ListByOwner(ctx context.Context, ownerID string, pagination *query.Pagination) ([]*Project, int64, error)
	Update(ctx context.Context, proj *Project) error
	HardDelete(ctx context.Context, projectID string) error

	// FindWithChat returns every project holding a reference to threadID.
	FindWithChat(ctx context.Context, threadID string) ([]*Project, error)

	// ReassignOwner moves every project owned by oldOwnerID to newOwnerID and
	// returns the number of rows changed. Safe to re-run.
	ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error)

	// DeleteIdleByOwnerPrefix hard-deletes projects whose owner key carries
	// the prefix and whose last update predates the cutoff.
	DeleteIdleByOwnerPrefix(ctx context.Context, ownerPrefix string, cutoff time.Time) (int64, error)
}

// ===============================================
// Project Factory
// ===============================================

// NewProject creates an active project with no chats.
func NewProject(projectID, ownerID, name, description string) *Project {
	now := time.Now().UTC()

	return &Project{
		ProjectID:   projectID,
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Chats:       []ChatRef{},
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
