package project

import (
	"context"
	"time"

	"loom-server/services/chat-api/internal/domain/query"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// RemoveAllProjects is the sentinel project id for removeChat across every
// project the owner has.
const RemoveAllProjects = "ALL"

// Service handles business logic for projects
type Service struct {
	repo       Repository
	threadRepo thread.Repository
	validator  *Validator
}

// NewService creates a new project service
func NewService(repo Repository, threadRepo thread.Repository) *Service {
	return &Service{
		repo:       repo,
		threadRepo: threadRepo,
		validator:  NewValidator(nil),
	}
}

// ===============================================
// Core CRUD Operations
// ===============================================

// Create creates a project. The caller-supplied id must be unique across all
// owners, not just the caller's.
func (s *Service) Create(ctx context.Context, ownerID, projectID, name, description string) (*Project, error) {
	if err := s.validator.ValidateProjectID(projectID); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid project ID", err, "d1e5b9c3-7a2f-4684-90b5-3f8d6c1e4a27")
	}
	if err := s.validator.ValidateName(name); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid project name", err, "6f3a8d2e-1b5c-4907-a4e6-8c2d9f5b3a71")
	}
	if err := s.validator.ValidateDescription(description); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid project description", err, "2c7e4b9f-8d1a-4356-b0c8-5e9f3a7d2b64")
	}

	existing, err := s.repo.GetByProjectID(ctx, projectID)
	if err != nil && !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to check project ID")
	}
	if existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "project ID already exists", nil, "a9d4f7b2-3e6c-4810-95af-7b1e8d4c6f39")
	}

	proj := NewProject(projectID, ownerID, name, description)
	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create project")
	}

	return proj, nil
}

// GetOwned retrieves an active project and verifies ownership. Projects owned
// by someone else or soft-deleted surface as NotFound.
func (s *Service) GetOwned(ctx context.Context, ownerID, projectID string) (*Project, error) {
	if err := s.validator.ValidateProjectID(projectID); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid project ID", err, "4b8f2d6a-9c3e-4175-80d2-6a4f7e1b9c53")
	}

	proj, err := s.repo.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "project not found")
	}

	if proj.OwnerID != ownerID || !proj.IsActive {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "project not found", nil, "e3c6a9d1-5f8b-4420-b7e3-9d2c5a8f1b46")
	}

	return proj, nil
}

// ListByOwner returns the owner's active projects plus a total count.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, pagination *query.Pagination) ([]*Project, int64, error) {
	projects, total, err := s.repo.ListByOwner(ctx, ownerID, pagination)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list projects")
	}
	return projects, total, nil
}

// Delete soft-deletes by default. Hard deletion is permanent and detaches the
// project from every member thread's project set first.
func (s *Service) Delete(ctx context.Context, ownerID, projectID string, hard bool) error {
	proj, err := s.GetOwned(ctx, ownerID, projectID)
	if err != nil {
		return err
	}

	if !hard {
		proj.IsActive = false
		proj.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, proj); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to soft-delete project")
		}
		return nil
	}

	for _, ref := range proj.Chats {
		if err := s.detachThread(ctx, ref.ThreadID, projectID); err != nil {
			return err
		}
	}

	if err := s.repo.HardDelete(ctx, projectID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to hard-delete project")
	}

	return nil
}

// ===============================================
// Chat Membership Operations
// ===============================================

// AddChat links a thread into a project. Re-adding a chat to the same project
// is an idempotent upsert of its title/shared flag. Adding a thread that
// already belongs to another project with isShared=false is a conflict unless
// the caller passes isShared=true.
func (s *Service) AddChat(ctx context.Context, ownerID, projectID, threadID, title string, isShared bool) (*Project, error) {
	proj, err := s.GetOwned(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	t, err := s.ownedThread(ctx, ownerID, threadID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateChatTitle(title); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid chat title", err, "8e1b5c9f-2d7a-4346-a9f1-4c6e8b3d5a92")
	}
	if title == "" {
		title = t.Title
	}

	now := time.Now().UTC()

	// Same-project re-add updates the existing reference in place.
	if idx := proj.ChatIndex(threadID); idx >= 0 {
		proj.Chats[idx].Title = title
		proj.Chats[idx].IsShared = isShared
		proj.Chats[idx].LastModified = now
		proj.UpdatedAt = now
		if err := s.repo.Update(ctx, proj); err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update chat reference")
		}
		return proj, nil
	}

	if !isShared {
		if err := s.checkExclusiveMembership(ctx, projectID, threadID); err != nil {
			return nil, err
		}
	}

	proj.Chats = append(proj.Chats, ChatRef{
		ThreadID:     threadID,
		Title:        title,
		IsShared:     isShared,
		LastModified: now,
	})
	proj.UpdatedAt = now

	if err := s.repo.Update(ctx, proj); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to add chat to project")
	}

	t.AddProject(projectID)
	if err := s.threadRepo.Update(ctx, t); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to link project on thread")
	}

	return proj, nil
}

// MoveChat transfers a chat between two projects of the same owner. With
// makeCopy the source membership is retained and the target gains a fresh,
// independently-titled reference.
func (s *Service) MoveChat(ctx context.Context, ownerID, sourceProjectID, targetProjectID, threadID string, makeCopy bool) (*Project, error) {
	source, err := s.GetOwned(ctx, ownerID, sourceProjectID)
	if err != nil {
		return nil, err
	}
	target, err := s.GetOwned(ctx, ownerID, targetProjectID)
	if err != nil {
		return nil, err
	}

	srcIdx := source.ChatIndex(threadID)
	if srcIdx < 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "chat not found in source project", nil, "7d2f9b4e-6a1c-4583-92d7-0e5b8c3f6a14")
	}
	if target.ChatIndex(threadID) >= 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "chat already present in target project", nil, "1a6e3c8b-9f4d-4257-b8a0-5d7f2e9c4b61")
	}

	t, err := s.ownedThread(ctx, ownerID, threadID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ref := source.Chats[srcIdx]

	target.Chats = append(target.Chats, ChatRef{
		ThreadID:     threadID,
		Title:        ref.Title,
		IsShared:     ref.IsShared,
		LastModified: now,
	})
	target.UpdatedAt = now

	if !makeCopy {
		source.RemoveChatRef(threadID)
		source.UpdatedAt = now
		if err := s.repo.Update(ctx, source); err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update source project")
		}
		t.RemoveProject(sourceProjectID)
	}

	if err := s.repo.Update(ctx, target); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update target project")
	}

	t.AddProject(targetProjectID)
	if err := s.threadRepo.Update(ctx, t); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update thread project links")
	}

	return target, nil
}

// RemoveChat removes a thread reference from one project, or from every
// project when projectID is "ALL" (which also clears the thread's project set).
func (s *Service) RemoveChat(ctx context.Context, ownerID, projectID, threadID string) error {
	if projectID == RemoveAllProjects {
		return s.removeChatFromAll(ctx, ownerID, threadID, true)
	}

	proj, err := s.GetOwned(ctx, ownerID, projectID)
	if err != nil {
		return err
	}

	if !proj.RemoveChatRef(threadID) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "chat not found in project", nil, "5c9a2e7f-4b8d-4631-a5c9-8f1d6b3e7a20")
	}
	proj.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, proj); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to remove chat from project")
	}

	return s.detachThread(ctx, threadID, projectID)
}

// RemoveChatEverywhere strips every project reference to a thread without
// touching the thread itself. Called from the thread delete path.
func (s *Service) RemoveChatEverywhere(ctx context.Context, ownerID, threadID string) (int64, error) {
	projects, err := s.repo.FindWithChat(ctx, threadID)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to find projects with chat")
	}

	var removed int64
	now := time.Now().UTC()
	for _, proj := range projects {
		if proj.OwnerID != ownerID {
			continue
		}
		if proj.RemoveChatRef(threadID) {
			proj.UpdatedAt = now
			if err := s.repo.Update(ctx, proj); err != nil {
				return removed, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to remove chat reference")
			}
			removed++
		}
	}

	return removed, nil
}

// ReassignOwner bulk-moves every project from one owner key to another.
func (s *Service) ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	moved, err := s.repo.ReassignOwner(ctx, oldOwnerID, newOwnerID)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to reassign project owner")
	}
	return moved, nil
}

// ===============================================
// Helpers
// ===============================================

// checkExclusiveMembership fails with Conflict when the thread already belongs
// to a different project through a non-shared reference.
func (s *Service) checkExclusiveMembership(ctx context.Context, projectID, threadID string) error {
	others, err := s.repo.FindWithChat(ctx, threadID)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to check chat membership")
	}

	for _, other := range others {
		if other.ProjectID == projectID || !other.IsActive {
			continue
		}
		if idx := other.ChatIndex(threadID); idx >= 0 && !other.Chats[idx].IsShared {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "thread already belongs to another project", nil, "0f4b8d2c-7e9a-4165-93b4-2c6e5a9f8d37")
		}
	}

	return nil
}

func (s *Service) removeChatFromAll(ctx context.Context, ownerID, threadID string, clearThread bool) error {
	if _, err := s.RemoveChatEverywhere(ctx, ownerID, threadID); err != nil {
		return err
	}

	if !clearThread {
		return nil
	}

	t, err := s.ownedThread(ctx, ownerID, threadID)
	if err != nil {
		return err
	}
	t.ProjectIDs = []string{}
	if err := s.threadRepo.Update(ctx, t); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to clear thread project links")
	}

	return nil
}

func (s *Service) detachThread(ctx context.Context, threadID, projectID string) error {
	t, err := s.threadRepo.FindByThreadID(ctx, threadID)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil
		}
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load thread")
	}

	t.RemoveProject(projectID)
	if err := s.threadRepo.Update(ctx, t); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to unlink project on thread")
	}

	return nil
}

func (s *Service) ownedThread(ctx context.Context, ownerID, threadID string) (*thread.Thread, error) {
	t, err := s.threadRepo.FindByThreadID(ctx, threadID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "thread not found")
	}
	if t.OwnerID != ownerID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "thread not found", nil, "3b7d1f5a-8c2e-4490-a6d3-7e9b4c1f5a28")
	}
	return t, nil
}
