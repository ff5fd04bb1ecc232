package project_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom-server/services/chat-api/internal/domain/project"
	"loom-server/services/chat-api/internal/domain/query"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

type projectRepoFake struct {
	projects map[string]*project.Project
	nextID   uint
}

func newProjectRepoFake() *projectRepoFake {
	return &projectRepoFake{projects: map[string]*project.Project{}}
}

func (f *projectRepoFake) Create(ctx context.Context, proj *project.Project) error {
	f.nextID++
	proj.ID = f.nextID
	f.projects[proj.ProjectID] = proj
	return nil
}

func (f *projectRepoFake) GetByProjectID(ctx context.Context, projectID string) (*project.Project, error) {
	proj, ok := f.projects[projectID]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "project not found", nil, "55555555-5555-4555-8555-555555555555")
	}
	return proj, nil
}

func (f *projectRepoFake) ListByOwner(ctx context.Context, ownerID string, pagination *query.Pagination) ([]*project.Project, int64, error) {
	var out []*project.Project
	for _, proj := range f.projects {
		if proj.OwnerID == ownerID && proj.IsActive {
			out = append(out, proj)
		}
	}
	return out, int64(len(out)), nil
}

func (f *projectRepoFake) Update(ctx context.Context, proj *project.Project) error {
	f.projects[proj.ProjectID] = proj
	return nil
}

func (f *projectRepoFake) HardDelete(ctx context.Context, projectID string) error {
	delete(f.projects, projectID)
	return nil
}

func (f *projectRepoFake) FindWithChat(ctx context.Context, threadID string) ([]*project.Project, error) {
	var out []*project.Project
	for _, proj := range f.projects {
		if proj.ChatIndex(threadID) >= 0 {
			out = append(out, proj)
		}
	}
	return out, nil
}

func (f *projectRepoFake) ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	var moved int64
	for _, proj := range f.projects {
		if proj.OwnerID == oldOwnerID {
			proj.OwnerID = newOwnerID
			moved++
		}
	}
	return moved, nil
}

func (f *projectRepoFake) DeleteIdleByOwnerPrefix(ctx context.Context, ownerPrefix string, cutoff time.Time) (int64, error) {
	return 0, nil
}

type threadRepoFake struct {
	threads map[string]*thread.Thread
}

func newThreadRepoFake(ownerID string, threadIDs ...string) *threadRepoFake {
	f := &threadRepoFake{threads: map[string]*thread.Thread{}}
	for _, id := range threadIDs {
		t := thread.NewThread(id, ownerID)
		t.Title = "Thread " + id
		f.threads[id] = t
	}
	return f
}

func (f *threadRepoFake) FindByThreadID(ctx context.Context, threadID string) (*thread.Thread, error) {
	t, ok := f.threads[threadID]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "thread not found", nil, "66666666-6666-4666-8666-666666666666")
	}
	return t, nil
}

func (f *threadRepoFake) Create(ctx context.Context, t *thread.Thread) error { return nil }
func (f *threadRepoFake) Update(ctx context.Context, t *thread.Thread) error {
	f.threads[t.ThreadID] = t
	return nil
}
func (f *threadRepoFake) Delete(ctx context.Context, id uint) error { return nil }
func (f *threadRepoFake) FindByFilter(ctx context.Context, filter thread.Filter, pagination *query.Pagination) ([]*thread.Thread, error) {
	return nil, nil
}
func (f *threadRepoFake) Count(ctx context.Context, filter thread.Filter) (int64, error) {
	return 0, nil
}
func (f *threadRepoFake) Search(ctx context.Context, ownerID, text string, pagination *query.Pagination) ([]*thread.Thread, int64, error) {
	return nil, 0, nil
}
func (f *threadRepoFake) ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	return 0, nil
}
func (f *threadRepoFake) CountUserMessages(ctx context.Context, ownerID string) (int64, error) {
	return 0, nil
}
func (f *threadRepoFake) DeleteIdleByOwnerPrefix(ctx context.Context, ownerPrefix string, cutoff time.Time) (int64, error) {
	return 0, nil
}

func TestCreate_ProjectIDUniqueAcrossOwners(t *testing.T) {
	repo := newProjectRepoFake()
	svc := project.NewService(repo, newThreadRepoFake("user-1"))
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-1", "Research", "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user-1", "proj-1", "Duplicate", "")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))

	// A different owner cannot claim the id either.
	_, err = svc.Create(ctx, "user-2", "proj-1", "Theirs", "")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
}

func TestCreate_SoftDeletedProjectStillHoldsItsID(t *testing.T) {
	repo := newProjectRepoFake()
	svc := project.NewService(repo, newThreadRepoFake("user-1"))
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-1", "Research", "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "user-1", "proj-1", false))

	_, err = svc.Create(ctx, "user-1", "proj-1", "Reborn", "")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
}

func TestGetOwned_ForeignAndDeletedProjectsAreNotFound(t *testing.T) {
	repo := newProjectRepoFake()
	svc := project.NewService(repo, newThreadRepoFake("user-1"))
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-1", "Research", "")
	require.NoError(t, err)

	_, err = svc.GetOwned(ctx, "user-2", "proj-1")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	require.NoError(t, svc.Delete(ctx, "user-1", "proj-1", false))
	_, err = svc.GetOwned(ctx, "user-1", "proj-1")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestDelete_HardDetachesMemberThreads(t *testing.T) {
	repo := newProjectRepoFake()
	threadRepo := newThreadRepoFake("user-1", "thread-1")
	svc := project.NewService(repo, threadRepo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-1", "Research", "")
	require.NoError(t, err)
	_, err = svc.AddChat(ctx, "user-1", "proj-1", "thread-1", "", false)
	require.NoError(t, err)
	require.True(t, threadRepo.threads["thread-1"].HasProject("proj-1"))

	require.NoError(t, svc.Delete(ctx, "user-1", "proj-1", true))

	assert.NotContains(t, repo.projects, "proj-1")
	assert.False(t, threadRepo.threads["thread-1"].HasProject("proj-1"))
}

func TestAddChat_LinksThreadAndDefaultsTitle(t *testing.T) {
	repo := newProjectRepoFake()
	threadRepo := newThreadRepoFake("user-1", "thread-1")
	svc := project.NewService(repo, threadRepo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-1", "Research", "")
	require.NoError(t, err)

	proj, err := svc.AddChat(ctx, "user-1", "proj-1", "thread-1", "", false)
	require.NoError(t, err)

	require.Len(t, proj.Chats, 1)
	assert.Equal(t, "Thread thread-1", proj.Chats[0].Title)
	assert.True(t, threadRepo.threads["thread-1"].HasProject("proj-1"))
}

func TestAddChat_SameProjectReAddIsIdempotentUpsert(t *testing.T) {
	repo := newProjectRepoFake()
	svc := project.NewService(repo, newThreadRepoFake("user-1", "thread-1"))
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-1", "Research", "")
	require.NoError(t, err)

	_, err = svc.AddChat(ctx, "user-1", "proj-1", "thread-1", "Original", false)
	require.NoError(t, err)
	proj, err := svc.AddChat(ctx, "user-1", "proj-1", "thread-1", "Renamed", true)
	require.NoError(t, err)

	require.Len(t, proj.Chats, 1)
	assert.Equal(t, "Renamed", proj.Chats[0].Title)
	assert.True(t, proj.Chats[0].IsShared)
}

func TestAddChat_ExclusiveMembershipConflict(t *testing.T) {
	repo := newProjectRepoFake()
	svc := project.NewService(repo, newThreadRepoFake("user-1", "thread-1"))
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-a", "A", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", "proj-b", "B", "")
	require.NoError(t, err)

	_, err = svc.AddChat(ctx, "user-1", "proj-a", "thread-1", "", false)
	require.NoError(t, err)

	_, err = svc.AddChat(ctx, "user-1", "proj-b", "thread-1", "", false)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))

	// isShared opts the thread into multi-project membership.
	proj, err := svc.AddChat(ctx, "user-1", "proj-b", "thread-1", "", true)
	require.NoError(t, err)
	assert.Len(t, proj.Chats, 1)
}

func TestAddChat_ForeignThreadIsNotFound(t *testing.T) {
	repo := newProjectRepoFake()
	svc := project.NewService(repo, newThreadRepoFake("user-2", "thread-1"))
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-1", "Research", "")
	require.NoError(t, err)

	_, err = svc.AddChat(ctx, "user-1", "proj-1", "thread-1", "", false)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestMoveChat_TransfersMembership(t *testing.T) {
	repo := newProjectRepoFake()
	threadRepo := newThreadRepoFake("user-1", "thread-1")
	svc := project.NewService(repo, threadRepo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-a", "A", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", "proj-b", "B", "")
	require.NoError(t, err)
	_, err = svc.AddChat(ctx, "user-1", "proj-a", "thread-1", "Kept Title", false)
	require.NoError(t, err)

	target, err := svc.MoveChat(ctx, "user-1", "proj-a", "proj-b", "thread-1", false)
	require.NoError(t, err)

	require.Len(t, target.Chats, 1)
	assert.Equal(t, "Kept Title", target.Chats[0].Title)
	assert.Equal(t, -1, repo.projects["proj-a"].ChatIndex("thread-1"))
	assert.False(t, threadRepo.threads["thread-1"].HasProject("proj-a"))
	assert.True(t, threadRepo.threads["thread-1"].HasProject("proj-b"))
}

func TestMoveChat_MakeCopyRetainsSource(t *testing.T) {
	repo := newProjectRepoFake()
	threadRepo := newThreadRepoFake("user-1", "thread-1")
	svc := project.NewService(repo, threadRepo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-a", "A", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", "proj-b", "B", "")
	require.NoError(t, err)
	_, err = svc.AddChat(ctx, "user-1", "proj-a", "thread-1", "", false)
	require.NoError(t, err)

	target, err := svc.MoveChat(ctx, "user-1", "proj-a", "proj-b", "thread-1", true)
	require.NoError(t, err)

	assert.Len(t, target.Chats, 1)
	assert.GreaterOrEqual(t, repo.projects["proj-a"].ChatIndex("thread-1"), 0)
	assert.True(t, threadRepo.threads["thread-1"].HasProject("proj-a"))
	assert.True(t, threadRepo.threads["thread-1"].HasProject("proj-b"))
}

func TestMoveChat_MissingFromSourceOrPresentInTarget(t *testing.T) {
	repo := newProjectRepoFake()
	svc := project.NewService(repo, newThreadRepoFake("user-1", "thread-1"))
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-a", "A", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", "proj-b", "B", "")
	require.NoError(t, err)

	_, err = svc.MoveChat(ctx, "user-1", "proj-a", "proj-b", "thread-1", false)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	_, err = svc.AddChat(ctx, "user-1", "proj-a", "thread-1", "", true)
	require.NoError(t, err)
	_, err = svc.AddChat(ctx, "user-1", "proj-b", "thread-1", "", true)
	require.NoError(t, err)

	_, err = svc.MoveChat(ctx, "user-1", "proj-a", "proj-b", "thread-1", false)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestRemoveChat_SingleProject(t *testing.T) {
	repo := newProjectRepoFake()
	threadRepo := newThreadRepoFake("user-1", "thread-1")
	svc := project.NewService(repo, threadRepo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-1", "Research", "")
	require.NoError(t, err)
	_, err = svc.AddChat(ctx, "user-1", "proj-1", "thread-1", "", false)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveChat(ctx, "user-1", "proj-1", "thread-1"))
	assert.Equal(t, -1, repo.projects["proj-1"].ChatIndex("thread-1"))
	assert.False(t, threadRepo.threads["thread-1"].HasProject("proj-1"))

	err = svc.RemoveChat(ctx, "user-1", "proj-1", "thread-1")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestRemoveChat_AllSentinelClearsEveryMembership(t *testing.T) {
	repo := newProjectRepoFake()
	threadRepo := newThreadRepoFake("user-1", "thread-1")
	svc := project.NewService(repo, threadRepo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "proj-a", "A", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", "proj-b", "B", "")
	require.NoError(t, err)
	_, err = svc.AddChat(ctx, "user-1", "proj-a", "thread-1", "", true)
	require.NoError(t, err)
	_, err = svc.AddChat(ctx, "user-1", "proj-b", "thread-1", "", true)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveChat(ctx, "user-1", project.RemoveAllProjects, "thread-1"))

	assert.Equal(t, -1, repo.projects["proj-a"].ChatIndex("thread-1"))
	assert.Equal(t, -1, repo.projects["proj-b"].ChatIndex("thread-1"))
	assert.Empty(t, threadRepo.threads["thread-1"].ProjectIDs)
}

func TestReassignOwner_MovesProjects(t *testing.T) {
	repo := newProjectRepoFake()
	svc := project.NewService(repo, newThreadRepoFake("guest_abc"))
	ctx := context.Background()

	_, err := svc.Create(ctx, "guest_abc", "proj-1", "Guest work", "")
	require.NoError(t, err)

	moved, err := svc.ReassignOwner(ctx, "guest_abc", "auth0|user")
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)

	_, err = svc.GetOwned(ctx, "auth0|user", "proj-1")
	assert.NoError(t, err)
}
