package thread_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom-server/services/chat-api/internal/domain/query"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

type repoFake struct {
	threads map[string]*thread.Thread
	nextID  uint
}

func newRepoFake() *repoFake {
	return &repoFake{threads: map[string]*thread.Thread{}}
}

// cloneThread keeps stored state independent from what callers mutate,
// matching how a real repository round-trips rows.
func cloneThread(t *thread.Thread) *thread.Thread {
	cp := *t
	cp.Messages = append([]thread.Message(nil), t.Messages...)
	cp.ProjectIDs = append([]string(nil), t.ProjectIDs...)
	cp.Tags = append([]string(nil), t.Tags...)
	return &cp
}

func (f *repoFake) Create(ctx context.Context, t *thread.Thread) error {
	f.nextID++
	t.ID = f.nextID
	f.threads[t.ThreadID] = cloneThread(t)
	return nil
}

func (f *repoFake) FindByThreadID(ctx context.Context, threadID string) (*thread.Thread, error) {
	t, ok := f.threads[threadID]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "thread not found", nil, "11111111-1111-4111-8111-111111111111")
	}
	return cloneThread(t), nil
}

func (f *repoFake) FindByFilter(ctx context.Context, filter thread.Filter, pagination *query.Pagination) ([]*thread.Thread, error) {
	var out []*thread.Thread
	for _, t := range f.threads {
		if filter.OwnerID != nil && t.OwnerID != *filter.OwnerID {
			continue
		}
		out = append(out, cloneThread(t))
	}
	return out, nil
}

func (f *repoFake) Count(ctx context.Context, filter thread.Filter) (int64, error) {
	found, err := f.FindByFilter(ctx, filter, nil)
	return int64(len(found)), err
}

func (f *repoFake) Update(ctx context.Context, t *thread.Thread) error {
	f.threads[t.ThreadID] = cloneThread(t)
	return nil
}

func (f *repoFake) Delete(ctx context.Context, id uint) error {
	for key, t := range f.threads {
		if t.ID == id {
			delete(f.threads, key)
			return nil
		}
	}
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "thread not found", nil, "22222222-2222-4222-8222-222222222222")
}

func (f *repoFake) Search(ctx context.Context, ownerID, text string, pagination *query.Pagination) ([]*thread.Thread, int64, error) {
	var matches []*thread.Thread
	for _, t := range f.threads {
		if t.OwnerID != ownerID {
			continue
		}
		if !strings.Contains(strings.ToLower(t.Title), strings.ToLower(text)) {
			continue
		}
		matches = append(matches, cloneThread(t))
	}
	total := int64(len(matches))
	if pagination != nil {
		offset := pagination.OffsetOrZero()
		if offset >= len(matches) {
			matches = nil
		} else {
			matches = matches[offset:]
		}
		if pagination.Limit != nil && *pagination.Limit > 0 && *pagination.Limit < len(matches) {
			matches = matches[:*pagination.Limit]
		}
	}
	return matches, total, nil
}

func (f *repoFake) ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	var moved int64
	for _, t := range f.threads {
		if t.OwnerID == oldOwnerID {
			t.OwnerID = newOwnerID
			moved++
		}
	}
	return moved, nil
}

func (f *repoFake) CountUserMessages(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	for _, t := range f.threads {
		if t.OwnerID != ownerID {
			continue
		}
		for _, msg := range t.Messages {
			if msg.Role == thread.RoleUser {
				count++
			}
		}
	}
	return count, nil
}

func (f *repoFake) DeleteIdleByOwnerPrefix(ctx context.Context, ownerPrefix string, cutoff time.Time) (int64, error) {
	return 0, nil
}

type unlinkerFake struct {
	calls []string
}

func (u *unlinkerFake) RemoveChatEverywhere(ctx context.Context, ownerID, threadID string) (int64, error) {
	u.calls = append(u.calls, threadID)
	return 1, nil
}

func userMsg(content string) thread.Message {
	return thread.Message{Role: thread.RoleUser, Content: content, Timestamp: time.Now().UTC()}
}

func TestUpsertMessage_CreatesThreadOnFirstContact(t *testing.T) {
	repo := newRepoFake()
	svc := thread.NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.UpsertMessage(ctx, "user-1", "thread-1", userMsg("How do goroutines work?"))
	require.NoError(t, err)

	assert.Equal(t, "thread-1", created.ThreadID)
	assert.Equal(t, "How do goroutines work", created.Title)
	assert.Len(t, created.Messages, 1)
	assert.Equal(t, 1, created.Version)
	assert.Equal(t, thread.EstimateTokens("How do goroutines work?"), created.TokenCount)
}

func TestUpsertMessage_TitleTruncatedFromFirstMessage(t *testing.T) {
	repo := newRepoFake()
	svc := thread.NewService(repo, nil)

	long := "This opening message is deliberately much longer than fifty characters to force truncation"
	created, err := svc.UpsertMessage(context.Background(), "user-1", "thread-1", userMsg(long))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(created.Title), 50)
	assert.Contains(t, created.Title, "This opening message")
}

func TestUpsertMessage_AppendAccumulatesDerivedFields(t *testing.T) {
	repo := newRepoFake()
	svc := thread.NewService(repo, nil)
	ctx := context.Background()

	first, err := svc.UpsertMessage(ctx, "user-1", "thread-1", userMsg("first question"))
	require.NoError(t, err)

	reply := thread.Message{Role: thread.RoleAssistant, Content: "an answer", Timestamp: time.Now().UTC()}
	second, err := svc.UpsertMessage(ctx, "user-1", "thread-1", reply)
	require.NoError(t, err)

	assert.Len(t, second.Messages, 2)
	assert.Equal(t, first.Version+1, second.Version)
	assert.Equal(t, thread.EstimateTokens("first question")+thread.EstimateTokens("an answer"), second.TokenCount)
	// Title stays pinned to the first message.
	assert.Equal(t, first.Title, second.Title)
}

func TestUpsertMessage_OtherOwnersThreadIsNotFound(t *testing.T) {
	repo := newRepoFake()
	svc := thread.NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.UpsertMessage(ctx, "user-1", "thread-1", userMsg("mine"))
	require.NoError(t, err)

	_, err = svc.UpsertMessage(ctx, "user-2", "thread-1", userMsg("theirs"))
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestUpsertMessage_RejectsEmptyContent(t *testing.T) {
	repo := newRepoFake()
	svc := thread.NewService(repo, nil)

	_, err := svc.UpsertMessage(context.Background(), "user-1", "thread-1", userMsg("   "))
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestEditMessage_TruncatesLaterMessages(t *testing.T) {
	repo := newRepoFake()
	svc := thread.NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.UpsertMessage(ctx, "user-1", "thread-1", userMsg("question one"))
	require.NoError(t, err)
	_, err = svc.UpsertMessage(ctx, "user-1", "thread-1", thread.Message{Role: thread.RoleAssistant, Content: "answer one", Timestamp: time.Now().UTC()})
	require.NoError(t, err)
	before, err := svc.UpsertMessage(ctx, "user-1", "thread-1", userMsg("question two"))
	require.NoError(t, err)
	require.Len(t, before.Messages, 3)

	edited, err := svc.EditMessage(ctx, "user-1", "thread-1", 0, "rephrased question")
	require.NoError(t, err)

	require.Len(t, edited.Messages, 1)
	assert.Equal(t, "rephrased question", edited.Messages[0].Content)
	assert.True(t, edited.Messages[0].Edited)
	assert.Equal(t, before.Version+1, edited.Version)
	assert.Equal(t, thread.EstimateTokens("rephrased question"), edited.TokenCount)
}

func TestEditMessage_IndexOutOfRangeIsNotFound(t *testing.T) {
	repo := newRepoFake()
	svc := thread.NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.UpsertMessage(ctx, "user-1", "thread-1", userMsg("only message"))
	require.NoError(t, err)

	for _, index := range []int{-1, 1, 99} {
		_, err := svc.EditMessage(ctx, "user-1", "thread-1", index, "new content")
		require.Error(t, err)
		assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound), "index %d", index)
	}
}

func TestUpdateThread_OmittedFieldsAreUntouched(t *testing.T) {
	repo := newRepoFake()
	svc := thread.NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.UpsertMessage(ctx, "user-1", "thread-1", userMsg("hello there"))
	require.NoError(t, err)
	originalTitle := created.Title

	archived := true
	updated, err := svc.UpdateThread(ctx, "user-1", "thread-1", thread.UpdateInput{IsArchived: &archived})
	require.NoError(t, err)

	assert.True(t, updated.IsArchived)
	assert.Equal(t, originalTitle, updated.Title)
	assert.False(t, updated.IsPinned)

	title := "renamed"
	updated, err = svc.UpdateThread(ctx, "user-1", "thread-1", thread.UpdateInput{Title: &title, Tags: []string{"go", "testing"}})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, []string{"go", "testing"}, updated.Tags)
	assert.True(t, updated.IsArchived)
}

func TestDelete_DetachesFromProjects(t *testing.T) {
	repo := newRepoFake()
	unlinker := &unlinkerFake{}
	svc := thread.NewService(repo, unlinker)
	ctx := context.Background()

	_, err := svc.UpsertMessage(ctx, "user-1", "thread-1", userMsg("to be deleted"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", "thread-1"))
	assert.Equal(t, []string{"thread-1"}, unlinker.calls)

	_, err = svc.GetOwned(ctx, "user-1", "thread-1")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestGetOwned_OwnershipMasksAsNotFound(t *testing.T) {
	repo := newRepoFake()
	svc := thread.NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.UpsertMessage(ctx, "user-1", "thread-1", userMsg("private"))
	require.NoError(t, err)

	_, err = svc.GetOwned(ctx, "user-2", "thread-1")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"12345678", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, thread.EstimateTokens(tt.content), "content %q", tt.content)
	}
}

func TestSearch_TotalCountsMatchesBeyondPage(t *testing.T) {
	repo := newRepoFake()
	svc := thread.NewService(repo, nil)
	ctx := context.Background()

	for _, id := range []string{"thread-1", "thread-2", "thread-3"} {
		tr := thread.NewThread(id, "user-1")
		tr.Title = "goroutine leak in " + id
		require.NoError(t, repo.Create(ctx, tr))
	}
	offTopic := thread.NewThread("thread-4", "user-1")
	offTopic.Title = "recipe ideas"
	require.NoError(t, repo.Create(ctx, offTopic))

	limit := 2
	threads, total, err := svc.Search(ctx, "user-1", "goroutine", &query.Pagination{Limit: &limit})
	require.NoError(t, err)

	assert.Len(t, threads, 2)
	assert.Equal(t, int64(3), total)
}

func TestSearch_NoMatches(t *testing.T) {
	repo := newRepoFake()
	svc := thread.NewService(repo, nil)

	threads, total, err := svc.Search(context.Background(), "user-1", "anything", nil)
	require.NoError(t, err)

	assert.Empty(t, threads)
	assert.Zero(t, total)
}
