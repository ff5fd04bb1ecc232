package share_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom-server/services/chat-api/internal/domain/query"
	"loom-server/services/chat-api/internal/domain/share"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

const baseURL = "https://chat.example.com"

type shareRepoFake struct {
	mu     sync.Mutex
	shares map[string]*share.Share
	nextID uint
}

func newShareRepoFake() *shareRepoFake {
	return &shareRepoFake{shares: map[string]*share.Share{}}
}

func (f *shareRepoFake) Create(ctx context.Context, sh *share.Share) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	sh.ID = f.nextID
	cp := *sh
	f.shares[sh.Token] = &cp
	return nil
}

func (f *shareRepoFake) FindByToken(ctx context.Context, token string) (*share.Share, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sh, ok := f.shares[token]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "share not found", nil, "33333333-3333-4333-8333-333333333333")
	}
	cp := *sh
	return &cp, nil
}

func (f *shareRepoFake) FindByFilter(ctx context.Context, filter share.Filter, pagination *query.Pagination) ([]*share.Share, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*share.Share
	for _, sh := range f.shares {
		if filter.OwnerID != nil && sh.OwnerID != *filter.OwnerID {
			continue
		}
		if !filter.IncludeRevoked && sh.RevokedAt != nil {
			continue
		}
		cp := *sh
		out = append(out, &cp)
	}
	return out, nil
}

func (f *shareRepoFake) Count(ctx context.Context, filter share.Filter) (int64, error) {
	found, err := f.FindByFilter(ctx, filter, nil)
	return int64(len(found)), err
}

func (f *shareRepoFake) Update(ctx context.Context, sh *share.Share) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *sh
	f.shares[sh.Token] = &cp
	return nil
}

func (f *shareRepoFake) IncrementViewCount(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	for _, sh := range f.shares {
		if sh.ID == id {
			sh.ViewCount++
			sh.LastViewedAt = &now
			return nil
		}
	}
	return nil
}

func (f *shareRepoFake) Revoke(ctx context.Context, id uint, revokedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sh := range f.shares {
		if sh.ID == id {
			sh.RevokedAt = &revokedAt
			return nil
		}
	}
	return nil
}

type threadRepoFake struct {
	threads map[string]*thread.Thread
}

func (f *threadRepoFake) FindByThreadID(ctx context.Context, threadID string) (*thread.Thread, error) {
	t, ok := f.threads[threadID]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "thread not found", nil, "44444444-4444-4444-8444-444444444444")
	}
	return t, nil
}

func (f *threadRepoFake) Create(ctx context.Context, t *thread.Thread) error  { return nil }
func (f *threadRepoFake) Update(ctx context.Context, t *thread.Thread) error  { return nil }
func (f *threadRepoFake) Delete(ctx context.Context, id uint) error           { return nil }
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

type mailerFake struct {
	recipients []string
	shareURLs  []string
	err        error
}

func (m *mailerFake) SendShareEmail(ctx context.Context, recipient, shareURL, title string, snapshot []thread.Message) error {
	if m.err != nil {
		return m.err
	}
	m.recipients = append(m.recipients, recipient)
	m.shareURLs = append(m.shareURLs, shareURL)
	return nil
}

func seedThread(ownerID string) (*threadRepoFake, *thread.Thread) {
	t := thread.NewThread("thread-1", ownerID)
	t.Title = "Learning Go"
	t.Messages = []thread.Message{
		{Role: thread.RoleUser, Content: "What is a channel?", Timestamp: time.Now().UTC()},
		{Role: thread.RoleAssistant, Content: "A typed conduit between goroutines.", Timestamp: time.Now().UTC()},
	}
	return &threadRepoFake{threads: map[string]*thread.Thread{"thread-1": t}}, t
}

func TestCreateShare_SnapshotIsIsolatedFromLaterEdits(t *testing.T) {
	threadRepo, liveThread := seedThread("user-1")
	repo := newShareRepoFake()
	svc := share.NewService(repo, threadRepo, &mailerFake{}, baseURL)

	out, err := svc.CreateShare(context.Background(), "user-1", "thread-1")
	require.NoError(t, err)
	require.Len(t, out.Share.MessagesSnapshot, 2)

	liveThread.Messages[0].Content = "edited afterwards"
	liveThread.Messages = liveThread.Messages[:1]

	assert.Equal(t, "What is a channel?", out.Share.MessagesSnapshot[0].Content)
	assert.Len(t, out.Share.MessagesSnapshot, 2)
}

func TestCreateShare_TokenAndURL(t *testing.T) {
	threadRepo, _ := seedThread("user-1")
	svc := share.NewService(newShareRepoFake(), threadRepo, &mailerFake{}, baseURL)

	out, err := svc.CreateShare(context.Background(), "user-1", "thread-1")
	require.NoError(t, err)

	assert.True(t, share.ValidateToken(out.Share.Token))
	assert.Equal(t, baseURL+"/v1/public/shares/"+out.Share.Token, out.ShareURL)
	assert.Equal(t, "Learning Go", out.Share.Title)
}

func TestCreateShare_UntitledThreadGetsFallbackTitle(t *testing.T) {
	threadRepo, liveThread := seedThread("user-1")
	liveThread.Title = ""
	svc := share.NewService(newShareRepoFake(), threadRepo, &mailerFake{}, baseURL)

	out, err := svc.CreateShare(context.Background(), "user-1", "thread-1")
	require.NoError(t, err)

	assert.Equal(t, share.DefaultUntitledTitle, out.Share.Title)
}

func TestCreateShare_ForeignThreadIsNotFound(t *testing.T) {
	threadRepo, _ := seedThread("user-1")
	svc := share.NewService(newShareRepoFake(), threadRepo, &mailerFake{}, baseURL)

	_, err := svc.CreateShare(context.Background(), "user-2", "thread-1")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestGetByToken_RevokedShareIsGone(t *testing.T) {
	threadRepo, _ := seedThread("user-1")
	repo := newShareRepoFake()
	svc := share.NewService(repo, threadRepo, &mailerFake{}, baseURL)

	out, err := svc.CreateShare(context.Background(), "user-1", "thread-1")
	require.NoError(t, err)

	_, err = svc.GetByToken(context.Background(), out.Share.Token)
	require.NoError(t, err)

	_, err = svc.Revoke(context.Background(), "user-1", out.Share.Token)
	require.NoError(t, err)

	_, err = svc.GetByToken(context.Background(), out.Share.Token)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeGone))
}

func TestGetByToken_MalformedTokenIsNotFound(t *testing.T) {
	svc := share.NewService(newShareRepoFake(), &threadRepoFake{}, &mailerFake{}, baseURL)

	_, err := svc.GetByToken(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestRevoke_IsIdempotent(t *testing.T) {
	threadRepo, _ := seedThread("user-1")
	repo := newShareRepoFake()
	svc := share.NewService(repo, threadRepo, &mailerFake{}, baseURL)

	out, err := svc.CreateShare(context.Background(), "user-1", "thread-1")
	require.NoError(t, err)

	first, err := svc.Revoke(context.Background(), "user-1", out.Share.Token)
	require.NoError(t, err)

	second, err := svc.Revoke(context.Background(), "user-1", out.Share.Token)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestRevoke_ForeignShareIsNotFound(t *testing.T) {
	threadRepo, _ := seedThread("user-1")
	svc := share.NewService(newShareRepoFake(), threadRepo, &mailerFake{}, baseURL)

	out, err := svc.CreateShare(context.Background(), "user-1", "thread-1")
	require.NoError(t, err)

	_, err = svc.Revoke(context.Background(), "user-2", out.Share.Token)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestListByOwner_FiltersRevoked(t *testing.T) {
	threadRepo, _ := seedThread("user-1")
	repo := newShareRepoFake()
	svc := share.NewService(repo, threadRepo, &mailerFake{}, baseURL)
	ctx := context.Background()

	kept, err := svc.CreateShare(ctx, "user-1", "thread-1")
	require.NoError(t, err)
	revoked, err := svc.CreateShare(ctx, "user-1", "thread-1")
	require.NoError(t, err)
	_, err = svc.Revoke(ctx, "user-1", revoked.Share.Token)
	require.NoError(t, err)

	active, err := svc.ListByOwner(ctx, "user-1", false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, kept.Share.Token, active[0].Token)

	all, err := svc.ListByOwner(ctx, "user-1", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEmailShare_SendsLinkWithoutRegeneratingToken(t *testing.T) {
	threadRepo, _ := seedThread("user-1")
	mailer := &mailerFake{}
	svc := share.NewService(newShareRepoFake(), threadRepo, mailer, baseURL)

	out, err := svc.CreateShare(context.Background(), "user-1", "thread-1")
	require.NoError(t, err)

	require.NoError(t, svc.EmailShare(context.Background(), "user-1", out.Share.Token, "friend@example.com"))

	require.Len(t, mailer.shareURLs, 1)
	assert.Equal(t, out.ShareURL, mailer.shareURLs[0])
	assert.Equal(t, []string{"friend@example.com"}, mailer.recipients)
}

func TestEmailShare_MailerFailureIsExternal(t *testing.T) {
	threadRepo, _ := seedThread("user-1")
	svc := share.NewService(newShareRepoFake(), threadRepo, &mailerFake{err: errors.New("smtp refused")}, baseURL)

	out, err := svc.CreateShare(context.Background(), "user-1", "thread-1")
	require.NoError(t, err)

	err = svc.EmailShare(context.Background(), "user-1", out.Share.Token, "friend@example.com")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
}

func TestEmailShare_RevokedShareIsGone(t *testing.T) {
	threadRepo, _ := seedThread("user-1")
	svc := share.NewService(newShareRepoFake(), threadRepo, &mailerFake{}, baseURL)
	ctx := context.Background()

	out, err := svc.CreateShare(ctx, "user-1", "thread-1")
	require.NoError(t, err)
	_, err = svc.Revoke(ctx, "user-1", out.Share.Token)
	require.NoError(t, err)

	err = svc.EmailShare(ctx, "user-1", out.Share.Token, "friend@example.com")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeGone))
}
