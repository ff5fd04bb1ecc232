package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom-server/services/chat-api/internal/domain"
	"loom-server/services/chat-api/internal/domain/chat"
	"loom-server/services/chat-api/internal/domain/identity"
	"loom-server/services/chat-api/internal/domain/query"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

type threadRepoFake struct {
	threads map[string]*thread.Thread
	nextID  uint
}

func newThreadRepoFake() *threadRepoFake {
	return &threadRepoFake{threads: map[string]*thread.Thread{}}
}

func (f *threadRepoFake) Create(ctx context.Context, t *thread.Thread) error {
	f.nextID++
	t.ID = f.nextID
	f.threads[t.ThreadID] = t
	return nil
}

func (f *threadRepoFake) FindByThreadID(ctx context.Context, threadID string) (*thread.Thread, error) {
	t, ok := f.threads[threadID]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "thread not found", nil, "77777777-7777-4777-8777-777777777777")
	}
	return t, nil
}

func (f *threadRepoFake) FindByFilter(ctx context.Context, filter thread.Filter, pagination *query.Pagination) ([]*thread.Thread, error) {
	return nil, nil
}

func (f *threadRepoFake) Count(ctx context.Context, filter thread.Filter) (int64, error) {
	return 0, nil
}

func (f *threadRepoFake) Update(ctx context.Context, t *thread.Thread) error {
	f.threads[t.ThreadID] = t
	return nil
}

func (f *threadRepoFake) Delete(ctx context.Context, id uint) error { return nil }

func (f *threadRepoFake) Search(ctx context.Context, ownerID, text string, pagination *query.Pagination) ([]*thread.Thread, int64, error) {
	return nil, 0, nil
}

func (f *threadRepoFake) ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	return 0, nil
}

func (f *threadRepoFake) CountUserMessages(ctx context.Context, ownerID string) (int64, error) {
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

func (f *threadRepoFake) DeleteIdleByOwnerPrefix(ctx context.Context, ownerPrefix string, cutoff time.Time) (int64, error) {
	return 0, nil
}

type gatewayStub struct {
	reply string
	err   error
	calls int
}

func (g *gatewayStub) Complete(ctx context.Context, messages []thread.Message) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func newChatService(repo *threadRepoFake, gateway chat.Gateway, guestLimit int) *chat.Service {
	threads := thread.NewService(repo, nil)
	identitySvc := identity.NewService(repo, guestLimit)
	return chat.NewService(threads, identitySvc, gateway)
}

func guestPrincipal() domain.Principal {
	return identity.GuestPrincipal("guest_2d8f4a6c-1e9b-4375-a0d2-5c7e9f1b3a68")
}

func userPrincipal() domain.Principal {
	return domain.Principal{ID: "auth0|user-1", AuthMethod: domain.AuthMethodJWT}
}

func TestSendMessage_PersistsBothTurns(t *testing.T) {
	repo := newThreadRepoFake()
	gateway := &gatewayStub{reply: "Channels are typed conduits."}
	svc := newChatService(repo, gateway, 3)

	result, err := svc.SendMessage(context.Background(), userPrincipal(), "thread-1", "What is a channel?")
	require.NoError(t, err)

	assert.Equal(t, "Channels are typed conduits.", result.Reply)
	assert.Equal(t, -1, result.Remaining)
	require.Len(t, result.Thread.Messages, 2)
	assert.Equal(t, thread.RoleUser, result.Thread.Messages[0].Role)
	assert.Equal(t, thread.RoleAssistant, result.Thread.Messages[1].Role)
	assert.Equal(t, 1, gateway.calls)
	assert.Equal(t, 2, result.Thread.Version)
}

func TestSendMessage_GuestRemainingCountsDown(t *testing.T) {
	repo := newThreadRepoFake()
	gateway := &gatewayStub{reply: "ok"}
	svc := newChatService(repo, gateway, 3)
	ctx := context.Background()
	p := guestPrincipal()

	result, err := svc.SendMessage(ctx, p, "thread-1", "first")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Remaining)

	result, err = svc.SendMessage(ctx, p, "thread-1", "second")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Remaining)

	result, err = svc.SendMessage(ctx, p, "thread-1", "third")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Remaining)
}

func TestSendMessage_GuestOverQuotaIsRejectedBeforeAnyWork(t *testing.T) {
	repo := newThreadRepoFake()
	gateway := &gatewayStub{reply: "ok"}
	svc := newChatService(repo, gateway, 3)
	ctx := context.Background()
	p := guestPrincipal()

	for _, content := range []string{"first", "second", "third"} {
		_, err := svc.SendMessage(ctx, p, "thread-1", content)
		require.NoError(t, err)
	}
	callsBefore := gateway.calls

	_, err := svc.SendMessage(ctx, p, "thread-2", "fourth")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeQuotaExceeded))

	// Rejected turn never reached the provider and never created the thread.
	assert.Equal(t, callsBefore, gateway.calls)
	assert.NotContains(t, repo.threads, "thread-2")
}

func TestSendMessage_QuotaIsRecomputedAcrossThreads(t *testing.T) {
	repo := newThreadRepoFake()
	gateway := &gatewayStub{reply: "ok"}
	svc := newChatService(repo, gateway, 2)
	ctx := context.Background()
	p := guestPrincipal()

	_, err := svc.SendMessage(ctx, p, "thread-1", "first")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, p, "thread-2", "second")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, p, "thread-3", "third")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeQuotaExceeded))
}

func TestSendMessage_GatewayFailureKeepsUserMessageAndAppendsFallback(t *testing.T) {
	repo := newThreadRepoFake()
	gatewayErr := platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeTimeout, "provider timed out", errors.New("deadline exceeded"),
		"88888888-8888-4888-8888-888888888888")
	gateway := &gatewayStub{err: gatewayErr}
	svc := newChatService(repo, gateway, 3)

	_, err := svc.SendMessage(context.Background(), userPrincipal(), "thread-1", "hello?")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeTimeout))

	stored := repo.threads["thread-1"]
	require.NotNil(t, stored)
	require.Len(t, stored.Messages, 2)
	assert.Equal(t, thread.RoleUser, stored.Messages[0].Role)
	assert.Equal(t, "hello?", stored.Messages[0].Content)
	assert.Equal(t, thread.RoleAssistant, stored.Messages[1].Role)
	assert.Contains(t, stored.Messages[1].Content, "Something went wrong")
}

func TestSendMessage_UserPrincipalIgnoresQuota(t *testing.T) {
	repo := newThreadRepoFake()
	gateway := &gatewayStub{reply: "ok"}
	svc := newChatService(repo, gateway, 1)
	ctx := context.Background()
	p := userPrincipal()

	for i, content := range []string{"one", "two", "three", "four"} {
		result, err := svc.SendMessage(ctx, p, "thread-1", content)
		require.NoError(t, err, "turn %d", i)
		assert.Equal(t, -1, result.Remaining)
	}
}
