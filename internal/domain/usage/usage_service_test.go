package usage_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom-server/services/chat-api/internal/domain/query"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/domain/usage"
)

type threadRepoFake struct {
	threads []*thread.Thread
}

func (f *threadRepoFake) FindByFilter(ctx context.Context, filter thread.Filter, pagination *query.Pagination) ([]*thread.Thread, error) {
	var out []*thread.Thread
	for _, t := range f.threads {
		if filter.OwnerID != nil && t.OwnerID != *filter.OwnerID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *threadRepoFake) Create(ctx context.Context, t *thread.Thread) error { return nil }
func (f *threadRepoFake) FindByThreadID(ctx context.Context, threadID string) (*thread.Thread, error) {
	return nil, nil
}
func (f *threadRepoFake) Count(ctx context.Context, filter thread.Filter) (int64, error) {
	return 0, nil
}
func (f *threadRepoFake) Update(ctx context.Context, t *thread.Thread) error { return nil }
func (f *threadRepoFake) Delete(ctx context.Context, id uint) error          { return nil }
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

func seededThread(ownerID string, tokenCount int, messages int) *thread.Thread {
	t := thread.NewThread("thread-"+ownerID, ownerID)
	for i := 0; i < messages; i++ {
		t.Messages = append(t.Messages, thread.Message{Role: thread.RoleUser, Content: "msg"})
	}
	t.TokenCount = tokenCount
	return t
}

func TestReportForOwner_AggregatesCounts(t *testing.T) {
	repo := &threadRepoFake{threads: []*thread.Thread{
		seededThread("user-1", 1200, 4),
		seededThread("user-1", 800, 2),
		seededThread("user-2", 9999, 9),
	}}
	svc := usage.NewService(repo, "0.15")

	report, err := svc.ReportForOwner(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.ThreadCount)
	assert.Equal(t, int64(6), report.MessageCount)
	assert.Equal(t, int64(2000), report.TokenCount)

	// 2000 tokens at 0.15 per million.
	expected := decimal.RequireFromString("0.0003")
	assert.True(t, report.EstimatedCostUSD.Equal(expected), "got %s", report.EstimatedCostUSD)
}

func TestReportForOwner_EmptyOwner(t *testing.T) {
	svc := usage.NewService(&threadRepoFake{}, "0.15")

	report, err := svc.ReportForOwner(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Zero(t, report.ThreadCount)
	assert.True(t, report.EstimatedCostUSD.IsZero())
}

func TestNewService_UnparsableCostFallsBackToZero(t *testing.T) {
	repo := &threadRepoFake{threads: []*thread.Thread{seededThread("user-1", 5000, 1)}}
	svc := usage.NewService(repo, "not-a-number")

	report, err := svc.ReportForOwner(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, report.EstimatedCostUSD.IsZero())
}
