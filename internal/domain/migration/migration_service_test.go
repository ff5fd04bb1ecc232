package migration_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"loom-server/services/chat-api/internal/domain/migration"
)

type reassignerFake struct {
	moved int64
	err   error
	calls int
}

func (r *reassignerFake) ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	r.calls++
	if r.err != nil {
		return 0, r.err
	}
	result := r.moved
	// Subsequent runs find nothing left to move.
	r.moved = 0
	return result, nil
}

const guestID = "guest_4f2e8b1d-6c3a-4957-b0e4-9d1f7a3c5e82"

func TestMigrate_MovesThreadsAndProjects(t *testing.T) {
	threads := &reassignerFake{moved: 4}
	projects := &reassignerFake{moved: 2}
	svc := migration.NewService(threads, projects)

	result := svc.Migrate(context.Background(), guestID, "auth0|new-user")

	assert.Equal(t, int64(4), result.ThreadsMoved)
	assert.Equal(t, int64(2), result.ProjectsMoved)
}

func TestMigrate_SecondRunReportsZero(t *testing.T) {
	threads := &reassignerFake{moved: 4}
	projects := &reassignerFake{moved: 2}
	svc := migration.NewService(threads, projects)

	first := svc.Migrate(context.Background(), guestID, "auth0|new-user")
	second := svc.Migrate(context.Background(), guestID, "auth0|new-user")

	assert.Equal(t, int64(4), first.ThreadsMoved)
	assert.Equal(t, int64(0), second.ThreadsMoved)
	assert.Equal(t, int64(0), second.ProjectsMoved)
}

func TestMigrate_NonGuestPrefixIsNoOp(t *testing.T) {
	threads := &reassignerFake{moved: 4}
	projects := &reassignerFake{moved: 2}
	svc := migration.NewService(threads, projects)

	result := svc.Migrate(context.Background(), "auth0|not-a-guest", "auth0|new-user")

	assert.Zero(t, result.ThreadsMoved)
	assert.Zero(t, result.ProjectsMoved)
	assert.Zero(t, threads.calls)
	assert.Zero(t, projects.calls)
}

func TestMigrate_EmptyUserIsNoOp(t *testing.T) {
	threads := &reassignerFake{moved: 4}
	svc := migration.NewService(threads, &reassignerFake{})

	result := svc.Migrate(context.Background(), guestID, "")

	assert.Zero(t, result.ThreadsMoved)
	assert.Zero(t, threads.calls)
}

func TestMigrate_PartialFailureStillMovesTheRest(t *testing.T) {
	threads := &reassignerFake{err: errors.New("db down")}
	projects := &reassignerFake{moved: 2}
	svc := migration.NewService(threads, projects)

	result := svc.Migrate(context.Background(), guestID, "auth0|new-user")

	assert.Zero(t, result.ThreadsMoved)
	assert.Equal(t, int64(2), result.ProjectsMoved)
	assert.Equal(t, 1, projects.calls)
}
