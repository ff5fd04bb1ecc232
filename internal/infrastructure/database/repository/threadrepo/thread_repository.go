package threadrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"loom-server/services/chat-api/internal/domain/query"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/infrastructure/database/dbschema"
	"loom-server/services/chat-api/internal/utils/functional"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// ThreadGormRepository persists threads in postgres. The message list lives in
// a jsonb column, so every update rewrites the full document.
type ThreadGormRepository struct {
	db *gorm.DB
}

var _ thread.Repository = (*ThreadGormRepository)(nil)

func NewThreadGormRepository(db *gorm.DB) thread.Repository {
	return &ThreadGormRepository{db: db}
}

// Create implements thread.Repository.
func (r *ThreadGormRepository) Create(ctx context.Context, t *thread.Thread) error {
	entity := dbschema.NewSchemaThread(t)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create thread",
			err,
			"8f2c1a5e-9b4d-4e7a-a1c3-2d6f8b0e4a97",
		)
	}
	t.ID = entity.ID
	t.CreatedAt = entity.CreatedAt
	t.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByThreadID implements thread.Repository.
func (r *ThreadGormRepository) FindByThreadID(ctx context.Context, threadID string) (*thread.Thread, error) {
	var entity dbschema.Thread
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("thread not found: %s", threadID),
				nil,
				"c7d9e2f4-1a3b-4c5d-8e6f-9a0b1c2d3e4f",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch thread",
			err,
			"5b8a3d6c-2e4f-4a1b-9c7d-0e5f6a8b9c1d",
		)
	}
	return entity.EtoD(), nil
}

// FindByFilter implements thread.Repository.
func (r *ThreadGormRepository) FindByFilter(ctx context.Context, filter thread.Filter, pagination *query.Pagination) ([]*thread.Thread, error) {
	sql := r.applyFilter(r.db.WithContext(ctx).Model(&dbschema.Thread{}), filter)
	sql = applyPagination(sql, pagination, "last_message_at")

	var rows []*dbschema.Thread
	if err := sql.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find threads",
			err,
			"e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4a5b",
		)
	}

	return functional.Map(rows, func(item *dbschema.Thread) *thread.Thread {
		return item.EtoD()
	}), nil
}

// Count implements thread.Repository.
func (r *ThreadGormRepository) Count(ctx context.Context, filter thread.Filter) (int64, error) {
	var count int64
	sql := r.applyFilter(r.db.WithContext(ctx).Model(&dbschema.Thread{}), filter)
	if err := sql.Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count threads",
			err,
			"9d8c7b6a-5e4f-4d3c-2b1a-0f9e8d7c6b5a",
		)
	}
	return count, nil
}

// Update implements thread.Repository.
func (r *ThreadGormRepository) Update(ctx context.Context, t *thread.Thread) error {
	entity := dbschema.NewSchemaThread(t)
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update thread",
			err,
			"3a5b7c9d-1e2f-4a3b-5c6d-7e8f9a0b1c2d",
		)
	}
	t.UpdatedAt = entity.UpdatedAt
	return nil
}

// Delete implements thread.Repository.
func (r *ThreadGormRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&dbschema.Thread{}, id).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete thread",
			err,
			"6f4e2d0c-8b9a-4c7d-5e3f-1a2b3c4d5e6f",
		)
	}
	return nil
}

// Search implements thread.Repository. Two passes keep title matches ranked
// ahead of body-only matches without a ts_rank dependency.
func (r *ThreadGormRepository) Search(ctx context.Context, ownerID, text string, pagination *query.Pagination) ([]*thread.Thread, int64, error) {
	pattern := "%" + text + "%"

	var titleRows []*dbschema.Thread
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND title ILIKE ?", ownerID, pattern).
		Order("last_message_at DESC").
		Find(&titleRows).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to search threads by title",
			err,
			"b2c4d6e8-f0a1-4b3c-5d7e-9f1a2b3c4d5e",
		)
	}

	var bodyRows []*dbschema.Thread
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND title NOT ILIKE ? AND messages::text ILIKE ?", ownerID, pattern, pattern).
		Order("last_message_at DESC").
		Find(&bodyRows).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to search threads by content",
			err,
			"a1b3c5d7-e9f0-4a2b-4c6d-8e0f1a2b3c4d",
		)
	}

	combined := append(titleRows, bodyRows...)
	total := int64(len(combined))
	if pagination != nil {
		offset := pagination.OffsetOrZero()
		if offset >= len(combined) {
			combined = nil
		} else {
			combined = combined[offset:]
		}
		if pagination.Limit != nil && *pagination.Limit > 0 && *pagination.Limit < len(combined) {
			combined = combined[:*pagination.Limit]
		}
	}

	return functional.Map(combined, func(item *dbschema.Thread) *thread.Thread {
		return item.EtoD()
	}), total, nil
}

// ReassignOwner implements thread.Repository.
func (r *ThreadGormRepository) ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&dbschema.Thread{}).
		Where("owner_id = ?", oldOwnerID).
		Update("owner_id", newOwnerID)
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to reassign thread owner",
			result.Error,
			"d4e6f8a0-b1c2-4d3e-6f5a-7b8c9d0e1f2a",
		)
	}
	return result.RowsAffected, nil
}

// CountUserMessages implements thread.Repository. The count unnests the jsonb
// message arrays server-side so quota checks stay a single round trip.
func (r *ThreadGormRepository) CountUserMessages(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(*)
		 FROM chat_api.threads t, jsonb_array_elements(t.messages) msg
		 WHERE t.owner_id = ? AND msg->>'role' = 'user'`,
		ownerID,
	).Scan(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count user messages",
			err,
			"f0a2b4c6-d8e9-4f1a-3b5c-7d9e0f1a2b3c",
		)
	}
	return count, nil
}

// DeleteIdleByOwnerPrefix implements thread.Repository.
func (r *ThreadGormRepository) DeleteIdleByOwnerPrefix(ctx context.Context, ownerPrefix string, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("owner_id LIKE ? AND last_message_at < ?", ownerPrefix+"%", cutoff).
		Delete(&dbschema.Thread{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete idle threads",
			result.Error,
			"2b4c6d8e-0f1a-4b2c-4d6e-8f0a1b2c3d4e",
		)
	}
	return result.RowsAffected, nil
}

func (r *ThreadGormRepository) applyFilter(sql *gorm.DB, filter thread.Filter) *gorm.DB {
	if filter.OwnerID != nil {
		sql = sql.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.ThreadID != nil {
		sql = sql.Where("thread_id = ?", *filter.ThreadID)
	}
	if filter.IsArchived != nil {
		sql = sql.Where("is_archived = ?", *filter.IsArchived)
	}
	if filter.IsPinned != nil {
		sql = sql.Where("is_pinned = ?", *filter.IsPinned)
	}
	return sql
}

// applyPagination applies cursor and limit/offset pagination ordered by the
// given column, newest first unless asked otherwise.
func applyPagination(sql *gorm.DB, p *query.Pagination, orderColumn string) *gorm.DB {
	if p == nil {
		return sql.Order(orderColumn + " DESC")
	}
	if p.After != nil {
		if p.Order == "asc" {
			sql = sql.Where("id > ?", *p.After)
		} else {
			sql = sql.Where("id < ?", *p.After)
		}
	}
	if p.Order == "asc" {
		sql = sql.Order(orderColumn + " ASC")
	} else {
		sql = sql.Order(orderColumn + " DESC")
	}
	if p.Limit != nil && *p.Limit > 0 {
		sql = sql.Limit(*p.Limit)
	}
	if p.Offset != nil && *p.Offset > 0 {
		sql = sql.Offset(*p.Offset)
	}
	return sql
}
