package sharerepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"loom-server/services/chat-api/internal/domain/query"
	"loom-server/services/chat-api/internal/domain/share"
	"loom-server/services/chat-api/internal/infrastructure/database/dbschema"
	"loom-server/services/chat-api/internal/utils/functional"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// ShareGormRepository persists share snapshots in postgres.
type ShareGormRepository struct {
	db *gorm.DB
}

var _ share.Repository = (*ShareGormRepository)(nil)

func NewShareGormRepository(db *gorm.DB) share.Repository {
	return &ShareGormRepository{db: db}
}

// Create implements share.Repository.
func (r *ShareGormRepository) Create(ctx context.Context, s *share.Share) error {
	entity := dbschema.NewSchemaShare(s)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create share",
			err,
			"7e9f1a3b-5c6d-4e8f-0a2b-4c6d7e9f1a3b",
		)
	}
	s.ID = entity.ID
	s.CreatedAt = entity.CreatedAt
	s.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByToken implements share.Repository.
func (r *ShareGormRepository) FindByToken(ctx context.Context, token string) (*share.Share, error) {
	var entity dbschema.Share
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"share not found",
				nil,
				"8f0a2b4c-6d7e-4f9a-1b3c-5d7e8f0a2b4c",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch share",
			err,
			"9a1b3c5d-7e8f-4a0b-2c4d-6e8f9a1b3c5d",
		)
	}
	return entity.EtoD(), nil
}

// FindByFilter implements share.Repository.
func (r *ShareGormRepository) FindByFilter(ctx context.Context, filter share.Filter, pagination *query.Pagination) ([]*share.Share, error) {
	sql := r.applyFilter(r.db.WithContext(ctx).Model(&dbschema.Share{}), filter)

	if pagination != nil {
		if pagination.Order == "asc" {
			sql = sql.Order("created_at ASC")
		} else {
			sql = sql.Order("created_at DESC")
		}
		if pagination.Limit != nil && *pagination.Limit > 0 {
			sql = sql.Limit(*pagination.Limit)
		}
		if pagination.Offset != nil && *pagination.Offset > 0 {
			sql = sql.Offset(*pagination.Offset)
		}
	} else {
		sql = sql.Order("created_at DESC")
	}

	var rows []*dbschema.Share
	if err := sql.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find shares",
			err,
			"0b2c4d6e-8f9a-4b1c-3d5e-7f9a0b2c4d6e",
		)
	}

	return functional.Map(rows, func(item *dbschema.Share) *share.Share {
		return item.EtoD()
	}), nil
}

// Count implements share.Repository.
func (r *ShareGormRepository) Count(ctx context.Context, filter share.Filter) (int64, error) {
	var count int64
	sql := r.applyFilter(r.db.WithContext(ctx).Model(&dbschema.Share{}), filter)
	if err := sql.Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count shares",
			err,
			"1c3d5e7f-9a0b-4c2d-4e6f-8a0b1c3d5e7f",
		)
	}
	return count, nil
}

// Update implements share.Repository.
func (r *ShareGormRepository) Update(ctx context.Context, s *share.Share) error {
	entity := dbschema.NewSchemaShare(s)
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update share",
			err,
			"2d4e6f8a-0b1c-4d3e-5f7a-9b1c2d4e6f8a",
		)
	}
	s.UpdatedAt = entity.UpdatedAt
	return nil
}

// IncrementViewCount implements share.Repository.
func (r *ShareGormRepository) IncrementViewCount(ctx context.Context, id uint) error {
	now := time.Now().UTC()
	if err := r.db.WithContext(ctx).Model(&dbschema.Share{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"view_count":     gorm.Expr("view_count + 1"),
			"last_viewed_at": now,
		}).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to increment share view count",
			err,
			"3e5f7a9b-1c2d-4e4f-6a8b-0c2d3e5f7a9b",
		)
	}
	return nil
}

// Revoke implements share.Repository. The guard on revoked_at keeps an earlier
// revocation timestamp from being overwritten.
func (r *ShareGormRepository) Revoke(ctx context.Context, id uint, revokedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&dbschema.Share{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", revokedAt)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to revoke share",
			result.Error,
			"4f6a8b0c-2d3e-4f5a-7b9c-1d3e4f6a8b0c",
		)
	}
	return nil
}

func (r *ShareGormRepository) applyFilter(sql *gorm.DB, filter share.Filter) *gorm.DB {
	if filter.Token != nil {
		sql = sql.Where("token = ?", *filter.Token)
	}
	if filter.ThreadID != nil {
		sql = sql.Where("thread_id = ?", *filter.ThreadID)
	}
	if filter.OwnerID != nil {
		sql = sql.Where("owner_id = ?", *filter.OwnerID)
	}
	if !filter.IncludeRevoked {
		sql = sql.Where("revoked_at IS NULL")
	}
	return sql
}
