package projectrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"loom-server/services/chat-api/internal/domain/project"
	"loom-server/services/chat-api/internal/domain/query"
	"loom-server/services/chat-api/internal/infrastructure/database/dbschema"
	"loom-server/services/chat-api/internal/utils/functional"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// ProjectGormRepository persists projects in postgres. Chat references are a
// jsonb document on the project row.
type ProjectGormRepository struct {
	db *gorm.DB
}

var _ project.Repository = (*ProjectGormRepository)(nil)

func NewProjectGormRepository(db *gorm.DB) project.Repository {
	return &ProjectGormRepository{db: db}
}

// Create implements project.Repository.
func (r *ProjectGormRepository) Create(ctx context.Context, proj *project.Project) error {
	entity := dbschema.NewSchemaProject(proj)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create project",
			err,
			"7a9b1c3d-5e6f-4a8b-0c2d-4e6f8a9b1c3d",
		)
	}
	proj.ID = entity.ID
	proj.CreatedAt = entity.CreatedAt
	proj.UpdatedAt = entity.UpdatedAt
	return nil
}

// GetByProjectID implements project.Repository. The lookup spans all owners
// because project ids are globally unique.
func (r *ProjectGormRepository) GetByProjectID(ctx context.Context, projectID string) (*project.Project, error) {
	var entity dbschema.Project
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("project not found: %s", projectID),
				nil,
				"8b0c2d4e-6f7a-4b9c-1d3e-5f7a9b0c2d4e",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch project",
			err,
			"9c1d3e5f-7a8b-4c0d-2e4f-6a8b0c1d3e5f",
		)
	}
	return entity.EtoD(), nil
}

// ListByOwner implements project.Repository. Inactive projects are excluded.
func (r *ProjectGormRepository) ListByOwner(ctx context.Context, ownerID string, pagination *query.Pagination) ([]*project.Project, int64, error) {
	base := r.db.WithContext(ctx).Model(&dbschema.Project{}).
		Where("owner_id = ? AND is_active = ?", ownerID, true)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count projects",
			err,
			"0d2e4f6a-8b9c-4d1e-3f5a-7b9c0d2e4f6a",
		)
	}

	sql := base.Session(&gorm.Session{})
	if pagination != nil {
		if pagination.Order == "asc" {
			sql = sql.Order("updated_at ASC")
		} else {
			sql = sql.Order("updated_at DESC")
		}
		if pagination.Limit != nil && *pagination.Limit > 0 {
			sql = sql.Limit(*pagination.Limit)
		}
		if pagination.Offset != nil && *pagination.Offset > 0 {
			sql = sql.Offset(*pagination.Offset)
		}
	} else {
		sql = sql.Order("updated_at DESC")
	}

	var rows []*dbschema.Project
	if err := sql.Find(&rows).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list projects",
			err,
			"1e3f5a7b-9c0d-4e2f-4a6b-8c0d1e3f5a7b",
		)
	}

	result := functional.Map(rows, func(item *dbschema.Project) *project.Project {
		return item.EtoD()
	})
	return result, total, nil
}

// Update implements project.Repository.
func (r *ProjectGormRepository) Update(ctx context.Context, proj *project.Project) error {
	entity := dbschema.NewSchemaProject(proj)
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update project",
			err,
			"2f4a6b8c-0d1e-4f3a-5b7c-9d1e2f4a6b8c",
		)
	}
	proj.UpdatedAt = entity.UpdatedAt
	return nil
}

// HardDelete implements project.Repository.
func (r *ProjectGormRepository) HardDelete(ctx context.Context, projectID string) error {
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&dbschema.Project{}).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete project",
			err,
			"3a5b7c9d-1e2f-4a4b-6c8d-0e2f3a5b7c9d",
		)
	}
	return nil
}

// FindWithChat implements project.Repository. The jsonb containment check
// matches any chat reference whose thread_id equals the argument.
func (r *ProjectGormRepository) FindWithChat(ctx context.Context, threadID string) ([]*project.Project, error) {
	var rows []*dbschema.Project
	if err := r.db.WithContext(ctx).
		Where(`chats @> ?`, fmt.Sprintf(`[{"thread_id": %q}]`, threadID)).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find projects containing chat",
			err,
			"4b6c8d0e-2f3a-4b5c-7d9e-1f3a4b6c8d0e",
		)
	}

	return functional.Map(rows, func(item *dbschema.Project) *project.Project {
		return item.EtoD()
	}), nil
}

// ReassignOwner implements project.Repository.
func (r *ProjectGormRepository) ReassignOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&dbschema.Project{}).
		Where("owner_id = ?", oldOwnerID).
		Update("owner_id", newOwnerID)
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to reassign project owner",
			result.Error,
			"5c7d9e1f-3a4b-4c6d-8e0f-2a4b5c7d9e1f",
		)
	}
	return result.RowsAffected, nil
}

// DeleteIdleByOwnerPrefix implements project.Repository.
func (r *ProjectGormRepository) DeleteIdleByOwnerPrefix(ctx context.Context, ownerPrefix string, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("owner_id LIKE ? AND updated_at < ?", ownerPrefix+"%", cutoff).
		Delete(&dbschema.Project{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete idle projects",
			result.Error,
			"6d8e0f2a-4b5c-4d7e-9f1a-3b5c6d8e0f2a",
		)
	}
	return result.RowsAffected, nil
}
