package repository

import (
	"loom-server/services/chat-api/internal/infrastructure/database/repository/projectrepo"
	"loom-server/services/chat-api/internal/infrastructure/database/repository/sharerepo"
	"loom-server/services/chat-api/internal/infrastructure/database/repository/threadrepo"

	"github.com/google/wire"
)

var RepositoryProvider = wire.NewSet(
	threadrepo.NewThreadGormRepository,
	projectrepo.NewProjectGormRepository,
	sharerepo.NewShareGormRepository,
)
