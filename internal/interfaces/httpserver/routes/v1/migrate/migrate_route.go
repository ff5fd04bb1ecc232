package migrate

import (
	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/migrationhandler"
	"loom-server/services/chat-api/internal/interfaces/httpserver/middlewares"
)

// MigrateRoute handles routing for guest data migration
type MigrateRoute struct {
	handler *migrationhandler.MigrationHandler
}

// NewMigrateRoute creates a new migrate route handler
func NewMigrateRoute(handler *migrationhandler.MigrationHandler) *MigrateRoute {
	return &MigrateRoute{handler: handler}
}

// RegisterRouter registers the migration route. Guests cannot migrate into
// themselves, so the route demands a real account.
func (route *MigrateRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/migrate", middlewares.RequireAuthenticated(), route.handler.Migrate)
}
