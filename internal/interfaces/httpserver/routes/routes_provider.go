package routes

import (
	"github.com/google/wire"

	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/auth"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/public"
	v1 "loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1/chat"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1/migrate"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1/projects"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1/share"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1/threads"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1/usage"
)

// RouteProvider provides all route dependencies
var RouteProvider = wire.NewSet(
	auth.NewAuthRoute,
	v1.NewV1Route,
	chat.NewChatRoute,
	threads.NewThreadsRoute,
	projects.NewProjectsRoute,
	share.NewShareRoute,
	migrate.NewMigrateRoute,
	usage.NewUsageRoute,
	public.NewPublicShareRoute,
)
