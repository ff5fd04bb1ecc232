package handlers

import (
	"github.com/google/wire"

	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/chathandler"
	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/guesthandler"
	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/migrationhandler"
	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/projecthandler"
	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/sharehandler"
	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/threadhandler"
	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/usagehandler"
)

// HandlerProvider provides all handler dependencies
var HandlerProvider = wire.NewSet(
	chathandler.NewChatHandler,
	threadhandler.NewThreadHandler,
	projecthandler.NewProjectHandler,
	sharehandler.NewShareHandler,
	migrationhandler.NewMigrationHandler,
	usagehandler.NewUsageHandler,
	guesthandler.NewGuestHandler,
)
