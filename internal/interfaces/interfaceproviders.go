package interfaces

import (
	"github.com/google/wire"

	"loom-server/services/chat-api/internal/interfaces/httpserver"
)

var InterfacesProvider = wire.NewSet(
	httpserver.NewHttpServer,
)
