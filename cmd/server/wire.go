//go:build wireinject

package main

import (
	"github.com/google/wire"

	"loom-server/services/chat-api/internal/infrastructure"
	"loom-server/services/chat-api/internal/interfaces"
	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		serviceProvider,
		infrastructure.InfrastructureProvider,
		handlers.HandlerProvider,
		routes.RouteProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
