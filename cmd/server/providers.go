package main

import (
	"github.com/google/wire"

	"loom-server/services/chat-api/internal/config"
	"loom-server/services/chat-api/internal/domain/chat"
	"loom-server/services/chat-api/internal/domain/identity"
	"loom-server/services/chat-api/internal/domain/migration"
	"loom-server/services/chat-api/internal/domain/project"
	"loom-server/services/chat-api/internal/domain/share"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/domain/usage"
	"loom-server/services/chat-api/internal/infrastructure/completion"
	"loom-server/services/chat-api/internal/infrastructure/mailer"
)

// serviceProvider wires the domain services. The provider funcs thread config
// values and interface bindings through explicitly.
var serviceProvider = wire.NewSet(
	project.NewService,
	chat.NewService,
	provideThreadService,
	provideIdentityService,
	provideChatGateway,
	provideShareService,
	provideMigrationService,
	provideUsageService,
)

// provideThreadService binds the project service as the thread side's project
// unlinker, breaking the thread/project dependency cycle.
func provideThreadService(repo thread.Repository, projects *project.Service) *thread.Service {
	return thread.NewService(repo, projects)
}

func provideIdentityService(threadRepo thread.Repository, cfg *config.Config) *identity.Service {
	return identity.NewService(threadRepo, cfg.GuestMessageLimit)
}

func provideChatGateway(client *completion.Client) chat.Gateway {
	return client
}

func provideShareService(repo share.Repository, threadRepo thread.Repository, smtpMailer *mailer.SMTPMailer, cfg *config.Config) *share.Service {
	return share.NewService(repo, threadRepo, smtpMailer, cfg.ShareBaseURL)
}

func provideMigrationService(threads *thread.Service, projects *project.Service) *migration.Service {
	return migration.NewService(threads, projects)
}

func provideUsageService(threadRepo thread.Repository, cfg *config.Config) *usage.Service {
	return usage.NewService(threadRepo, cfg.CostPerMillionTokens)
}
