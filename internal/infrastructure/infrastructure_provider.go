package infrastructure

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"loom-server/services/chat-api/internal/config"
	"loom-server/services/chat-api/internal/infrastructure/auth"
	"loom-server/services/chat-api/internal/infrastructure/completion"
	"loom-server/services/chat-api/internal/infrastructure/crontab"
	"loom-server/services/chat-api/internal/infrastructure/database"
	"loom-server/services/chat-api/internal/infrastructure/database/repository"
	"loom-server/services/chat-api/internal/infrastructure/logger"
	"loom-server/services/chat-api/internal/infrastructure/mailer"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideLogger builds the process logger from the configured level and format.
func ProvideLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}

// ProvideJWTValidator provides a JWKS-backed JWT validator
func ProvideJWTValidator(cfg *config.Config, log zerolog.Logger) (*auth.JWTValidator, error) {
	ctx := context.Background()
	jwksURL, err := cfg.ResolveJWKSURL(ctx)
	if err != nil {
		return nil, err
	}
	return auth.NewJWTValidator(
		ctx,
		jwksURL,
		cfg.Issuer,
		cfg.Audience,
		cfg.RefreshJWKSInterval,
		cfg.AuthClockSkew,
		log,
	)
}

// ProvideDatabase provides a database connection
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		log.Info().Msg("Running database migrations...")
		if err := database.Migration(db, "chat_api."); err != nil {
			log.Error().Err(err).Msg("Failed to run database migrations")
			return nil, err
		}
		log.Info().Msg("Database migrations completed successfully")
	}

	return db, nil
}

// Infrastructure holds all infrastructure dependencies
type Infrastructure struct {
	DB           *gorm.DB
	JWTValidator *auth.JWTValidator
	Logger       zerolog.Logger
}

// NewInfrastructure creates a new infrastructure instance
func NewInfrastructure(
	db *gorm.DB,
	jwtValidator *auth.JWTValidator,
	logger zerolog.Logger,
) *Infrastructure {
	return &Infrastructure{
		DB:           db,
		JWTValidator: jwtValidator,
		Logger:       logger,
	}
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,

	// Database
	ProvideDatabase,

	// Repositories
	repository.RepositoryProvider,

	// Logger
	ProvideLogger,

	// Auth
	ProvideJWTValidator,

	// Outbound collaborators
	completion.NewClient,
	mailer.NewSMTPMailer,

	// Crontab for guest retention
	crontab.NewCrontab,

	// Infrastructure struct
	NewInfrastructure,
)
