package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"loom-server/services/chat-api/internal/config"
	"loom-server/services/chat-api/internal/infrastructure"
	middleware "loom-server/services/chat-api/internal/interfaces/httpserver/middlewares"
	"loom-server/services/chat-api/internal/interfaces/httpserver/requests"
	v1 "loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1"
	"loom-server/services/chat-api/swagger"
)

type HTTPServer struct {
	engine  *gin.Engine
	infra   *infrastructure.Infrastructure
	v1Route *v1.V1Route
	config  *config.Config
}

func NewHttpServer(
	v1Route *v1.V1Route,
	infra *infrastructure.Infrastructure,
	cfg *config.Config,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	requests.RegisterValidators()
	server := HTTPServer{
		gin.New(),
		infra,
		v1Route,
		cfg,
	}
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(infra.Logger))
	server.engine.Use(middleware.CORSMiddleware())
	server.engine.Use(middleware.MetricsMiddleware())

	// Root health check (for orchestrator probes)
	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server.engine.GET("/readyz", func(c *gin.Context) {
		if !infra.JWTValidator.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "jwks not loaded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.EnableSwagger {
		server.bindSwagger()
	}
	return &server
}

func (s *HTTPServer) bindSwagger() {
	swagger.Register(s.engine)

	g := s.engine.Group("/")

	g.GET("/api/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/doc.json" {
			ServeSwaggerDoc()(c)
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
	})
}

func (httpServer *HTTPServer) Run() error {
	// Public routes skip identity resolution entirely; share tokens are the
	// only credential there.
	public := httpServer.engine.Group("/")
	httpServer.v1Route.RegisterPublicRouter(public)

	// Everything else is resolved to a principal: bearer token or guest cookie.
	resolved := httpServer.engine.Group("/")
	resolved.Use(middleware.IdentityMiddleware(httpServer.infra.JWTValidator, httpServer.config, httpServer.infra.Logger))
	if httpServer.config.RateLimitPerMinute > 0 {
		resolved.Use(middleware.RateLimitMiddleware(httpServer.config.RateLimitPerMinute))
	}
	httpServer.v1Route.RegisterRouter(resolved)

	return httpServer.engine.Run(fmt.Sprintf(":%d", httpServer.config.HTTPPort))
}
