package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/config"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/auth"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/public"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1/chat"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1/migrate"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1/projects"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1/share"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1/threads"
	"loom-server/services/chat-api/internal/interfaces/httpserver/routes/v1/usage"
)

type V1Route struct {
	auth        *auth.AuthRoute
	chat        *chat.ChatRoute
	threads     *threads.ThreadsRoute
	projects    *projects.ProjectsRoute
	share       *share.ShareRoute
	migrate     *migrate.MigrateRoute
	usage       *usage.UsageRoute
	publicShare *public.PublicShareRoute
}

func NewV1Route(
	authRoute *auth.AuthRoute,
	chatRoute *chat.ChatRoute,
	threadsRoute *threads.ThreadsRoute,
	projectsRoute *projects.ProjectsRoute,
	shareRoute *share.ShareRoute,
	migrateRoute *migrate.MigrateRoute,
	usageRoute *usage.UsageRoute,
	publicShare *public.PublicShareRoute,
) *V1Route {
	return &V1Route{
		auth:        authRoute,
		chat:        chatRoute,
		threads:     threadsRoute,
		projects:    projectsRoute,
		share:       shareRoute,
		migrate:     migrateRoute,
		usage:       usageRoute,
		publicShare: publicShare,
	}
}

// RegisterRouter registers identity-resolved endpoints under /v1.
func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Router.GET("/healthz", GetHealthz)
	v1Router.GET("/readyz", GetReadyz)

	v1Route.auth.RegisterRouter(v1Router)
	v1Route.chat.RegisterRouter(v1Router)
	v1Route.threads.RegisterRouter(v1Router)
	v1Route.projects.RegisterRouter(v1Router)
	v1Route.share.RegisterRouter(v1Router)
	v1Route.migrate.RegisterRouter(v1Router)
	v1Route.usage.RegisterRouter(v1Router)
}

// RegisterPublicRouter registers endpoints that skip identity resolution.
func (v1Route *V1Route) RegisterPublicRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Route.publicShare.RegisterRouter(v1Router)
}

// GetVersion godoc
// @Summary Get API build version
// @Description Returns the current build version of the API server and environment reload timestamp.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Version information"
// @Router /v1/version [get]
func GetVersion(c *gin.Context) {
	reloadedAt := ""
	if cfg := config.GetGlobal(); cfg != nil {
		reloadedAt = cfg.EnvReloadedAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, gin.H{
		"version":         config.Version,
		"env_reloaded_at": reloadedAt,
	})
}

// GetHealthz godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API server. Used by orchestrators and monitoring systems.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Health status OK"
// @Router /v1/healthz [get]
func GetHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadyz godoc
// @Summary Readiness check endpoint
// @Description Returns the readiness status of the API server. Indicates if the service is ready to accept traffic.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Readiness status ready"
// @Router /v1/readyz [get]
func GetReadyz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
