package share

import (
	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/sharehandler"
)

// ShareRoute handles routing for owner-facing share endpoints
type ShareRoute struct {
	handler *sharehandler.ShareHandler
}

// NewShareRoute creates a new share route handler
func NewShareRoute(handler *sharehandler.ShareHandler) *ShareRoute {
	return &ShareRoute{handler: handler}
}

// RegisterRouter registers share management routes
func (route *ShareRoute) RegisterRouter(router gin.IRouter) {
	shares := router.Group("/shares")
	shares.POST("", route.handler.CreateShare)
	shares.GET("", route.handler.ListShares)
	shares.DELETE("/:token", route.handler.RevokeShare)
	shares.POST("/:token/email", route.handler.EmailShare)
}
