package usage

import (
	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/usagehandler"
)

// UsageRoute handles routing for usage report endpoints
type UsageRoute struct {
	handler *usagehandler.UsageHandler
}

// NewUsageRoute creates a new usage route handler
func NewUsageRoute(handler *usagehandler.UsageHandler) *UsageRoute {
	return &UsageRoute{handler: handler}
}

// RegisterRouter registers usage routes
func (route *UsageRoute) RegisterRouter(router gin.IRouter) {
	router.GET("/usage", route.handler.GetUsage)
}
