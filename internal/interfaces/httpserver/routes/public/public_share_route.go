package public

import (
	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/sharehandler"
)

// PublicShareRoute handles routing for anonymous share access
type PublicShareRoute struct {
	handler *sharehandler.ShareHandler
}

// NewPublicShareRoute creates a new public share route handler
func NewPublicShareRoute(handler *sharehandler.ShareHandler) *PublicShareRoute {
	return &PublicShareRoute{handler: handler}
}

// RegisterRouter registers public share routes. No identity resolution; the
// token is the only credential.
func (route *PublicShareRoute) RegisterRouter(router gin.IRouter) {
	shares := router.Group("/public/shares")
	shares.GET("/:token", route.handler.GetPublicShare)
	shares.HEAD("/:token", route.handler.HeadPublicShare)
}
