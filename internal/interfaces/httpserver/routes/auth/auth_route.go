package auth

import (
	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/guesthandler"
)

// AuthRoute handles routing for session endpoints
type AuthRoute struct {
	guestHandler *guesthandler.GuestHandler
}

// NewAuthRoute creates a new auth route handler
func NewAuthRoute(guestHandler *guesthandler.GuestHandler) *AuthRoute {
	return &AuthRoute{guestHandler: guestHandler}
}

// RegisterRouter registers auth routes
func (route *AuthRoute) RegisterRouter(router gin.IRouter) {
	authGroup := router.Group("/auth")
	authGroup.POST("/guest-login", route.guestHandler.GuestSession)
}
