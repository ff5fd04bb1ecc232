package chat

import (
	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/chathandler"
)

// ChatRoute handles routing for chat turn endpoints
type ChatRoute struct {
	handler *chathandler.ChatHandler
}

// NewChatRoute creates a new chat route handler
func NewChatRoute(handler *chathandler.ChatHandler) *ChatRoute {
	return &ChatRoute{handler: handler}
}

// RegisterRouter registers chat routes
func (route *ChatRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/chat", route.handler.SendMessage)
}
