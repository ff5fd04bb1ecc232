package threads

import (
	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/interfaces/httpserver/handlers/threadhandler"
)

// ThreadsRoute handles routing for thread endpoints
type ThreadsRoute struct {
	handler *threadhandler.ThreadHandler
}

// NewThreadsRoute creates a new threads route handler
func NewThreadsRoute(handler *threadhandler.ThreadHandler) *ThreadsRoute {
	return &ThreadsRoute{handler: handler}
}

// RegisterRouter registers thread routes. The search route must come before
// the :thread_id wildcard.
func (route *ThreadsRoute) RegisterRouter(router gin.IRouter) {
	threads := router.Group("/threads")
	threads.GET("", route.handler.ListThreads)
	threads.GET("/search", route.handler.SearchThreads)
	threads.GET("/:thread_id", route.handler.GetThread)
	threads.PATCH("/:thread_id", route.handler.UpdateThread)
	threads.DELETE("/:thread_id", route.handler.DeleteThread)
	threads.PUT("/:thread_id/messages/:index", route.handler.EditMessage)
}
