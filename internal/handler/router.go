package handler

import (
	"algotutor-go/internal/middleware"
	"algotutor-go/internal/service"

	"github.com/gin-gonic/gin"
)

// Services 聚合路由所需的全部业务服务。
type Services struct {
	Conversations service.ConversationService
	Chat          service.ChatService
	Users         service.UserService
	Catalog       service.CatalogService
}

// NewRouter 创建路由引擎并注册全部 /api 路由。调用方负责先设置 gin 模式。
func NewRouter(svc Services) *gin.Engine {
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.CORS(), middleware.RequestID(), middleware.RequestLogger(), gin.Recovery())

	conversationHandler := NewConversationHandler(svc.Conversations)
	chatHandler := NewChatHandler(svc.Conversations, svc.Chat)
	userHandler := NewUserHandler(svc.Users)
	catalogHandler := NewCatalogHandler(svc.Catalog)

	api := r.Group("/api")
	{
		api.GET("/health", Health)

		conversations := api.Group("/conversations")
		{
			conversations.GET("", conversationHandler.ListConversations)
			conversations.POST("", conversationHandler.CreateConversation)
			conversations.GET("/:id/messages", conversationHandler.GetMessages)
			conversations.POST("/:id/messages", chatHandler.SendMessage)
		}

		users := api.Group("/users")
		{
			users.POST("", userHandler.Register)
			users.GET("/:id", userHandler.GetUser)
		}

		api.GET("/topics", catalogHandler.Topics)
		api.GET("/topics/:topicId/subtopics/:subtopicId/prompt", catalogHandler.TopicPrompt)
		api.GET("/languages", catalogHandler.Languages)
	}
	return r
}
