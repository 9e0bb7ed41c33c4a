package handler

import (
	"errors"
	"net/http"

	"algotutor-go/internal/service"
	"algotutor-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ChatHandler 处理向对话发送消息的请求。
type ChatHandler struct {
	conversationService service.ConversationService
	chatService         service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(conversationService service.ConversationService, chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		conversationService: conversationService,
		chatService:         chatService,
	}
}

// SendMessageRequest 定义了发送消息的请求体。
type SendMessageRequest struct {
	Content           string `json:"content" binding:"required"`
	PreferredLanguage string `json:"preferredLanguage"`
}

// SendMessage 保存用户消息并返回导师回复。
// 错误优先级：路径 ID 400，对话不存在 404，请求体 400。
// 对话是否存在由 ChatService 检查；只有请求体无效时才在这里单独查询，以保证 404 优先。
func (h *ChatHandler) SendMessage(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		badRequest(c, "Invalid conversation ID", err)
		return
	}

	ctx := c.Request.Context()
	var req SendMessageRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		if _, err := h.conversationService.GetConversation(ctx, id); err != nil {
			h.handleSendError(c, err)
			return
		}
		log.Warnf("SendMessage: invalid request payload, error: %v", bindErr)
		badRequest(c, "Invalid message data", bindErr)
		return
	}

	exchange, err := h.chatService.SendMessage(ctx, id, req.Content, req.PreferredLanguage)
	if err != nil {
		h.handleSendError(c, err)
		return
	}
	c.JSON(http.StatusOK, exchange)
}

func (h *ChatHandler) handleSendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		badRequest(c, "Invalid message data", err)
	case errors.Is(err, service.ErrConversationNotFound):
		notFound(c, "Conversation not found")
	default:
		internalError(c, "Failed to process message", err)
	}
}
