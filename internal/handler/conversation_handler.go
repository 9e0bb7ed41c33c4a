// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"algotutor-go/internal/service"
	"algotutor-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ConversationHandler 处理与对话相关的 API 请求。
type ConversationHandler struct {
	service service.ConversationService
}

// NewConversationHandler 创建一个新的 ConversationHandler。
func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// CreateConversationRequest 定义了创建对话的请求体。
type CreateConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

// ListConversations 返回全部对话，最新的在前。
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	conversations, err := h.service.ListConversations(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to fetch conversations", err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

// CreateConversation 创建一个新的对话。
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateConversation: invalid request payload, error: %v", err)
		badRequest(c, "Invalid conversation data", err)
		return
	}

	conversation, err := h.service.CreateConversation(c.Request.Context(), req.Title)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			badRequest(c, "Invalid conversation data", err)
			return
		}
		internalError(c, "Failed to create conversation", err)
		return
	}
	c.JSON(http.StatusCreated, conversation)
}

// GetMessages 返回对话的全部消息，最早的在前。
func (h *ConversationHandler) GetMessages(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		badRequest(c, "Invalid conversation ID", err)
		return
	}

	messages, err := h.service.GetMessages(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			notFound(c, "Conversation not found")
			return
		}
		internalError(c, "Failed to fetch messages", err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
