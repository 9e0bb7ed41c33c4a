// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"algotutor-go/internal/model"
	"algotutor-go/internal/repository"
	"algotutor-go/pkg/log"
)

// DefaultPreferredLanguage 是未指定语言偏好时使用的语言。
const DefaultPreferredLanguage = "javascript"

// EventPublisher 发布问答交换事件，解耦业务逻辑与具体的消息队列实现。
type EventPublisher interface {
	PublishExchange(ctx context.Context, event model.ExchangeEvent) error
}

// Exchange 是一次消息发送的结果：持久化的两条消息，以及不落库的复杂度分析与延伸阅读。
type Exchange struct {
	UserMessage      model.Message `json:"userMessage"`
	AssistantMessage model.Message `json:"assistantMessage"`
	Complexity       *string       `json:"complexity,omitempty"`
	FurtherReadings  []string      `json:"furtherReadings,omitempty"`
}

// ChatService 定义了聊天操作的接口。
type ChatService interface {
	SendMessage(ctx context.Context, conversationID uint, content, preferredLanguage string) (*Exchange, error)
}

type chatService struct {
	store     repository.Store
	tutor     TutorService
	publisher EventPublisher
}

// NewChatService 创建一个新的 ChatService 实例。publisher 可以为 nil。
func NewChatService(store repository.Store, tutor TutorService, publisher EventPublisher) ChatService {
	return &chatService{
		store:     store,
		tutor:     tutor,
		publisher: publisher,
	}
}

// SendMessage 保存用户消息，携带完整历史请求导师回复，再保存助手消息。
func (s *chatService) SendMessage(ctx context.Context, conversationID uint, content, preferredLanguage string) (*Exchange, error) {
	// 1. 对话必须存在
	if _, err := s.store.FindConversationByID(ctx, conversationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	// 2. 校验内容
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", ErrInvalidInput)
	}
	if preferredLanguage == "" {
		preferredLanguage = DefaultPreferredLanguage
	}

	// 3. 保存用户消息
	userMessage := &model.Message{
		ConversationID: conversationID,
		Role:           model.RoleUser,
		Content:        content,
	}
	if err := s.store.CreateMessage(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	// 4. 加载包含刚保存消息在内的完整历史
	stored, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}
	history := make([]model.ChatMessage, 0, len(stored))
	for _, m := range stored {
		history = append(history, m.ToChatMessage())
	}

	// 5. 获取导师回复（限流时自动降级）
	tutorResp, err := s.tutor.GetTutorResponse(ctx, history, preferredLanguage)
	if err != nil {
		return nil, err
	}

	// 6. 保存助手消息；复杂度与延伸阅读不落库
	assistantMessage := &model.Message{
		ConversationID: conversationID,
		Role:           model.RoleAssistant,
		Content:        tutorResp.Explanation,
		CodeBlocks:     tutorResp.CodeBlocks,
	}
	if err := s.store.CreateMessage(ctx, assistantMessage); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}

	s.publish(ctx, model.ExchangeEvent{
		ConversationID:     conversationID,
		UserMessageID:      userMessage.ID,
		AssistantMessageID: assistantMessage.ID,
		PreferredLanguage:  preferredLanguage,
		CodeBlockCount:     len(assistantMessage.CodeBlocks),
		OccurredAt:         time.Now(),
	})

	return &Exchange{
		UserMessage:      *userMessage,
		AssistantMessage: *assistantMessage,
		Complexity:       tutorResp.Complexity,
		FurtherReadings:  tutorResp.FurtherReadings,
	}, nil
}

// publish 只记录发布失败，不影响已经成功的问答。
func (s *chatService) publish(ctx context.Context, event model.ExchangeEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExchange(ctx, event); err != nil {
		log.Errorf("Failed to publish exchange event for conversation %d: %v", event.ConversationID, err)
	}
}
