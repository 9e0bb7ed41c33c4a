package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"algotutor-go/internal/model"
	"algotutor-go/internal/repository"
)

// ConversationService 定义了对话业务逻辑的接口。
type ConversationService interface {
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	CreateConversation(ctx context.Context, title string) (*model.Conversation, error)
	GetConversation(ctx context.Context, id uint) (*model.Conversation, error)
	GetMessages(ctx context.Context, conversationID uint) ([]model.Message, error)
}

type conversationService struct {
	store repository.Store
}

// NewConversationService 创建一个新的 ConversationService。
func NewConversationService(store repository.Store) ConversationService {
	return &conversationService{store: store}
}

// ListConversations 返回全部对话，最新的在前。
func (s *conversationService) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	return s.store.ListConversations(ctx)
}

// CreateConversation 创建一个新的对话。
func (s *conversationService) CreateConversation(ctx context.Context, title string) (*model.Conversation, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	conversation := &model.Conversation{Title: title}
	if err := s.store.CreateConversation(ctx, conversation); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conversation, nil
}

// GetConversation 根据 ID 获取对话。
func (s *conversationService) GetConversation(ctx context.Context, id uint) (*model.Conversation, error) {
	conversation, err := s.store.FindConversationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return conversation, nil
}

// GetMessages 获取对话的完整消息历史，最早的在前。
func (s *conversationService) GetMessages(ctx context.Context, conversationID uint) ([]model.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, conversationID)
}
