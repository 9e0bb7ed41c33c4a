// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"errors"

	"algotutor-go/internal/model"
)

// ErrNotFound 表示请求的记录不存在。
var ErrNotFound = errors.New("record not found")

// UserRepository 接口定义了用户数据的持久化操作。
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	FindUserByID(ctx context.Context, id uint) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// ConversationRepository 定义了对话的持久化操作。对话创建后不可修改、不可删除。
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conversation *model.Conversation) error
	FindConversationByID(ctx context.Context, id uint) (*model.Conversation, error)
	// ListConversations 按创建时间倒序返回全部对话。
	ListConversations(ctx context.Context) ([]model.Conversation, error)
}

// MessageRepository 定义了消息的只追加存储。
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *model.Message) error
	// ListMessages 按时间戳正序返回对话内的全部消息。
	ListMessages(ctx context.Context, conversationID uint) ([]model.Message, error)
}

// Store 聚合了所有仓储接口。启动时在内存实现与 GORM 实现之间二选一，调用方不感知差异。
type Store interface {
	UserRepository
	ConversationRepository
	MessageRepository
	Close() error
}
