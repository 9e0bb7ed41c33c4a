package repository

import (
	"context"
	"errors"
	"fmt"

	"algotutor-go/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// gormStore 是 Store 接口的 GORM 实现，支持 MySQL 与 SQLite。
type gormStore struct {
	db *gorm.DB
}

// NewGormStore 创建一个基于 GORM 的 Store 实例。
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// AutoMigrate 创建或更新 users、conversations、messages 三张表。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.Conversation{}, &model.Message{})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// CreateUser 在数据库中创建一个新的用户记录。
func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// FindUserByID 根据用户 ID 查找一个用户。
func (s *gormStore) FindUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindUserByUsername 根据用户名查找一个用户。
func (s *gormStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// CreateConversation 插入对话，ID 与 CreatedAt 由数据库分配。
func (s *gormStore) CreateConversation(ctx context.Context, conversation *model.Conversation) error {
	return s.db.WithContext(ctx).Create(conversation).Error
}

// FindConversationByID 根据 ID 查找对话。
func (s *gormStore) FindConversationByID(ctx context.Context, id uint) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := s.db.WithContext(ctx).First(&conversation, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &conversation, nil
}

// ListConversations 按创建时间倒序返回全部对话。
func (s *gormStore) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	conversations := []model.Conversation{}
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&conversations).Error
	return conversations, err
}

// CreateMessage 追加一条消息。
func (s *gormStore) CreateMessage(ctx context.Context, message *model.Message) error {
	if message.CodeBlocks == nil {
		message.CodeBlocks = datatypes.JSONSlice[model.CodeBlock]{}
	}
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListMessages 按时间戳正序返回对话内的消息，时间戳相同时按 ID 排序。
func (s *gormStore) ListMessages(ctx context.Context, conversationID uint) ([]model.Message, error) {
	messages := []model.Message{}
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i := range messages {
		if messages[i].CodeBlocks == nil {
			messages[i].CodeBlocks = datatypes.JSONSlice[model.CodeBlock]{}
		}
	}
	return messages, nil
}

// Close 关闭底层连接池。
func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
