package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"algotutor-go/internal/model"

	"gorm.io/datatypes"
)

// MemoryStore 是基于 map 的 Store 实现，适合本地开发与测试，进程退出后数据丢失。
type MemoryStore struct {
	mu sync.RWMutex

	users         map[uint]model.User
	conversations map[uint]model.Conversation
	messages      map[uint][]model.Message // key: conversation id

	nextUserID         uint
	nextConversationID uint
	nextMessageID      uint

	now func() time.Time
}

// NewMemoryStore 创建一个空的内存 Store。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:              make(map[uint]model.User),
		conversations:      make(map[uint]model.Conversation),
		messages:           make(map[uint][]model.Message),
		nextUserID:         1,
		nextConversationID: 1,
		nextMessageID:      1,
		now:                time.Now,
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextUserID
	s.nextUserID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) FindUserByID(_ context.Context, id uint) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) FindUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateConversation(_ context.Context, conversation *model.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation.ID = s.nextConversationID
	s.nextConversationID++
	conversation.CreatedAt = s.now()
	s.conversations[conversation.ID] = *conversation
	return nil
}

func (s *MemoryStore) FindConversationByID(_ context.Context, id uint) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversation, ok := s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &conversation, nil
}

func (s *MemoryStore) ListConversations(_ context.Context) ([]model.Conversation, error) {
	s.mu.RLock()
	conversations := make([]model.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		conversations = append(conversations, c)
	}
	s.mu.RUnlock()

	sort.Slice(conversations, func(i, j int) bool {
		a, b := conversations[i], conversations[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return conversations, nil
}

// CreateMessage 追加一条消息。消息所属对话是否存在由调用方保证，与数据库实现保持一致。
func (s *MemoryStore) CreateMessage(_ context.Context, message *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message.ID = s.nextMessageID
	s.nextMessageID++
	message.Timestamp = s.now()
	message.CodeBlocks = append(datatypes.JSONSlice[model.CodeBlock]{}, message.CodeBlocks...)

	stored := *message
	stored.CodeBlocks = append(datatypes.JSONSlice[model.CodeBlock]{}, message.CodeBlocks...)
	s.messages[message.ConversationID] = append(s.messages[message.ConversationID], stored)
	return nil
}

func (s *MemoryStore) ListMessages(_ context.Context, conversationID uint) ([]model.Message, error) {
	s.mu.RLock()
	stored := s.messages[conversationID]
	messages := make([]model.Message, len(stored))
	for i, m := range stored {
		m.CodeBlocks = append(datatypes.JSONSlice[model.CodeBlock]{}, m.CodeBlocks...)
		messages[i] = m
	}
	s.mu.RUnlock()

	sort.SliceStable(messages, func(i, j int) bool {
		a, b := messages[i], messages[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.ID < b.ID
	})
	return messages, nil
}

// Close 对内存实现无操作。
func (s *MemoryStore) Close() error {
	return nil
}
