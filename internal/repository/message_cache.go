package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"algotutor-go/internal/model"
	"algotutor-go/pkg/log"

	"github.com/go-redis/redis/v8"
)

// cachedStore 在 Store 之上为对话消息列表加一层 Redis 读缓存。
// 写入消息后删除对应的缓存键；Redis 故障只记录日志并回落到底层存储。
// 删除失败的对话会绕过缓存，直到旧键过期或重试删除成功。
type cachedStore struct {
	Store
	redisClient *redis.Client
	ttl         time.Duration

	mu    sync.Mutex
	stale map[uint]time.Time // 对话 ID -> 旧缓存最迟过期时间，ttl 为 0 时为零值
}

// WithMessageCache 返回带消息列表缓存的 Store。
func WithMessageCache(store Store, redisClient *redis.Client, ttl time.Duration) Store {
	return &cachedStore{
		Store:       store,
		redisClient: redisClient,
		ttl:         ttl,
		stale:       make(map[uint]time.Time),
	}
}

func messagesKey(conversationID uint) string {
	return fmt.Sprintf("conversation:%d:messages", conversationID)
}

// CreateMessage 写入底层存储后使缓存失效。
func (s *cachedStore) CreateMessage(ctx context.Context, message *model.Message) error {
	if err := s.Store.CreateMessage(ctx, message); err != nil {
		return err
	}
	if err := s.redisClient.Del(ctx, messagesKey(message.ConversationID)).Err(); err != nil {
		log.Warnf("failed to invalidate message cache for conversation %d: %v", message.ConversationID, err)
		s.markStale(message.ConversationID)
	}
	return nil
}

func (s *cachedStore) markStale(conversationID uint) {
	var deadline time.Time
	if s.ttl > 0 {
		deadline = time.Now().Add(s.ttl)
	}
	s.mu.Lock()
	s.stale[conversationID] = deadline
	s.mu.Unlock()
}

// isStale 判断对话的缓存是否仍可能是旧数据。会顺带重试删除，成功后恢复使用缓存。
func (s *cachedStore) isStale(ctx context.Context, conversationID uint) bool {
	s.mu.Lock()
	deadline, ok := s.stale[conversationID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if !deadline.IsZero() && time.Now().After(deadline) {
		s.clearStale(conversationID)
		return false
	}
	if err := s.redisClient.Del(ctx, messagesKey(conversationID)).Err(); err != nil {
		return true
	}
	s.clearStale(conversationID)
	return false
}

func (s *cachedStore) clearStale(conversationID uint) {
	s.mu.Lock()
	delete(s.stale, conversationID)
	s.mu.Unlock()
}

// ListMessages 优先从 Redis 读取，未命中时查询底层存储并回填。
func (s *cachedStore) ListMessages(ctx context.Context, conversationID uint) ([]model.Message, error) {
	if s.isStale(ctx, conversationID) {
		return s.Store.ListMessages(ctx, conversationID)
	}

	key := messagesKey(conversationID)
	jsonData, err := s.redisClient.Get(ctx, key).Result()
	switch {
	case err == nil:
		var messages []model.Message
		if err := json.Unmarshal([]byte(jsonData), &messages); err == nil {
			return messages, nil
		}
		log.Warnf("discarding corrupt message cache for conversation %d", conversationID)
	case err != redis.Nil:
		log.Warnf("failed to read message cache for conversation %d: %v", conversationID, err)
	}

	messages, err := s.Store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(messages); err == nil {
		if err := s.redisClient.Set(ctx, key, data, s.ttl).Err(); err != nil {
			log.Warnf("failed to fill message cache for conversation %d: %v", conversationID, err)
		}
	}
	return messages, nil
}

// Close 关闭 Redis 客户端与底层存储。
func (s *cachedStore) Close() error {
	redisErr := s.redisClient.Close()
	if err := s.Store.Close(); err != nil {
		return err
	}
	return redisErr
}
