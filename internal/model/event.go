package model

import "time"

// ExchangeEvent 描述一次完成的问答交换，发送到 Kafka 供下游统计使用。
type ExchangeEvent struct {
	ConversationID     uint      `json:"conversation_id"`
	UserMessageID      uint      `json:"user_message_id"`
	AssistantMessageID uint      `json:"assistant_message_id"`
	PreferredLanguage  string    `json:"preferred_language"`
	CodeBlockCount     int       `json:"code_block_count"`
	OccurredAt         time.Time `json:"occurred_at"`
}
