package model

import (
	"time"

	"gorm.io/datatypes"
)

// CodeBlock 是附加在消息上的一段代码及其语言标记。
type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// Message 对应于 'messages' 表，是对话中的一轮发言。
// 同一对话内的消息按 Timestamp 排序，创建后不可修改。
type Message struct {
	ID             uint                           `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint                           `gorm:"not null;index:idx_messages_conversation_timestamp" json:"conversationId"`
	Role           string                         `gorm:"type:varchar(16);not null" json:"role"`
	Content        string                         `gorm:"type:text;not null" json:"content"`
	CodeBlocks     datatypes.JSONSlice[CodeBlock] `json:"codeBlocks"`
	Timestamp      time.Time                      `gorm:"autoCreateTime;index:idx_messages_conversation_timestamp" json:"timestamp"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Message) TableName() string {
	return "messages"
}

// ToChatMessage 投影为 {role, content}。
func (m Message) ToChatMessage() ChatMessage {
	return ChatMessage{Role: m.Role, Content: m.Content}
}
