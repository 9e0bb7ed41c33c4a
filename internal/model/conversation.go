// Package model 包含了应用的数据模型定义。
package model

import "time"

// 消息角色。
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage 是对话历史中的一条 {role, content} 记录，用于构建发给大模型的上下文。
type ChatMessage struct {
	Role    string `json:"role"` // "user"、"assistant" 或 "system"
	Content string `json:"content"`
}

// Conversation 代表一个带标题的对话线程。
type Conversation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}
