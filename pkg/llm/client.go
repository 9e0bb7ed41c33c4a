// Package llm provides the completion client that turns a conversation
// history into a structured tutor response.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"algotutor-go/internal/config"
	"algotutor-go/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// Temperature 是固定的采样温度，不随配置变化。
const Temperature = 0.7

// MissingExplanation 在上游回复缺少 explanation 字段时使用。
const MissingExplanation = "I couldn't generate an explanation. Please try again."

// SystemPrompt 描述助手人设以及必须遵守的 JSON 回复结构。
const SystemPrompt = `
You are AlgoTutor, an AI assistant specializing in data structures and algorithms education.
Your goal is to help users understand DSA concepts through clear explanations and code examples.

When responding:
1. Be concise but thorough in your explanations
2. Provide time and space complexity analysis when discussing algorithms
3. Give practical code examples that demonstrate the concept
4. Break down complex topics into simple steps
5. When presenting code, ensure it's correct, efficient, and follows best practices
6. If providing multiple code examples, show different approaches to the same problem
7. Explain trade-offs between different approaches

Always structure your responses in JSON format with these fields:
- explanation: Main textual explanation of the concept
- codeBlocks: Array of code examples, each with 'language' and 'code' fields
- complexity: Time and space complexity analysis (if applicable)
- furtherReadings: Optional suggestions for related topics

Be educational, encouraging, and focus on helping the user truly understand the concepts.
`

// Client defines the interface for a completion client.
type Client interface {
	// Complete 发送对话历史并返回标准化的 TutorResponse；任何失败都以 *UpstreamError 返回。
	Complete(ctx context.Context, history []model.ChatMessage, preferredLanguage string) (*model.TutorResponse, error)
}

// UpstreamError 携带上游返回的状态码与原始错误信息。网络错误等没有状态码时 Status 为 0。
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("completion api error: %s", e.Message)
	}
	return fmt.Sprintf("completion api error (status %d): %s", e.Status, e.Message)
}

type openAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient creates a completion client backed by the OpenAI chat completions API.
func NewClient(cfg config.LLMConfig) Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openAIClient{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

func (c *openAIClient) Complete(ctx context.Context, history []model.ChatMessage, preferredLanguage string) (*model.TutorResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    BuildMessages(history, preferredLanguage),
		Temperature: Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, toUpstreamError(err)
	}

	content := "{}"
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		content = resp.Choices[0].Message.Content
	}
	return ParseTutorResponse(content), nil
}

// BuildMessages 在历史前加上系统提示，并在每条 user 消息后附加语言偏好。
// assistant 与 system 消息原样保留，其他未知角色按 user 处理但不改写内容。
func BuildMessages(history []model.ChatMessage, preferredLanguage string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: SystemPrompt,
	})
	for _, m := range history {
		switch m.Role {
		case model.RoleUser:
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("%s (Preferred programming language: %s)", m.Content, preferredLanguage),
			})
		case model.RoleAssistant, model.RoleSystem:
			messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
		default:
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: m.Content,
			})
		}
	}
	return messages
}

// ParseTutorResponse 解析并标准化上游内容。只有整体不是 JSON 对象时才按 {} 处理；
// 单个字段类型不符只影响该字段，其余字段照常保留。
func ParseTutorResponse(content string) *model.TutorResponse {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		fields = nil
	}

	resp := &model.TutorResponse{
		Explanation:     decodeString(fields["explanation"]),
		CodeBlocks:      decodeCodeBlocks(fields["codeBlocks"]),
		Complexity:      decodeComplexity(fields["complexity"]),
		FurtherReadings: decodeReadings(fields["furtherReadings"]),
	}
	if resp.Explanation == "" {
		resp.Explanation = MissingExplanation
	}
	return resp
}

func decodeString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// decodeCodeBlocks 逐个解析代码块，跳过格式不对的元素，结果永不为 nil。
func decodeCodeBlocks(raw json.RawMessage) []model.CodeBlock {
	blocks := []model.CodeBlock{}
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return blocks
	}
	for _, item := range items {
		var cb model.CodeBlock
		if err := json.Unmarshal(item, &cb); err != nil {
			continue
		}
		blocks = append(blocks, cb)
	}
	return blocks
}

// decodeComplexity 接受字符串；对象、数字等其他 JSON 值按紧凑文本保留，null 视为缺失。
func decodeComplexity(raw json.RawMessage) *string {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil
	}
	text := buf.String()
	return &text
}

// decodeReadings 只保留字符串元素；一个都没有时视为缺失。
func decodeReadings(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	var readings []string
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		readings = append(readings, s)
	}
	return readings
}

func toUpstreamError(err error) *UpstreamError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := reqErr.Error()
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &UpstreamError{Status: reqErr.HTTPStatusCode, Message: msg}
	}
	return &UpstreamError{Message: err.Error()}
}
