package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"algotutor-go/internal/model"
	"algotutor-go/pkg/llm"
	"algotutor-go/pkg/log"
)

// TutorService 把补全客户端、主题分类与降级回复表组合成一次“获取导师回复”操作。
type TutorService interface {
	// GetTutorResponse 在配额耗尽或限流时返回降级回复而不是错误，其余上游错误原样返回。
	GetTutorResponse(ctx context.Context, history []model.ChatMessage, preferredLanguage string) (*model.TutorResponse, error)
}

type tutorService struct {
	llmClient llm.Client
}

// NewTutorService 创建一个新的 TutorService 实例。
func NewTutorService(llmClient llm.Client) TutorService {
	return &tutorService{llmClient: llmClient}
}

func (s *tutorService) GetTutorResponse(ctx context.Context, history []model.ChatMessage, preferredLanguage string) (*model.TutorResponse, error) {
	resp, err := s.llmClient.Complete(ctx, history, preferredLanguage)
	if err == nil {
		return resp, nil
	}
	if !IsCapacityFailure(err) {
		return nil, err
	}

	topic := TopicDefaultResponse
	if question, ok := lastUserMessage(history); ok {
		topic = ClassifyTopic(question)
	}
	log.Warnw("completion api capacity failure, serving fallback response",
		"topic", topic,
		"error", err.Error(),
	)
	fallback := FallbackResponse(topic)
	return &fallback, nil
}

// IsCapacityFailure 判断错误是否为配额或限流类失败：状态码 429，或原始信息包含 "quota" / "rate limit"（区分大小写）。
// 依赖上游错误文案，属于脆弱的外部约定，匹配规则不要随意放宽或收紧。
func IsCapacityFailure(err error) bool {
	var upErr *llm.UpstreamError
	if !errors.As(err, &upErr) {
		return false
	}
	return upErr.Status == http.StatusTooManyRequests ||
		strings.Contains(upErr.Message, "quota") ||
		strings.Contains(upErr.Message, "rate limit")
}

func lastUserMessage(history []model.ChatMessage) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleUser {
			return history[i].Content, true
		}
	}
	return "", false
}
