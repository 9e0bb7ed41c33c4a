// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"algotutor-go/internal/config"
	"algotutor-go/internal/model"
	"algotutor-go/pkg/log"

	"github.com/segmentio/kafka-go"
)

// messageWriter 是 kafka.Writer 中被使用到的部分，便于测试替换。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher 把问答交换事件写入 Kafka 主题。
type Publisher struct {
	writer messageWriter
}

// NewPublisher 初始化 Kafka 生产者。brokers 支持逗号分隔的多个地址。
func NewPublisher(cfg config.KafkaConfig) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(splitBrokers(cfg.Brokers)...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	log.Infof("Kafka 生产者初始化成功, topic: %s", cfg.Topic)
	return &Publisher{writer: writer}
}

// PublishExchange 发送一条交换事件。以对话 ID 作为 key，同一对话的事件落在同一分区内保持顺序。
func (p *Publisher) PublishExchange(ctx context.Context, event model.ExchangeEvent) error {
	msg, err := encodeExchange(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("写入 Kafka 消息失败: %w", err)
	}
	return nil
}

// Close 刷新并关闭生产者。
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func encodeExchange(event model.ExchangeEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.ConversationID), 10)),
		Value: value,
	}, nil
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
