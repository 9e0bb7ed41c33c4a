package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"algotutor-go/internal/model"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishExchange(t *testing.T) {
	w := &recordingWriter{}
	p := &Publisher{writer: w}
	event := model.ExchangeEvent{
		ConversationID:     7,
		UserMessageID:      13,
		AssistantMessageID: 14,
		PreferredLanguage:  "go",
		CodeBlockCount:     2,
		OccurredAt:         time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	if err := p.PublishExchange(context.Background(), event); err != nil {
		t.Fatalf("PublishExchange() error = %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("wrote %d messages, want 1", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "7" {
		t.Errorf("key = %q, want 7", w.msgs[0].Key)
	}
	var got model.ExchangeEvent
	if err := json.Unmarshal(w.msgs[0].Value, &got); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if !got.OccurredAt.Equal(event.OccurredAt) {
		t.Errorf("occurred_at = %v, want %v", got.OccurredAt, event.OccurredAt)
	}
	got.OccurredAt = event.OccurredAt
	if got != event {
		t.Errorf("event = %+v, want %+v", got, event)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Errorf("Close() = %v, closed = %v", err, w.closed)
	}
}

func TestPublishExchangeWrapsWriterError(t *testing.T) {
	broker := errors.New("broker unavailable")
	p := &Publisher{writer: &recordingWriter{err: broker}}
	if err := p.PublishExchange(context.Background(), model.ExchangeEvent{ConversationID: 1}); !errors.Is(err, broker) {
		t.Errorf("error = %v, want wrapped broker error", err)
	}
}

func TestSplitBrokers(t *testing.T) {
	got := splitBrokers(" a:9092, ,b:9092 ")
	if want := []string{"a:9092", "b:9092"}; !reflect.DeepEqual(got, want) {
		t.Errorf("splitBrokers() = %v, want %v", got, want)
	}
}
