package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Message is the task shape consumed by the external email worker.
type Message struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

// Producer publishes email tasks to kafka. Sends are expected to be
// fire-and-forget: callers log failures and keep going.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(address, topic string) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(address),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{writer: w}
}

func (p *Producer) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("mail: json.Marshal failed: %w", err)
	}

	var key []byte
	if len(msg.Recipients) > 0 {
		key = []byte(msg.Recipients[0])
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: data}); err != nil {
		return fmt.Errorf("mail: publish failed: %w", err)
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
