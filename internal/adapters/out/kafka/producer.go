// Package kafka streams engine events to a Kafka topic for dashboards and
// downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"porterage/internal/core/domain/model/event"

	skafka "github.com/segmentio/kafka-go"
)

// Writer is the subset of segmentio kafka.Writer the producer needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Producer is a ports.EventSink writing one JSON message per event.
type Producer struct {
	writer Writer
	topic  string
}

// NewProducer creates a producer that writes to topic on broker.
func NewProducer(broker, topic string) *Producer {
	w := &skafka.Writer{
		Addr:                   skafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &skafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: w, topic: topic}
}

// NewProducerWithWriter allows injecting a test writer.
func NewProducerWithWriter(w Writer, topic string) *Producer {
	return &Producer{writer: w, topic: topic}
}

func (p *Producer) Name() string { return "kafka" }

func (p *Producer) Send(ctx context.Context, e event.Event) error {
	value, err := json.Marshal(newTransportEventMessage(e))
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", e.Kind, err)
	}

	msg := skafka.Message{
		Key:   []byte(messageKey(e)),
		Value: value,
		Headers: []skafka.Header{
			{Key: "kind", Value: []byte(e.Kind)},
		},
	}
	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to topic %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
