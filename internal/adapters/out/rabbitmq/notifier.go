// Package rabbitmq queues outbound text notifications for requesters and porters.
// A separate messaging gateway consumes the queue and delivers the texts.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"porterage/internal/core/domain/model/event"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the subset of amqp.Channel the notifier needs.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// NotificationMessage is one text for one recipient.
type NotificationMessage struct {
	Recipient  string    `json:"recipient"`
	Text       string    `json:"text"`
	Kind       string    `json:"kind"`
	RequestID  int       `json:"request_id,omitempty"`
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier is a ports.EventSink publishing one persistent message per
// recipient listed in event.Notify. Events without recipients are skipped.
type Notifier struct {
	conn    *amqp.Connection
	channel Channel
	queue   string
}

// NewNotifier dials url, opens a channel and declares a durable queue.
func NewNotifier(url, queue string) (*Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	n, err := NewNotifierWithChannel(ch, queue)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	n.conn = conn
	return n, nil
}

// NewNotifierWithChannel declares the queue on an existing channel.
func NewNotifierWithChannel(ch Channel, queue string) (*Notifier, error) {
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &Notifier{channel: ch, queue: queue}, nil
}

func (n *Notifier) Name() string { return "rabbitmq" }

func (n *Notifier) Send(ctx context.Context, e event.Event) error {
	var errs []error
	for _, recipient := range e.Notify {
		body, err := json.Marshal(NotificationMessage{
			Recipient:  recipient.String(),
			Text:       e.Summary(),
			Kind:       string(e.Kind),
			RequestID:  e.RequestID,
			EventID:    e.ID.String(),
			OccurredAt: e.OccurredAt.UTC(),
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}

		err = n.channel.PublishWithContext(ctx,
			"",      // exchange
			n.queue, // routing key
			false,   // mandatory
			false,   // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    e.ID.String() + ":" + recipient.String(),
				Timestamp:    e.OccurredAt,
				Body:         body,
			},
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("notify %s: %w", recipient, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes the channel and, when the notifier dialled it, the connection.
func (n *Notifier) Close() error {
	err := n.channel.Close()
	if n.conn != nil {
		err = errors.Join(err, n.conn.Close())
	}
	return err
}
