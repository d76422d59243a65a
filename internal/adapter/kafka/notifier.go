// Package kafka publishes chart-group update notifications so live
// dashboards can refresh a group as soon as its document is republished.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Notification is the message body published after a chart group
// document lands.
type Notification struct {
	Group       string    `json:"group"`
	Path        string    `json:"path"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Notifier produces chart-group update messages to a Kafka topic.
// It implements compiler.Notifier.
type Notifier struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewNotifier creates a Kafka producer for the update topic.
func NewNotifier(brokers []string, topic string, logger *slog.Logger) *Notifier {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Notifier{writer: w, logger: logger}
}

// Published serializes and publishes one update notification. The group
// name keys the message so consumers see per-group ordering.
func (n *Notifier) Published(ctx context.Context, group, path string, generated time.Time) error {
	msg, err := notificationMessage(group, path, generated)
	if err != nil {
		return err
	}
	return n.writer.WriteMessages(ctx, msg)
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}

func notificationMessage(group, path string, generated time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(Notification{Group: group, Path: path, GeneratedAt: generated})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize notification: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(group),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "generated_at", Value: []byte(generated.Format(time.RFC3339))},
		},
	}, nil
}
