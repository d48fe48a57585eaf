// Package queue ingests notification events published by other systems,
// such as a deadline reminder scheduler.
package queue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

type NotificationCreator interface {
	Create(ctx context.Context, event dto.NotificationEvent) (*models.Notification, error)
}

type ConsumerConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	Username string
	Password string
}

type NotificationConsumer struct {
	reader  *kafka.Reader
	creator NotificationCreator
}

func NewNotificationConsumer(cfg ConsumerConfig, creator NotificationCreator) *NotificationConsumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if cfg.Username != "" {
		dialer.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
		dialer.SASLMechanism = plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	return &NotificationConsumer{reader: reader, creator: creator}
}

// Run reads until ctx is cancelled. Bad messages are logged and skipped.
func (c *NotificationConsumer) Run(ctx context.Context) {
	slog.Info("notification consumer started", "topic", c.reader.Config().Topic)
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				slog.Info("notification consumer stopped")
				return
			}
			slog.Error("kafka read failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if err := HandleMessage(ctx, c.creator, msg.Value); err != nil {
			slog.Warn("notification event skipped",
				"error", err,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
		}
	}
}

func (c *NotificationConsumer) Close() error {
	return c.reader.Close()
}

// HandleMessage decodes one event and stores it as a notification.
func HandleMessage(ctx context.Context, creator NotificationCreator, value []byte) error {
	var event dto.NotificationEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("decode notification event: %w", err)
	}
	n, err := creator.Create(ctx, event)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	slog.Debug("notification created", "notification_id", n.ID, "user_id", n.UserID)
	return nil
}
