package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	id "gavel/pkg/domain"
)

// KafkaStore mirrors audit events to a Kafka topic for downstream
// compliance consumers while delegating persistence and queries to an
// inner store. Publish failures are logged, never propagated: the local
// trail is the availability baseline, Kafka is the distribution channel.
type KafkaStore struct {
	client *kgo.Client
	topic  string
	inner  Store
	logger *slog.Logger
}

// NewKafkaStore connects to the brokers, ensures the topic exists, and
// wraps the inner store.
func NewKafkaStore(ctx context.Context, brokers []string, topic string, inner Store, logger *slog.Logger) (*KafkaStore, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	_, err = admin.CreateTopic(ctx, 1, 1, nil, topic)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		client.Close()
		return nil, fmt.Errorf("ensure audit topic %q: %w", topic, err)
	}

	return &KafkaStore{
		client: client,
		topic:  topic,
		inner:  inner,
		logger: logger,
	}, nil
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	if err := s.inner.Append(ctx, event); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.UserID.String()),
		Value: payload,
	}
	s.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			s.logger.Error("failed to publish audit event to kafka",
				"error", err,
				"topic", s.topic,
				"event_id", event.ID.String(),
			)
		}
	})
	return nil
}

func (s *KafkaStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	return s.inner.ListRecent(ctx, limit)
}

func (s *KafkaStore) ListByUser(ctx context.Context, userID id.UserID) ([]Event, error) {
	return s.inner.ListByUser(ctx, userID)
}

// Close flushes pending records and releases the Kafka client.
func (s *KafkaStore) Close(ctx context.Context) error {
	err := s.client.Flush(ctx)
	s.client.Close()
	return err
}
