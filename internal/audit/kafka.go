package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher produces audit events to a Kafka topic. Produce errors are
// logged and dropped; audit delivery is best-effort by design.
type KafkaPublisher struct {
	client *kgo.Client
	logger *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{client: client, logger: logger}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) {
	value, err := json.Marshal(e)
	if err != nil {
		p.logger.Error("marshal audit event", "error", err)
		return
	}

	record := &kgo.Record{Key: []byte(e.ReviewID), Value: value}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("produce audit event", "error", err, "action", e.Action)
		}
	})
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
