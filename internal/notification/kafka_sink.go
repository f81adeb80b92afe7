package notification

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the subset of *kgo.Client used by KafkaSink.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaSink publishes events as JSON records keyed by candidate, so every
// event of one candidate lands on the same partition in order.
type KafkaSink struct {
	producer Producer
	topic    string
}

func NewKafkaSink(producer Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Deliver(ctx context.Context, events []Event) error {
	records := make([]*kgo.Record, 0, len(events))
	for _, ev := range events {
		value, err := encode(ev)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", ev.Type, err)
		}
		records = append(records, &kgo.Record{
			Topic: s.topic,
			Key:   []byte(ev.CandidateID.String()),
			Value: value,
			Headers: []kgo.RecordHeader{
				{Key: "type", Value: []byte(ev.Type)},
			},
		})
	}
	if err := s.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce %d events: %w", len(records), err)
	}
	return nil
}
