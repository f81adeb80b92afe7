//go:build integration

package notification_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"candilib/internal/notification"
	"candilib/internal/platform/config"
	"candilib/internal/platform/kafka"
	"candilib/pkg/testutil/containers"
)

type KafkaSinkSuite struct {
	suite.Suite
	broker *containers.RedpandaContainer
}

func TestKafkaSinkSuite(t *testing.T) {
	suite.Run(t, new(KafkaSinkSuite))
}

func (s *KafkaSinkSuite) SetupSuite() {
	s.broker = containers.GetManager().GetRedpanda(s.T())
}

func (s *KafkaSinkSuite) TestDeliveredEventsAreConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topic := "candilib.bookings.it"

	producer, err := kafka.NewClient(ctx, config.KafkaConfig{Brokers: s.broker.Brokers, Topic: topic})
	s.Require().NoError(err)
	defer producer.Close()
	s.Require().NoError(kafka.EnsureTopic(ctx, producer, topic, 1, 1))

	ev := bookedEvent()
	d := notification.NewDispatcher(notification.NewKafkaSink(producer, topic), notification.WithLogger(quietLogger()))
	d.Publish(ctx, ev)
	s.Require().NoError(d.Flush(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().NotEmpty(records)

	var got notification.Event
	require.NoError(s.T(), json.Unmarshal(records[0].Value, &got))
	s.Equal(ev.CandidateID, got.CandidateID)
	s.Equal(notification.TypeBooked, got.Type)
}
