//go:build integration

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"backoffice/pkg/testutil/containers"
)

func TestKafkaSinkPublishes(t *testing.T) {
	broker := containers.NewRedpandaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	producer, err := NewKafkaClient([]string{broker.Broker})
	require.NoError(t, err)
	defer producer.Close()
	require.NoError(t, EnsureTopic(ctx, producer, "backoffice.audit", 1, 1))
	require.NoError(t, EnsureTopic(ctx, producer, "backoffice.audit", 1, 1))

	event := Event{ID: uuid.New(), Timestamp: time.Now().UTC(), Kind: "Currency", Action: ActionCreated, EntityID: 1}
	require.NoError(t, NewKafkaSink(producer, "backoffice.audit").Publish(ctx, []Event{event}))

	consumer, err := NewKafkaClient([]string{broker.Broker},
		kgo.ConsumeTopics("backoffice.audit"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()))
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)
	require.Equal(t, "Currency:1", string(records[0].Key))
}
