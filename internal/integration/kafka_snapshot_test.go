//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/gym-occupancy-etl/internal/adapter/kafka"
	"github.com/couchcryptid/gym-occupancy-etl/internal/config"
	"github.com/couchcryptid/gym-occupancy-etl/internal/domain"
)

const testSinkTopic = "test-occupancy-snapshots"

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestSnapshotPublishRoundTrip verifies that kafka.Writer publishes a
// snapshot that a consumer can read back with intact key, headers, and body.
func TestSnapshotPublishRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}

	fetched := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	snap := domain.Snapshot{
		Facilities: map[string]domain.FacilityStatus{
			"Arcadia": {Capacity: 100, Occupancy: 42},
			"Upland":  {Capacity: 65, Occupancy: 23},
		},
		FetchedAt: fetched,
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishSnapshot(ctx, snap))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	assert.Equal(t, []byte("2026-03-14T09:26:53Z"), msg.Key)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "2026-03-14T09:26:53Z", headers["fetched_at"])
	assert.Equal(t, "2", headers["facility_count"])

	var got domain.Snapshot
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, snap.Facilities, got.Facilities)
	assert.True(t, got.FetchedAt.Equal(fetched))
}

// TestSnapshotPublishSequence publishes several snapshots and verifies they
// arrive in order, which the poller relies on for the topic to be a
// chronological occupancy log.
func TestSnapshotPublishSequence(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	base := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		snap := domain.Snapshot{
			Facilities: map[string]domain.FacilityStatus{
				"Upland": {Capacity: 65, Occupancy: 20 + i},
			},
			FetchedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, writer.PublishSnapshot(ctx, snap))
	}

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	for i := 0; i < 3; i++ {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err)

		var got domain.Snapshot
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, 20+i, got.Facilities["Upland"].Occupancy)
	}
}
