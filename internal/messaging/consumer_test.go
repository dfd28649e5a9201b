package messaging_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hmendes/linkly/internal/messaging"
)

type testEvent struct {
	Code   string `json:"code"`
	Clicks int64  `json:"clicks"`
}

func newPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	t.Cleanup(func() {
		_ = pubSub.Close()
	})

	return pubSub
}

func TestPublishFunc(t *testing.T) {
	t.Run("delivers the typed event as json", func(t *testing.T) {
		pubSub := newPubSub(t)

		msgs, err := pubSub.Subscribe(context.Background(), "test.topic")
		require.NoError(t, err)

		publish := messaging.NewPublishFunc[testEvent](pubSub, "test.topic")

		require.NoError(t, publish(&testEvent{Code: "abc12345", Clicks: 7}))

		select {
		case msg := <-msgs:
			assert.JSONEq(t, `{"code":"abc12345","clicks":7}`, string(msg.Payload))
			msg.Ack()
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for message")
		}
	})
}

func TestConsumer(t *testing.T) {
	t.Run("hands events to the handler", func(t *testing.T) {
		pubSub := newPubSub(t)
		received := make(chan *testEvent, 1)

		consumer := messaging.NewConsumer(pubSub, "test.topic",
			func(_ context.Context, event *testEvent) error {
				received <- event

				return nil
			},
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		defer func() {
			_ = consumer.Shutdown()
		}()

		publish := messaging.NewPublishFunc[testEvent](pubSub, "test.topic")
		require.NoError(t, publish(&testEvent{Code: "abc12345"}))

		select {
		case event := <-received:
			assert.Equal(t, "abc12345", event.Code)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	})

	t.Run("redelivers after a handler error", func(t *testing.T) {
		pubSub := newPubSub(t)

		var attempts atomic.Int64

		done := make(chan struct{})

		consumer := messaging.NewConsumer(pubSub, "test.topic",
			func(_ context.Context, _ *testEvent) error {
				if attempts.Add(1) == 1 {
					return errors.New("transient failure")
				}

				close(done)

				return nil
			},
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		defer func() {
			_ = consumer.Shutdown()
		}()

		publish := messaging.NewPublishFunc[testEvent](pubSub, "test.topic")
		require.NoError(t, publish(&testEvent{Code: "abc12345"}))

		select {
		case <-done:
			assert.Equal(t, int64(2), attempts.Load())
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for redelivery")
		}
	})

	t.Run("reports the topic", func(t *testing.T) {
		consumer := messaging.NewConsumer[testEvent](newPubSub(t), "test.topic", nil, zap.NewNop())

		assert.Equal(t, "test.topic", consumer.Topic())
	})
}

func TestConsumerGroup(t *testing.T) {
	t.Run("starts and shuts down all consumers", func(t *testing.T) {
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

		var handled atomic.Int64

		group := messaging.NewConsumerGroup(pubSub, zap.NewNop())

		for _, topic := range []string{"topic.a", "topic.b"} {
			group.Add(messaging.NewConsumer(pubSub, topic,
				func(_ context.Context, _ *testEvent) error {
					handled.Add(1)

					return nil
				},
				zap.NewNop(),
			))
		}

		require.NoError(t, group.Start(context.Background()))

		publishA := messaging.NewPublishFunc[testEvent](pubSub, "topic.a")
		publishB := messaging.NewPublishFunc[testEvent](pubSub, "topic.b")

		require.NoError(t, publishA(&testEvent{Code: "a"}))
		require.NoError(t, publishB(&testEvent{Code: "b"}))

		assert.Eventually(t, func() bool {
			return handled.Load() == 2
		}, time.Second, 10*time.Millisecond)

		assert.NoError(t, group.Shutdown())
	})
}
