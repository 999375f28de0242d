package game

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"shamble/pkg/logger"
)

// Bus is an in-process pub/sub bridge. Game events go out as JSON messages so
// any number of observers (UI overlays, recorders, tests) can subscribe
// without touching the session goroutine.
type Bus struct {
	ch *gochannel.GoChannel
}

func NewBus() *Bus {
	return &Bus{
		ch: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, watermill.NopLogger{}),
	}
}

// Publish marshals v as JSON onto topic. A nil *Bus is a valid no-op
// publisher, so headless sessions can skip event plumbing entirely.
func (b *Bus) Publish(topic string, v any) {
	if b == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		logger.Log.WithError(err).WithField("topic", topic).Warn("dropping unmarshalable event")
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.ch.Publish(topic, msg); err != nil {
		logger.Log.WithError(err).WithField("topic", topic).Warn("event publish failed")
	}
}

// Subscribe returns the raw message stream for topic. Subscribers must Ack.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.ch.Subscribe(ctx, topic)
}

func (b *Bus) Close() error {
	if b == nil {
		return nil
	}
	return b.ch.Close()
}
