package cache

import (
	"context"
	"encoding/json"

	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache/channel"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache/event"
)

type redisEventPublisher struct {
	cache   Client
	channel channel.Channel
}

func NewRedisEventPublisher(cache Client, channel channel.Channel) EventPublisher {
	return &redisEventPublisher{
		cache:   cache,
		channel: channel,
	}
}

func (p *redisEventPublisher) Publish(ctx context.Context, ev event.Event) error {
	data, err := EncodeMessage(ev)
	if err != nil {
		return err
	}
	return p.cache.RedisClient().Publish(ctx, string(p.channel), data).Err()
}

// EncodeMessage wraps an event in the {type, event} envelope used on the channels.
func EncodeMessage(ev event.Event) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return json.Marshal(RedisMessage{
		Type:  ev.Type(),
		Event: b,
	})
}
