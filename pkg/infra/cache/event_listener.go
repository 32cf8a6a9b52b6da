package cache

import (
	"context"

	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache/channel"
)

type eventHandler func(ctx context.Context, ev interface{}) error

type EventListener interface {
	Listen(ctx context.Context, channels ...channel.Channel)
	Register(eventType string, handler eventHandler)
}
