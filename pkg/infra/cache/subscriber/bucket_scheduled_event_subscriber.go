package subscriber

import (
	"context"
	"time"

	infraCache "github.com/NeuralTrust/TrustBatch/pkg/infra/cache"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

// Waker folds a remote fire time into the local wake-up schedule.
type Waker interface {
	Wake(policyName string, at time.Time)
}

type BucketScheduledEventSubscriber struct {
	logger *logrus.Logger
	waker  Waker
	origin string
}

// NewBucketScheduledEventSubscriber ignores events published by origin, the
// identity of the local instance.
func NewBucketScheduledEventSubscriber(
	logger *logrus.Logger,
	waker Waker,
	origin string,
) infraCache.EventSubscriber[event.BucketScheduledEvent] {
	return &BucketScheduledEventSubscriber{
		logger: logger,
		waker:  waker,
		origin: origin,
	}
}

func (s BucketScheduledEventSubscriber) OnEvent(ctx context.Context, evt event.BucketScheduledEvent) error {
	if evt.Origin != "" && evt.Origin == s.origin {
		return nil
	}
	s.logger.WithFields(logrus.Fields{
		"policy":   evt.PolicyName,
		"bucketID": evt.BucketID,
		"fireAt":   evt.FireAt,
	}).Debug("remote bucket scheduled")
	s.waker.Wake(evt.PolicyName, evt.FireAt)
	return nil
}
