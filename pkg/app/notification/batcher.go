package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/app/debouncer"
	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
	"github.com/NeuralTrust/TrustBatch/pkg/domain/delivery"
	"github.com/sirupsen/logrus"
)

const (
	policyPrefix      = "notification."
	redispatchSuffix  = ".redispatch"
	DefaultTopic      = "notifications"
	categoryHeaderKey = "category"
)

var ErrUnknownCategory = errors.New("unknown notification category")

// Batch is the message published for one fired bucket.
type Batch struct {
	Category    string    `json:"category"`
	RecipientID string    `json:"recipient_id"`
	EventIDs    []string  `json:"event_ids"`
	EventCount  int       `json:"event_count"`
	FiredAt     time.Time `json:"fired_at"`
}

// Category is one notification kind as configured under notifications.categories.
type Category struct {
	Name   string        `mapstructure:"name"`
	Timing bucket.Timing `mapstructure:"timing"`
}

type Opts struct {
	Topic        string
	TimeProvider func() time.Time
	// TimeZoneSource resolves the zone of a recipient for scheduled hour categories.
	TimeZoneSource func(recipientID string) string
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=batcher_mock.go --case=underscore --with-expecter
type Service interface {
	Notify(ctx context.Context, category, recipientID, eventID string) error
	Redispatch(ctx context.Context, category, recipientID string, eventIDs []string) error
}

// Batcher groups notification events per recipient and category and
// publishes one Batch per fired bucket.
type Batcher struct {
	logger       *logrus.Logger
	registry     *debouncer.Registry
	events       debouncer.Service
	publisher    delivery.Publisher
	topic        string
	timeProvider func() time.Time
	tzSource     func(string) string
}

func NewBatcher(
	logger *logrus.Logger,
	registry *debouncer.Registry,
	events debouncer.Service,
	publisher delivery.Publisher,
	opts *Opts,
) *Batcher {
	b := &Batcher{
		logger:       logger,
		registry:     registry,
		events:       events,
		publisher:    publisher,
		topic:        DefaultTopic,
		timeProvider: time.Now,
	}
	if opts != nil {
		if opts.Topic != "" {
			b.topic = opts.Topic
		}
		if opts.TimeProvider != nil {
			b.timeProvider = opts.TimeProvider
		}
		b.tzSource = opts.TimeZoneSource
	}
	return b
}

func PolicyName(category string) string {
	return policyPrefix + category
}

func redispatchPolicyName(category string) string {
	return policyPrefix + category + redispatchSuffix
}

// RegisterCategory registers the policy of category together with the
// zero-delay policy used by Redispatch.
func (b *Batcher) RegisterCategory(category string, timing bucket.Timing) error {
	if category == "" || strings.HasSuffix(category, redispatchSuffix) {
		return fmt.Errorf("%w: invalid category name %q", debouncer.ErrConfiguration, category)
	}
	var opts []debouncer.Option
	if b.tzSource != nil {
		opts = append(opts, debouncer.WithTimeZoneSource(b.tzSource))
	}
	if err := b.registry.Register(PolicyName(category), timing, b.deliver(category), opts...); err != nil {
		return err
	}
	return b.registry.Register(redispatchPolicyName(category), bucket.Delayed(0), b.deliver(category))
}

func (b *Batcher) RegisterCategories(categories []Category) error {
	for _, c := range categories {
		if err := b.RegisterCategory(c.Name, c.Timing); err != nil {
			return err
		}
	}
	return nil
}

// Notify records eventID for recipientID. The write is asynchronous.
func (b *Batcher) Notify(ctx context.Context, category, recipientID, eventID string) error {
	if err := b.known(category); err != nil {
		return err
	}
	return b.events.Emit(ctx, PolicyName(category), recipientID, eventID, nil)
}

// Redispatch sends eventIDs to recipientID again on the next sweep, bypassing
// the category timing.
func (b *Batcher) Redispatch(ctx context.Context, category, recipientID string, eventIDs []string) error {
	if err := b.known(category); err != nil {
		return err
	}
	if len(eventIDs) == 0 {
		return nil
	}
	policy := redispatchPolicyName(category)
	for _, id := range eventIDs {
		if err := b.events.RecordEvent(ctx, policy, recipientID, id, nil); err != nil {
			return fmt.Errorf("failed to redispatch event %s: %w", id, err)
		}
	}
	b.logger.WithFields(logrus.Fields{
		"category":    category,
		"recipientID": recipientID,
		"events":      len(eventIDs),
	}).Info("notification redispatch scheduled")
	return nil
}

func (b *Batcher) known(category string) error {
	if _, ok := b.registry.Lookup(PolicyName(category)); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	return nil
}

func (b *Batcher) deliver(category string) debouncer.Callback {
	return func(ctx context.Context, recipientID string, memberEventIDs []string) error {
		ids := dedupe(memberEventIDs)
		payload, err := json.Marshal(Batch{
			Category:    category,
			RecipientID: recipientID,
			EventIDs:    ids,
			EventCount:  len(ids),
			FiredAt:     b.timeProvider().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to encode notification batch: %w", err)
		}
		err = b.publisher.Publish(ctx, delivery.Message{
			Topic:   b.topic,
			Key:     recipientID,
			Value:   payload,
			Headers: map[string]string{categoryHeaderKey: category},
		})
		if err != nil {
			return fmt.Errorf("failed to publish notification batch: %w", err)
		}
		return nil
	}
}

// dedupe keeps the first occurrence of every id.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
