package delivery

import (
	"context"
	"errors"
)

var ErrPublisherClosed = errors.New("publisher closed")

// Message is one outbound record. Key selects the partition on brokers that
// partition by key.
type Message struct {
	Topic   string
	Key     string
	Value   []byte
	Headers map[string]string
}

//go:generate mockery --name=Publisher --dir=. --output=./mocks --filename=publisher_mock.go --case=underscore --with-expecter
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	// PublishBatch hands every message to the broker before waiting on any of
	// them. It returns one error per message, in order; nil means delivered.
	PublishBatch(ctx context.Context, msgs []Message) []error
	Close()
}
