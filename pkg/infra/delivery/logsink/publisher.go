package logsink

import (
	"context"

	"github.com/NeuralTrust/TrustBatch/pkg/domain/delivery"
	"github.com/sirupsen/logrus"
)

const DriverName = "log"

// Publisher writes every message to the logger. Used for local development.
type Publisher struct {
	logger *logrus.Logger
	level  logrus.Level
}

func NewPublisher(logger *logrus.Logger, level logrus.Level) *Publisher {
	return &Publisher{logger: logger, level: level}
}

func (p *Publisher) Publish(ctx context.Context, msg delivery.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fields := logrus.Fields{
		"topic": msg.Topic,
		"key":   msg.Key,
		"value": string(msg.Value),
	}
	for k, v := range msg.Headers {
		fields["header."+k] = v
	}
	p.logger.WithFields(fields).Log(p.level, "message published")
	return nil
}

func (p *Publisher) PublishBatch(ctx context.Context, msgs []delivery.Message) []error {
	errs := make([]error, len(msgs))
	for i, msg := range msgs {
		errs[i] = p.Publish(ctx, msg)
	}
	return errs
}

func (p *Publisher) Close() {}
