package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/NeuralTrust/TrustBatch/pkg/domain/delivery"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/httpx"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/mitchellh/mapstructure"
)

const (
	DriverName = "kafka"

	flushTimeoutMs = 5000
)

type Config struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	ClientID string `mapstructure:"client_id"`
	Acks     string `mapstructure:"acks"`
}

func DecodeConfig(settings map[string]interface{}) (Config, error) {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return Config{}, fmt.Errorf("invalid kafka config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("kafka host is required")
	}
	if c.Port == "" {
		return errors.New("kafka port is required")
	}
	return nil
}

func (c Config) configMap() *kafka.ConfigMap {
	cm := &kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%s", c.Host, c.Port),
	}
	if c.ClientID != "" {
		_ = cm.SetKey("client.id", c.ClientID)
	}
	if c.Acks != "" {
		_ = cm.SetKey("acks", c.Acks)
	}
	return cm
}

// producer is the subset of *kafka.Producer the publisher needs.
type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

var errTopicRequired = errors.New("kafka topic is required")

// Publisher produces messages synchronously: Publish returns once the broker
// acknowledged the message. Calls go through a circuit breaker so an
// unreachable broker fails fast.
type Publisher struct {
	producer producer
	breaker  httpx.CircuitBreaker
	closed   atomic.Bool
}

func NewPublisher(cfg Config, breaker httpx.CircuitBreaker) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := kafka.NewProducer(cfg.configMap())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return newPublisher(p, breaker), nil
}

func newPublisher(p producer, breaker httpx.CircuitBreaker) *Publisher {
	return &Publisher{producer: p, breaker: breaker}
}

func (p *Publisher) Publish(ctx context.Context, msg delivery.Message) error {
	return p.PublishBatch(ctx, []delivery.Message{msg})[0]
}

// PublishBatch produces the whole batch on one delivery channel, then collects
// the reports. A batch with any failed message counts as one breaker failure.
func (p *Publisher) PublishBatch(ctx context.Context, msgs []delivery.Message) []error {
	errs := make([]error, len(msgs))
	if p.closed.Load() {
		fill(errs, delivery.ErrPublisherClosed)
		return errs
	}

	valid := make([]int, 0, len(msgs))
	for i, msg := range msgs {
		if msg.Topic == "" {
			errs[i] = errTopicRequired
			continue
		}
		valid = append(valid, i)
	}
	if len(valid) == 0 {
		return errs
	}

	executed := false
	run := func() error {
		executed = true
		return p.produce(ctx, msgs, valid, errs)
	}
	var err error
	if p.breaker == nil {
		err = run()
	} else {
		err = p.breaker.Execute(run)
	}
	if err != nil && !executed {
		for _, i := range valid {
			errs[i] = err
		}
	}
	return errs
}

func (p *Publisher) produce(ctx context.Context, msgs []delivery.Message, valid []int, errs []error) error {
	reports := make(chan kafka.Event, len(valid))
	waiting := make(map[int]struct{}, len(valid))
	for _, i := range valid {
		km := toKafkaMessage(msgs[i])
		km.Opaque = i
		if err := p.producer.Produce(km, reports); err != nil {
			errs[i] = fmt.Errorf("failed to produce message: %w", err)
			continue
		}
		waiting[i] = struct{}{}
	}

	for len(waiting) > 0 {
		select {
		case <-ctx.Done():
			for i := range waiting {
				errs[i] = fmt.Errorf("waiting for delivery report: %w", ctx.Err())
			}
			return joined(errs, valid)
		case e := <-reports:
			m, ok := e.(*kafka.Message)
			if !ok {
				continue
			}
			i, ok := m.Opaque.(int)
			if !ok {
				continue
			}
			if _, pending := waiting[i]; !pending {
				continue
			}
			delete(waiting, i)
			if m.TopicPartition.Error != nil {
				errs[i] = fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
			}
		}
	}
	return joined(errs, valid)
}

func toKafkaMessage(msg delivery.Message) *kafka.Message {
	topic := msg.Topic
	km := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          msg.Value,
	}
	if msg.Key != "" {
		km.Key = []byte(msg.Key)
	}
	for k, v := range msg.Headers {
		km.Headers = append(km.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return km
}

func joined(errs []error, indexes []int) error {
	picked := make([]error, 0, len(indexes))
	for _, i := range indexes {
		picked = append(picked, errs[i])
	}
	return errors.Join(picked...)
}

func fill(errs []error, err error) {
	for i := range errs {
		errs[i] = err
	}
}

func (p *Publisher) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.producer.Flush(flushTimeoutMs)
	p.producer.Close()
}
