package delivery

import (
	"fmt"
	"time"

	domain "github.com/NeuralTrust/TrustBatch/pkg/domain/delivery"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/delivery/kafka"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/delivery/logsink"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Driver             string                 `mapstructure:"driver"`
	Settings           map[string]interface{} `mapstructure:"settings"`
	BreakerTimeout     time.Duration          `mapstructure:"breaker_timeout"`
	BreakerMaxFailures uint32                 `mapstructure:"breaker_max_failures"`
}

// NewPublisher builds the publisher named by cfg.Driver.
func NewPublisher(cfg Config, logger *logrus.Logger) (domain.Publisher, error) {
	switch cfg.Driver {
	case kafka.DriverName:
		kafkaCfg, err := kafka.DecodeConfig(cfg.Settings)
		if err != nil {
			return nil, err
		}
		timeout, maxFailures := cfg.BreakerTimeout, cfg.BreakerMaxFailures
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		if maxFailures == 0 {
			maxFailures = 5
		}
		breaker := httpx.NewCircuitBreaker("kafka-publisher", timeout, maxFailures, logger)
		return kafka.NewPublisher(kafkaCfg, breaker)
	case logsink.DriverName, "":
		return logsink.NewPublisher(logger, logrus.InfoLevel), nil
	default:
		return nil, fmt.Errorf("unknown delivery driver: %s", cfg.Driver)
	}
}
