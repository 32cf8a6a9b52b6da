package dependency_container

import (
	"fmt"
	"os"
	"reflect"

	"github.com/NeuralTrust/TrustBatch/pkg/app/debouncer"
	"github.com/NeuralTrust/TrustBatch/pkg/app/notification"
	"github.com/NeuralTrust/TrustBatch/pkg/app/telemetry"
	"github.com/NeuralTrust/TrustBatch/pkg/config"
	"github.com/NeuralTrust/TrustBatch/pkg/domain/bucket"
	domainDelivery "github.com/NeuralTrust/TrustBatch/pkg/domain/delivery"
	handlers "github.com/NeuralTrust/TrustBatch/pkg/handlers/http"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache/channel"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache/event"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache/subscriber"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/database"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/delivery"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/repository"
	"github.com/NeuralTrust/TrustBatch/pkg/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Container struct {
	InstanceID          string
	DB                  *database.DB
	Cache               cache.Client
	RedisListener       cache.EventListener
	RedisPublisher      cache.EventPublisher
	EventsChannel       channel.Channel
	BucketRepository    bucket.Repository
	Registry            *debouncer.Registry
	Debouncer           *debouncer.Debouncer
	Batcher             *notification.Batcher
	Ingestor            *telemetry.Ingestor
	Publisher           domainDelivery.Publisher
	JWTManager          jwt.Manager
	MiddlewareTransport *middleware.Transport
	HandlerTransport    *handlers.HandlerTransport
}

type ContainerDI struct {
	Cfg            *config.Config
	Logger         *logrus.Logger
	EventsRegistry map[string]reflect.Type
	EventsChannel  channel.Channel
}

func NewContainer(di ContainerDI) (*Container, error) {
	c := &Container{
		InstanceID:    instanceID(),
		EventsChannel: di.EventsChannel,
	}
	if c.EventsChannel == "" {
		c.EventsChannel = channel.BucketsChannel
	}
	if di.EventsRegistry == nil {
		di.EventsRegistry = event.Registry
	}

	// storage
	switch di.Cfg.Database.Driver {
	case config.StoreDriverMemory:
		di.Logger.Warn("using in-memory bucket store, pending buckets will not survive a restart")
		c.BucketRepository = repository.NewMemoryBucketRepository()
	default:
		db, err := database.NewDB(di.Logger, &database.Config{
			Host:         di.Cfg.Database.Host,
			Port:         di.Cfg.Database.Port,
			User:         di.Cfg.Database.User,
			Password:     di.Cfg.Database.Password,
			DBName:       di.Cfg.Database.DBName,
			SSLMode:      di.Cfg.Database.SSLMode,
			MaxOpenConns: di.Cfg.Database.MaxOpenConns,
			MaxIdleConns: di.Cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		c.BucketRepository = repository.NewBucketRepository(db.DB)
	}

	// redis wake-ups
	if di.Cfg.Redis.Enabled {
		cacheInstance, err := cache.NewClient(cache.Config{
			Host:     di.Cfg.Redis.Host,
			Port:     di.Cfg.Redis.Port,
			Password: di.Cfg.Redis.Password,
			DB:       di.Cfg.Redis.DB,
			TLS:      di.Cfg.Redis.TLS,
		}, di.Logger)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
		c.Cache = cacheInstance
		c.RedisPublisher = cache.NewRedisEventPublisher(cacheInstance, c.EventsChannel)
		c.RedisListener = cache.NewRedisEventListener(di.Logger, cacheInstance, di.EventsRegistry)
	}

	// delivery
	publisher, err := delivery.NewPublisher(delivery.Config{
		Driver:             di.Cfg.Delivery.Driver,
		Settings:           di.Cfg.Kafka,
		BreakerTimeout:     di.Cfg.Delivery.BreakerTimeout,
		BreakerMaxFailures: di.Cfg.Delivery.BreakerMaxFailures,
	}, di.Logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize delivery publisher: %w", err)
	}
	c.Publisher = publisher

	// debouncer
	c.Registry = debouncer.NewRegistry()
	c.Debouncer = debouncer.New(di.Logger, c.Registry, c.BucketRepository, di.Cfg.Debouncer, &debouncer.Opts{
		FailureReporter: failureReporter(di.Logger),
		Publisher:       c.RedisPublisher,
		InstanceID:      c.InstanceID,
	})
	if c.RedisListener != nil {
		cache.RegisterEventSubscriber[event.BucketScheduledEvent](
			c.RedisListener,
			subscriber.NewBucketScheduledEventSubscriber(di.Logger, c.Debouncer, c.InstanceID),
		)
	}

	// notifications
	c.Batcher = notification.NewBatcher(di.Logger, c.Registry, c.Debouncer, c.Publisher, &notification.Opts{
		Topic: di.Cfg.Notifications.Topic,
	})
	if err := c.Batcher.RegisterCategories(di.Cfg.Notifications.Categories); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to register notification categories: %w", err)
	}

	// telemetry
	c.Ingestor = telemetry.NewIngestor(di.Logger, telemetry.Config{
		Topic:      di.Cfg.Telemetry.Topic,
		SessionTTL: di.Cfg.Telemetry.SessionTTL,
		MaxEvents:  di.Cfg.Telemetry.MaxEvents,
		RateLimit:  di.Cfg.RateLimit,
	}, c.Publisher, nil)

	c.JWTManager = jwt.NewJwtManager(&di.Cfg.Server)

	c.MiddlewareTransport = &middleware.Transport{
		AdminAuthMiddleware:    middleware.NewAdminAuthMiddleware(di.Logger, c.JWTManager),
		SessionMiddleware:      middleware.NewSessionMiddleware(di.Logger),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(),
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(di.Logger),
	}

	c.HandlerTransport = &handlers.HandlerTransport{
		GetVersionHandler: handlers.NewGetVersionHandler(di.Logger),
		// Debouncer administration
		ListPoliciesHandler: handlers.NewListPoliciesHandler(di.Logger, c.Debouncer),
		ListBucketsHandler:  handlers.NewListBucketsHandler(di.Logger, c.Debouncer),
		FireBucketHandler:   handlers.NewFireBucketHandler(di.Logger, c.Debouncer),
		// Notifications
		RedispatchHandler: handlers.NewRedispatchHandler(di.Logger, c.Batcher),
		// Ingestion
		IngestTelemetryHandler: handlers.NewIngestTelemetryHandler(di.Logger, c.Ingestor, di.Cfg.Server.MaxBodyBytes),
	}

	return c, nil
}

// Close drains the debouncer queues, then releases the publisher and connections.
func (c *Container) Close() {
	if c.Debouncer != nil {
		c.Debouncer.Close()
	}
	if c.Publisher != nil {
		c.Publisher.Close()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}

func failureReporter(logger *logrus.Logger) debouncer.FailureReporter {
	return func(policyName string, b *bucket.Bucket, err error) {
		logger.WithError(err).WithFields(logrus.Fields{
			"policy":      policyName,
			"bucketID":    b.ID,
			"groupingKey": b.GroupingKey,
			"members":     len(b.MemberEventIDs),
		}).Warn("batch lost after callback failure")
	}
}

func instanceID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return uuid.NewString()
	}
	return host + "-" + uuid.NewString()[:8]
}
