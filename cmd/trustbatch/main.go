package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralTrust/TrustBatch/pkg/config"
	"github.com/NeuralTrust/TrustBatch/pkg/dependency_container"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache/channel"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/cache/event"
	infraLogger "github.com/NeuralTrust/TrustBatch/pkg/infra/logger"
	"github.com/NeuralTrust/TrustBatch/pkg/infra/prometheus"
	"github.com/NeuralTrust/TrustBatch/pkg/server"
	"github.com/NeuralTrust/TrustBatch/pkg/server/router"
	"github.com/NeuralTrust/TrustBatch/pkg/version"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	_ "github.com/NeuralTrust/TrustBatch/pkg/infra/migrations"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	if err := config.Load(os.Getenv("CONFIG_PATH")); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	logger, closeLogger, err := infraLogger.NewLogger(infraLogger.Options{
		Component: "trustbatch",
		Console:   true,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLogger()

	prometheus.Initialize(prometheus.MetricsConfig{
		EnableProcess: cfg.Metrics.EnableProcess,
	})

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:            cfg,
		Logger:         logger,
		EventsRegistry: event.Registry,
		EventsChannel:  channel.BucketsChannel,
	})
	if err != nil {
		logger.WithError(err).Error("failed to initialize dependencies")
		closeLogger()
		os.Exit(1)
	}
	defer container.Close()

	logger.WithFields(logrus.Fields{
		"version":  version.Version,
		"instance": container.InstanceID,
		"store":    cfg.Database.Driver,
		"policies": container.Registry.Names(),
	}).Info("starting " + version.AppName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := container.Debouncer.Recover(ctx); err != nil {
		// The first sweep picks the buckets up anyway.
		logger.WithError(err).Warn("failed to recover pending buckets")
	}

	adminServer := server.NewAdminServer(server.AdminServerDI{
		MiddlewareTransport: container.MiddlewareTransport,
		Routers: []router.ServerRouter{
			router.NewAdminRouter(container.MiddlewareTransport, container.HandlerTransport, "/swagger.json"),
			router.NewIngestRouter(container.MiddlewareTransport, container.HandlerTransport),
		},
		Config: cfg,
		Logger: logger,
	})

	var metricsServer *server.MetricsServer
	if cfg.Metrics.Enabled {
		metricsServer = server.NewMetricsServer(cfg, logger)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := adminServer.Run(); err != nil {
			return fmt.Errorf("admin server: %w", err)
		}
		return nil
	})
	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Run(); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		return container.Debouncer.Run(gctx)
	})
	g.Go(func() error {
		return container.Ingestor.Run(gctx)
	})
	if container.RedisListener != nil {
		g.Go(func() error {
			logger.WithField("channel", container.EventsChannel).Info("listening for bucket wake-ups")
			container.RedisListener.Listen(gctx, container.EventsChannel)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")
		if err := adminServer.Shutdown(); err != nil {
			logger.WithError(err).Error("failed to shut down admin server")
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(); err != nil {
				logger.WithError(err).Error("failed to shut down metrics server")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("trustbatch stopped with error")
		container.Close()
		closeLogger()
		os.Exit(1)
	}
	logger.Info("trustbatch gracefully stopped")
}
