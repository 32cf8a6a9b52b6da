package server

import (
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/config"
	"github.com/NeuralTrust/TrustBatch/pkg/server/router"
	"github.com/NeuralTrust/TrustBatch/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	HealthPath      = "/health"
	AdminHealthPath = "/__/health"
)

// Server interface defines the common behavior for all servers
type Server interface {
	Run() error
	Shutdown() error
}

type BaseServer struct {
	Config *config.Config
	Logger *logrus.Logger
	Router *fiber.App
}

func NewBaseServer(config *config.Config, logger *logrus.Logger) *BaseServer {
	bodyLimit := int(config.Server.MaxBodyBytes)
	if bodyLimit <= 0 {
		bodyLimit = 4 * 1024 * 1024
	}
	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReduceMemoryUsage:     true,
		Network:               fiber.NetworkTCP,
		BodyLimit:             bodyLimit,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	r.Server().NoDefaultServerHeader = true

	return &BaseServer{
		Config: config,
		Logger: logger,
		Router: r,
	}
}

// setupHealthCheck registers the liveness endpoints. Neither touches the timer store.
func (s *BaseServer) setupHealthCheck() {
	health := func(status string) fiber.Handler {
		return func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
				"status":  status,
				"version": version.Version,
				"time":    time.Now().UTC().Format(time.RFC3339),
			})
		}
	}
	s.Router.Get(HealthPath, health("healthy"))
	s.Router.Get(AdminHealthPath, health("ok"))
}

func (s *BaseServer) WithRouters(routers ...router.ServerRouter) *BaseServer {
	for _, r := range routers {
		if err := r.BuildRoutes(s.Router); err != nil {
			s.Logger.WithError(err).Error("failed to build routes")
		}
	}
	return s
}
