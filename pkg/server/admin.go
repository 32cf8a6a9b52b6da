package server

import (
	"fmt"

	"github.com/NeuralTrust/TrustBatch/pkg/config"
	"github.com/NeuralTrust/TrustBatch/pkg/middleware"
	"github.com/NeuralTrust/TrustBatch/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	AdminServerDI struct {
		MiddlewareTransport *middleware.Transport
		Routers             []router.ServerRouter
		Config              *config.Config
		Logger              *logrus.Logger
	}
	// AdminServer serves the admin API and the telemetry ingestion endpoint.
	AdminServer struct {
		*BaseServer
	}
)

func NewAdminServer(di AdminServerDI) *AdminServer {
	s := &AdminServer{
		BaseServer: NewBaseServer(di.Config, di.Logger),
	}
	if di.MiddlewareTransport != nil {
		if mw := di.MiddlewareTransport.PanicRecoverMiddleware; mw != nil {
			s.Router.Use(mw.Middleware())
		}
		if mw := di.MiddlewareTransport.MetricsMiddleware; mw != nil {
			s.Router.Use(mw.Middleware())
		}
	}
	s.setupHealthCheck()
	s.WithRouters(di.Routers...)
	return s
}

func (s *AdminServer) Run() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.AdminPort)
	s.Logger.WithField("addr", addr).Info("starting admin server")
	return s.Router.Listen(addr)
}

func (s *AdminServer) Shutdown() error {
	return s.Router.Shutdown()
}
