// Package health exposes the standard gRPC health service for the storefront.
// Status follows the data backend: SERVING while it answers pings, NOT_SERVING
// otherwise.
package health

import (
	"context"
	"time"

	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Service is the name reported alongside the overall ("") status.
const Service = "frameshop.storefront"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Checker struct {
	backend  Pinger
	server   *health.Server
	interval time.Duration
	timeout  time.Duration
	logger   logger.ZapLogger
	serving  bool
}

func NewChecker(backend Pinger, interval time.Duration, log logger.ZapLogger) *Checker {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Checker{
		backend:  backend,
		server:   health.NewServer(),
		interval: interval,
		timeout:  2 * time.Second,
		logger:   log,
	}
}

// Register installs the health service and server reflection on s.
func (c *Checker) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, c.server)
	reflection.Register(s)
}

// Check pings the backend once and publishes the result.
func (c *Checker) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	err := c.backend.Ping(ctx)
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	if ok := err == nil; ok != c.serving {
		if ok {
			c.logger.Info("backend reachable, reporting SERVING")
		} else {
			c.logger.Warn("backend unreachable, reporting NOT_SERVING", zap.Error(err))
		}
		c.serving = ok
	}

	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(Service, status)
	return status
}

// Run checks on every interval until ctx is done, then marks the service as
// shutting down so clients stop routing to it.
func (c *Checker) Run(ctx context.Context) {
	c.Check(ctx)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}
