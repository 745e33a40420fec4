package health

import (
	"context"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServingStatus maps a registry status to the grpc.health.v1 status.
// Degraded still serves.
func ServingStatus(s Status) healthpb.HealthCheckResponse_ServingStatus {
	switch s {
	case StatusHealthy, StatusDegraded:
		return healthpb.HealthCheckResponse_SERVING
	case StatusUnhealthy:
		return healthpb.HealthCheckResponse_NOT_SERVING
	default:
		return healthpb.HealthCheckResponse_UNKNOWN
	}
}

// GRPCReporter publishes registry results through the standard gRPC health
// service, both for the named service and the server as a whole ("").
type GRPCReporter struct {
	registry *Registry
	server   *grpchealth.Server
	service  string
	timeout  time.Duration
}

// NewGRPCReporter registers a grpc.health.v1 server on s
func NewGRPCReporter(s *grpc.Server, registry *Registry, service string) *GRPCReporter {
	hs := grpchealth.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	return &GRPCReporter{
		registry: registry,
		server:   hs,
		service:  service,
		timeout:  5 * time.Second,
	}
}

// Refresh runs all checks once and publishes the result
func (r *GRPCReporter) Refresh(ctx context.Context) *Report {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	report := r.registry.Check(ctx)
	status := ServingStatus(report.Status)
	r.server.SetServingStatus(r.service, status)
	r.server.SetServingStatus("", status)
	return report
}

// Run refreshes every interval until ctx ends, then marks everything
// NOT_SERVING
func (r *GRPCReporter) Run(ctx context.Context, interval time.Duration) {
	r.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.server.Shutdown()
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Shutdown marks all services NOT_SERVING
func (r *GRPCReporter) Shutdown() {
	r.server.Shutdown()
}
