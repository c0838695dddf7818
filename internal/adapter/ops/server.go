// Package ops hosts the ops endpoint: health checking and reflection.
package ops

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// Pinger is a dependency whose reachability decides the serving status.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// OpsServer is the gRPC server plus its health service.
type OpsServer struct {
	Server  *grpc.Server
	Health  *health.Server
	service string
	logger  *logger.Logger
}

// NewOpsServer builds a server with tracing and request logging, registers health and reflection.
func NewOpsServer(serviceName string, appLogger *logger.Logger) *OpsServer {
	log := appLogger.Named("OpsServer")
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor(log)),
	)
	reflection.Register(server)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	log.Info("gRPC ops server configured", zap.String("service", serviceName))
	return &OpsServer{Server: server, Health: healthServer, service: serviceName, logger: log}
}

// SetServing flips both the overall and the named service status.
func (s *OpsServer) SetServing(serving bool) {
	st := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		st = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.Health.SetServingStatus("", st)
	s.Health.SetServingStatus(s.service, st)
}

// Watch pings deps every interval and reports NOT_SERVING while any of them fails.
// It returns when ctx is done.
func (s *OpsServer) Watch(ctx context.Context, interval time.Duration, deps map[string]Pinger) {
	s.checkOnce(ctx, deps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkOnce(ctx, deps)
		}
	}
}

func (s *OpsServer) checkOnce(ctx context.Context, deps map[string]Pinger) bool {
	healthy := true
	for name, dep := range deps {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := dep.Ping(pingCtx)
		cancel()
		if err != nil {
			s.logger.Warn("Dependency unhealthy", zap.String("dependency", name), zap.Error(err))
			healthy = false
		}
	}
	s.SetServing(healthy)
	return healthy
}

// GracefulStop marks the service NOT_SERVING, then drains in-flight calls.
func (s *OpsServer) GracefulStop() {
	s.Health.Shutdown()
	s.Server.GracefulStop()
}

// LoggingInterceptor logs every unary call with its duration and status code.
func LoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.String("status_code", status.Code(err).String()),
		}
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}
		if err != nil {
			log.Error("gRPC request failed", append(fields, zap.Error(err))...)
		} else {
			log.Debug("gRPC request completed", fields...)
		}
		return resp, err
	}
}
