package observability

import (
	"context"
	"log/slog"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/carefleet/carefleet-backend/internal/config"
)

// Runtime bundles the telemetry providers so the app can shut them down
// in one place.
type Runtime struct {
	Logger         *slog.Logger
	LoggerProvider *sdklog.LoggerProvider
	MeterProvider  *sdkmetric.MeterProvider
	TracerProvider *sdktrace.TracerProvider
}

func InitRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	bootstrap := NewBootstrapLogger(cfg)

	lp, err := InitLogs(ctx, cfg, bootstrap)
	if err != nil {
		return nil, err
	}
	logger := InitLogger(cfg, lp)

	mp, err := InitMetrics(ctx, cfg)
	if err != nil {
		return nil, err
	}
	tp, err := InitTracing(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Logger:         logger,
		LoggerProvider: lp,
		MeterProvider:  mp,
		TracerProvider: tp,
	}, nil
}

func (rt *Runtime) Shutdown(ctx context.Context) {
	if rt.TracerProvider != nil {
		if err := rt.TracerProvider.Shutdown(ctx); err != nil {
			rt.Logger.Error("tracer provider shutdown", "error", err)
		}
	}
	if rt.MeterProvider != nil {
		if err := rt.MeterProvider.Shutdown(ctx); err != nil {
			rt.Logger.Error("meter provider shutdown", "error", err)
		}
	}
	if rt.LoggerProvider != nil {
		if err := rt.LoggerProvider.Shutdown(ctx); err != nil {
			rt.Logger.Error("logger provider shutdown", "error", err)
		}
	}
}
