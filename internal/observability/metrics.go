package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/carefleet/carefleet-backend/internal/config"
)

type appMetrics struct {
	authRequestDuration metric.Float64Histogram
	authLogins          metric.Int64Counter
	authRefreshes       metric.Int64Counter
	rateLimitDecisions  metric.Int64Counter
	healthCheckDuration metric.Float64Histogram
}

var (
	metricsOnce sync.Once
	metrics     *appMetrics
)

func getMetrics() *appMetrics {
	metricsOnce.Do(func() {
		meter := otel.Meter("carefleet-backend")
		m := &appMetrics{}
		m.authRequestDuration, _ = meter.Float64Histogram(
			"auth_request_duration_seconds",
			metric.WithDescription("Latency of authentication endpoints"),
			metric.WithUnit("s"),
		)
		m.authLogins, _ = meter.Int64Counter(
			"auth_logins_total",
			metric.WithDescription("Login attempts by outcome"),
		)
		m.authRefreshes, _ = meter.Int64Counter(
			"auth_token_refreshes_total",
			metric.WithDescription("Token refresh attempts by outcome"),
		)
		m.rateLimitDecisions, _ = meter.Int64Counter(
			"rate_limit_decisions_total",
			metric.WithDescription("Rate limiter decisions by scope and outcome"),
		)
		m.healthCheckDuration, _ = meter.Float64Histogram(
			"health_check_duration_seconds",
			metric.WithDescription("Latency of readiness dependency checks"),
			metric.WithUnit("s"),
		)
		metrics = m
	})
	return metrics
}

func RecordAuthRequestDuration(ctx context.Context, operation, status string, d time.Duration) {
	m := getMetrics()
	if m.authRequestDuration == nil {
		return
	}
	m.authRequestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func RecordAuthLogin(ctx context.Context, outcome string) {
	m := getMetrics()
	if m.authLogins == nil {
		return
	}
	m.authLogins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordAuthRefresh(ctx context.Context, outcome string) {
	m := getMetrics()
	if m.authRefreshes == nil {
		return
	}
	m.authRefreshes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordRateLimitDecision(ctx context.Context, scope, outcome string) {
	m := getMetrics()
	if m.rateLimitDecisions == nil {
		return
	}
	m.rateLimitDecisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.String("outcome", outcome),
	))
}

func RecordHealthCheck(ctx context.Context, name string, healthy bool, d time.Duration) {
	m := getMetrics()
	if m.healthCheckDuration == nil {
		return
	}
	m.healthCheckDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("dependency", name),
		attribute.Bool("healthy", healthy),
	))
}

func InitMetrics(ctx context.Context, cfg *config.Config) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		return nil, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create metrics resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}
