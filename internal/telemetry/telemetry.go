package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// endpoint is an OTLP collector address split into the pieces the HTTP exporters want.
type endpoint struct {
	host       string
	insecure   bool
	tracePath  string
	logPath    string
	metricPath string
}

// parseEndpoint accepts "host:port", "http(s)://host[:port][/base]" and base paths that
// already end in a signal suffix.
func parseEndpoint(raw string) endpoint {
	ep := endpoint{
		tracePath:  "/v1/traces",
		logPath:    "/v1/logs",
		metricPath: "/v1/metrics",
	}

	host := raw
	if strings.HasPrefix(host, "https://") {
		host = strings.TrimPrefix(host, "https://")
	} else if strings.HasPrefix(host, "http://") {
		host = strings.TrimPrefix(host, "http://")
		ep.insecure = true
	}

	basePath := ""
	if idx := strings.Index(host, "/"); idx > 0 {
		basePath = host[idx:]
		host = host[:idx]
	}
	ep.host = host

	if basePath != "" {
		for _, suffix := range []string{"/v1/traces", "/v1/logs", "/v1/metrics"} {
			basePath = strings.TrimSuffix(basePath, suffix)
		}
		basePath = strings.TrimSuffix(basePath, "/")
		ep.tracePath = basePath + "/v1/traces"
		ep.logPath = basePath + "/v1/logs"
		ep.metricPath = basePath + "/v1/metrics"
	}

	return ep
}

// InitTelemetry initializes OpenTelemetry traces, logs and metrics with OTLP/HTTP exporters.
// Returns shutdown function and error
func InitTelemetry(ctx context.Context, serviceName, serviceVersion, env, otlpEndpoint string, headers map[string]string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			semconv.DeploymentEnvironmentKey.String(env),
		),
	)
	if err != nil {
		return nil, err
	}

	ep := parseEndpoint(otlpEndpoint)

	var traceOpts []otlptracehttp.Option
	var logOpts []otlploghttp.Option
	var metricOpts []otlpmetrichttp.Option

	if ep.host != "" {
		traceOpts = append(traceOpts, otlptracehttp.WithEndpoint(ep.host), otlptracehttp.WithURLPath(ep.tracePath))
		logOpts = append(logOpts, otlploghttp.WithEndpoint(ep.host), otlploghttp.WithURLPath(ep.logPath))
		metricOpts = append(metricOpts, otlpmetrichttp.WithEndpoint(ep.host), otlpmetrichttp.WithURLPath(ep.metricPath))
	}
	if len(headers) > 0 {
		traceOpts = append(traceOpts, otlptracehttp.WithHeaders(headers))
		logOpts = append(logOpts, otlploghttp.WithHeaders(headers))
		metricOpts = append(metricOpts, otlpmetrichttp.WithHeaders(headers))
	}
	if ep.insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		logOpts = append(logOpts, otlploghttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}

	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, err
	}

	logExporter, err := otlploghttp.New(ctx, logOpts...)
	if err != nil {
		return nil, err
	}

	metricExporter, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(lp)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	slog.InfoContext(ctx, "Telemetry initialized",
		"endpoint", ep.host,
		"trace_path", ep.tracePath,
		"log_path", ep.logPath,
		"metric_path", ep.metricPath,
		"insecure", ep.insecure,
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		return errors.Join(
			tp.Shutdown(ctx),
			lp.Shutdown(ctx),
			mp.Shutdown(ctx),
		)
	}, nil
}

// Tracer returns a tracer with the given name
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
