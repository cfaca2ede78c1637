// Package observability wires logging, metrics, and tracing for the app.
package observability

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config controls observability construction.
type Config struct {
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	MetricsAddress string `yaml:"metrics_address"`
}

// Provider holds the process-wide logger.
type Provider struct {
	Logger *slog.Logger
}

// Registry holds per-module metrics and the tracer.
type Registry struct {
	QueueMetrics  *OperationMetrics
	LobbyMetrics  *OperationMetrics
	MatchMetrics  *OperationMetrics
	RatingMetrics *OperationMetrics
	Tracer        trace.Tracer

	Prometheus *prometheus.Registry
}

// Observability bundles the provider and registry the way modules consume it.
type Observability struct {
	Provider *Provider
	Registry *Registry

	metricsAddress string
}

// Init builds the logger, prometheus registry, and a noop tracer. A real
// exporter can be swapped in behind the same trace.Tracer.
func Init(cfg Config) *Observability {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("environment", cfg.Environment))

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Observability{
		metricsAddress: cfg.MetricsAddress,
		Provider:       &Provider{Logger: logger},
		Registry: &Registry{
			QueueMetrics:  NewOperationMetrics(promReg, "queue"),
			LobbyMetrics:  NewOperationMetrics(promReg, "lobby"),
			MatchMetrics:  NewOperationMetrics(promReg, "match"),
			RatingMetrics: NewOperationMetrics(promReg, "rating"),
			Tracer:        noop.NewTracerProvider().Tracer("league-bot"),
			Prometheus:    promReg,
		},
	}
}

// ServeMetrics exposes the prometheus registry until ctx is done. A blank
// address disables the endpoint.
func (o *Observability) ServeMetrics(ctx context.Context) error {
	// metrics address comes from config; nothing to do when unset
	if o == nil || o.Registry == nil || o.Registry.Prometheus == nil {
		return nil
	}
	addr := o.metricsAddress
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(o.Registry.Prometheus, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
