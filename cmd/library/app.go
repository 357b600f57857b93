package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore/oteladapters"
	"github.com/AntonStoeckl/lending-policy-engine/eventstore/promadapters"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell/config"
)

const (
	serviceName     = "library"
	shutdownTimeout = 5 * time.Second

	metricsBackendPrometheus = "prometheus"
	metricsBackendOTel       = "otel"
)

// ErrInvalidMetricsBackend is returned for an unknown --metrics-backend or one that cannot serve --metrics-addr.
var ErrInvalidMetricsBackend = errors.New("invalid metrics backend")

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// app holds everything a subcommand needs. The store is opened in setup and closed in teardown,
// unless it was handed in from outside.
type app struct {
	out    io.Writer
	errOut io.Writer

	storeConfig    config.StoreConfig
	configPath     string
	logLevel       string
	metricsAddr    string
	metricsBackend string

	policy   core.PolicyConfig
	clock    core.Clock
	store    *config.OpenedStore
	ownStore bool
	handlers handlers

	logger         *oteladapters.SlogBridgeLogger
	metrics        shell.MetricsCollector
	registry       *prometheus.Registry
	promMetrics    *promadapters.MetricsCollector
	meterReader    *sdkmetric.ManualReader
	meterProvider  *sdkmetric.MeterProvider
	otelMetrics    *oteladapters.MetricsCollector
	tracerProvider *sdktrace.TracerProvider
	tracing        *oteladapters.TracingCollector
	metricsServer  *http.Server
}

func newApp(out io.Writer, errOut io.Writer) *app {
	registry := prometheus.NewRegistry()
	promMetrics := promadapters.NewMetricsCollector(registry)
	meterReader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(meterReader))
	tracerProvider := sdktrace.NewTracerProvider()

	return &app{
		out:            out,
		errOut:         errOut,
		clock:          core.NewSystemClock(),
		policy:         core.DefaultPolicyConfig(),
		logger:         oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(errOut, nil)),
		metrics:        promMetrics,
		registry:       registry,
		promMetrics:    promMetrics,
		meterReader:    meterReader,
		meterProvider:  meterProvider,
		otelMetrics:    oteladapters.NewMetricsCollector(meterProvider.Meter(serviceName)),
		tracerProvider: tracerProvider,
		tracing:        oteladapters.NewTracingCollector(tracerProvider.Tracer(serviceName)),
	}
}

func (a *app) bindGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&a.storeConfig.Kind, "store", config.StoreMemory, "event store: memory, sqlite or postgres")
	flags.StringVar(&a.storeConfig.SQLitePath, "sqlite-path", "library.db", "sqlite database file")
	flags.StringVar(&a.storeConfig.PostgresDSN, "postgres-dsn", os.Getenv("LIBRARY_POSTGRES_DSN"), "postgres connection string")
	flags.StringVar(&a.storeConfig.PostgresDriver, "postgres-driver", config.PostgresDriverPGX, "postgres driver: pgx, sql or sqlx")
	flags.StringVar(&a.storeConfig.TableName, "table", "", "events table name")
	flags.StringVar(&a.configPath, "config", "", "JSON file with the policy parameters")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flags.StringVar(&a.metricsBackend, "metrics-backend", metricsBackendPrometheus,
		"metrics backend: prometheus, or otel to log the collected metrics on exit")

	config.BindPolicyFlags(flags, core.DefaultPolicyConfig())
}

func (a *app) setup(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	a.logger = oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	if err := a.selectMetrics(); err != nil {
		return err
	}

	policy, err := config.LoadPolicyConfig(a.configPath, os.LookupEnv)
	if err != nil {
		return err
	}

	if a.policy, err = config.ApplyPolicyFlags(cmd.Flags(), policy); err != nil {
		return err
	}

	if a.store == nil {
		store, openErr := config.OpenEventStore(cmd.Context(), a.storeConfig, config.Instruments{
			ContextualLogger: a.logger,
			Metrics:          a.metrics,
			Tracing:          a.tracing,
		})
		if openErr != nil {
			return openErr
		}

		a.store = store
		a.ownStore = true
	}

	if a.handlers, err = a.buildHandlers(a.clock); err != nil {
		return err
	}

	return a.serveMetrics()
}

func (a *app) selectMetrics() error {
	switch a.metricsBackend {
	case metricsBackendPrometheus:
		a.metrics = a.promMetrics
	case metricsBackendOTel:
		if a.metricsAddr != "" {
			return fmt.Errorf("%w: --metrics-addr needs the %s backend", ErrInvalidMetricsBackend, metricsBackendPrometheus)
		}

		a.metrics = a.otelMetrics
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMetricsBackend, a.metricsBackend)
	}

	return nil
}

func (a *app) serveMetrics() error {
	if a.metricsAddr == "" {
		return nil
	}

	listener, err := net.Listen("tcp", a.metricsAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.metricsAddr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.metricsServer = &http.Server{Handler: mux, ReadHeaderTimeout: shutdownTimeout}

	go func() {
		if serveErr := a.metricsServer.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			a.logger.ErrorContext(context.Background(), "metrics server failed", "error", serveErr.Error())
		}
	}()

	return nil
}

func (a *app) teardown() error {
	var err error

	if a.metricsBackend == metricsBackendOTel {
		err = a.logCollectedMetrics(context.Background())
	}

	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err = errors.Join(err, a.metricsServer.Shutdown(ctx))
		cancel()
		a.metricsServer = nil
	}

	if a.ownStore {
		err = errors.Join(err, a.store.Close())
		a.store = nil
		a.ownStore = false
	}

	return err
}

func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	_ = a.meterProvider.Shutdown(ctx)
	_ = a.tracerProvider.Shutdown(ctx)
}

func (a *app) print(v any) error {
	encoder := jsonAPI.NewEncoder(a.out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
