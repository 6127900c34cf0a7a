// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package styleapi provides the interaction style decision service.
//
// This package contains the main Service type that coordinates the pieces
// around the rule matcher: HTTP routing, rules loading, decision history,
// Prometheus metrics, and OpenTelemetry tracing. The matcher itself lives
// in services/style_engine and stays free of any of this plumbing.
//
// # Usage
//
//	cfg := styleapi.Config{Port: 12230, RulesPath: "/etc/styleengine/style_rules.yaml"}
//	svc, err := styleapi.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
package styleapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AleutianAI/StyleEngine/services/style_engine"
	"github.com/AleutianAI/StyleEngine/services/styleapi/history"
	"github.com/AleutianAI/StyleEngine/services/styleapi/observability"
	"github.com/AleutianAI/StyleEngine/services/styleapi/routes"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the style decision service.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and should
// only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	// Callers must not modify routes after construction.
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds styleapi configuration options.
//
// All fields are optional with defaults applied by New(). Values are
// typically populated from environment variables by cmd/styleengine, or
// programmatically for testing.
type Config struct {
	// Port is the HTTP server port. Default: 12230
	Port int

	// RulesPath is the path to the YAML rules document.
	// If empty, the embedded default rules are used.
	RulesPath string

	// FallbackStyle overrides the fallback label returned when no rule
	// matches. Precedence: this field > document fallback_style > "hybrid".
	FallbackStyle string

	// APIKey enables static API-key auth on /v1 routes when non-empty.
	APIKey string

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "aleutian-otel-collector:4317". Set EnableTracing=false to
	// skip tracer setup entirely (tests, air-gapped deployments).
	OTelEndpoint string

	// EnableTracing enables OTLP trace export. Default: true.
	EnableTracing *bool

	// EnableMetrics enables the Prometheus /metrics endpoint and decision
	// metrics. Default: true.
	EnableMetrics *bool

	// HistoryDir is the BadgerDB directory for the decision audit trail.
	// If empty, history is disabled and /v1/decisions/recent returns 503.
	HistoryDir string

	// HistoryRetention is how long decision entries are kept. Default: 24h.
	HistoryRetention time.Duration

	// GinMode sets the Gin framework mode ("debug", "release", "test").
	// Default: uses GIN_MODE env var or "debug".
	GinMode string
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// All fields are read-only after New() returns; the engine and rule list
// are immutable for the process lifetime (reload requires a restart).
type service struct {
	config        Config
	router        *gin.Engine
	engine        *style_engine.StyleEngine
	historyStore  history.Store
	tracerCleanup func(context.Context)
}

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12230
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "aleutian-otel-collector:4317"
	}
	if cfg.EnableTracing == nil {
		enabled := true
		cfg.EnableTracing = &enabled
	}
	if cfg.EnableMetrics == nil {
		enabled := true
		cfg.EnableMetrics = &enabled
	}
	if cfg.HistoryRetention == 0 {
		cfg.HistoryRetention = 24 * time.Hour
	}
	return cfg
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a new styleapi Service with the given configuration.
//
// # Description
//
// New initializes all service components:
//  1. Applies default configuration for missing values
//  2. Loads and validates the rule set (file or embedded defaults) —
//     a malformed rules document fails here, before any request is served
//  3. Initializes Prometheus metrics and OpenTelemetry tracing
//  4. Opens the decision history store (optional)
//  5. Sets up HTTP routes
//
// # Outputs
//
//   - Service: Ready-to-run style decision service
//   - error: Non-nil if the rule set is unloadable or tracing setup fails
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	// Load the rule set first: the matcher must never be invoked with an
	// unloadable configuration.
	engine, err := style_engine.NewStyleEngineFromFile(s.config.RulesPath, s.config.FallbackStyle)
	if err != nil {
		return nil, fmt.Errorf("failed to load style rules: %w", err)
	}
	s.engine = engine
	slog.Info("Loaded style rules",
		"source", ruleSource(s.config.RulesPath),
		"rule_count", engine.RuleCount(),
		"fallback_style", engine.FallbackStyle(),
	)

	// Initialize Prometheus metrics
	if *s.config.EnableMetrics {
		observability.InitMetrics()
		observability.SetRulesLoaded(engine.RuleCount())
		slog.Info("Initialized Prometheus metrics for style decisions")
	}

	// Initialize OpenTelemetry tracer
	if *s.config.EnableTracing {
		cleanup, err := s.initTracer()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	// Open decision history store (optional)
	if s.config.HistoryDir != "" {
		storeCfg := history.DefaultConfig(s.config.HistoryDir)
		storeCfg.Retention = s.config.HistoryRetention
		store, err := history.Open(storeCfg)
		if err != nil {
			slog.Warn("Decision history unavailable, continuing without it",
				"dir", s.config.HistoryDir,
				"error", err)
			// Not fatal - continue without history
		} else {
			s.historyStore = store
		}
	}

	// Setup HTTP router
	s.initRouter()

	return s, nil
}

// ruleSource names where the active rules came from, for startup logs.
func ruleSource(path string) string {
	if path == "" {
		return "embedded defaults"
	}
	return path
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error.
// Cleanup (tracer flush, history close) is automatic on return.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting styleengine server", "port", s.config.Port)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// initTracer initializes OpenTelemetry distributed tracing.
//
// Sets up an OTLP trace exporter to the configured collector. Uses an
// insecure gRPC connection, appropriate for internal networks.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("styleengine-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	if *s.config.EnableTracing {
		s.router.Use(otelgin.Middleware("styleengine-service"))
	}

	routes.SetupRoutes(s.router, s.engine, s.historyStore, s.config.APIKey)
}

// cleanup releases all resources held by the service.
func (s *service) cleanup() {
	if s.historyStore != nil {
		if err := s.historyStore.Close(); err != nil {
			slog.Warn("History store close error", "error", err)
		}
	}
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
