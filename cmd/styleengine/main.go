// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command styleengine starts the interaction style decision HTTP server.
//
// This is the main entry point for the containerized styleengine service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - STYLE_ENGINE_PORT: HTTP server port (default: 12230)
//   - STYLE_RULES_PATH: path to a YAML rules document (default: embedded rules)
//   - STYLE_FALLBACK: fallback style label when no rule matches (default: hybrid)
//   - STYLE_API_KEY: static API key for /v1 routes (default: auth disabled)
//   - STYLE_HISTORY_DIR: BadgerDB directory for the decision audit trail
//     (default: history disabled)
//   - STYLE_TRACING_ENABLED: set to "false" to skip OTLP tracing (default: true)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: aleutian-otel-collector:4317)
//
// # Usage
//
//	# Build
//	go build -o styleengine ./cmd/styleengine
//
//	# Run
//	STYLE_RULES_PATH=configs/style_rules.yaml ./styleengine
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/AleutianAI/StyleEngine/services/styleapi"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Build configuration from environment variables
	tracing := getEnvBool("STYLE_TRACING_ENABLED", true)
	cfg := styleapi.Config{
		Port:          getEnvInt("STYLE_ENGINE_PORT", 12230),
		RulesPath:     os.Getenv("STYLE_RULES_PATH"),
		FallbackStyle: os.Getenv("STYLE_FALLBACK"),
		APIKey:        os.Getenv("STYLE_API_KEY"),
		HistoryDir:    os.Getenv("STYLE_HISTORY_DIR"),
		OTelEndpoint:  getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "aleutian-otel-collector:4317"),
		EnableTracing: &tracing,
	}

	slog.Info("Starting styleengine",
		"port", cfg.Port,
		"rules_path", cfg.RulesPath,
		"history_dir", cfg.HistoryDir,
	)

	svc, err := styleapi.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create styleengine: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Styleengine error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool returns the environment variable as bool or a default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
