// Package config provides centralized configuration for LogisticSmart.
// It loads settings from multiple sources, validates them and exposes a
// typed API to the rest of the application.
//
// # Configuration Sources
//
// Sources are applied in increasing order of precedence:
//
//  1. Default() values
//  2. A YAML file (config.yaml, configs/config.yaml or LOGISTIC_CONFIG_FILE)
//  3. Environment variables
//
// # Environment Variables
//
// Variables are namespaced with LOGISTIC_ and follow the struct layout:
//
//	LOGISTIC_SERVER_PORT=8501
//	LOGISTIC_LOGGING_LEVEL=debug
//	LOGISTIC_PROCESSING_REQUIRED_COLUMNS="Data prevista de entrega"
//	LOGISTIC_PROCESSING_CACHE_TTL=30m
//	LOGISTIC_EXPORT_CHROME_PATH=/usr/bin/chromium
//	LOGISTIC_AUTH_USERS_FILE=/var/lib/logisticsmart/users.json
//
// # Domain Tables
//
// constants.go holds the fixed tables used by the report pipeline: column
// detection keywords, status indicator phrases, required column labels and
// the default accounts seeded into a fresh users file.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths := cfg.ResolvedPaths()
//
// For tests, Default() returns a configuration that needs no environment.
package config
