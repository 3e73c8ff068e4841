// Package main provides the wx-api server for decoded weather reports.
//
// This is a standalone REST API server that decodes METAR/TAF text on
// demand and serves the latest known report per station from the state
// database maintained by wx-ingest.
//
// Usage:
//
//	wx-api [options]
//
// Options:
//
//	-state-db PATH      Station state SQLite file (default: wx_state.db, env: WX_STATE_DB)
//	-port N             HTTP port (default: 8081)
//	-auth               Enable API key authentication
//	-api-keys KEYS      Comma-separated list of valid API keys
//
// API Endpoints:
//
//	GET /api/v1/health
//	    Health check endpoint.
//
//	POST /api/v1/decode
//	    Decode a single report. Body: {"report": "METAR KJFK ..."}
//
//	POST /api/v1/decode/batch
//	    Decode up to 100 reports. Body: {"reports": ["...", "..."]}
//
//	GET /api/v1/stations
//	    List tracked stations with aggregate stats.
//
//	GET /api/v1/stations/{icao}
//	    Station identity lookup (region, country, tracked flag).
//
//	GET /api/v1/stations/{icao}/latest
//	    Latest decoded report seen for the station.
//
//	GET /metrics
//	    Prometheus metrics.
//
// Authentication:
//
//	When -auth is enabled, requests must include an API key via:
//	  - X-API-Key header
//	  - Authorization: Bearer <key> header
//	  - ?api_key=<key> query parameter
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"wx_decoder/internal/api"
	"wx_decoder/internal/observability"
	"wx_decoder/internal/state"
)

func main() {
	// Best-effort .env loading for local development.
	_ = godotenv.Load()

	stateDB := flag.String("state-db", envOrDefault("WX_STATE_DB", "wx_state.db"), "Station state SQLite file")
	noState := flag.Bool("no-state", false, "Run decode-only, without the station state database")

	// API server flags.
	port := flag.Int("port", 8081, "HTTP port for API server")
	authEnabled := flag.Bool("auth", false, "Enable API key authentication")
	apiKeys := flag.String("api-keys", "", "Comma-separated list of valid API keys (when auth enabled)")

	flag.Parse()

	var tracker *state.Tracker
	if !*noState {
		var err error
		tracker, err = state.NewTracker(*stateDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening state database: %v\n", err)
			os.Exit(1)
		}
		defer tracker.Close()
	}

	// Parse API keys.
	var keys []string
	if *apiKeys != "" {
		keys = strings.Split(*apiKeys, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}
	}

	// Create and run server.
	server := api.NewServer(tracker, observability.NewMetrics(), api.Config{
		Port:        *port,
		AuthEnabled: *authEnabled,
		APIKeys:     keys,
	})

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
