// Package main provides the report-api server for decoded aviation weather.
//
// This is a standalone REST API server that fetches, decodes, and serves
// METAR and TAF reports. Live reports come from the NOAA Aviation Weather
// Center; the most recent decode per station is cached in PostgreSQL when
// configured.
//
// Usage:
//
//	report-api [options]
//
// Options:
//
//	-port N             HTTP port (default: 8080)
//	-station-db PATH    SQLite station metadata database (optional, env: WX_STATION_DB)
//	-pg                 Enable the PostgreSQL latest-report store
//	-pg-host HOST       PostgreSQL host (default: localhost, env: POSTGRES_HOST)
//	-pg-port PORT       PostgreSQL port (default: 5432, env: POSTGRES_PORT)
//	-pg-database DB     PostgreSQL database (default: wx_state, env: POSTGRES_DATABASE)
//	-pg-user USER       PostgreSQL user (default: wx, env: POSTGRES_USER)
//	-pg-password PASS   PostgreSQL password (default: wx, env: POSTGRES_PASSWORD)
//	-auth               Enable API key authentication
//	-api-keys KEYS      Comma-separated list of valid API keys
//
// API Endpoints:
//
//	GET /api/v1/health
//	    Health check endpoint.
//
//	GET /api/v1/metar/{station}
//	    Fetch and decode the current METAR. Append ?options=translate,summary,speech
//	    for derived renderings.
//
//	GET /api/v1/taf/{station}
//	    Fetch and decode the current TAF. Supports ?options=translate,summary.
//
//	POST /api/v1/parse
//	    Decode caller-supplied report text. Body: {"report": "..."}
//
//	GET /api/v1/station/{station}
//	    Station metadata lookup (requires -station-db).
//
//	GET /api/v1/latest/{station}/{type}
//	    Most recent stored report (requires -pg).
//
// Authentication:
//
//	When -auth is enabled, requests must include an API key via:
//	  - X-API-Key header
//	  - Authorization: Bearer <key> header
//	  - ?api_key=<key> query parameter
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"wx_parser/internal/api"
	"wx_parser/internal/fetch"
	_ "wx_parser/internal/metar" // register decoder via init()
	"wx_parser/internal/station"
	"wx_parser/internal/storage"
	_ "wx_parser/internal/taf" // register decoder via init()
)

func main() {
	// API server flags.
	port := flag.Int("port", 8080, "HTTP port for API server")
	stationDBPath := flag.String("station-db", envOrDefault("WX_STATION_DB", ""), "SQLite station metadata database")
	authEnabled := flag.Bool("auth", false, "Enable API key authentication")
	apiKeys := flag.String("api-keys", "", "Comma-separated list of valid API keys (when auth enabled)")

	// PostgreSQL connection flags.
	pgEnabled := flag.Bool("pg", false, "Enable the PostgreSQL latest-report store")
	pgHost := flag.String("pg-host", envOrDefault("POSTGRES_HOST", "localhost"), "PostgreSQL host")
	pgPort := flag.Int("pg-port", envOrDefaultInt("POSTGRES_PORT", 5432), "PostgreSQL port")
	pgUser := flag.String("pg-user", envOrDefault("POSTGRES_USER", "wx"), "PostgreSQL user")
	pgPassword := flag.String("pg-password", envOrDefault("POSTGRES_PASSWORD", "wx"), "PostgreSQL password")
	pgDB := flag.String("pg-database", envOrDefault("POSTGRES_DATABASE", "wx_state"), "PostgreSQL database")

	flag.Parse()

	ctx := context.Background()

	// Open the station database when configured.
	var stations *station.DB
	if *stationDBPath != "" {
		var err error
		stations, err = station.Open(*stationDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening station database: %v\n", err)
			os.Exit(1)
		}
		defer stations.Close()
	}

	// Open PostgreSQL when enabled.
	var pg *storage.PostgresDB
	if *pgEnabled {
		var err error
		pg, err = storage.OpenPostgres(ctx, storage.PostgresConfig{
			Host:     *pgHost,
			Port:     *pgPort,
			Database: *pgDB,
			User:     *pgUser,
			Password: *pgPassword,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening PostgreSQL: %v\n", err)
			os.Exit(1)
		}
		defer pg.Close()
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
	server := api.NewServer(fetch.New(), stations, pg, api.Config{
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

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
