package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// PostgresDB wraps a PostgreSQL connection pool for mutable state.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Test the connection.
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *PostgresDB) Close() {
	d.pool.Close()
}

// Pool returns the underlying connection pool for advanced operations.
func (d *PostgresDB) Pool() *pgxpool.Pool {
	return d.pool
}

// CreateSchema creates the PostgreSQL tables.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	schema := `
	-- Operational: latest report per station and type
	CREATE TABLE IF NOT EXISTS latest_reports (
		station         TEXT NOT NULL,
		report_type     TEXT NOT NULL,
		observed_at     TEXT,
		raw_text        TEXT NOT NULL,
		parsed          JSONB NOT NULL,
		flight_rules    TEXT,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (station, report_type)
	);

	CREATE INDEX IF NOT EXISTS idx_latest_reports_rules ON latest_reports(flight_rules);
	CREATE INDEX IF NOT EXISTS idx_latest_reports_updated ON latest_reports(updated_at);

	-- Reports the decoders rejected, kept for later inspection
	CREATE TABLE IF NOT EXISTS parse_failures (
		id              SERIAL PRIMARY KEY,
		station         TEXT,
		raw_text        TEXT NOT NULL,
		error           TEXT NOT NULL,
		occurred_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_parse_failures_station ON parse_failures(station);
	`

	_, err := d.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// LatestReport represents the most recent report of one type for a station.
type LatestReport struct {
	Station     string
	ReportType  string
	ObservedAt  string
	RawText     string
	Parsed      map[string]interface{}
	FlightRules string
	UpdatedAt   time.Time
}

// LatestReportParams contains parameters for upserting a latest report.
type LatestReportParams struct {
	Station     string
	ReportType  string
	ObservedAt  string
	RawText     string
	ParsedData  interface{}
	FlightRules string
}

// UpsertLatest inserts or replaces the latest report for a station and type.
func (d *PostgresDB) UpsertLatest(ctx context.Context, p LatestReportParams) error {
	parsedJSON, err := json.Marshal(p.ParsedData)
	if err != nil {
		return fmt.Errorf("marshal parsed data: %w", err)
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO latest_reports (station, report_type, observed_at, raw_text, parsed, flight_rules, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (station, report_type) DO UPDATE SET
			observed_at = EXCLUDED.observed_at,
			raw_text = EXCLUDED.raw_text,
			parsed = EXCLUDED.parsed,
			flight_rules = EXCLUDED.flight_rules,
			updated_at = NOW()
	`, p.Station, p.ReportType, p.ObservedAt, p.RawText, parsedJSON, p.FlightRules)
	if err != nil {
		return fmt.Errorf("upsert latest report: %w", err)
	}
	return nil
}

// GetLatest retrieves the latest report of one type for a station, or nil.
func (d *PostgresDB) GetLatest(ctx context.Context, stationID, reportType string) (*LatestReport, error) {
	var r LatestReport
	var parsedJSON []byte

	err := d.pool.QueryRow(ctx, `
		SELECT station, report_type, observed_at, raw_text, parsed, flight_rules, updated_at
		FROM latest_reports WHERE station = $1 AND report_type = $2
	`, stationID, reportType).Scan(&r.Station, &r.ReportType, &r.ObservedAt, &r.RawText, &parsedJSON, &r.FlightRules, &r.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	_ = json.Unmarshal(parsedJSON, &r.Parsed)
	return &r, nil
}

// ListStations returns every station with a stored report, most recent first.
func (d *PostgresDB) ListStations(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := d.pool.Query(ctx, `
		SELECT station FROM latest_reports
		GROUP BY station
		ORDER BY max(updated_at) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

// RecordFailure stores a report the decoders could not parse.
func (d *PostgresDB) RecordFailure(ctx context.Context, stationID, rawText, parseErr string) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO parse_failures (station, raw_text, error)
		VALUES ($1, $2, $3)
	`, stationID, rawText, parseErr)
	return err
}
