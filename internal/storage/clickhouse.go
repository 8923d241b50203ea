// Package storage provides persistent storage for decoded weather reports.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB wraps a ClickHouse connection for observation history.
type ClickHouseDB struct {
	conn driver.Conn
}

// Conn returns the underlying ClickHouse connection for direct queries.
func (d *ClickHouseDB) Conn() driver.Conn {
	return d.conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	// Test the connection.
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the ClickHouse tables.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS observations (
		id              UInt64,
		station         LowCardinality(String),
		report_type     LowCardinality(String),
		observed_at     String,
		raw_text        String,
		parsed_json     String,
		flight_rules    LowCardinality(String),
		visibility      String,
		temperature     String,
		dewpoint        String,
		altimeter       String,
		wind_speed      String,
		recorded_at     DateTime64(3) DEFAULT now64(3)
	)
	ENGINE = MergeTree()
	PARTITION BY toYYYYMM(recorded_at)
	ORDER BY (station, report_type, recorded_at, id)
	SETTINGS index_granularity = 8192`

	if err := d.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	// Add bloom filter index for raw-text search (ignore error if already exists).
	_ = d.conn.Exec(ctx, `ALTER TABLE observations ADD INDEX IF NOT EXISTS idx_raw_text_bloom raw_text TYPE tokenbf_v1(32768, 3, 0) GRANULARITY 1`)

	return nil
}

// Observation represents a report stored in ClickHouse.
type Observation struct {
	ID          uint64
	Station     string
	ReportType  string
	ObservedAt  string
	RawText     string
	ParsedJSON  string
	FlightRules string
	Visibility  string
	Temperature string
	Dewpoint    string
	Altimeter   string
	WindSpeed   string
	RecordedAt  time.Time
}

// ObservationParams contains parameters for inserting an observation.
type ObservationParams struct {
	ID          uint64
	Station     string
	ReportType  string
	ObservedAt  string
	RawText     string
	ParsedData  interface{}
	FlightRules string
	Visibility  string
	Temperature string
	Dewpoint    string
	Altimeter   string
	WindSpeed   string
}

// Insert stores a single observation in ClickHouse.
func (d *ClickHouseDB) Insert(ctx context.Context, p ObservationParams) error {
	parsedJSON, err := json.Marshal(p.ParsedData)
	if err != nil {
		return fmt.Errorf("marshal parsed data: %w", err)
	}

	err = d.conn.Exec(ctx, `
		INSERT INTO observations (id, station, report_type, observed_at, raw_text, parsed_json, flight_rules, visibility, temperature, dewpoint, altimeter, wind_speed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Station, p.ReportType, p.ObservedAt, p.RawText, string(parsedJSON), p.FlightRules, p.Visibility, p.Temperature, p.Dewpoint, p.Altimeter, p.WindSpeed)
	if err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}

	return nil
}

// InsertBatch stores multiple observations in ClickHouse efficiently.
func (d *ClickHouseDB) InsertBatch(ctx context.Context, observations []ObservationParams) error {
	if len(observations) == 0 {
		return nil
	}

	batch, err := d.conn.PrepareBatch(ctx, `
		INSERT INTO observations (id, station, report_type, observed_at, raw_text, parsed_json, flight_rules, visibility, temperature, dewpoint, altimeter, wind_speed)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range observations {
		parsedJSON, err := json.Marshal(p.ParsedData)
		if err != nil {
			return fmt.Errorf("marshal parsed data: %w", err)
		}

		err = batch.Append(p.ID, p.Station, p.ReportType, p.ObservedAt, p.RawText, string(parsedJSON), p.FlightRules, p.Visibility, p.Temperature, p.Dewpoint, p.Altimeter, p.WindSpeed)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// HistoryParams contains filtering options for querying observations.
type HistoryParams struct {
	Station     string
	ReportType  string
	FlightRules string
	FullText    string // LIKE match on raw_text.
	Limit       int
	Offset      int
	OrderDesc   bool
}

// History retrieves observations matching the given parameters.
func (d *ClickHouseDB) History(ctx context.Context, p HistoryParams) ([]Observation, error) {
	var conditions []string
	var args []interface{}

	if p.Station != "" {
		conditions = append(conditions, "station = ?")
		args = append(args, p.Station)
	}
	if p.ReportType != "" {
		conditions = append(conditions, "report_type = ?")
		args = append(args, p.ReportType)
	}
	if p.FlightRules != "" {
		conditions = append(conditions, "flight_rules = ?")
		args = append(args, p.FlightRules)
	}
	if p.FullText != "" {
		conditions = append(conditions, "raw_text LIKE ?")
		args = append(args, "%"+p.FullText+"%")
	}

	query := `SELECT id, station, report_type, observed_at, raw_text, parsed_json, flight_rules, visibility, temperature, dewpoint, altimeter, wind_speed, recorded_at FROM observations`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	direction := "ASC"
	if p.OrderDesc {
		direction = "DESC"
	}
	query += " ORDER BY recorded_at " + direction

	limit := 100
	if p.Limit > 0 {
		limit = p.Limit
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, p.Offset)

	rows, err := d.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var observations []Observation
	for rows.Next() {
		var o Observation
		err := rows.Scan(&o.ID, &o.Station, &o.ReportType, &o.ObservedAt, &o.RawText, &o.ParsedJSON,
			&o.FlightRules, &o.Visibility, &o.Temperature, &o.Dewpoint, &o.Altimeter, &o.WindSpeed, &o.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		observations = append(observations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return observations, nil
}

// ObservationStats contains aggregate statistics about stored observations.
type ObservationStats struct {
	Total         uint64
	ByStation     map[string]uint64
	ByReportType  map[string]uint64
	ByFlightRules map[string]uint64
}

// GetStats returns statistics about stored observations.
func (d *ClickHouseDB) GetStats(ctx context.Context) (*ObservationStats, error) {
	stats := &ObservationStats{
		ByStation:     make(map[string]uint64),
		ByReportType:  make(map[string]uint64),
		ByFlightRules: make(map[string]uint64),
	}

	row := d.conn.QueryRow(ctx, "SELECT count() FROM observations")
	if err := row.Scan(&stats.Total); err != nil {
		return nil, err
	}

	groups := []struct {
		column string
		into   map[string]uint64
	}{
		{"station", stats.ByStation},
		{"report_type", stats.ByReportType},
		{"flight_rules", stats.ByFlightRules},
	}
	for _, g := range groups {
		query := fmt.Sprintf("SELECT %s, count() FROM observations GROUP BY %s ORDER BY count() DESC LIMIT 50", g.column, g.column)
		rows, err := d.conn.Query(ctx, query)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var key string
			var count uint64
			if err := rows.Scan(&key, &count); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan %s stats: %w", g.column, err)
			}
			g.into[key] = count
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterate %s stats: %w", g.column, err)
		}
		rows.Close()
	}

	return stats, nil
}

// Count returns the total number of observations, optionally filtered by station.
func (d *ClickHouseDB) Count(ctx context.Context, station string) (uint64, error) {
	var count uint64
	var err error
	if station != "" {
		row := d.conn.QueryRow(ctx, "SELECT count() FROM observations WHERE station = ?", station)
		err = row.Scan(&count)
	} else {
		row := d.conn.QueryRow(ctx, "SELECT count() FROM observations")
		err = row.Scan(&count)
	}
	return count, err
}

// MaxID returns the maximum observation ID in the table.
func (d *ClickHouseDB) MaxID(ctx context.Context) (uint64, error) {
	var maxID uint64
	row := d.conn.QueryRow(ctx, "SELECT max(id) FROM observations")
	if err := row.Scan(&maxID); err != nil {
		return 0, err
	}
	return maxID, nil
}
