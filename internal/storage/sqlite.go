package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ArchivedReport represents a report stored in the local archive.
type ArchivedReport struct {
	ID          int64
	Station     string
	ReportType  string
	ObservedAt  string
	RawText     string
	ParsedJSON  string
	FlightRules string
	CreatedAt   time.Time
}

// Archive wraps a SQLite database used as a local, serverless report store.
// The CLI uses it when no ClickHouse or PostgreSQL is available.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens or creates a SQLite archive at the given path.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createArchiveSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

func createArchiveSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		station TEXT NOT NULL,
		report_type TEXT NOT NULL,
		observed_at TEXT,
		raw_text TEXT NOT NULL,
		parsed_json TEXT NOT NULL,
		flight_rules TEXT,
		created_at TEXT DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_reports_station ON reports(station);
	CREATE INDEX IF NOT EXISTS idx_reports_type ON reports(report_type);
	CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// ArchiveParams contains the parameters for archiving a report.
type ArchiveParams struct {
	Station     string
	ReportType  string
	ObservedAt  string
	RawText     string
	ParsedData  interface{}
	FlightRules string
}

// Insert stores a decoded report in the archive.
func (a *Archive) Insert(p ArchiveParams) (int64, error) {
	parsedJSON, err := json.Marshal(p.ParsedData)
	if err != nil {
		return 0, fmt.Errorf("marshal parsed data: %w", err)
	}

	result, err := a.db.Exec(`
		INSERT INTO reports (station, report_type, observed_at, raw_text, parsed_json, flight_rules)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.Station, p.ReportType, p.ObservedAt, p.RawText, string(parsedJSON), p.FlightRules)
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}

	return result.LastInsertId()
}

// ArchiveQuery contains filtering options for querying archived reports.
type ArchiveQuery struct {
	Station    string
	ReportType string
	Limit      int
	Offset     int
}

// Query retrieves archived reports matching the given parameters, newest
// first.
func (a *Archive) Query(q ArchiveQuery) ([]ArchivedReport, error) {
	var conditions []string
	var args []interface{}

	if q.Station != "" {
		conditions = append(conditions, "station = ?")
		args = append(args, q.Station)
	}
	if q.ReportType != "" {
		conditions = append(conditions, "report_type = ?")
		args = append(args, q.ReportType)
	}

	query := `SELECT id, station, report_type, observed_at, raw_text, parsed_json, flight_rules, created_at FROM reports`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id DESC"

	limit := 100
	if q.Limit > 0 {
		limit = q.Limit
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, q.Offset)

	rows, err := a.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []ArchivedReport
	for rows.Next() {
		var r ArchivedReport
		var observedAt, flightRules, createdAt sql.NullString
		err := rows.Scan(&r.ID, &r.Station, &r.ReportType, &observedAt, &r.RawText, &r.ParsedJSON, &flightRules, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.ObservedAt = observedAt.String
		r.FlightRules = flightRules.String
		if createdAt.Valid {
			r.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt.String)
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

// CountByStation returns report counts grouped by station.
func (a *Archive) CountByStation() (map[string]int, error) {
	counts := make(map[string]int)
	rows, err := a.db.Query("SELECT station, COUNT(*) FROM reports GROUP BY station")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var station string
		var count int
		if err := rows.Scan(&station, &count); err != nil {
			return nil, err
		}
		counts[station] = count
	}
	return counts, rows.Err()
}
