package station

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Info holds the basic metadata stored for a reporting station.
type Info struct {
	ICAO      string  `json:"icao"`
	Country   string  `json:"country"`
	State     string  `json:"state"`
	City      string  `json:"city"`
	Name      string  `json:"name"`
	IATA      string  `json:"iata"`
	Elevation int     `json:"elevation"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Priority  int     `json:"priority"`
}

// DB wraps a SQLite database connection for station metadata.
type DB struct {
	db *sql.DB
}

// Open opens or creates a station database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS stations (
		icao TEXT PRIMARY KEY,
		country TEXT,
		state TEXT,
		city TEXT,
		name TEXT,
		iata TEXT,
		elevation INTEGER,
		latitude REAL,
		longitude REAL,
		priority INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_stations_iata ON stations(iata);
	CREATE INDEX IF NOT EXISTS idx_stations_country ON stations(country);
	`
	_, err := db.Exec(schema)
	return err
}

// Lookup returns the metadata for a station identifier, or nil if the
// station is not in the database.
func (d *DB) Lookup(icao string) (*Info, error) {
	query := `SELECT icao, country, state, city, name, iata, elevation, latitude, longitude, priority
			FROM stations WHERE icao = ?`

	var info Info
	var country, state, city, name, iata sql.NullString
	var elevation, priority sql.NullInt64
	var lat, lon sql.NullFloat64

	err := d.db.QueryRow(query, icao).Scan(&info.ICAO, &country, &state, &city, &name,
		&iata, &elevation, &lat, &lon, &priority)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	info.Country = country.String
	info.State = state.String
	info.City = city.String
	info.Name = name.String
	info.IATA = iata.String
	info.Elevation = int(elevation.Int64)
	info.Latitude = lat.Float64
	info.Longitude = lon.Float64
	info.Priority = int(priority.Int64)

	return &info, nil
}

// Upsert inserts or replaces a station record.
func (d *DB) Upsert(info Info) error {
	_, err := d.db.Exec(`
		INSERT INTO stations (icao, country, state, city, name, iata, elevation, latitude, longitude, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(icao) DO UPDATE SET
			country = excluded.country,
			state = excluded.state,
			city = excluded.city,
			name = excluded.name,
			iata = excluded.iata,
			elevation = excluded.elevation,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			priority = excluded.priority
	`, info.ICAO, info.Country, info.State, info.City, info.Name, info.IATA,
		info.Elevation, info.Latitude, info.Longitude, info.Priority)
	if err != nil {
		return fmt.Errorf("upsert station: %w", err)
	}
	return nil
}

// Count returns the number of stations in the database.
func (d *DB) Count() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM stations").Scan(&n)
	return n, err
}
