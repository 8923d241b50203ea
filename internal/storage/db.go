package storage

import (
	"context"
	"fmt"
)

// Config holds connection settings for the two feed-ingest backends.
type Config struct {
	ClickHouse ClickHouseConfig
	Postgres   PostgresConfig
}

// IngestStore pairs the backends the feed pipeline writes to: observation
// history in ClickHouse, latest report per station (and parse failures) in
// PostgreSQL. The CLI's local archive and the API's read-only Postgres handle
// do not go through here; they open OpenArchive and OpenPostgres directly.
type IngestStore struct {
	History *ClickHouseDB
	Latest  *PostgresDB
}

// OpenIngestStore connects both ingest backends. Either failing closes the
// other; the pipeline cannot run with half its storage.
func OpenIngestStore(ctx context.Context, cfg Config) (*IngestStore, error) {
	ch, err := OpenClickHouse(ctx, cfg.ClickHouse)
	if err != nil {
		return nil, fmt.Errorf("clickhouse: %w", err)
	}

	pg, err := OpenPostgres(ctx, cfg.Postgres)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return &IngestStore{History: ch, Latest: pg}, nil
}

// Close closes both backends, returning the first error.
func (s *IngestStore) Close() error {
	var first error
	if s.History != nil {
		if err := s.History.Close(); err != nil {
			first = fmt.Errorf("clickhouse: %w", err)
		}
	}
	if s.Latest != nil {
		s.Latest.Close()
	}
	return first
}

// InitSchemas creates the observation history and latest-report tables.
func (s *IngestStore) InitSchemas(ctx context.Context) error {
	if err := s.History.CreateSchema(ctx); err != nil {
		return fmt.Errorf("clickhouse schema: %w", err)
	}
	if err := s.Latest.CreateSchema(ctx); err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}
	return nil
}
