// Package main provides the ingest daemon for live report feeds.
//
// The daemon subscribes to a NATS subject carrying raw METAR/TAF text,
// decodes each message, and stores the results:
//
//   - every decoded observation is appended to ClickHouse for history
//   - the most recent report per station and type is upserted into PostgreSQL
//   - reports that fail to decode are recorded in PostgreSQL for review
//
// Message payloads are either bare report text or a JSON wrapper of the
// form {"report": "..."}.
//
// Usage:
//
//	ingest [options]
//
// Options:
//
//	-nats-url URL       NATS server URL (default: nats://localhost:4222, env: NATS_URL)
//	-nats-subject SUBJ  Subject to subscribe to (default: wx.reports.>, env: NATS_SUBJECT)
//	-ch-host HOST       ClickHouse host (default: localhost, env: CLICKHOUSE_HOST)
//	-ch-port PORT       ClickHouse port (default: 9000, env: CLICKHOUSE_PORT)
//	-ch-database DB     ClickHouse database (default: wx, env: CLICKHOUSE_DATABASE)
//	-ch-user USER       ClickHouse user (default: default, env: CLICKHOUSE_USER)
//	-ch-password PASS   ClickHouse password (env: CLICKHOUSE_PASSWORD)
//	-pg-host HOST       PostgreSQL host (default: localhost, env: POSTGRES_HOST)
//	-pg-port PORT       PostgreSQL port (default: 5432, env: POSTGRES_PORT)
//	-pg-database DB     PostgreSQL database (default: wx_state, env: POSTGRES_DATABASE)
//	-pg-user USER       PostgreSQL user (default: wx, env: POSTGRES_USER)
//	-pg-password PASS   PostgreSQL password (default: wx, env: POSTGRES_PASSWORD)
//	-batch-size N       Observations per ClickHouse batch (default: 100)
//	-flush-interval D   Max time before a partial batch is flushed (default: 5s)
//	-create-schema      Create database schemas and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"wx_parser/internal/ingest"
	_ "wx_parser/internal/metar" // register decoder via init()
	"wx_parser/internal/storage"
	_ "wx_parser/internal/taf" // register decoder via init()
)

func main() {
	// NATS connection flags.
	natsURL := flag.String("nats-url", envOrDefault("NATS_URL", nats.DefaultURL), "NATS server URL")
	natsSubject := flag.String("nats-subject", envOrDefault("NATS_SUBJECT", "wx.reports.>"), "NATS subject to subscribe to")

	// ClickHouse connection flags.
	chHost := flag.String("ch-host", envOrDefault("CLICKHOUSE_HOST", "localhost"), "ClickHouse host")
	chPort := flag.Int("ch-port", envOrDefaultInt("CLICKHOUSE_PORT", 9000), "ClickHouse port")
	chUser := flag.String("ch-user", envOrDefault("CLICKHOUSE_USER", "default"), "ClickHouse user")
	chPassword := flag.String("ch-password", envOrDefault("CLICKHOUSE_PASSWORD", ""), "ClickHouse password")
	chDB := flag.String("ch-database", envOrDefault("CLICKHOUSE_DATABASE", "wx"), "ClickHouse database")

	// PostgreSQL connection flags.
	pgHost := flag.String("pg-host", envOrDefault("POSTGRES_HOST", "localhost"), "PostgreSQL host")
	pgPort := flag.Int("pg-port", envOrDefaultInt("POSTGRES_PORT", 5432), "PostgreSQL port")
	pgUser := flag.String("pg-user", envOrDefault("POSTGRES_USER", "wx"), "PostgreSQL user")
	pgPassword := flag.String("pg-password", envOrDefault("POSTGRES_PASSWORD", "wx"), "PostgreSQL password")
	pgDB := flag.String("pg-database", envOrDefault("POSTGRES_DATABASE", "wx_state"), "PostgreSQL database")

	// Pipeline flags.
	batchSize := flag.Int("batch-size", 100, "Observations per ClickHouse batch")
	flushInterval := flag.Duration("flush-interval", 5*time.Second, "Max time before a partial batch is flushed")
	createSchema := flag.Bool("create-schema", false, "Create database schemas and exit")

	flag.Parse()

	ctx := context.Background()

	db, err := storage.OpenIngestStore(ctx, storage.Config{
		ClickHouse: storage.ClickHouseConfig{
			Host:     *chHost,
			Port:     *chPort,
			Database: *chDB,
			User:     *chUser,
			Password: *chPassword,
		},
		Postgres: storage.PostgresConfig{
			Host:     *pgHost,
			Port:     *pgPort,
			Database: *pgDB,
			User:     *pgUser,
			Password: *pgPassword,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening databases: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if *createSchema {
		if err := db.InitSchemas(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating schemas: %v\n", err)
			os.Exit(1)
		}
		log.Println("Schemas created")
		return
	}

	pipeline, err := ingest.NewPipeline(db, ingest.Config{
		BatchSize:     *batchSize,
		FlushInterval: *flushInterval,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting pipeline: %v\n", err)
		os.Exit(1)
	}

	nc, err := nats.Connect(*natsURL,
		nats.Name("wx_parser-ingest"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to NATS: %v\n", err)
		os.Exit(1)
	}
	defer nc.Close()

	var received atomic.Uint64
	sub, err := nc.Subscribe(*natsSubject, func(msg *nats.Msg) {
		received.Add(1)
		pipeline.Submit(ingest.RawMessage{
			Subject: msg.Subject,
			Payload: msg.Data,
		})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error subscribing to %s: %v\n", *natsSubject, err)
		os.Exit(1)
	}

	log.Printf("Ingest started: %s -> ClickHouse %s:%d / PostgreSQL %s:%d",
		*natsSubject, *chHost, *chPort, *pgHost, *pgPort)

	// Run until interrupted, then drain.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("Shutting down")
	_ = sub.Drain()
	pipeline.Stop()

	st := pipeline.Stats()
	log.Printf("stats: received=%d decoded=%d failed=%d stored=%d",
		received.Load(), st.Decoded, st.Failed, st.Stored)
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
