// Package ingest decodes raw report feeds and stores the results.
package ingest

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"wx_parser/internal/registry"
	"wx_parser/internal/report"
	"wx_parser/internal/storage"
)

// RawMessage is one feed message awaiting decode.
type RawMessage struct {
	Subject string
	Payload []byte
}

// envelope is the optional JSON wrapper around raw report text.
type envelope struct {
	Report string `json:"report"`
}

// Config holds pipeline tuning parameters.
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
}

// Stats counts pipeline activity since start.
type Stats struct {
	Decoded uint64
	Failed  uint64
	Stored  uint64
}

// Pipeline decodes feed messages and writes them to ClickHouse and
// PostgreSQL. Decoding and storage run on a single worker goroutine; Submit
// never blocks the feed callback beyond channel capacity.
type Pipeline struct {
	db  *storage.IngestStore
	cfg Config

	in   chan RawMessage
	done chan struct{}
	wg   sync.WaitGroup

	nextID  atomic.Uint64
	decoded atomic.Uint64
	failed  atomic.Uint64
	stored  atomic.Uint64
}

// NewPipeline starts a pipeline against the given databases. The observation
// id sequence resumes from the highest id already stored.
func NewPipeline(db *storage.IngestStore, cfg Config) (*Pipeline, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}

	p := &Pipeline{
		db:   db,
		cfg:  cfg,
		in:   make(chan RawMessage, 4*cfg.BatchSize),
		done: make(chan struct{}),
	}

	maxID, err := db.History.MaxID(context.Background())
	if err != nil {
		return nil, err
	}
	p.nextID.Store(maxID)

	p.wg.Add(1)
	go p.run()

	return p, nil
}

// Submit queues a message for decoding. Messages are dropped with a log line
// when the pipeline cannot keep up.
func (p *Pipeline) Submit(msg RawMessage) {
	select {
	case p.in <- msg:
	default:
		log.Printf("ingest queue full, dropping message on %s", msg.Subject)
	}
}

// Stop drains queued messages, flushes the final batch, and waits for the
// worker to exit.
func (p *Pipeline) Stop() {
	close(p.done)
	p.wg.Wait()
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Decoded: p.decoded.Load(),
		Failed:  p.failed.Load(),
		Stored:  p.stored.Load(),
	}
}

func (p *Pipeline) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]storage.ObservationParams, 0, p.cfg.BatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := p.db.History.InsertBatch(ctx, batch); err != nil {
			log.Printf("clickhouse batch insert failed (%d observations): %v", len(batch), err)
		} else {
			p.stored.Add(uint64(len(batch)))
		}
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case msg := <-p.in:
			if obs, ok := p.process(msg); ok {
				batch = append(batch, obs)
				if len(batch) >= p.cfg.BatchSize {
					flush()
				}
			}
		case <-ticker.C:
			flush()
		case <-p.done:
			// Drain whatever arrived before shutdown.
			for {
				select {
				case msg := <-p.in:
					if obs, ok := p.process(msg); ok {
						batch = append(batch, obs)
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// process decodes one message and upserts the latest-report row. The
// returned observation still needs batching into ClickHouse.
func (p *Pipeline) process(msg RawMessage) (storage.ObservationParams, bool) {
	raw := rawText(msg.Payload)
	if raw == "" {
		return storage.ObservationParams{}, false
	}

	decoded, err := registry.Default().Dispatch(raw)
	if err != nil {
		p.failed.Add(1)
		p.recordFailure(msg.Subject, raw, err)
		return storage.ObservationParams{}, false
	}
	p.decoded.Add(1)

	obs := toObservation(p.nextID.Add(1), raw, decoded)
	p.upsertLatest(decoded, raw, obs)
	return obs, true
}

// rawText unwraps the optional JSON envelope around report text.
func rawText(payload []byte) string {
	text := strings.TrimSpace(string(payload))
	if strings.HasPrefix(text, "{") {
		var env envelope
		if err := json.Unmarshal(payload, &env); err == nil && env.Report != "" {
			text = strings.TrimSpace(env.Report)
		}
	}
	return text
}

func toObservation(id uint64, raw string, decoded report.Report) storage.ObservationParams {
	obs := storage.ObservationParams{
		ID:         id,
		Station:    decoded.StationID(),
		ReportType: decoded.Kind(),
		RawText:    raw,
		ParsedData: decoded,
	}

	switch r := decoded.(type) {
	case *report.Metar:
		obs.ObservedAt = r.Time
		obs.FlightRules = string(r.FlightRules)
		obs.Visibility = r.Visibility
		obs.Temperature = r.Temperature
		obs.Dewpoint = r.Dewpoint
		obs.Altimeter = r.Altimeter
		obs.WindSpeed = r.WindSpeed
	case *report.Taf:
		obs.ObservedAt = r.Time
		if len(r.Forecast) > 0 {
			first := r.Forecast[0]
			obs.FlightRules = string(first.FlightRules)
			obs.Visibility = first.Visibility
			obs.Altimeter = first.Altimeter
			obs.WindSpeed = first.WindSpeed
		}
	}

	return obs
}

func (p *Pipeline) upsertLatest(decoded report.Report, raw string, obs storage.ObservationParams) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := p.db.Latest.UpsertLatest(ctx, storage.LatestReportParams{
		Station:     decoded.StationID(),
		ReportType:  decoded.Kind(),
		ObservedAt:  obs.ObservedAt,
		RawText:     raw,
		ParsedData:  decoded,
		FlightRules: obs.FlightRules,
	})
	if err != nil {
		log.Printf("upsert latest %s for %s: %v", decoded.Kind(), decoded.StationID(), err)
	}
}

func (p *Pipeline) recordFailure(subject, raw string, parseErr error) {
	// Best effort station guess from the first token for triage queries.
	stationID := ""
	if fields := strings.Fields(raw); len(fields) > 0 {
		stationID = fields[0]
		if stationID == "TAF" && len(fields) > 1 {
			stationID = fields[1]
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.db.Latest.RecordFailure(ctx, stationID, raw, parseErr.Error()); err != nil {
		log.Printf("record parse failure on %s: %v", subject, err)
	}
}
