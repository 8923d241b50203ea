// Package api provides REST API endpoints for decoded aviation weather.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wx_parser/internal/fetch"
	"wx_parser/internal/metar"
	"wx_parser/internal/registry"
	"wx_parser/internal/report"
	"wx_parser/internal/speech"
	"wx_parser/internal/station"
	"wx_parser/internal/storage"
	"wx_parser/internal/taf"
	"wx_parser/internal/translate"
)

// Fetcher retrieves raw report text for a station.
type Fetcher interface {
	Metar(ctx context.Context, stationID string) (string, error)
	Taf(ctx context.Context, stationID string) (string, error)
}

// Server provides REST API access to decoded reports.
type Server struct {
	fetcher     Fetcher
	stations    *station.DB
	pg          *storage.PostgresDB
	port        int
	authEnabled bool
	apiKeys     map[string]bool // Simple API key auth (when enabled).
}

// Config holds configuration for the API server.
type Config struct {
	Port        int
	AuthEnabled bool
	APIKeys     []string // List of valid API keys.
}

// NewServer creates a new weather API server. The station database and
// PostgreSQL handle are optional; nil disables the corresponding features.
func NewServer(fetcher Fetcher, stations *station.DB, pg *storage.PostgresDB, cfg Config) *Server {
	keys := make(map[string]bool)
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys[k] = true
		}
	}

	return &Server{
		fetcher:     fetcher,
		stations:    stations,
		pg:          pg,
		port:        cfg.Port,
		authEnabled: cfg.AuthEnabled,
		apiKeys:     keys,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	r := chi.NewRouter()

	// Standard middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for browser access.
	r.Use(corsMiddleware)

	// Optional authentication.
	if s.authEnabled {
		r.Use(s.authMiddleware)
	}

	r.Route("/api/v1", s.mountRoutes)

	addr := ":" + strconv.Itoa(s.port)
	log.Printf("Weather API starting at http://localhost%s", addr)
	if s.authEnabled {
		log.Printf("Authentication: ENABLED (API key required)")
	} else {
		log.Printf("Authentication: DISABLED (open access)")
	}

	return http.ListenAndServe(addr, r)
}

// Router returns the configured chi router for embedding in other servers.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Optional authentication.
	if s.authEnabled {
		r.Use(s.authMiddleware)
	}

	s.mountRoutes(r)
	return r
}

func (s *Server) mountRoutes(r chi.Router) {
	// Health check (no auth required in Run mode path order matters not,
	// auth applies router-wide when enabled).
	r.Get("/health", s.handleHealth)

	// Live report endpoints.
	r.Get("/metar/{station}", s.handleMetar)
	r.Get("/taf/{station}", s.handleTaf)

	// Decode caller-supplied report text.
	r.Post("/parse", s.handleParse)

	// Station metadata.
	r.Get("/station/{station}", s.handleStation)

	// Most recent stored report per station.
	r.Get("/latest/{station}/{type}", s.handleLatest)
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates API key authentication.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check X-API-Key header first.
		apiKey := r.Header.Get("X-API-Key")

		// Fall back to Authorization: Bearer <key>.
		if apiKey == "" {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				apiKey = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		// Fall back to query parameter (for simple testing).
		if apiKey == "" {
			apiKey = r.URL.Query().Get("api_key")
		}

		if apiKey == "" {
			writeError(w, http.StatusUnauthorized, "API key required")
			return
		}

		if !s.apiKeys[apiKey] {
			writeError(w, http.StatusForbidden, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// renderOptions selects the optional derived sections of a response.
type renderOptions struct {
	translate bool
	summary   bool
	speech    bool
}

func parseRenderOptions(r *http.Request) renderOptions {
	var opts renderOptions
	for _, opt := range strings.Split(r.URL.Query().Get("options"), ",") {
		switch strings.TrimSpace(opt) {
		case "translate":
			opts.translate = true
		case "summary":
			opts.summary = true
		case "speech":
			opts.speech = true
		}
	}
	return opts
}

// MetarResponse is the JSON response for METAR queries.
type MetarResponse struct {
	Data         *report.Metar                `json:"data"`
	Translations *translate.MetarTranslations `json:"translations,omitempty"`
	Summary      string                       `json:"summary,omitempty"`
	Speech       string                       `json:"speech,omitempty"`
}

// TafResponse is the JSON response for TAF queries.
type TafResponse struct {
	Data         *report.Taf                `json:"data"`
	Translations *translate.TafTranslations `json:"translations,omitempty"`
	Summary      []string                   `json:"summary,omitempty"`
}

func metarToResponse(m *report.Metar, opts renderOptions) MetarResponse {
	resp := MetarResponse{Data: m}
	if opts.translate || opts.summary {
		trans := translate.Metar(m)
		if opts.translate {
			resp.Translations = &trans
		}
		if opts.summary {
			resp.Summary = translate.MetarSummary(trans)
		}
	}
	if opts.speech {
		resp.Speech = speech.Metar(m)
	}
	return resp
}

func tafToResponse(t *report.Taf, opts renderOptions) TafResponse {
	resp := TafResponse{Data: t}
	if opts.translate || opts.summary {
		trans := translate.Taf(t)
		if opts.translate {
			resp.Translations = &trans
		}
		if opts.summary {
			for _, line := range trans.Forecast {
				resp.Summary = append(resp.Summary, translate.TafLineSummary(line))
			}
		}
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleMetar(w http.ResponseWriter, r *http.Request) {
	stationID := strings.ToUpper(chi.URLParam(r, "station"))
	if stationID == "" {
		writeError(w, http.StatusBadRequest, "station is required")
		return
	}

	raw, err := s.fetcher.Metar(r.Context(), stationID)
	if err != nil {
		if errors.Is(err, fetch.ErrNoReport) {
			writeError(w, http.StatusNotFound, "No METAR available for "+stationID)
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	m, err := metar.Parse(raw)
	if err != nil {
		s.recordFailure(r.Context(), stationID, raw, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.storeLatest(r.Context(), m)
	writeJSON(w, http.StatusOK, metarToResponse(m, parseRenderOptions(r)))
}

func (s *Server) handleTaf(w http.ResponseWriter, r *http.Request) {
	stationID := strings.ToUpper(chi.URLParam(r, "station"))
	if stationID == "" {
		writeError(w, http.StatusBadRequest, "station is required")
		return
	}

	raw, err := s.fetcher.Taf(r.Context(), stationID)
	if err != nil {
		if errors.Is(err, fetch.ErrNoReport) {
			writeError(w, http.StatusNotFound, "No TAF available for "+stationID)
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	t, err := taf.Parse(raw, taf.DefaultDelimiter)
	if err != nil {
		s.recordFailure(r.Context(), stationID, raw, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.storeLatest(r.Context(), t)
	writeJSON(w, http.StatusOK, tafToResponse(t, parseRenderOptions(r)))
}

// ParseRequest is the request body for raw report decoding.
type ParseRequest struct {
	Report string `json:"report"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Report) == "" {
		writeError(w, http.StatusBadRequest, "report text is required")
		return
	}

	decoded, err := registry.Default().Dispatch(req.Report)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	opts := parseRenderOptions(r)
	switch rep := decoded.(type) {
	case *report.Metar:
		writeJSON(w, http.StatusOK, metarToResponse(rep, opts))
	case *report.Taf:
		writeJSON(w, http.StatusOK, tafToResponse(rep, opts))
	default:
		writeJSON(w, http.StatusOK, decoded)
	}
}

func (s *Server) handleStation(w http.ResponseWriter, r *http.Request) {
	if s.stations == nil {
		writeError(w, http.StatusNotImplemented, "station database not configured")
		return
	}

	stationID := strings.ToUpper(chi.URLParam(r, "station"))
	info, err := s.stations.Lookup(stationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if info == nil {
		writeError(w, http.StatusNotFound, "Unknown station "+stationID)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	stationID := strings.ToUpper(chi.URLParam(r, "station"))
	reportType := strings.ToLower(chi.URLParam(r, "type"))
	if reportType != "metar" && reportType != "taf" {
		writeError(w, http.StatusBadRequest, "type must be metar or taf")
		return
	}

	if s.pg == nil {
		writeError(w, http.StatusNotImplemented, "report store not configured")
		return
	}

	latest, err := s.pg.GetLatest(r.Context(), stationID, reportType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if latest == nil {
		writeError(w, http.StatusNotFound, "No stored report for "+stationID)
		return
	}

	writeJSON(w, http.StatusOK, latest)
}

// storeLatest records a freshly decoded report when PostgreSQL is wired.
// Storage failures are logged, not surfaced; the decode result still stands.
func (s *Server) storeLatest(ctx context.Context, rep report.Report) {
	if s.pg == nil {
		return
	}

	var observedAt, rawText, flightRules string
	switch r := rep.(type) {
	case *report.Metar:
		observedAt, rawText = r.Time, r.Raw
		flightRules = string(r.FlightRules)
	case *report.Taf:
		observedAt, rawText = r.Time, r.Raw
		if len(r.Forecast) > 0 {
			flightRules = string(r.Forecast[0].FlightRules)
		}
	}

	err := s.pg.UpsertLatest(ctx, storage.LatestReportParams{
		Station:     rep.StationID(),
		ReportType:  rep.Kind(),
		ObservedAt:  observedAt,
		RawText:     rawText,
		ParsedData:  rep,
		FlightRules: flightRules,
	})
	if err != nil {
		log.Printf("store latest %s for %s: %v", rep.Kind(), rep.StationID(), err)
	}
}

func (s *Server) recordFailure(ctx context.Context, stationID, raw string, parseErr error) {
	if s.pg == nil {
		return
	}
	if err := s.pg.RecordFailure(ctx, stationID, raw, parseErr.Error()); err != nil {
		log.Printf("record parse failure for %s: %v", stationID, err)
	}
}

// Helper functions.

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
