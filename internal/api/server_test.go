package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"wx_parser/internal/fetch"
	_ "wx_parser/internal/metar"
	_ "wx_parser/internal/taf"
)

// fakeFetcher serves canned report text keyed by station.
type fakeFetcher struct {
	metars map[string]string
	tafs   map[string]string
}

func (f *fakeFetcher) Metar(ctx context.Context, stationID string) (string, error) {
	if raw, ok := f.metars[stationID]; ok {
		return raw, nil
	}
	return "", fetch.ErrNoReport
}

func (f *fakeFetcher) Taf(ctx context.Context, stationID string) (string, error) {
	if raw, ok := f.tafs[stationID]; ok {
		return raw, nil
	}
	return "", fetch.ErrNoReport
}

func newTestServer() *Server {
	return NewServer(&fakeFetcher{
		metars: map[string]string{
			"KJFK": "KJFK 291751Z 18014KT 10SM FEW048 SCT250 26/17 A3003 RMK AO2 SLP166 T02610172",
		},
		tafs: map[string]string{
			"KJFK": "TAF KJFK 291730Z 2918/3024 18012KT P6SM FEW050 FM300200 19008KT P6SM SCT250",
		},
	}, nil, nil, Config{Port: 8081})
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestAuthMiddleware(t *testing.T) {
	server := NewServer(&fakeFetcher{}, nil, nil, Config{
		Port:        8081,
		AuthEnabled: true,
		APIKeys:     []string{"test-key-123", "another-key"},
	})
	router := server.Router()

	tests := []struct {
		name       string
		apiKey     string
		keyHeader  string
		wantStatus int
	}{
		{
			name:       "no key",
			apiKey:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid key",
			apiKey:     "wrong-key",
			keyHeader:  "X-API-Key",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "valid key via X-API-Key",
			apiKey:     "test-key-123",
			keyHeader:  "X-API-Key",
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid key via Bearer",
			apiKey:     "another-key",
			keyHeader:  "Authorization",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.apiKey != "" {
				if tt.keyHeader == "Authorization" {
					req.Header.Set("Authorization", "Bearer "+tt.apiKey)
				} else {
					req.Header.Set(tt.keyHeader, tt.apiKey)
				}
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestAuthMiddlewareQueryParam(t *testing.T) {
	server := NewServer(&fakeFetcher{}, nil, nil, Config{
		Port:        8081,
		AuthEnabled: true,
		APIKeys:     []string{"query-key"},
	})
	router := server.Router()

	req := httptest.NewRequest(http.MethodGet, "/health?api_key=query-key", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestMetarEndpoint(t *testing.T) {
	router := newTestServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/metar/kjfk", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp MetarResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Data == nil {
		t.Fatal("expected data in response")
	}
	if resp.Data.Station != "KJFK" {
		t.Errorf("expected station KJFK, got %q", resp.Data.Station)
	}
	if resp.Data.Visibility != "10" {
		t.Errorf("expected visibility 10, got %q", resp.Data.Visibility)
	}
	if resp.Data.FlightRules != "VFR" {
		t.Errorf("expected VFR, got %q", resp.Data.FlightRules)
	}
	if resp.Translations != nil || resp.Summary != "" || resp.Speech != "" {
		t.Error("expected no derived sections without options")
	}
}

func TestMetarEndpointOptions(t *testing.T) {
	router := newTestServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/metar/KJFK?options=translate,summary,speech", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp MetarResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Translations == nil {
		t.Fatal("expected translations in response")
	}
	if resp.Translations.Wind == "" {
		t.Error("expected wind translation")
	}
	if resp.Summary == "" {
		t.Error("expected summary in response")
	}
	if resp.Speech == "" {
		t.Error("expected speech in response")
	}
}

func TestMetarEndpointNotFound(t *testing.T) {
	router := newTestServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/metar/ZZZZ", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestMetarEndpointUpstreamError(t *testing.T) {
	server := NewServer(&failingFetcher{}, nil, nil, Config{Port: 8081})
	router := server.Router()

	req := httptest.NewRequest(http.MethodGet, "/metar/KJFK", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", rec.Code)
	}
}

type failingFetcher struct{}

func (f *failingFetcher) Metar(ctx context.Context, stationID string) (string, error) {
	return "", errors.New("connection refused")
}

func (f *failingFetcher) Taf(ctx context.Context, stationID string) (string, error) {
	return "", errors.New("connection refused")
}

func TestTafEndpoint(t *testing.T) {
	router := newTestServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/taf/KJFK?options=summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TafResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Data == nil {
		t.Fatal("expected data in response")
	}
	if resp.Data.Station != "KJFK" {
		t.Errorf("expected station KJFK, got %q", resp.Data.Station)
	}
	if len(resp.Data.Forecast) != 2 {
		t.Fatalf("expected 2 forecast periods, got %d", len(resp.Data.Forecast))
	}
	if len(resp.Summary) != 2 {
		t.Errorf("expected 2 summary lines, got %d", len(resp.Summary))
	}
}

func TestParseEndpoint(t *testing.T) {
	server := newTestServer()
	router := chi.NewRouter()
	router.Post("/parse", server.handleParse)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty report",
			body:       `{"report": "  "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "valid metar",
			body:       `{"report": "EGLL 291750Z 24010KT 9999 SCT030 18/12 Q1015"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid taf",
			body:       `{"report": "TAF EGLL 291700Z 2918/3024 23010KT 9999 SCT035"}`,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/parse", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestStationEndpointUnconfigured(t *testing.T) {
	router := newTestServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/station/KJFK", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotImplemented {
		t.Errorf("expected status 501, got %d", rec.Code)
	}
}

func TestLatestEndpointValidation(t *testing.T) {
	router := newTestServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/latest/KJFK/speci", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 for OPTIONS, got %d", rec.Code)
	}

	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS Allow-Origin header")
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected CORS Allow-Methods header")
	}
}
