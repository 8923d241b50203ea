// Package fetch retrieves raw METAR and TAF text from the NOAA Aviation
// Weather Center.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoReport is returned when the service has no current report for the
// requested station.
var ErrNoReport = errors.New("no report available for station")

const defaultBaseURL = "https://aviationweather.gov/api/data"

// Client fetches raw reports over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client with sane timeouts against the public API.
func New() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithBaseURL returns a Client against a custom endpoint. Used by tests
// and mirror deployments.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Metar returns the current raw METAR for a station.
func (c *Client) Metar(ctx context.Context, stationID string) (string, error) {
	return c.fetch(ctx, "metar", stationID)
}

// Taf returns the current raw TAF for a station.
func (c *Client) Taf(ctx context.Context, stationID string) (string, error) {
	return c.fetch(ctx, "taf", stationID)
}

func (c *Client) fetch(ctx context.Context, product, stationID string) (string, error) {
	u := fmt.Sprintf("%s/%s?ids=%s&format=raw", c.baseURL, product, url.QueryEscape(stationID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", product, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %s", product, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", product, err)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", ErrNoReport
	}
	// TAF responses keep continuation lines; collapse to one line per report.
	text = strings.ReplaceAll(text, "\n ", " ")
	return text, nil
}
