// Package registry provides a report parser registry for dispatching raw
// weather report text to the appropriate decoder.
package registry

import (
	"errors"
	"sort"
	"sync"

	"wx_parser/internal/report"
)

// ErrNoParser is returned by Dispatch when no registered parser accepts the
// report.
var ErrNoParser = errors.New("no parser accepts this report")

// Parser is implemented by each report decoder.
type Parser interface {
	// Name returns the parser's unique identifier.
	Name() string

	// QuickCheck performs a fast string check before a full parse.
	// Returns true if the report MIGHT be parseable (false = definitely skip).
	// This should use strings.Contains/HasPrefix, NOT a full decode.
	QuickCheck(text string) bool

	// Priority determines check order. Lower number = checked first.
	Priority() int

	// Parse decodes the report.
	Parse(text string) (report.Report, error)
}

// Registry holds all registered parsers organised for dispatch.
type Registry struct {
	mu      sync.RWMutex
	parsers []Parser
	sorted  bool
}

// New creates a new Registry instance.
func New() *Registry {
	return &Registry{}
}

// Global default registry.
var defaultRegistry = New()

// Default returns the global registry instance.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a parser to the default registry.
// Called during init() in each parser package.
func Register(p Parser) {
	defaultRegistry.Register(p)
}

// Register adds a parser to the registry.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, p)
	r.sorted = false
}

// Sort sorts parsers by priority. Call before dispatching.
func (r *Registry) Sort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sorted {
		return
	}
	sort.SliceStable(r.parsers, func(i, j int) bool {
		return r.parsers[i].Priority() < r.parsers[j].Priority()
	})
	r.sorted = true
}

// Dispatch routes a raw report to the first parser whose QuickCheck accepts
// it and whose Parse succeeds.
func (r *Registry) Dispatch(text string) (report.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lastErr error
	for _, p := range r.parsers {
		if !p.QuickCheck(text) {
			continue
		}
		result, err := p.Parse(text)
		if err != nil {
			lastErr = err
			continue
		}
		return result, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoParser
}

// Lookup returns the parser registered under the given name, or nil.
func (r *Registry) Lookup(name string) Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.parsers {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// AllParsers returns all registered parsers in priority order.
func (r *Registry) AllParsers() []Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Parser, len(r.parsers))
	copy(out, r.parsers)
	return out
}
