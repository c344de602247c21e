// Package report serializes duplicate-scan results.
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime. All formatters
// render the same document: a mapping of "Duplicate Group N" labels to the
// group's files with their metadata, plus scan statistics and session
// metadata. Group order is deterministic, so the same tree always produces
// the same report.
//
// Basic usage:
//
//	formatter, err := report.Get("json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := report.Write("duplicates.json", formatter, result); err != nil {
//	    log.Fatal(err)
//	}
package report

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/metadata"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// timeFormat is the minute-precision timestamp format used for file
// metadata in reports.
const timeFormat = "2006-01-02 15:04"

// Result contains the complete report data for formatting.
type Result struct {
	// Groups are the enriched duplicate groups in deterministic order.
	Groups []metadata.EnrichedGroup `json:"groups"`

	// Stats summarizes the scan session.
	Stats types.ScanStats `json:"stats"`

	// SessionID identifies the scan that produced the report.
	SessionID string `json:"session_id"`

	// Roots are the scanned directories.
	Roots []string `json:"roots"`

	// Warnings are per-path problems encountered during the scan.
	Warnings []string `json:"warnings,omitempty"`

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// Formatter is the interface that all report formatters must implement.
type Formatter interface {
	// Format writes the formatted report to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}

// formatTime renders a metadata timestamp at minute precision.
// Zero times render as the empty string.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeFormat)
}
