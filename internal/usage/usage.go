// Package usage counts model tokens for the lifetime of one command.
package usage

import (
	"context"
	"sort"
	"sync"
)

type contextKey struct{}

// TokenCounts holds input/output sums.
type TokenCounts struct {
	Calls  int   `json:"calls"`
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
	Total  int64 `json:"total"`
}

// Add records one call.
func (tc *TokenCounts) Add(input, output int) {
	tc.Calls++
	tc.Input += int64(input)
	tc.Output += int64(output)
	tc.Total += int64(input + output)
}

// Stats is a snapshot of a Tracker.
type Stats struct {
	Total       TokenCounts            `json:"total"`
	ByModel     map[string]TokenCounts `json:"by_model"`
	ByOperation map[string]TokenCounts `json:"by_operation"`
}

// Models returns the model names in sorted order.
func (s Stats) Models() []string {
	names := make([]string, 0, len(s.ByModel))
	for name := range s.ByModel {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tracker accumulates token counts in memory. It is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	stats Stats
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{stats: Stats{
		ByModel:     make(map[string]TokenCounts),
		ByOperation: make(map[string]TokenCounts),
	}}
}

// Track records a model call.
func (t *Tracker) Track(model, operation string, input, output int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Total.Add(input, output)
	addToMap(t.stats.ByModel, model, input, output)
	addToMap(t.stats.ByOperation, operation, input, output)
}

// Stats returns a copy of the counters.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{
		Total:       t.stats.Total,
		ByModel:     copyTokenCountsMap(t.stats.ByModel),
		ByOperation: copyTokenCountsMap(t.stats.ByOperation),
	}
}

func copyTokenCountsMap(src map[string]TokenCounts) map[string]TokenCounts {
	dst := make(map[string]TokenCounts, len(src))
	for key, counts := range src {
		dst[key] = counts
	}
	return dst
}

func addToMap(m map[string]TokenCounts, key string, input, output int) {
	entry := m[key]
	entry.Add(input, output)
	m[key] = entry
}

// NewContext returns a new context carrying the tracker.
func NewContext(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext retrieves the tracker from the context, or nil.
func FromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(contextKey{}).(*Tracker)
	return t
}
