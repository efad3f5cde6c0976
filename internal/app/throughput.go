package app

import (
	"sync"
	"time"
)

// ThroughputTracker computes a rolling decomposition rate over a window.
// Safe for concurrent use.
type ThroughputTracker struct {
	mu      sync.Mutex
	window  time.Duration
	samples []wordSample
	total   int64
}

type wordSample struct {
	ts    time.Time
	words int
}

// NewThroughputTracker creates a tracker with the given rolling window duration.
func NewThroughputTracker(window time.Duration) *ThroughputTracker {
	return &ThroughputTracker{window: window}
}

// Record adds a sample of words decomposed at the current time.
func (t *ThroughputTracker) Record(words int) {
	t.RecordAt(time.Now(), words)
}

// RecordAt adds a sample at a specific timestamp.
func (t *ThroughputTracker) RecordAt(ts time.Time, words int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = append(t.samples, wordSample{ts: ts, words: words})
	t.total += int64(words)
	t.evict(ts)
}

// WordsPerMin returns the current rate in words per minute.
func (t *ThroughputTracker) WordsPerMin() float64 {
	return t.WordsPerMinAt(time.Now())
}

// WordsPerMinAt computes the rate as of the given time. At least two samples
// are needed to span any time.
func (t *ThroughputTracker) WordsPerMinAt(now time.Time) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evict(now)
	if len(t.samples) < 2 {
		return 0
	}
	span := now.Sub(t.samples[0].ts)
	if span <= 0 {
		return 0
	}

	sum := 0
	for _, s := range t.samples {
		sum += s.words
	}
	return float64(sum) / span.Minutes()
}

// Total returns the number of words recorded since creation.
func (t *ThroughputTracker) Total() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// evict removes samples older than the window. Caller holds t.mu.
func (t *ThroughputTracker) evict(now time.Time) {
	cutoff := now.Add(-t.window)
	i := 0
	for i < len(t.samples) && t.samples[i].ts.Before(cutoff) {
		i++
	}
	if i > 0 {
		t.samples = t.samples[i:]
	}
}
