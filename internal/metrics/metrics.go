// Package metrics provides the "run a named unit of work, time it,
// report" hook used around job execution. The recorder is an explicit
// handle passed to whoever needs it; nothing here is process-global.
package metrics

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Sink receives one sample per completed unit of work.
type Sink interface {
	Observe(name string, elapsed time.Duration)
}

// Recorder times named units of work and forwards samples to a sink,
// tagging each run with a ULID.
type Recorder struct {
	sink  Sink
	runID string
	now   func() time.Time
}

// NewRecorder creates a recorder with a fresh run ID.
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{
		sink:  sink,
		runID: ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
		now:   time.Now,
	}
}

// RunID returns the ULID identifying this run.
func (r *Recorder) RunID() string {
	return r.runID
}

// Timed runs fn and reports its wall time under the given metric name.
// The sample is recorded whether or not fn returns an error.
func (r *Recorder) Timed(name string, fn func() error) error {
	start := r.now()
	err := fn()
	r.sink.Observe(name, r.now().Sub(start))
	return err
}

// LogSink writes samples to a zerolog logger at debug level.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Observe(name string, elapsed time.Duration) {
	s.Logger.Debug().
		Str("metric", name).
		Dur("elapsed", elapsed).
		Msg("timing")
}

// MemSink accumulates samples in memory. Intended for tests.
type MemSink struct {
	mu      sync.Mutex
	samples map[string][]time.Duration
}

func NewMemSink() *MemSink {
	return &MemSink{samples: make(map[string][]time.Duration)}
}

func (s *MemSink) Observe(name string, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples[name] = append(s.samples[name], elapsed)
}

// Samples returns the recorded durations for a metric name.
func (s *MemSink) Samples(name string) []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.samples[name]...)
}

// Count returns the total number of samples across all names.
func (s *MemSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.samples {
		n += len(v)
	}
	return n
}
