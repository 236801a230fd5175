package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lockfreeze/lockfreeze/internal/compiler"
)

// Response describes what a stubbed invocation should produce.
type Response struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Err      error

	// Output, when non-nil, is written to the job's output path (the
	// final argv token) before returning, mimicking the real tool.
	Output []byte

	// Delay holds the invocation open, for concurrency assertions.
	Delay time.Duration
}

// StubRunner is a compiler.Runner for tests. Invocations are matched by
// their joined argv; every call is recorded.
type StubRunner struct {
	mu          sync.Mutex
	stubs       map[string]Response
	fallback    *Response
	calls       []string
	inFlight    int
	maxInFlight int
}

func NewStubRunner() *StubRunner {
	return &StubRunner{
		stubs: make(map[string]Response),
	}
}

// Stub registers a response for an exact argv sequence.
func (s *StubRunner) Stub(argv []string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs[strings.Join(argv, " ")] = resp
}

// StubDefault registers a response for any argv without an exact stub.
func (s *StubRunner) StubDefault(resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = &resp
}

func (s *StubRunner) Run(ctx context.Context, dir string, argv ...string) compiler.Invocation {
	key := strings.Join(argv, " ")

	s.mu.Lock()
	s.calls = append(s.calls, key)
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	resp, ok := s.stubs[key]
	if !ok {
		if s.fallback == nil {
			s.inFlight--
			s.mu.Unlock()
			return compiler.Invocation{Err: fmt.Errorf("unexpected compiler call: %s", key)}
		}
		resp = *s.fallback
	}
	s.mu.Unlock()

	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}

	inv := compiler.Invocation{
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		ExitCode: resp.ExitCode,
		Err:      resp.Err,
	}
	if resp.Output != nil && inv.Err == nil && inv.ExitCode == 0 {
		if err := os.WriteFile(argv[len(argv)-1], resp.Output, 0o644); err != nil {
			inv.Err = err
		}
	}

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
	return inv
}

// Calls returns every recorded invocation, in call order.
func (s *StubRunner) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CallsFor counts how many times an exact argv sequence was run.
func (s *StubRunner) CallsFor(argv []string) int {
	key := strings.Join(argv, " ")
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, call := range s.calls {
		if call == key {
			count++
		}
	}
	return count
}

// MaxInFlight reports the peak number of concurrent invocations seen.
func (s *StubRunner) MaxInFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxInFlight
}
