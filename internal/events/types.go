package events

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a single occurrence in the freeze run lifecycle
type Event struct {
	// Time is when the event occurred (set by bus on emit)
	Time time.Time `json:"time"`

	// Type identifies what happened
	Type EventType `json:"type"`

	// Run is the ULID of the run this event belongs to
	Run string `json:"run,omitempty"`

	// Job is the command line of the job this event relates to
	// (empty for run- and stage-level events)
	Job string `json:"job,omitempty"`

	// Lock is the lock file the job targets (empty for run-level events)
	Lock string `json:"lock,omitempty"`

	// Stage is the stage number (1 or 2; 0 when not stage-related)
	Stage int `json:"stage,omitempty"`

	// Payload contains event-specific data (type varies by event)
	Payload any `json:"payload,omitempty"`

	// Error contains error message if this is a failure event
	Error string `json:"error,omitempty"`
}

// EventType is a string constant identifying the event category
type EventType string

// Run lifecycle events
const (
	RunStarted   EventType = "run.started"
	RunCompleted EventType = "run.completed"
	RunFailed    EventType = "run.failed"

	// Dry-run events (no actual execution)
	RunDryRunStarted   EventType = "run.dryrun.started"
	RunDryRunCompleted EventType = "run.dryrun.completed"
)

// Seeding events
const (
	SeedStarted   EventType = "seed.started"
	SeedCompleted EventType = "seed.completed"
	SeedFailed    EventType = "seed.failed"
)

// Stage lifecycle events
const (
	StageStarted   EventType = "stage.started"
	StageCompleted EventType = "stage.completed"
	StageFailed    EventType = "stage.failed"
)

// Job lifecycle events
const (
	JobQueued    EventType = "job.queued"
	JobStarted   EventType = "job.started"
	JobStamped   EventType = "job.stamped"
	JobCompleted EventType = "job.completed"
	JobFailed    EventType = "job.failed"
)

// NewEvent creates an event with the given type
func NewEvent(eventType EventType) Event {
	return Event{Type: eventType}
}

// WithRun returns a copy of the event with the run ID set
func (e Event) WithRun(run string) Event {
	e.Run = run
	return e
}

// WithJob returns a copy of the event with the job command line and
// target lock file set
func (e Event) WithJob(job, lock string) Event {
	e.Job = job
	e.Lock = lock
	return e
}

// WithStage returns a copy of the event with the stage number set
func (e Event) WithStage(stage int) Event {
	e.Stage = stage
	return e
}

// WithPayload returns a copy of the event with the payload set
func (e Event) WithPayload(payload any) Event {
	e.Payload = payload
	return e
}

// WithError returns a copy of the event with the error message set
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// IsFailure returns true if this is a failure event type
func (e Event) IsFailure() bool {
	return strings.HasSuffix(string(e.Type), ".failed")
}

// String returns a human-readable representation of the event
func (e Event) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", e.Type))

	if e.Stage != 0 {
		parts = append(parts, fmt.Sprintf("stage=%d", e.Stage))
	}
	if e.Lock != "" {
		parts = append(parts, e.Lock)
	}

	return strings.Join(parts, " ")
}
