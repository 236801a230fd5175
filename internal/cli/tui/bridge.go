package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lockfreeze/lockfreeze/internal/events"
)

// Bridge connects the event bus to the bubbletea program
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a new bridge for the given program
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{
		program: program,
	}
}

// Handler returns an event handler function for the event bus
func (b *Bridge) Handler() events.Handler {
	return func(evt events.Event) {
		msg := b.eventToMsg(evt)
		if msg != nil {
			b.program.Send(msg)
		}
	}
}

// eventToMsg converts an events.Event to a tea.Msg
func (b *Bridge) eventToMsg(evt events.Event) tea.Msg {
	switch evt.Type {
	case events.RunStarted:
		totalJobs := 0
		if payload, ok := evt.Payload.(map[string]any); ok {
			if n, ok := payload["jobs"].(int); ok {
				totalJobs = n
			}
		}
		return RunStartedMsg{TotalJobs: totalJobs}

	case events.SeedStarted:
		return SeedingMsg{Active: true}

	case events.SeedCompleted, events.SeedFailed:
		return SeedingMsg{Active: false}

	case events.JobQueued:
		return JobQueuedMsg{Lock: evt.Lock, Stage: evt.Stage}

	case events.JobStarted:
		return JobPhaseMsg{
			Lock:      evt.Lock,
			Stage:     evt.Stage,
			Phase:     "compiling pins",
			PhaseIcon: IconCompile,
		}

	case events.JobStamped:
		return JobPhaseMsg{
			Lock:      evt.Lock,
			Stage:     evt.Stage,
			Phase:     "stamping header",
			PhaseIcon: IconStamp,
		}

	case events.JobCompleted:
		return JobCompletedMsg{Lock: evt.Lock}

	case events.JobFailed:
		return JobFailedMsg{Lock: evt.Lock, Error: evt.Error}

	default:
		return nil
	}
}

// SendDone sends a DoneMsg to the program
func (b *Bridge) SendDone() {
	b.program.Send(DoneMsg{})
}
