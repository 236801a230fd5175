package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// JobState tracks the state of a single compiler job in the TUI
type JobState struct {
	Lock      string
	Stage     int
	Phase     string
	PhaseIcon string
}

// Model is the bubbletea model for the TUI
type Model struct {
	// Configuration
	TotalJobs   int
	Parallelism int
	Styles      Styles

	// State
	ActiveJobs    map[string]*JobState
	QueuedJobs    int
	CompletedJobs int
	FailedJobs    int
	Seeding       bool
	StartTime     time.Time

	// Control
	Quitting bool
	Done     bool
}

// NewModel creates a new TUI model
func NewModel(parallelism int) *Model {
	return &Model{
		Parallelism: parallelism,
		Styles:      DefaultStyles(),
		ActiveJobs:  make(map[string]*JobState),
		StartTime:   time.Now(),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// TickMsg is sent every second to update the timer
type TickMsg time.Time

// tickCmd returns a command that sends TickMsg every second
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// DoneMsg signals the TUI should exit
type DoneMsg struct{}

// RunStartedMsg indicates the run has started with its job count
type RunStartedMsg struct {
	TotalJobs int
}

// SeedingMsg toggles the seeding indicator
type SeedingMsg struct {
	Active bool
}

// JobQueuedMsg indicates a job was submitted to the pool
type JobQueuedMsg struct {
	Lock  string
	Stage int
}

// JobPhaseMsg indicates a job phase change
type JobPhaseMsg struct {
	Lock      string
	Stage     int
	Phase     string
	PhaseIcon string
}

// JobCompletedMsg indicates a job has completed
type JobCompletedMsg struct {
	Lock string
}

// JobFailedMsg indicates a job has failed
type JobFailedMsg struct {
	Lock  string
	Error string
}
