package tui

import tea "github.com/charmbracelet/bubbletea"

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}

	case TickMsg:
		// Continue ticking for timer updates
		return m, tickCmd()

	case DoneMsg:
		m.Done = true
		return m, tea.Quit

	case RunStartedMsg:
		m.TotalJobs = msg.TotalJobs

	case SeedingMsg:
		m.Seeding = msg.Active

	case JobQueuedMsg:
		m.QueuedJobs++

	case JobPhaseMsg:
		job, ok := m.ActiveJobs[msg.Lock]
		if !ok {
			job = &JobState{Lock: msg.Lock}
			m.ActiveJobs[msg.Lock] = job
		}
		job.Stage = msg.Stage
		job.Phase = msg.Phase
		job.PhaseIcon = msg.PhaseIcon

	case JobCompletedMsg:
		delete(m.ActiveJobs, msg.Lock)
		if m.QueuedJobs > 0 {
			m.QueuedJobs--
		}
		m.CompletedJobs++

	case JobFailedMsg:
		delete(m.ActiveJobs, msg.Lock)
		if m.QueuedJobs > 0 {
			m.QueuedJobs--
		}
		m.FailedJobs++
	}

	return m, nil
}
