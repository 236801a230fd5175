package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// View implements tea.Model
func (m *Model) View() string {
	if m.Done || m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.Seeding {
		b.WriteString(fmt.Sprintf("  %s seeding lock files into output directory\n\n",
			m.Styles.PhaseIcon.Render(IconWaiting)))
	}

	b.WriteString(m.renderActiveJobs())

	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")

	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title line with timer and parallelism
func (m *Model) renderHeader() string {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	timer := fmt.Sprintf("[%s]", formatDuration(elapsed))
	parallelism := fmt.Sprintf("Parallelism: %d", m.Parallelism)

	return fmt.Sprintf("%s  %s  %s",
		m.Styles.Title.Render("Lockfreeze"),
		m.Styles.Timer.Render(timer),
		m.Styles.Parallelism.Render(parallelism),
	)
}

// renderActiveJobs renders the list of in-flight compiler jobs
func (m *Model) renderActiveJobs() string {
	if len(m.ActiveJobs) == 0 {
		return "  No active jobs\n\n"
	}

	var b strings.Builder

	// Sort jobs by lock file name for stable display
	locks := make([]string, 0, len(m.ActiveJobs))
	for lock := range m.ActiveJobs {
		locks = append(locks, lock)
	}
	sort.Strings(locks)

	for _, lock := range locks {
		job := m.ActiveJobs[lock]
		icon := m.Styles.JobActive.Render(IconActive)
		name := m.Styles.JobName.Render(job.Lock)
		phaseIcon := m.Styles.PhaseIcon.Render(job.PhaseIcon)
		phase := m.Styles.PhaseText.Render(fmt.Sprintf("stage %d: %s", job.Stage, job.Phase))

		fmt.Fprintf(&b, "  %s %s\n      %s %s\n", icon, name, phaseIcon, phase)
	}
	b.WriteString("\n")

	return b.String()
}

// renderStatusLine renders the summary status line
func (m *Model) renderStatusLine() string {
	complete := m.Styles.StatusComplete.Render(fmt.Sprintf("%d complete", m.CompletedJobs))
	failed := m.Styles.StatusFailed.Render(fmt.Sprintf("%d failed", m.FailedJobs))
	active := m.Styles.StatusActive.Render(fmt.Sprintf("%d active", len(m.ActiveJobs)))

	return fmt.Sprintf("  Jobs: %d/%d %s | %s | %s",
		m.CompletedJobs+m.FailedJobs,
		m.TotalJobs,
		complete,
		failed,
		active,
	)
}

// renderFooter renders the help text
func (m *Model) renderFooter() string {
	key := m.Styles.FooterKey.Render("q")
	return m.Styles.Footer.Render(fmt.Sprintf("  Press %s to quit", key))
}

// formatDuration formats a duration as HH:MM:SS
func formatDuration(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
