package cli

import (
	"context"
	"fmt"
	"strings"

	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/inovacc/repomirror/internal/mirror"
	"github.com/inovacc/repomirror/internal/progress"
)

const maxActivity = 50

// SyncModel renders a running sync from its progress events
type SyncModel struct {
	title  string
	events <-chan progress.Event
	cancel context.CancelFunc

	summary  mirror.RunSummary
	current  string
	activity []progress.Event

	spinner  spinner.Model
	progress bar.Model

	done      bool
	cancelled bool
	result    mirror.SyncResult
	err       error
}

type eventMsg struct {
	event progress.Event
}

type eventsClosedMsg struct{}

// TallyMsg carries the running summary reported by the engine
type TallyMsg struct {
	Summary mirror.RunSummary
}

// DoneMsg ends the view with the outcome of the run
type DoneMsg struct {
	Result mirror.SyncResult
	Err    error
}

// NewSyncModel creates the view. cancel is called when the user quits.
func NewSyncModel(title string, events <-chan progress.Event, cancel context.CancelFunc) *SyncModel {
	m := &SyncModel{
		title:    title,
		events:   events,
		cancel:   cancel,
		activity: make([]progress.Event, 0, maxActivity),
	}

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = spinnerStyle

	m.progress = bar.New(bar.WithDefaultGradient())

	return m
}

func (m *SyncModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

func (m *SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if !m.cancelled && !m.done {
				m.cancelled = true

				if m.cancel != nil {
					m.cancel()
				}
			}

			return m, tea.Quit
		}

	case eventMsg:
		m.addActivity(msg.event)

		if msg.event.Kind == progress.Info {
			m.current = msg.event.Text
		}

		return m, m.waitForEvent()

	case eventsClosedMsg:
		return m, nil

	case TallyMsg:
		m.summary = msg.Summary
		return m, nil

	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err

		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *SyncModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(boldStyle.Render(m.title))

	if m.summary.Total > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" (%d repositories)", m.summary.Total)))
	}

	b.WriteString("\n\n")

	b.WriteString(boldStyle.Render("Status:"))
	b.WriteString("\n")
	b.WriteString(successStyle.Render(fmt.Sprintf("  Cloned:    %d\n", m.summary.Cloned)))
	b.WriteString(infoStyle.Render(fmt.Sprintf("  Updated:   %d\n", m.summary.Updated)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Unchanged: %d\n", m.summary.Unchanged)))
	b.WriteString(errorStyle.Render(fmt.Sprintf("  Failed:    %d\n", m.summary.Failed)))
	b.WriteString("\n")

	if m.summary.Total > 0 {
		attempted := m.summary.Attempted()
		b.WriteString(m.progress.ViewAs(float64(attempted) / float64(m.summary.Total)))
		b.WriteString(dimStyle.Render(fmt.Sprintf(" %d/%d\n\n", attempted, m.summary.Total)))
	}

	if m.current != "" {
		b.WriteString(fmt.Sprintf("%s %s\n\n", m.spinner.View(), infoStyle.Render(truncate(m.current, 72))))
	}

	if len(m.activity) > 0 {
		b.WriteString(boldStyle.Render("Recent activity:"))
		b.WriteString("\n")

		start := max(len(m.activity)-5, 0)

		for _, e := range m.activity[start:] {
			b.WriteString(styleFor(e.Kind).Render(fmt.Sprintf("  %s %s", iconFor(e.Kind), truncate(e.Text, 72))))
			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("Press 'q' to cancel"))
	b.WriteString("\n")

	return b.String()
}

// Result returns the run outcome delivered by DoneMsg.
func (m *SyncModel) Result() (mirror.SyncResult, error) {
	return m.result, m.err
}

// Cancelled reports whether the user quit before the run finished.
func (m *SyncModel) Cancelled() bool {
	return m.cancelled
}

func (m *SyncModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-m.events
		if !ok {
			return eventsClosedMsg{}
		}

		return eventMsg{event: e}
	}
}

func (m *SyncModel) addActivity(e progress.Event) {
	// info events only drive the current line
	if e.Kind == progress.Info {
		return
	}

	if len(m.activity) == maxActivity {
		m.activity = append(m.activity[:0], m.activity[1:]...)
	}

	m.activity = append(m.activity, e)
}

// truncate cuts s to n terminal cells, ending with "..." when shortened.
func truncate(s string, n int) string {
	return ansi.Truncate(s, n, "...")
}
