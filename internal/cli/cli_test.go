package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovacc/repomirror/internal/mirror"
	"github.com/inovacc/repomirror/internal/model"
	"github.com/inovacc/repomirror/internal/progress"
)

func TestPrinterPlainLines(t *testing.T) {
	var buf bytes.Buffer

	p := &Printer{Out: &buf}
	progress.Infof(p, "Cloning %s", "acme/api")
	progress.Successf(p, "Cloned %s", "acme/api")
	progress.Warnf(p, "careful")
	progress.Errorf(p, "Failed %s: %s", "acme/web", "exit 128")

	want := "[blue] Cloning acme/api\n[green] Cloned acme/api\n[yellow] careful\n[red] Failed acme/web: exit 128\n"
	assert.Equal(t, want, buf.String())

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.NotEqual(t, "", progress.ParseLine(line).Text)
	}
}

func TestPrinterColor(t *testing.T) {
	var buf bytes.Buffer

	p := &Printer{Out: &buf, Color: true}
	progress.Successf(p, "done")

	assert.Contains(t, buf.String(), "✓ done")
	assert.NotContains(t, buf.String(), "[green]")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestRenderSummary(t *testing.T) {
	s := mirror.NewRunSummary(4)
	s = s.Add(mirror.RepoResult{Repo: model.RepoInfo{Owner: "acme", Name: "api"}, Outcome: mirror.Cloned})
	s = s.Add(mirror.RepoResult{Repo: model.RepoInfo{Owner: "acme", Name: "web"}, Outcome: mirror.Failed, Detail: "git exited with status 128"})
	s.Warning = "nothing happened"

	var buf bytes.Buffer
	RenderSummary(&buf, "work", s, false)

	out := buf.String()
	assert.Contains(t, out, "Sync of work: 4 repositories")
	assert.Contains(t, out, "Cloned:    1")
	assert.Contains(t, out, "Failed:    1")
	assert.Contains(t, out, "Not attempted: 2")
	assert.Contains(t, out, "✗ acme/web - git exited with status 128")
	assert.Contains(t, out, "Warning: nothing happened")
}

func TestSyncModelUpdate(t *testing.T) {
	events := make(chan progress.Event, 4)
	cancelled := false

	m := NewSyncModel("Syncing work", events, func() { cancelled = true })
	require.NotNil(t, m.Init())

	_, cmd := m.Update(eventMsg{event: progress.Event{Kind: progress.Info, Text: "Cloning acme/api"}})
	require.NotNil(t, cmd, "keeps reading events")
	assert.Equal(t, "Cloning acme/api", m.current)
	assert.Empty(t, m.activity)

	m.Update(eventMsg{event: progress.Event{Kind: progress.Success, Text: "Cloned acme/api"}})
	require.Len(t, m.activity, 1)

	summary := mirror.NewRunSummary(2).Add(mirror.RepoResult{Outcome: mirror.Cloned})
	m.Update(TallyMsg{Summary: summary})

	view := m.View()
	assert.Contains(t, view, "Syncing work")
	assert.Contains(t, view, "(2 repositories)")
	assert.Contains(t, view, "1/2")
	assert.Contains(t, view, "Cloned acme/api")

	_, cmd = m.Update(DoneMsg{Result: mirror.SyncResult{Summary: summary}, Err: errors.New("partial")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	res, err := m.Result()
	assert.EqualError(t, err, "partial")
	assert.Equal(t, 1, res.Summary.Cloned)
	assert.False(t, m.Cancelled())
	assert.False(t, cancelled, "finished runs are not cancelled")
	assert.Empty(t, m.View())
}

func TestSyncModelQuitCancels(t *testing.T) {
	cancelled := 0
	m := NewSyncModel("Syncing", make(chan progress.Event), func() { cancelled++ })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, m.Cancelled())

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, 1, cancelled)
}

func TestSyncModelWaitForEvent(t *testing.T) {
	events := make(chan progress.Event, 1)
	m := NewSyncModel("Syncing", events, nil)

	events <- progress.Event{Kind: progress.Warning, Text: "slow"}
	assert.Equal(t, eventMsg{event: progress.Event{Kind: progress.Warning, Text: "slow"}}, m.waitForEvent()())

	close(events)
	assert.Equal(t, eventsClosedMsg{}, m.waitForEvent()())
}

func TestSyncModelActivityIsBounded(t *testing.T) {
	m := NewSyncModel("Syncing", nil, nil)

	for range maxActivity + 10 {
		m.addActivity(progress.Event{Kind: progress.Error, Text: "x"})
	}

	assert.Len(t, m.activity, maxActivity)
}

func TestReadSecretFromPipe(t *testing.T) {
	var out bytes.Buffer

	secret, err := ReadSecret(strings.NewReader("  tok3n \n"), &out, "Token: ")
	require.NoError(t, err)
	assert.Equal(t, "tok3n", secret)
	assert.Equal(t, "Token: ", out.String())

	_, err = ReadSecret(strings.NewReader(""), &out, "Token: ")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
	}{
		{name: "ascii", in: "acme/backend-service", n: 10},
		{name: "cyrillic", in: "команда/сервис-платежей", n: 12},
		{name: "mixed", in: "группа/api-шлюз", n: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)

			assert.True(t, utf8.ValidString(got), "cut mid-rune: %q", got)
			assert.True(t, strings.HasSuffix(got, "..."))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.n)
		})
	}

	assert.Equal(t, "acme/api", truncate("acme/api", 10))
	assert.Equal(t, "ab...", truncate("abcdefghij", 5))
}

func TestRenderSummaryKeepsMultibyteDetail(t *testing.T) {
	detail := strings.Repeat("ошибка доступа ", 10)

	s := mirror.NewRunSummary(1).Add(mirror.RepoResult{
		Repo:    model.RepoInfo{Owner: "команда", Name: "сервис"},
		Outcome: mirror.Failed,
		Detail:  detail,
	})

	var buf bytes.Buffer
	RenderSummary(&buf, "работа", s, false)

	out := buf.String()
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "команда/сервис - ошибка")
	assert.Contains(t, out, "...")
}
