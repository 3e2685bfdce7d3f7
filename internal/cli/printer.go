package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/inovacc/repomirror/internal/mirror"
	"github.com/inovacc/repomirror/internal/progress"
)

// Printer is a progress sink writing one line per event. With Color set the
// line is styled; otherwise the "[hint] text" form is written.
type Printer struct {
	Out   io.Writer
	Color bool

	mu sync.Mutex
}

// NewPrinter enables colour when out is a terminal.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{Out: out, Color: IsTerminal(out)}
}

func (p *Printer) Emit(e progress.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Color {
		_, _ = fmt.Fprintln(p.Out, styleFor(e.Kind).Render(iconFor(e.Kind)+" "+e.Text))
		return
	}

	_, _ = fmt.Fprintln(p.Out, e.Line())
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// RenderSummary writes the end-of-run report.
func RenderSummary(w io.Writer, profile string, s mirror.RunSummary, color bool) {
	render := func(style func(...string) string, text string) string {
		if color {
			return style(text)
		}

		return text
	}

	var b strings.Builder

	b.WriteString(render(boldStyle.Render, fmt.Sprintf("Sync of %s: %d repositories", profile, s.Total)))
	b.WriteString("\n")
	b.WriteString(render(successStyle.Render, fmt.Sprintf("  Cloned:    %d", s.Cloned)))
	b.WriteString("\n")
	b.WriteString(render(infoStyle.Render, fmt.Sprintf("  Updated:   %d", s.Updated)))
	b.WriteString("\n")
	b.WriteString(render(dimStyle.Render, fmt.Sprintf("  Unchanged: %d", s.Unchanged)))
	b.WriteString("\n")
	b.WriteString(render(errorStyle.Render, fmt.Sprintf("  Failed:    %d", s.Failed)))
	b.WriteString("\n")

	if attempted := s.Attempted(); attempted < s.Total {
		b.WriteString(render(warningStyle.Render, fmt.Sprintf("  Not attempted: %d", s.Total-attempted)))
		b.WriteString("\n")
	}

	failed := false

	for _, r := range s.Results {
		if r.Outcome != mirror.Failed {
			continue
		}

		if !failed {
			b.WriteString("\n")
			b.WriteString(render(boldStyle.Render, "Failures:"))
			b.WriteString("\n")

			failed = true
		}

		b.WriteString(render(errorStyle.Render, "  ✗ "+r.Repo.FullName()))
		b.WriteString(render(dimStyle.Render, " - "+truncate(r.Detail, 100)))
		b.WriteString("\n")
	}

	if s.Warning != "" {
		b.WriteString("\n")
		b.WriteString(render(warningStyle.Render, "Warning: "+s.Warning))
		b.WriteString("\n")
	}

	_, _ = io.WriteString(w, b.String())
}
