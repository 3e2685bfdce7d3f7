// Package cli provides the terminal presentation of repomirror progress.
//
// The package uses [Bubbletea] for the interactive sync view and [Lipgloss]
// for styling. Non-interactive output goes through [Printer], which renders
// the same progress events as plain lines.
//
// # Components
//
//   - SyncModel: spinner, progress bar, outcome counters and recent activity
//     fed by a progress event channel
//   - Printer: a progress sink writing one line per event
//   - RenderSummary: the end-of-run report
//   - ReadSecret: hidden token prompt
//
// [Bubbletea]: https://github.com/charmbracelet/bubbletea
// [Lipgloss]: https://github.com/charmbracelet/lipgloss
package cli
