// Package progress carries human-readable progress events from discovery
// and sync to whatever presents them.
package progress

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Kind tags an event
type Kind int

const (
	Info Kind = iota
	Success
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Hint returns the colour hint token used in plain-text progress lines.
func (k Kind) Hint() string {
	switch k {
	case Success:
		return "green"
	case Warning:
		return "yellow"
	case Error:
		return "red"
	default:
		return "blue"
	}
}

// Event is one progress message
type Event struct {
	Kind Kind
	Text string
}

// Line renders the event as "[hint] text".
func (e Event) Line() string {
	return "[" + e.Kind.Hint() + "] " + e.Text
}

func (e Event) String() string {
	return e.Line()
}

var hintKinds = map[string]Kind{
	"blue":   Info,
	"green":  Success,
	"yellow": Warning,
	"red":    Error,
}

// ParseLine splits a leading "[hint]" token off a progress line. Lines
// without a known hint are returned as Info with the text unchanged.
func ParseLine(line string) Event {
	if strings.HasPrefix(line, "[") {
		if end := strings.IndexByte(line, ']'); end > 0 {
			if kind, ok := hintKinds[line[1:end]]; ok {
				return Event{Kind: kind, Text: strings.TrimSpace(line[end+1:])}
			}
		}
	}

	return Event{Kind: Info, Text: line}
}

// Sink receives progress events
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event
var Discard Sink = SinkFunc(func(Event) {})

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}

	return s
}

// Infof emits an Info event.
func Infof(s Sink, format string, args ...any) {
	s.Emit(Event{Kind: Info, Text: fmt.Sprintf(format, args...)})
}

// Successf emits a Success event.
func Successf(s Sink, format string, args ...any) {
	s.Emit(Event{Kind: Success, Text: fmt.Sprintf(format, args...)})
}

// Warnf emits a Warning event.
func Warnf(s Sink, format string, args ...any) {
	s.Emit(Event{Kind: Warning, Text: fmt.Sprintf(format, args...)})
}

// Errorf emits an Error event.
func Errorf(s Sink, format string, args ...any) {
	s.Emit(Event{Kind: Error, Text: fmt.Sprintf(format, args...)})
}

// Channel forwards events to a channel. Emit blocks until the event is
// received or ctx is done, in which case the event is dropped.
type Channel struct {
	ctx context.Context
	ch  chan<- Event
}

// NewChannel returns a Sink writing to ch.
func NewChannel(ctx context.Context, ch chan<- Event) *Channel {
	return &Channel{ctx: ctx, ch: ch}
}

func (c *Channel) Emit(e Event) {
	select {
	case c.ch <- e:
	case <-c.ctx.Done():
	}
}

// Recorder keeps every event in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)

	return out
}

// Lines returns the recorded events rendered with Line.
func (r *Recorder) Lines() []string {
	events := r.Events()
	lines := make([]string, len(events))

	for i, e := range events {
		lines[i] = e.Line()
	}

	return lines
}

// Count returns how many recorded events have the given kind.
func (r *Recorder) Count(kind Kind) int {
	n := 0

	for _, e := range r.Events() {
		if e.Kind == kind {
			n++
		}
	}

	return n
}
