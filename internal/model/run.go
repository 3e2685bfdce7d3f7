package model

import "time"

// Run is the persisted record of one sync
type Run struct {
	ID          string    `json:"id" yaml:"id"`
	ProfileID   string    `json:"profile_id" yaml:"profile_id"`
	ProfileName string    `json:"profile_name" yaml:"profile_name"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time `json:"finished_at" yaml:"finished_at"`
	Total       int       `json:"total" yaml:"total"`
	Cloned      int       `json:"cloned" yaml:"cloned"`
	Updated     int       `json:"updated" yaml:"updated"`
	Unchanged   int       `json:"unchanged" yaml:"unchanged"`
	Failed      int       `json:"failed" yaml:"failed"`

	// Warning is the low-signal warning, if any
	Warning string `json:"warning,omitempty" yaml:"warning,omitempty"`

	// Error is set when the run was aborted (discovery failure, cancellation)
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Completed reports whether the run reached the end of its repository list.
func (r Run) Completed() bool {
	return r.Error == ""
}
