package mirror

import (
	"fmt"
	"time"

	"github.com/inovacc/repomirror/internal/model"
)

// Outcome classifies one repository attempt
type Outcome int

const (
	Cloned Outcome = iota + 1
	Updated
	NoChange
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Cloned:
		return "cloned"
	case Updated:
		return "updated"
	case NoChange:
		return "unchanged"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText makes outcomes readable in JSON and YAML output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// RepoResult is the result of one repository
type RepoResult struct {
	Repo     model.RepoInfo `json:"repo" yaml:"repo"`
	Path     string         `json:"path" yaml:"path"`
	Outcome  Outcome        `json:"outcome" yaml:"outcome"`
	Detail   string         `json:"detail,omitempty" yaml:"detail,omitempty"`
	Existed  bool           `json:"existed" yaml:"existed"`
	Duration time.Duration  `json:"duration" yaml:"duration"`
}

// RunSummary aggregates one run
type RunSummary struct {
	Total       int          `json:"total" yaml:"total"`
	Cloned      int          `json:"cloned" yaml:"cloned"`
	Updated     int          `json:"updated" yaml:"updated"`
	Unchanged   int          `json:"unchanged" yaml:"unchanged"`
	Failed      int          `json:"failed" yaml:"failed"`
	Preexisting int          `json:"preexisting" yaml:"preexisting"`
	Warning     string       `json:"warning,omitempty" yaml:"warning,omitempty"`
	Results     []RepoResult `json:"results,omitempty" yaml:"results,omitempty"`
}

// NewRunSummary starts a summary for total discovered repositories.
func NewRunSummary(total int) RunSummary {
	return RunSummary{Total: total, Results: make([]RepoResult, 0, total)}
}

// Add folds one result into the summary and returns the new value.
func (s RunSummary) Add(r RepoResult) RunSummary {
	switch r.Outcome {
	case Cloned:
		s.Cloned++
	case Updated:
		s.Updated++
	case NoChange:
		s.Unchanged++
	case Failed:
		s.Failed++
	}

	if r.Existed {
		s.Preexisting++
	}

	s.Results = append(s.Results, r)

	return s
}

// Attempted is the number of repositories processed so far.
func (s RunSummary) Attempted() int {
	return s.Cloned + s.Updated + s.Unchanged + s.Failed
}

// LowSignal reports a run that changed nothing and found nothing on disk,
// which usually means the token cannot see or clone any repository.
func (s RunSummary) LowSignal() bool {
	return s.Preexisting == 0 && s.Cloned+s.Updated == 0
}

func (s RunSummary) String() string {
	return fmt.Sprintf("total=%d cloned=%d updated=%d unchanged=%d failed=%d",
		s.Total, s.Cloned, s.Updated, s.Unchanged, s.Failed)
}
