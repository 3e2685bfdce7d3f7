package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/inovacc/repomirror/internal/model"
)

var (
	_ pflag.Value = (*kindFlag)(nil)
	_ pflag.Value = (*gitlabModeFlag)(nil)
	_ pflag.Value = (*outputFlag)(nil)
)

// kindFlag backs --kind
type kindFlag struct {
	value model.ProviderKind
}

func (f *kindFlag) String() string { return string(f.value) }
func (f *kindFlag) Type() string   { return "github|gitlab" }

func (f *kindFlag) Set(s string) error {
	kind, err := model.ParseProviderKind(s)
	if err != nil {
		return err
	}

	f.value = kind

	return nil
}

// gitlabModeFlag backs --gitlab-mode
type gitlabModeFlag struct {
	value model.GitLabMode
}

func (f *gitlabModeFlag) String() string { return string(f.value) }
func (f *gitlabModeFlag) Type() string   { return "recursive|bash-style" }

func (f *gitlabModeFlag) Set(s string) error {
	mode, err := model.ParseGitLabMode(s)
	if err != nil {
		return err
	}

	f.value = mode

	return nil
}

// outputFlag backs --output with a fixed set of formats
type outputFlag struct {
	value   string
	allowed []string
}

func newOutputFlag(def string, allowed ...string) *outputFlag {
	return &outputFlag{value: def, allowed: allowed}
}

func (f *outputFlag) String() string { return f.value }
func (f *outputFlag) Type() string   { return strings.Join(f.allowed, "|") }

func (f *outputFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(f.allowed, s) {
		return fmt.Errorf("unknown output %q (want %s)", s, strings.Join(f.allowed, ", "))
	}

	f.value = s

	return nil
}
