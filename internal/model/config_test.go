package model

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mirror.GitPath != "git" {
		t.Errorf("Mirror.GitPath = %q, want %q", cfg.Mirror.GitPath, "git")
	}

	if len(cfg.Mirror.UpToDateMarkers) != 2 {
		t.Errorf("Mirror.UpToDateMarkers = %v, want 2 markers", cfg.Mirror.UpToDateMarkers)
	}

	if cfg.Discovery.Concurrency != 1 {
		t.Errorf("Discovery.Concurrency = %d, want 1", cfg.Discovery.Concurrency)
	}

	if cfg.Providers.GitHub.APIURL != "https://api.github.com/" {
		t.Errorf("Providers.GitHub.APIURL = %q", cfg.Providers.GitHub.APIURL)
	}

	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("HTTP.Timeout = %v, want 30s", cfg.HTTP.Timeout)
	}

	if cfg.Store.Driver != StoreBolt {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, StoreBolt)
	}
}

func TestParseProviderKind(t *testing.T) {
	tests := []struct {
		input   string
		want    ProviderKind
		wantErr bool
	}{
		{input: "github", want: KindGitHub},
		{input: "GitLab", want: KindGitLab},
		{input: " gitlab ", want: KindGitLab},
		{input: "bitbucket", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProviderKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProviderKind() error = %v, wantErr %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("ParseProviderKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseGitLabMode(t *testing.T) {
	tests := []struct {
		input   string
		want    GitLabMode
		wantErr bool
	}{
		{input: "", want: GitLabRecursive},
		{input: "recursive", want: GitLabRecursive},
		{input: "Bash-Style", want: GitLabBashStyle},
		{input: "flat", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGitLabMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGitLabMode() error = %v, wantErr %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("ParseGitLabMode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProfileHelpers(t *testing.T) {
	p := Profile{Name: "work", Token: "secret"}

	if got := p.EffectiveGitLabMode(); got != GitLabRecursive {
		t.Errorf("EffectiveGitLabMode() = %q, want %q", got, GitLabRecursive)
	}

	if got := p.Redacted().Token; got != "***" {
		t.Errorf("Redacted().Token = %q, want ***", got)
	}

	if p.Token != "secret" {
		t.Error("Redacted() modified the receiver")
	}

	r := RepoInfo{Owner: "group/sub", Name: "proj"}
	if r.FullName() != "group/sub/proj" {
		t.Errorf("FullName() = %q", r.FullName())
	}
}
