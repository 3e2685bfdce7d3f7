package layout

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inovacc/repomirror/internal/model"
)

func TestAccountRoot(t *testing.T) {
	tests := []struct {
		name    string
		profile model.Profile
		want    string
	}{
		{name: "github account", profile: model.Profile{Name: "p", BaseURL: "https://github.com/octocat"}, want: "octocat"},
		{name: "trailing slash", profile: model.Profile{Name: "p", BaseURL: "https://github.com/octocat/"}, want: "octocat"},
		{name: "gitlab group", profile: model.Profile{Name: "p", BaseURL: "https://gitlab.com/acme/platform"}, want: "platform"},
		{name: "instance only", profile: model.Profile{Name: "p", BaseURL: "https://gitlab.example.com"}, want: "p"},
		{name: "host with slash", profile: model.Profile{Name: "octocat", BaseURL: "https://github.com/"}, want: "octocat"},
		{name: "empty url", profile: model.Profile{Name: "work"}, want: "work"},
		{name: "unparsable url", profile: model.Profile{Name: "work", BaseURL: "://"}, want: "work"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AccountRoot(tt.profile))
		})
	}
}

func TestPlannerPath(t *testing.T) {
	base := filepath.Join("mirror", "base")
	profile := model.Profile{Name: "gh", BaseURL: "https://github.com/octocat"}
	root := filepath.Join(base, "octocat")
	pl := Planner{BaseDir: base}

	tests := []struct {
		name  string
		owner string
		want  string
	}{
		{name: "own account", owner: "octocat", want: filepath.Join(root, "hello")},
		{name: "organisation", owner: "org1", want: filepath.Join(root, "organisations", "org1", "hello")},
		{name: "nested namespace", owner: "group/sub", want: filepath.Join(root, "FORKS", "hello")},
		{name: "case differs", owner: "Octocat", want: filepath.Join(root, "organisations", "Octocat", "hello")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := model.RepoInfo{Owner: tt.owner, Name: "hello", CloneURL: "https://github.com/x/hello.git"}

			got := pl.Path(profile, repo)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, pl.Path(profile, repo), "path must be deterministic")
		})
	}

	assert.Equal(t, root, pl.Root(profile))
}

func TestPlannerPathHostOnlyProfile(t *testing.T) {
	base := filepath.Join("mirror", "base")
	profile := model.Profile{Name: "octocat", BaseURL: "https://github.com"}
	pl := Planner{BaseDir: base}

	own := model.RepoInfo{Owner: "octocat", Name: "hello", CloneURL: "https://github.com/octocat/hello.git"}
	assert.Equal(t, filepath.Join(base, "octocat", "hello"), pl.Path(profile, own))

	org := model.RepoInfo{Owner: "acme", Name: "tool", CloneURL: "https://github.com/acme/tool.git"}
	assert.Equal(t, filepath.Join(base, "octocat", "organisations", "acme", "tool"), pl.Path(profile, org))
}
