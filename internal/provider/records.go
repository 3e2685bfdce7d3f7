package provider

import (
	"github.com/inovacc/repomirror/internal/model"
)

// Group is a GitLab group seen during the bash-style walk
type Group struct {
	ID       int64
	FullPath string
}

type githubOwner struct {
	Login string `json:"login"`
}

type githubRepoRecord struct {
	Name     string       `json:"name"`
	Owner    *githubOwner `json:"owner"`
	CloneURL string       `json:"clone_url"`
}

type githubOrgRecord struct {
	Login string `json:"login"`
}

type gitlabNamespace struct {
	FullPath string `json:"full_path"`
}

type gitlabProjectRecord struct {
	Name          string           `json:"name"`
	Namespace     *gitlabNamespace `json:"namespace"`
	HTTPURLToRepo string           `json:"http_url_to_repo"`
}

type gitlabGroupRecord struct {
	ID       int64  `json:"id"`
	FullPath string `json:"full_path"`
}

// personalRepo requires name, owner.login and clone_url.
func personalRepo(r githubRepoRecord) (model.RepoInfo, bool) {
	if r.Name == "" || r.CloneURL == "" || r.Owner == nil || r.Owner.Login == "" {
		return model.RepoInfo{}, false
	}

	return model.RepoInfo{Owner: r.Owner.Login, Name: r.Name, CloneURL: r.CloneURL}, true
}

// orgRepo attributes the record to org; owner.login is not required.
func orgRepo(org string) func(githubRepoRecord) (model.RepoInfo, bool) {
	return func(r githubRepoRecord) (model.RepoInfo, bool) {
		if r.Name == "" || r.CloneURL == "" {
			return model.RepoInfo{}, false
		}

		return model.RepoInfo{Owner: org, Name: r.Name, CloneURL: r.CloneURL}, true
	}
}

func orgLogin(r githubOrgRecord) (string, bool) {
	return r.Login, r.Login != ""
}

func gitlabProject(r gitlabProjectRecord) (model.RepoInfo, bool) {
	if r.Name == "" || r.HTTPURLToRepo == "" || r.Namespace == nil || r.Namespace.FullPath == "" {
		return model.RepoInfo{}, false
	}

	return model.RepoInfo{Owner: r.Namespace.FullPath, Name: r.Name, CloneURL: r.HTTPURLToRepo}, true
}

func gitlabGroup(r gitlabGroupRecord) (Group, bool) {
	if r.ID == 0 || r.FullPath == "" {
		return Group{}, false
	}

	return Group(r), true
}

// dedupe keeps the first occurrence of every owner/name pair.
func dedupe(repos []model.RepoInfo) ([]model.RepoInfo, int) {
	seen := make(map[string]struct{}, len(repos))
	out := make([]model.RepoInfo, 0, len(repos))
	dropped := 0

	for _, r := range repos {
		key := r.FullName()
		if _, ok := seen[key]; ok {
			dropped++
			continue
		}

		seen[key] = struct{}{}
		out = append(out, r)
	}

	return out, dropped
}
