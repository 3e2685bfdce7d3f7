package model

// RepoInfo is one repository found during discovery
type RepoInfo struct {
	// Owner is a login (GitHub) or a full namespace path (GitLab)
	Owner string `json:"owner" yaml:"owner"`

	// Name is the repository name
	Name string `json:"name" yaml:"name"`

	// CloneURL is the unauthenticated https clone URL returned by the API
	CloneURL string `json:"clone_url" yaml:"clone_url"`
}

// FullName returns "owner/name".
func (r RepoInfo) FullName() string {
	return r.Owner + "/" + r.Name
}
