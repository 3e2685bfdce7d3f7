// Package model defines the data structures shared across repomirror.
//
// # Profile
//
// The [Profile] struct describes one provider account: its token, base URL,
// provider kind and, for GitLab, the discovery mode. Profiles are persisted
// by the store package and read by discovery and sync.
//
// # RepoInfo
//
// The [RepoInfo] struct is one repository found during discovery. It is
// rebuilt on every run and never persisted.
//
// # Run
//
// The [Run] struct is the persisted record of one sync: its counters, any
// warning, and the error that aborted it.
//
// # Config
//
// The [Config] struct holds application configuration loaded from
// repomirror.yaml and REPOMIRROR_* environment variables:
//
//	mirror:
//	  base_dir: ~/repomirror
//	  git_path: git
//	discovery:
//	  concurrency: 1
//	providers:
//	  github:
//	    api_url: https://api.github.com/
//	  gitlab:
//	    retry_max: 0
//	http:
//	  timeout: 30s
//	log:
//	  level: info
//	  format: console
//	store:
//	  driver: bolt
package model
