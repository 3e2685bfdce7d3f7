package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/inovacc/repomirror/internal/application"
	"github.com/inovacc/repomirror/internal/model"
)

var (
	// ErrProfileNotFound is returned when no profile matches a name or ID
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileExists is returned when saving a new profile under a taken name
	ErrProfileExists = errors.New("profile already exists")

	errProfileNameRequired = errors.New("profile name is required")
)

// Store defines the persistence operations used by the app.
type Store interface {
	Ping() error
	Close() error

	// SaveProfile inserts a profile, or replaces the one with the same ID.
	// New profiles get an ID and CreatedAt.
	SaveProfile(profile *model.Profile) error

	// GetProfile looks a profile up by name, then by ID.
	GetProfile(nameOrID string) (*model.Profile, error)
	ListProfiles() ([]model.Profile, error)
	DeleteProfile(nameOrID string) error
	UpdateLastSync(profileID string, at time.Time) error

	// RecordRun stores a sync record. Runs are listed newest first.
	RecordRun(run *model.Run) error
	ListRuns(profileID string, limit int) ([]model.Run, error)
}

// Open opens the store selected by cfg. An empty path resolves to the
// application directory.
func Open(cfg model.StoreConfig) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = model.StoreBolt
	}

	path, err := resolvePath(driver, cfg.Path)
	if err != nil {
		return nil, err
	}

	switch driver {
	case model.StoreBolt:
		return NewBolt(path)
	case model.StoreSQLite:
		return NewSQLite(path)
	}

	return nil, fmt.Errorf("unknown store driver %q (want bolt or sqlite)", driver)
}

func resolvePath(driver model.StoreDriver, path string) (string, error) {
	if path == "" {
		dir, err := application.GetApplicationDirectory()
		if err != nil {
			return "", err
		}

		name := application.AppName + ".bolt"
		if driver == model.StoreSQLite {
			name = application.AppName + ".db"
		}

		path = filepath.Join(dir, name)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("creating store directory: %w", err)
	}

	return path, nil
}

func validateProfile(p *model.Profile) error {
	if p == nil || p.Name == "" {
		return errProfileNameRequired
	}

	return nil
}
