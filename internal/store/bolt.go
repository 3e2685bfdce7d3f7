package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/inovacc/repomirror/internal/model"
)

const (
	boltBucketProfiles = "profiles"      // key: ID -> Profile JSON
	boltBucketNames    = "profile_names" // key: Name -> ID
	boltBucketRuns     = "runs"          // key: ProfileID/StartedAt/ID -> Run JSON
)

// Bolt is the BoltDB store
type Bolt struct {
	db *bbolt.DB
}

// NewBolt opens or creates the bolt file at path.
func NewBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt store: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{boltBucketProfiles, boltBucketNames, boltBucketRuns} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Bolt{db: db}, nil
}

func (b *Bolt) Ping() error {
	return b.db.View(func(tx *bbolt.Tx) error {
		return nil
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) SaveProfile(profile *model.Profile) error {
	if err := validateProfile(profile); err != nil {
		return err
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		var (
			profiles = tx.Bucket([]byte(boltBucketProfiles))
			names    = tx.Bucket([]byte(boltBucketNames))
		)

		if owner := names.Get([]byte(profile.Name)); owner != nil && string(owner) != profile.ID {
			return fmt.Errorf("%w: %s", ErrProfileExists, profile.Name)
		}

		if profile.ID == "" {
			profile.ID = uuid.New().String()
		}

		if profile.CreatedAt.IsZero() {
			profile.CreatedAt = time.Now()
		}

		if data := profiles.Get([]byte(profile.ID)); data != nil {
			var old model.Profile
			if err := json.Unmarshal(data, &old); err != nil {
				return err
			}

			if old.Name != profile.Name {
				if err := names.Delete([]byte(old.Name)); err != nil {
					return err
				}
			}
		}

		data, err := json.Marshal(profile)
		if err != nil {
			return err
		}

		if err := profiles.Put([]byte(profile.ID), data); err != nil {
			return err
		}

		return names.Put([]byte(profile.Name), []byte(profile.ID))
	})
}

func (b *Bolt) GetProfile(nameOrID string) (*model.Profile, error) {
	var profile *model.Profile

	err := b.db.View(func(tx *bbolt.Tx) error {
		p, err := boltLookup(tx, nameOrID)
		profile = p

		return err
	})

	return profile, err
}

func (b *Bolt) ListProfiles() ([]model.Profile, error) {
	var out []model.Profile

	err := b.db.View(func(tx *bbolt.Tx) error {
		profiles := tx.Bucket([]byte(boltBucketProfiles))

		return profiles.ForEach(func(k, v []byte) error {
			var p model.Profile

			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}

			out = append(out, p)

			return nil
		})
	})

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out, err
}

func (b *Bolt) DeleteProfile(nameOrID string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		p, err := boltLookup(tx, nameOrID)
		if err != nil {
			return err
		}

		if err := tx.Bucket([]byte(boltBucketNames)).Delete([]byte(p.Name)); err != nil {
			return err
		}

		if err := tx.Bucket([]byte(boltBucketProfiles)).Delete([]byte(p.ID)); err != nil {
			return err
		}

		runs := tx.Bucket([]byte(boltBucketRuns))
		prefix := []byte(p.ID + "/")

		var keys [][]byte

		c := runs.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}

		for _, k := range keys {
			if err := runs.Delete(k); err != nil {
				return err
			}
		}

		return nil
	})
}

func (b *Bolt) UpdateLastSync(profileID string, at time.Time) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		profiles := tx.Bucket([]byte(boltBucketProfiles))

		data := profiles.Get([]byte(profileID))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, profileID)
		}

		var p model.Profile
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}

		p.LastSyncAt = &at

		updated, err := json.Marshal(&p)
		if err != nil {
			return err
		}

		return profiles.Put([]byte(p.ID), updated)
	})
}

func (b *Bolt) RecordRun(run *model.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	data, err := json.Marshal(run)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%020d/%s", run.ProfileID, run.StartedAt.UnixNano(), run.ID)

	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRuns)).Put([]byte(key), data)
	})
}

// ListRuns returns runs newest first. An empty profileID lists every run; a
// limit of zero or less means no limit.
func (b *Bolt) ListRuns(profileID string, limit int) ([]model.Run, error) {
	var out []model.Run

	err := b.db.View(func(tx *bbolt.Tx) error {
		var prefix []byte
		if profileID != "" {
			prefix = []byte(profileID + "/")
		}

		c := tx.Bucket([]byte(boltBucketRuns)).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var r model.Run
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}

			out = append(out, r)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func boltLookup(tx *bbolt.Tx, nameOrID string) (*model.Profile, error) {
	profiles := tx.Bucket([]byte(boltBucketProfiles))

	id := nameOrID
	if owner := tx.Bucket([]byte(boltBucketNames)).Get([]byte(nameOrID)); owner != nil {
		id = string(owner)
	}

	data := profiles.Get([]byte(id))
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, nameOrID)
	}

	var p model.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}
