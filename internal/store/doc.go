// Package store persists profiles and sync history.
//
// The [Store] interface abstracts the backend. Two implementations exist:
//   - [Bolt], an embedded BoltDB key-value file (default)
//   - [SQLite], a pure Go SQLite database with embedded migrations
//
// Use [Open] to select one from configuration:
//
//	st, err := store.Open(cfg.Store)
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
//	profiles, err := st.ListProfiles()
//
// Profiles are addressed by name or ID. Names are unique.
package store
