// Package sqlite persists dump snapshots in a per-output-root SQLite
// database, so incremental decisions survive process restarts.
package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"assetdump/internal/domain"
	"assetdump/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Store implements ports.SnapshotStore on SQLite
type Store struct {
	db         *sql.DB
	outputRoot string
	dbPath     string
}

// Ensure Store implements SnapshotStore
var _ ports.SnapshotStore = (*Store)(nil)

// NewStore creates a new SQLite snapshot store
func NewStore() *Store {
	return &Store{}
}

// Open initializes the store for the given output root. The database lives at
// a path derived from a hash of the root, so distinct output roots never
// share a snapshot. A corrupt database is discarded and recreated: prior
// knowledge is an optimization, never worth failing over.
func (s *Store) Open(outputRoot string) error {
	abs, err := filepath.Abs(outputRoot)
	if err != nil {
		return fmt.Errorf("resolving output root: %w", err)
	}
	s.outputRoot = abs
	s.dbPath = databasePath(abs)

	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	db, err := openDatabase(s.dbPath)
	if err != nil {
		// Unreadable or corrupt file: drop it and start from empty.
		logrus.Warnf("discarding unreadable snapshot database %s: %v", s.dbPath, err)
		if err := os.Remove(s.dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing corrupt snapshot database: %w", err)
		}
		db, err = openDatabase(s.dbPath)
		if err != nil {
			return fmt.Errorf("recreating snapshot database: %w", err)
		}
	}
	s.db = db

	if err := s.updateMeta(); err != nil {
		db.Close()
		return fmt.Errorf("updating snapshot metadata: %w", err)
	}
	return nil
}

func openDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			mtime_ns INTEGER NOT NULL,
			fingerprint TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the resolved database path.
func (s *Store) Path() string {
	return s.dbPath
}

// Load reads the persisted snapshot. A missing or unreadable store yields an
// empty snapshot ("no prior knowledge") rather than an error.
func (s *Store) Load() (domain.Snapshot, error) {
	snap := domain.NewSnapshot()

	rows, err := s.db.Query(`SELECT key, mtime_ns, fingerprint FROM entries`)
	if err != nil {
		logrus.Warnf("snapshot unreadable, starting empty: %v", err)
		return snap, nil
	}
	defer rows.Close()

	for rows.Next() {
		var key, fingerprint string
		var mtimeNS int64
		if err := rows.Scan(&key, &mtimeNS, &fingerprint); err != nil {
			continue
		}
		snap[domain.ArtifactKey(key)] = domain.Signature{
			ModTime:     time.Unix(0, mtimeNS),
			Fingerprint: domain.Fingerprint(fingerprint),
		}
	}
	return snap, rows.Err()
}

// Save replaces the persisted snapshot with snap, transactionally.
func (s *Store) Save(snap domain.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning snapshot save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("clearing snapshot entries: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO entries (key, mtime_ns, fingerprint) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing snapshot insert: %w", err)
	}
	defer stmt.Close()

	for key, sig := range snap {
		if _, err := stmt.Exec(string(key), sig.ModTime.UnixNano(), string(sig.Fingerprint)); err != nil {
			return fmt.Errorf("saving snapshot entry %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// updateMeta records the schema version and output root hash
func (s *Store) updateMeta() error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('output_root_hash', ?);
	`, schemaVersion, hashOutputRoot(s.outputRoot))
	return err
}

// databasePath returns the snapshot database location for an output root
func databasePath(outputRoot string) string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "assetdump", hashOutputRoot(outputRoot)+".db")
}

// hashOutputRoot returns a short hash of the output root path
func hashOutputRoot(outputRoot string) string {
	h := sha256.Sum256([]byte(outputRoot))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}
