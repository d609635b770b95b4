// Package storage persists anonymized candidate records. The default
// backend is an embedded SQLite database with append-only inserts; a
// JSON-array file store is available for prototype deployments and export.
package storage

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database holding anonymized candidate records.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending
// migrations. Pass ":memory:" as dataDir for an in-memory database (used by
// tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "scout.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// AppendCandidate inserts one anonymized record. Records are append-only;
// there is no update path.
func (s *Store) AppendCandidate(c Candidate) error {
	recordJSON, err := json.Marshal(c.Record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO candidates (id, created_at, record_json)
		VALUES (?, ?, ?)`,
		c.ID, c.CreatedAt.UTC().Format(time.RFC3339), string(recordJSON),
	)
	return err
}

// GetCandidate returns a single record by ID.
func (s *Store) GetCandidate(id string) (Candidate, error) {
	var c Candidate
	var createdAt, recordJSON string
	err := s.db.QueryRow(`
		SELECT id, created_at, record_json FROM candidates WHERE id = ?`, id,
	).Scan(&c.ID, &createdAt, &recordJSON)
	if err == sql.ErrNoRows {
		return Candidate{}, ErrNotFound
	}
	if err != nil {
		return Candidate{}, err
	}
	return hydrateCandidate(c.ID, createdAt, recordJSON)
}

// ListCandidates returns up to limit records, newest first. A limit of
// zero or less means no limit.
func (s *Store) ListCandidates(limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = -1 // negative LIMIT disables the cap
	}
	rows, err := s.db.Query(`
		SELECT id, created_at, record_json
		FROM candidates ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Candidate
	for rows.Next() {
		var id, createdAt, recordJSON string
		if err := rows.Scan(&id, &createdAt, &recordJSON); err != nil {
			return nil, err
		}
		c, err := hydrateCandidate(id, createdAt, recordJSON)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// CountCandidates returns the total number of stored records.
func (s *Store) CountCandidates() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM candidates").Scan(&n)
	return n, err
}

func hydrateCandidate(id, createdAt, recordJSON string) (Candidate, error) {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Candidate{}, fmt.Errorf("parsing created_at: %w", err)
	}
	var record map[string]string
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return Candidate{}, fmt.Errorf("parsing record: %w", err)
	}
	return Candidate{ID: id, CreatedAt: t, Record: record}, nil
}
