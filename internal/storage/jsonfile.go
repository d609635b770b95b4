package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileStore persists candidates as a single JSON array in one file. Every
// append reads the whole array, adds one object, and rewrites the file, so
// it is only suitable for prototype-scale data; the mutex serializes
// concurrent appends within this process. A crash mid-write can lose the
// file, so use the SQLite store when durability matters.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// fileRecord is the on-disk shape of one array element.
type fileRecord struct {
	ID        string            `json:"id"`
	CreatedAt string            `json:"created_at"`
	Record    map[string]string `json:"record"`
}

// OpenFile creates a FileStore at path, initializing an empty array if the
// file does not yet exist.
func OpenFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("initializing store file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking store file: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Close is a no-op; it exists so FileStore and Store are interchangeable.
func (f *FileStore) Close() error { return nil }

// AppendCandidate appends one record to the array and rewrites the file.
func (f *FileStore) AppendCandidate(c Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readAll()
	if err != nil {
		return err
	}

	records = append(records, fileRecord{
		ID:        c.ID,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		Record:    c.Record,
	})

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling records: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	return nil
}

// GetCandidate returns a single record by ID.
func (f *FileStore) GetCandidate(id string) (Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readAll()
	if err != nil {
		return Candidate{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return hydrateFileRecord(r)
		}
	}
	return Candidate{}, ErrNotFound
}

// ListCandidates returns up to limit records, newest first.
func (f *FileStore) ListCandidates(limit int) ([]Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readAll()
	if err != nil {
		return nil, err
	}

	var results []Candidate
	for _, r := range records {
		c, err := hydrateFileRecord(r)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CountCandidates returns the total number of stored records.
func (f *FileStore) CountCandidates() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readAll()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (f *FileStore) readAll() ([]fileRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading store file: %w", err)
	}

	var records []fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing store file: %w", err)
	}
	return records, nil
}

func hydrateFileRecord(r fileRecord) (Candidate, error) {
	t, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return Candidate{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return Candidate{ID: r.ID, CreatedAt: t, Record: r.Record}, nil
}
