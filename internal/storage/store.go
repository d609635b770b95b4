package storage

import (
	"fmt"
	"path/filepath"
)

// CandidateStore is the persistence contract shared by the SQLite and
// JSON-array backends.
type CandidateStore interface {
	AppendCandidate(c Candidate) error
	GetCandidate(id string) (Candidate, error)
	ListCandidates(limit int) ([]Candidate, error)
	CountCandidates() (int, error)
	Close() error
}

// OpenDriver opens the store selected by driver ("sqlite" or "json") in
// dataDir. An empty driver defaults to sqlite.
func OpenDriver(driver, dataDir string) (CandidateStore, error) {
	switch driver {
	case "", "sqlite":
		return Open(dataDir)
	case "json":
		return OpenFile(filepath.Join(dataDir, "candidates.json"))
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
