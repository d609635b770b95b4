package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Candidate is one anonymized screening record. Record holds the anonymized
// field map (email_hash, phone_hash, submission_time, pass-through fields);
// raw contact details never reach storage.
type Candidate struct {
	ID        string
	CreatedAt time.Time
	Record    map[string]string
}
