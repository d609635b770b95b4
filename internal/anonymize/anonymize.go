// Package anonymize converts raw candidate profiles into storage-safe
// records. Email and phone are replaced with one-way digests so the stored
// collection never contains direct contact details.
package anonymize

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Anonymizer produces anonymized records stamped with a submission time.
type Anonymizer struct {
	clock Clock
}

// New creates an Anonymizer using the wall clock.
func New() *Anonymizer {
	return &Anonymizer{clock: realClock{}}
}

// NewWithClock creates an Anonymizer with a custom clock (for testing).
func NewWithClock(clock Clock) *Anonymizer {
	return &Anonymizer{clock: clock}
}

// Anonymize returns a copy of fields with email and phone replaced by
// sha256 digests under sibling keys (email_hash, phone_hash) and a
// submission_time stamp in RFC 3339 (sortable) form. All other fields pass
// through unchanged. The input map is not mutated.
//
// Not idempotent: submission_time reflects the moment of the call, so
// callers must anonymize exactly once per record, at persistence time.
func (a *Anonymizer) Anonymize(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		switch k {
		case "email":
			out["email_hash"] = digest(v)
		case "phone":
			out["phone_hash"] = digest(v)
		default:
			out[k] = v
		}
	}
	out["submission_time"] = a.clock.Now().UTC().Format(time.RFC3339)
	return out
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
