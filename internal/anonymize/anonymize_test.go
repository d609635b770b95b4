package anonymize

import (
	"testing"
	"time"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestAnonymize(t *testing.T) {
	clock := fixedClock{t: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)}
	a := NewWithClock(clock)

	in := map[string]string{
		"full_name":        "Jane Doe",
		"email":            "a@b.com",
		"phone":            "5551234567",
		"experience_years": "3",
	}
	got := a.Anonymize(in)

	if _, ok := got["email"]; ok {
		t.Error("email should be removed from anonymized record")
	}
	if _, ok := got["phone"]; ok {
		t.Error("phone should be removed from anonymized record")
	}
	if got["email_hash"] == "" {
		t.Error("email_hash missing")
	}
	if got["phone_hash"] == "" {
		t.Error("phone_hash missing")
	}
	if got["full_name"] != "Jane Doe" || got["experience_years"] != "3" {
		t.Errorf("pass-through fields changed: %+v", got)
	}
	if got["submission_time"] != "2025-06-01T12:30:00Z" {
		t.Errorf("submission_time = %q, want fixed clock value", got["submission_time"])
	}

	// Input must not be mutated.
	if in["email"] != "a@b.com" {
		t.Error("input map was mutated")
	}
}

func TestAnonymize_DeterministicDigest(t *testing.T) {
	a := New()
	one := a.Anonymize(map[string]string{"email": "a@b.com"})
	two := a.Anonymize(map[string]string{"email": "a@b.com"})
	if one["email_hash"] != two["email_hash"] {
		t.Errorf("digest not deterministic: %q vs %q", one["email_hash"], two["email_hash"])
	}

	other := a.Anonymize(map[string]string{"email": "c@d.com"})
	if one["email_hash"] == other["email_hash"] {
		t.Error("different inputs produced identical digests")
	}
}
