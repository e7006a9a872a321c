// Package types holds the shared data structures for the roster service.
package types

import "encoding/json"

// VerdictStatus is the outcome class of an email check. Unchecked means no
// check has run yet; indeterminate means a check ran but could not complete.
type VerdictStatus string

const (
	// VerdictUnchecked means the email has never been checked
	VerdictUnchecked VerdictStatus = "unchecked"
	// VerdictValid means the check completed and accepted the address
	VerdictValid VerdictStatus = "valid"
	// VerdictInvalid means the check completed and rejected the address
	VerdictInvalid VerdictStatus = "invalid"
	// VerdictIndeterminate means the check could not be completed
	VerdictIndeterminate VerdictStatus = "indeterminate"
)

// Verdict is the outcome of an email check plus a human-readable reason.
type Verdict struct {
	// Status is the outcome class of the check
	Status VerdictStatus `json:"status"`
	// Reason is the human-readable explanation for the status
	Reason string `json:"reason,omitempty"`
	// Raw is the upstream provider payload when one was received
	Raw json.RawMessage `json:"raw,omitempty"`
}

// Unchecked returns the zero verdict for a never-checked email
func Unchecked() Verdict {
	return Verdict{Status: VerdictUnchecked}
}

// Valid returns an accepting verdict with the given reason
func Valid(reason string) Verdict {
	return Verdict{Status: VerdictValid, Reason: reason}
}

// Invalid returns a rejecting verdict with the given reason
func Invalid(reason string) Verdict {
	return Verdict{Status: VerdictInvalid, Reason: reason}
}

// Indeterminate returns a could-not-complete verdict with the given reason
func Indeterminate(reason string) Verdict {
	return Verdict{Status: VerdictIndeterminate, Reason: reason}
}

// Checked reports whether any check has run for this verdict
func (v Verdict) Checked() bool {
	return v.Status != VerdictUnchecked && v.Status != ""
}

// User represents a registry record. IDs are stable and assigned once;
// deleting a user never renumbers the survivors.
type User struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Age     int     `json:"age"`
	Email   string  `json:"email"`
	Verdict Verdict `json:"verdict"`
}

// Snapshot is the persisted registry state, rewritten whole on every mutation.
type Snapshot struct {
	// Users is the ordered user collection
	Users []User `json:"users"`
	// FavoriteColor is the freeform user preference string
	FavoriteColor string `json:"favorite_color,omitempty"`
	// NextID is the next user id to assign
	NextID int64 `json:"next_id"`
}
