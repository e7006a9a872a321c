// Package heuristic provides a local, network-free approximation of email
// validity. It is a coarse fallback for when the remote check is unavailable:
// it can reject malformed addresses but cannot detect non-existent mailboxes.
package heuristic

import (
	"regexp"
	"strings"

	"github.com/KaruG1999/roster/internal/types"
)

// Reasons returned by Check
const (
	ReasonInvalidFormat  = "invalid format"
	ReasonKnownDomain    = "known domain"
	ReasonUnlistedDomain = "well-formed, unlisted domain"
)

// emailPattern requires a local-part@domain.tld shape with a 2+ letter final label
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// knownDomains are common consumer mail domains
var knownDomains = map[string]struct{}{
	"gmail.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"yahoo.com":      {},
	"yahoo.es":       {},
	"icloud.com":     {},
	"live.com":       {},
	"msn.com":        {},
	"protonmail.com": {},
	"tutanota.com":   {},
}

// Check returns a verdict for the email synchronously. It never fails and
// performs no I/O.
func Check(email string) types.Verdict {
	if !emailPattern.MatchString(email) {
		return types.Invalid(ReasonInvalidFormat)
	}

	at := strings.Index(email, "@")
	domain := strings.ToLower(email[at+1:])

	if _, known := knownDomains[domain]; known {
		return types.Valid(ReasonKnownDomain)
	}

	return types.Valid(ReasonUnlistedDomain)
}
