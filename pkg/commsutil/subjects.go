package commsutil

import (
	"fmt"
	"strings"
)

// Default COMMS subjects.
const (
	// SubjectDispatchPrefix prefixes the per-target work queue subjects.
	SubjectDispatchPrefix = "notify.dispatch"
	// SubjectRegisterEndpoint accepts handler endpoint registrations.
	SubjectRegisterEndpoint = "notify.endpoints.register"
	// SubjectRemoveEndpoint accepts handler endpoint removals.
	SubjectRemoveEndpoint = "notify.endpoints.remove"
)

// BuildDispatchSubject builds the work queue subject for a dispatch target.
func BuildDispatchSubject(target string) string {
	return fmt.Sprintf("%s.%s", SubjectDispatchPrefix, SanitizeToken(target))
}

// SanitizeToken makes a string safe for use as a subject token or durable
// consumer name: anything outside [A-Za-z0-9_-] becomes an underscore.
func SanitizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
