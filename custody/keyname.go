package custody

import "strings"

// Identity kind markers used inside key names. Phone identities and
// social-login subjects live in separate namespaces so that the digits of
// a phone number can never collide with a numeric subject id.
const (
	kindPhone   = "ph"
	kindSubject = "id"
)

// KeyName maps an external identity to its namespaced key name in the
// secrets store. The mapping is deterministic: the same identity always
// yields the same key name.
//
// Phone numbers (leading '+') are reduced to their digits:
//
//	"+1 (555) 123-4567"  ->  "<prefix>-ph-15551234567"
//
// Any other identity is treated as a social-login subject id and
// sanitized to the character set accepted by the store:
//
//	"google-oauth2|108357"  ->  "<prefix>-id-google-oauth2_108357"
func KeyName(prefix, identity string) string {
	if strings.HasPrefix(identity, "+") {
		return prefix + "-" + kindPhone + "-" + digitsOnly(identity)
	}
	return prefix + "-" + kindSubject + "-" + sanitizeSubject(identity)
}

// digitsOnly strips every non-digit character.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sanitizeSubject maps a subject id onto [A-Za-z0-9_-], replacing
// everything else with '_'.
func sanitizeSubject(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
