// Package normalize provides canonical forms for user- and partner-supplied strings.
package normalize

import "strings"

// Hashtag returns the lookup key for a campaign hashtag: surrounding space
// trimmed, one leading "#" removed, lower-cased.
// Hashtag(Hashtag(s)) == Hashtag(s).
func Hashtag(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	return strings.ToLower(s)
}

// Name trims surrounding whitespace and preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Permalink returns a lower-case slug made of [a-z0-9] runs joined by "-".
// Any other run of characters, including "/" and "%", becomes one "-", so
// the result is always a single safe path segment.
func Permalink(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
