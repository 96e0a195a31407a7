package utils

import "strings"

// CanonicalHost lowercases a hostname and strips surrounding whitespace and
// any trailing dot, so lookups and log fields use one consistent form.
func CanonicalHost(host string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(host), "."))
}
