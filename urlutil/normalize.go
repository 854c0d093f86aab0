// Package urlutil provides helpers for ZIA-style URL entries: the
// scheme-optional strings stored in custom URL categories and accepted by
// the bulk lookup endpoint (e.g. "example.com", ".example.com/path",
// "https://example.com:8080/x?y=z").
package urlutil

import (
	"errors"
	"fmt"
	"strings"
)

// Normalize canonicalizes a category entry for lookup submission.
// Normalization includes:
// - Trimming surrounding whitespace
// - Lowercasing the scheme (when present) and the host portion
// - Preserving the path and query exactly (case matters there)
// - Preserving a leading dot (ZIA's include-subdomains form)
//
// Returns an error if the entry is empty or has no host portion.
func Normalize(raw string) (string, error) {
	entry := strings.TrimSpace(raw)
	if entry == "" {
		return "", errors.New("cannot normalize empty category entry")
	}

	scheme, rest := splitScheme(entry)

	// Split the host portion from the path/query tail.
	host := rest
	tail := ""
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		host = rest[:i]
		tail = rest[i:]
	}

	// A bare dot or an entry that is all path is not a usable entry.
	if strings.Trim(host, ".") == "" {
		return "", fmt.Errorf("category entry %q has no host", raw)
	}

	normalized := strings.ToLower(host) + tail
	if scheme != "" {
		normalized = strings.ToLower(scheme) + "://" + normalized
	}
	return normalized, nil
}

// Host extracts the bare hostname from a category entry: scheme, leading
// dots, port, path, and query are all stripped.
func Host(entry string) string {
	_, rest := splitScheme(strings.TrimSpace(entry))

	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimLeft(rest, ".")

	// Strip a port suffix, but leave dotted segments alone.
	if i := strings.LastIndex(rest, ":"); i >= 0 {
		rest = rest[:i]
	}
	return strings.ToLower(rest)
}

// splitScheme separates an optional "scheme://" prefix from the remainder.
func splitScheme(entry string) (scheme, rest string) {
	i := strings.Index(entry, "://")
	if i < 0 {
		return "", entry
	}
	return entry[:i], entry[i+3:]
}
