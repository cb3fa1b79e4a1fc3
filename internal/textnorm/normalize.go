// Package textnorm holds the normalization rules shared by every index that
// keys on user-supplied text (duplicate cleaner, blocklist, lookup map,
// explorer labels).
package textnorm

import "strings"

// Normalize trims, lowercases and collapses internal whitespace runs to a
// single space.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// CompositeKey derives the duplicate-detection key from a title/artist pair.
func CompositeKey(title, artist string) string {
	return Normalize(title) + "::" + Normalize(artist)
}
