// Package blocklist implements the artist admission gate.
package blocklist

import (
	"sort"

	"playwise/internal/textnorm"
)

// ArtistBlocklist is a set of normalized artist names whose songs are
// rejected at admission.
type ArtistBlocklist struct {
	blocked map[string]struct{}
}

// New creates an empty blocklist.
func New() *ArtistBlocklist {
	return &ArtistBlocklist{blocked: make(map[string]struct{})}
}

// Block adds an artist to the blocklist.
func (b *ArtistBlocklist) Block(artist string) {
	key := textnorm.Normalize(artist)
	if key == "" {
		return
	}
	b.blocked[key] = struct{}{}
}

// Unblock removes an artist and reports whether it was present.
func (b *ArtistBlocklist) Unblock(artist string) bool {
	key := textnorm.Normalize(artist)
	if _, ok := b.blocked[key]; !ok {
		return false
	}
	delete(b.blocked, key)
	return true
}

// IsBlocked reports whether the artist is on the blocklist.
func (b *ArtistBlocklist) IsBlocked(artist string) bool {
	_, ok := b.blocked[textnorm.Normalize(artist)]
	return ok
}

// Blocked returns the normalized blocked names, sorted for stable output.
func (b *ArtistBlocklist) Blocked() []string {
	names := make([]string, 0, len(b.blocked))
	for name := range b.blocked {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear empties the blocklist.
func (b *ArtistBlocklist) Clear() {
	b.blocked = make(map[string]struct{})
}
