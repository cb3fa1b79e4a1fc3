package lookup

import "playwise/internal/textnorm"

// Policy controls what happens when a song's normalized title+artist key is
// already registered.
type Policy string

const (
	// KeepFirst rejects the new song and keeps the registered one.
	KeepFirst Policy = "first"
	// KeepLatest evicts the registered song so the new one can be admitted.
	KeepLatest Policy = "latest"
)

// ParsePolicy maps a config string to a Policy, defaulting to KeepFirst.
func ParsePolicy(s string) Policy {
	if Policy(s) == KeepLatest {
		return KeepLatest
	}
	return KeepFirst
}

// DuplicateCleaner detects duplicate songs through normalized composite keys.
type DuplicateCleaner struct {
	policy Policy
	keys   map[string]string // composite key -> song ID
}

// NewDuplicateCleaner creates a cleaner with the given policy.
func NewDuplicateCleaner(policy Policy) *DuplicateCleaner {
	return &DuplicateCleaner{
		policy: policy,
		keys:   make(map[string]string),
	}
}

// Policy returns the configured duplicate policy.
func (c *DuplicateCleaner) Policy() Policy {
	return c.policy
}

// IsDuplicate reports whether a song with this title/artist is registered.
func (c *DuplicateCleaner) IsDuplicate(title, artist string) bool {
	_, ok := c.keys[textnorm.CompositeKey(title, artist)]
	return ok
}

// ExistingID returns the registered song ID for this title/artist pair.
func (c *DuplicateCleaner) ExistingID(title, artist string) (string, bool) {
	id, ok := c.keys[textnorm.CompositeKey(title, artist)]
	return id, ok
}

// Register records an admitted song under its composite key.
func (c *DuplicateCleaner) Register(songID, title, artist string) {
	c.keys[textnorm.CompositeKey(title, artist)] = songID
}

// Deregister drops the key registration for a removed song. It is a no-op
// when another song holds the key, which happens mid-eviction under the
// latest policy.
func (c *DuplicateCleaner) Deregister(songID, title, artist string) {
	key := textnorm.CompositeKey(title, artist)
	if c.keys[key] == songID {
		delete(c.keys, key)
	}
}
