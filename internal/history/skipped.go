package history

// DefaultSkipCapacity is the number of skipped songs remembered when no
// capacity is configured.
const DefaultSkipCapacity = 10

// SkippedTracker remembers the last C skipped songs in a fixed-capacity FIFO
// with a parallel set for O(1) membership. FIFO and set contents are always
// equal.
type SkippedTracker struct {
	capacity int
	order    []string
	members  map[string]struct{}
}

// NewSkippedTracker creates a tracker; capacity <= 0 falls back to the
// default.
func NewSkippedTracker(capacity int) *SkippedTracker {
	if capacity <= 0 {
		capacity = DefaultSkipCapacity
	}
	return &SkippedTracker{
		capacity: capacity,
		members:  make(map[string]struct{}),
	}
}

// Skip records a skipped song, evicting the oldest entry when full. A song
// already in the window moves to the newest slot so the FIFO never holds a
// duplicate and stays equal to the set.
func (t *SkippedTracker) Skip(songID string) {
	if _, ok := t.members[songID]; ok {
		for i, id := range t.order {
			if id == songID {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
		t.order = append(t.order, songID)
		return
	}
	if len(t.order) == t.capacity {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.members, oldest)
	}
	t.order = append(t.order, songID)
	t.members[songID] = struct{}{}
}

// IsSkipped reports whether a song was skipped recently.
func (t *SkippedTracker) IsSkipped(songID string) bool {
	_, ok := t.members[songID]
	return ok
}

// Recent returns the tracked song IDs from oldest to newest.
func (t *SkippedTracker) Recent() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// SetCapacity resizes the tracker, truncating from the oldest end when
// shrinking.
func (t *SkippedTracker) SetCapacity(capacity int) {
	if capacity <= 0 {
		capacity = DefaultSkipCapacity
	}
	for len(t.order) > capacity {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.members, oldest)
	}
	t.capacity = capacity
}

// Capacity returns the current capacity.
func (t *SkippedTracker) Capacity() int {
	return t.capacity
}

// Clear empties both structures.
func (t *SkippedTracker) Clear() {
	t.order = nil
	t.members = make(map[string]struct{})
}

// Forget drops one song from the tracker, keeping FIFO and set in sync.
// Used when a song is deleted from the catalog.
func (t *SkippedTracker) Forget(songID string) {
	if _, ok := t.members[songID]; !ok {
		return
	}
	delete(t.members, songID)
	for i, id := range t.order {
		if id == songID {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}
