// Package history tracks playback events: the play stack consumed by the
// dashboard and the bounded skip tracker consumed by the recommender.
package history

import "playwise/internal/models"

// Stack is the LIFO playback history.
type Stack struct {
	items []*models.Song
}

// NewStack creates an empty playback history.
func NewStack() *Stack {
	return &Stack{}
}

// Push records a played song.
func (s *Stack) Push(song *models.Song) {
	if song == nil {
		return
	}
	s.items = append(s.items, song)
}

// Pop removes and returns the most recently played song.
func (s *Stack) Pop() (*models.Song, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return last, true
}

// Peek returns the most recently played song without removing it.
func (s *Stack) Peek() (*models.Song, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[len(s.items)-1], true
}

// Recent returns up to n songs, most recent first.
func (s *Stack) Recent(n int) []*models.Song {
	if n > len(s.items) {
		n = len(s.items)
	}
	out := make([]*models.Song, 0, n)
	for i := len(s.items) - 1; i >= len(s.items)-n; i-- {
		out = append(out, s.items[i])
	}
	return out
}

// Len returns the number of recorded plays.
func (s *Stack) Len() int {
	return len(s.items)
}

// Clear drops the whole history.
func (s *Stack) Clear() {
	s.items = nil
}
