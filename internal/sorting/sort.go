// Package sorting provides the stable merge sort used for ordered catalog
// views such as the dashboard's top-N lists.
package sorting

import (
	"strings"

	"playwise/internal/models"
)

// Criteria selects the comparison used when sorting songs.
type Criteria string

const (
	AlphaTitle   Criteria = "alpha_title"
	DurationAsc  Criteria = "duration_asc"
	DurationDesc Criteria = "duration_desc"
	RecentFirst  Criteria = "recent"
)

// MergeSort returns a new slice of songs sorted by the given criteria.
// The sort is stable: equal songs keep their input order.
func MergeSort(songs []*models.Song, criteria Criteria) []*models.Song {
	if len(songs) <= 1 {
		out := make([]*models.Song, len(songs))
		copy(out, songs)
		return out
	}
	mid := len(songs) / 2
	left := MergeSort(songs[:mid], criteria)
	right := MergeSort(songs[mid:], criteria)
	return merge(left, right, criteria)
}

func merge(left, right []*models.Song, criteria Criteria) []*models.Song {
	merged := make([]*models.Song, 0, len(left)+len(right))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if before(left[i], right[j], criteria) {
			merged = append(merged, left[i])
			i++
		} else {
			merged = append(merged, right[j])
			j++
		}
	}
	merged = append(merged, left[i:]...)
	merged = append(merged, right[j:]...)
	return merged
}

// before reports whether a should precede (or tie with) b.
func before(a, b *models.Song, criteria Criteria) bool {
	switch criteria {
	case DurationAsc:
		return a.Duration <= b.Duration
	case DurationDesc:
		return a.Duration >= b.Duration
	case RecentFirst:
		return !a.CreatedAt.Before(b.CreatedAt)
	default:
		return strings.ToLower(a.Title) <= strings.ToLower(b.Title)
	}
}
