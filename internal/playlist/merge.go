package playlist

import "playwise/internal/models"

// MergeAlternating interleaves two song sequences, taking one song from each
// in turn and appending the leftover tail of the longer one.
func MergeAlternating(a, b []*models.Song) []*models.Song {
	merged := make([]*models.Song, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		merged = append(merged, a[i], b[j])
		i++
		j++
	}
	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)
	return merged
}
