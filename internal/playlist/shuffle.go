package playlist

import (
	"math/rand"
	"strings"

	"playwise/internal/models"
)

const defaultShuffleAttempts = 1000

// Shuffler shuffles songs with the constraint that the same artist never
// appears on two consecutive positions.
type Shuffler struct {
	maxAttempts int
	rng         *rand.Rand
}

// NewShuffler creates a shuffler with the default attempt budget. rng may be
// nil, in which case the global source is used.
func NewShuffler(rng *rand.Rand) *Shuffler {
	return &Shuffler{maxAttempts: defaultShuffleAttempts, rng: rng}
}

// Shuffle returns a shuffled copy with no consecutive artists. When the
// pigeonhole bound makes that impossible, or no valid arrangement is found
// within the attempt budget, a plain shuffle is returned.
func (s *Shuffler) Shuffle(songs []*models.Song) []*models.Song {
	out := make([]*models.Song, len(songs))
	copy(out, songs)
	if len(out) <= 1 {
		return out
	}

	if !arrangementPossible(songs) {
		s.plainShuffle(out)
		return out
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		s.plainShuffle(out)
		if !hasConsecutiveArtists(out) {
			return out
		}
	}

	copy(out, songs)
	return out
}

func (s *Shuffler) plainShuffle(songs []*models.Song) {
	swap := func(i, j int) { songs[i], songs[j] = songs[j], songs[i] }
	if s.rng != nil {
		s.rng.Shuffle(len(songs), swap)
	} else {
		rand.Shuffle(len(songs), swap)
	}
}

func hasConsecutiveArtists(songs []*models.Song) bool {
	for i := 0; i+1 < len(songs); i++ {
		if strings.EqualFold(songs[i].Artist, songs[i+1].Artist) {
			return true
		}
	}
	return false
}

// arrangementPossible applies the pigeonhole bound: if one artist holds more
// than ceil(n/2) slots, consecutive placement is inevitable.
func arrangementPossible(songs []*models.Song) bool {
	if len(songs) <= 1 {
		return true
	}
	counts := make(map[string]int)
	max := 0
	for _, song := range songs {
		key := strings.ToLower(song.Artist)
		counts[key]++
		if counts[key] > max {
			max = counts[key]
		}
	}
	return max <= (len(songs)+1)/2
}

// ArtistDistribution counts songs per lowercased artist name.
func ArtistDistribution(songs []*models.Song) map[string]int {
	dist := make(map[string]int)
	for _, song := range songs {
		dist[strings.ToLower(song.Artist)]++
	}
	return dist
}
