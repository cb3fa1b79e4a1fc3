// Package recommend produces similarity-based suggestions from recent play
// history. Seeds come from a bounded sliding window of plays; candidates come
// from the explorer tree; scores are a fixed weighted sum over matching
// attributes.
package recommend

import (
	"math"
	"sort"
	"strings"
	"time"

	"playwise/internal/explorer"
)

// Scoring weights. The split is fixed so results are testable: exact
// attribute matches dominate, numeric similarity breaks ties.
const (
	weightGenre    = 0.4
	weightSubgenre = 0.2
	weightMood     = 0.2
	weightDuration = 0.1
	weightBPM      = 0.1

	durationThreshold = 120 // seconds
	bpmThreshold      = 10

	// DefaultWindowSize bounds the sliding window of recent plays.
	DefaultWindowSize = 50
	// DefaultSeedCount is how many recent distinct plays seed a query.
	DefaultSeedCount = 5
	// DefaultTopN is the default result size.
	DefaultTopN = 10

	maxCandidatesPerSeed = 200
)

// Meta is the attribute set similarity scoring works on.
type Meta struct {
	Genre    string
	Subgenre string
	Mood     string
	Artist   string
	Duration int
	BPM      int
}

// Recommendation is one scored suggestion.
type Recommendation struct {
	SongID string  `json:"song_id"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// CandidateSource yields songs classified under a partial path.
type CandidateSource interface {
	Search(c explorer.Criteria) []string
}

// SkipChecker reports recently skipped songs to exclude.
type SkipChecker interface {
	IsSkipped(songID string) bool
}

// MetadataSource resolves attributes for any catalog song.
type MetadataSource interface {
	Meta(songID string) (Meta, bool)
}

// PopularitySource supplies cumulative listen times for the fallback ranking.
type PopularitySource interface {
	ListenTimes() map[string]int
}

type playEvent struct {
	songID   string
	playedAt time.Time
}

// Recommender composes the explorer, skip tracker and favorites data into
// ranked suggestions. It keeps only the sliding play window as state.
type Recommender struct {
	candidates CandidateSource
	skips      SkipChecker
	metadata   MetadataSource
	popularity PopularitySource

	windowSize int
	window     []playEvent
	played     map[string]int // song -> occurrences currently in the window
	recorded   map[string]Meta
}

// New wires a recommender; windowSize <= 0 uses the default.
func New(candidates CandidateSource, skips SkipChecker, metadata MetadataSource, popularity PopularitySource, windowSize int) *Recommender {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Recommender{
		candidates: candidates,
		skips:      skips,
		metadata:   metadata,
		popularity: popularity,
		windowSize: windowSize,
		played:     make(map[string]int),
		recorded:   make(map[string]Meta),
	}
}

// RecordPlay appends a play to the sliding window, evicting the oldest event
// once the window is full.
func (r *Recommender) RecordPlay(songID string, playedAt time.Time, playDuration int, meta Meta) {
	if len(r.window) == r.windowSize {
		oldest := r.window[0]
		r.window = r.window[1:]
		r.played[oldest.songID]--
		if r.played[oldest.songID] == 0 {
			delete(r.played, oldest.songID)
		}
	}
	r.window = append(r.window, playEvent{songID: songID, playedAt: playedAt})
	r.played[songID]++
	r.recorded[songID] = meta
}

// Forget drops a deleted song from the recommender's state so it can never
// be seeded or suggested again.
func (r *Recommender) Forget(songID string) {
	kept := r.window[:0]
	for _, ev := range r.window {
		if ev.songID != songID {
			kept = append(kept, ev)
		}
	}
	r.window = kept
	delete(r.played, songID)
	delete(r.recorded, songID)
}

// RecentlyPlayed reports whether the song is inside the current window.
func (r *Recommender) RecentlyPlayed(songID string) bool {
	return r.played[songID] > 0
}

// Recommend returns up to topN suggestions. Candidates are gathered per seed
// from the explorer, filtered (seed itself, active playlist, skipped,
// recently played), scored, and summed across seeds. Ties break by ascending
// song ID. When filtering leaves fewer than topN, the popularity fallback
// fills the remainder.
func (r *Recommender) Recommend(seedCount, topN int, excludePlaylist map[string]struct{}) []Recommendation {
	if seedCount <= 0 {
		seedCount = DefaultSeedCount
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	seeds := r.recentSeeds(seedCount)

	scores := make(map[string]float64)
	reasons := make(map[string][]string)

	for _, seedID := range seeds {
		seedMeta, ok := r.metaOf(seedID)
		if !ok {
			continue
		}
		for _, candidateID := range r.similarTo(seedID, seedMeta) {
			if candidateID == seedID {
				continue
			}
			if _, active := excludePlaylist[candidateID]; active {
				continue
			}
			if r.skips.IsSkipped(candidateID) {
				continue
			}
			if r.played[candidateID] > 0 {
				continue
			}
			candMeta, ok := r.metaOf(candidateID)
			if !ok {
				continue
			}
			score, reason := similarity(seedMeta, candMeta)
			if score <= 0 {
				continue
			}
			scores[candidateID] += score
			reasons[candidateID] = append(reasons[candidateID], reason)
		}
	}

	ranked := rankByScore(scores)
	result := make([]Recommendation, 0, topN)
	included := make(map[string]struct{})
	for _, id := range ranked {
		if len(result) == topN {
			break
		}
		result = append(result, Recommendation{
			SongID: id,
			Score:  round2(scores[id]),
			Reason: joinReasons(reasons[id]),
		})
		included[id] = struct{}{}
	}

	if len(result) < topN {
		result = r.fillPopular(result, included, excludePlaylist, topN)
	}
	return result
}

// recentSeeds returns up to n most-recent distinct song IDs from the window.
func (r *Recommender) recentSeeds(n int) []string {
	var seeds []string
	seen := make(map[string]struct{})
	for i := len(r.window) - 1; i >= 0 && len(seeds) < n; i-- {
		id := r.window[i].songID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		seeds = append(seeds, id)
	}
	return seeds
}

// similarTo queries the explorer for the seed's genre subtree. The genre
// level is the widest net that still shares an attribute; subgenre and mood
// agreement is rewarded by scoring rather than by narrowing the pool, so a
// genre-only match can still surface when nothing closer exists. The artist
// level stays a wildcard: the point is finding similar songs by other
// artists.
func (r *Recommender) similarTo(seedID string, meta Meta) []string {
	if meta.Genre == "" {
		return nil
	}
	found := r.candidates.Search(explorer.Criteria{Genre: meta.Genre})
	if len(found) > maxCandidatesPerSeed {
		found = found[:maxCandidatesPerSeed]
	}
	return found
}

func (r *Recommender) metaOf(songID string) (Meta, bool) {
	if r.metadata != nil {
		if m, ok := r.metadata.Meta(songID); ok {
			return m, true
		}
	}
	m, ok := r.recorded[songID]
	return m, ok
}

// fillPopular appends songs ranked by cumulative listen time, applying the
// same exclusions, until topN is reached or the catalog is exhausted.
func (r *Recommender) fillPopular(result []Recommendation, included map[string]struct{}, excludePlaylist map[string]struct{}, topN int) []Recommendation {
	if r.popularity == nil {
		return result
	}
	times := r.popularity.ListenTimes()
	ids := make([]string, 0, len(times))
	for id := range times {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if times[ids[i]] != times[ids[j]] {
			return times[ids[i]] > times[ids[j]]
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		if len(result) == topN {
			break
		}
		if _, ok := included[id]; ok {
			continue
		}
		if _, active := excludePlaylist[id]; active {
			continue
		}
		if r.skips.IsSkipped(id) || r.played[id] > 0 {
			continue
		}
		result = append(result, Recommendation{
			SongID: id,
			Score:  float64(times[id]),
			Reason: "popular song",
		})
		included[id] = struct{}{}
	}
	return result
}

// similarity computes the weighted attribute score between two songs,
// clamped numeric terms included.
func similarity(seed, candidate Meta) (float64, string) {
	score := 0.0
	var reasons []string

	if seed.Genre != "" && strings.EqualFold(seed.Genre, candidate.Genre) {
		score += weightGenre
		reasons = append(reasons, "same genre")
	}
	if seed.Subgenre != "" && strings.EqualFold(seed.Subgenre, candidate.Subgenre) {
		score += weightSubgenre
		reasons = append(reasons, "same subgenre")
	}
	if seed.Mood != "" && strings.EqualFold(seed.Mood, candidate.Mood) {
		score += weightMood
		reasons = append(reasons, "same mood")
	}

	if seed.Duration > 0 && candidate.Duration > 0 {
		if sim := clampedSimilarity(seed.Duration, candidate.Duration, durationThreshold); sim > 0 {
			score += weightDuration * sim
			if sim > 0.5 {
				reasons = append(reasons, "similar duration")
			}
		}
	}
	if seed.BPM > 0 && candidate.BPM > 0 {
		if sim := clampedSimilarity(seed.BPM, candidate.BPM, bpmThreshold); sim > 0 {
			score += weightBPM * sim
			if sim > 0.5 {
				reasons = append(reasons, "similar bpm")
			}
		}
	}

	if len(reasons) == 0 {
		return score, "minimal similarity"
	}
	return score, strings.Join(reasons, ", ")
}

// clampedSimilarity maps |a-b| onto [0,1]: 1 at equality, 0 at or beyond the
// threshold.
func clampedSimilarity(a, b, threshold int) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff >= threshold {
		return 0
	}
	return 1 - float64(diff)/float64(threshold)
}

func rankByScore(scores map[string]float64) []string {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

func joinReasons(reasons []string) string {
	if len(reasons) == 0 {
		return "similar to recent plays"
	}
	seen := make(map[string]struct{})
	var unique []string
	for _, r := range reasons {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		unique = append(unique, r)
	}
	return strings.Join(unique, "; ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
