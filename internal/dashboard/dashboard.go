// Package dashboard assembles the read-only system snapshot. It only
// aggregates inputs handed to it by the facade under the facade's lock, so a
// snapshot always reflects one consistent view.
package dashboard

import (
	"time"

	"playwise/internal/models"
	"playwise/internal/sorting"
)

const (
	topLongestCount   = 5
	recentPlayedCount = 5
	timestampLayout   = "2006-01-02 15:04:05"
)

// SongRef is the compact song record embedded in snapshots.
type SongRef struct {
	SongID   string `json:"song_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration int    `json:"duration"`
}

// Extreme describes a duration extreme of the playlist.
type Extreme struct {
	Title    string `json:"title,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

// Overview holds the aggregate counters.
type Overview struct {
	TotalSongsInPlaylist int `json:"total_songs_in_playlist"`
	TotalDurationSeconds int `json:"total_duration_seconds"`
	AverageSongDuration  int `json:"average_song_duration"`
	TotalPlaybackHistory int `json:"total_playback_history"`
}

// Snapshot is the exported system state. Field names and list ordering are
// stable across calls for the same state.
type Snapshot struct {
	Timestamp         string      `json:"timestamp"`
	SystemOverview    Overview    `json:"system_overview"`
	TopLongestSongs   []SongRef   `json:"top_5_longest_songs"`
	RecentlyPlayed    []SongRef   `json:"recently_played_songs"`
	SongCountByRating map[int]int `json:"song_count_by_rating"`
	Extremes          struct {
		ShortestSong Extreme `json:"shortest_song"`
		LongestSong  Extreme `json:"longest_song"`
	} `json:"extremes"`
}

// Build produces a snapshot from a consistent view of the catalog: the
// playlist contents, the recent plays, the playback history length and the
// rating distribution.
func Build(songs []*models.Song, recentPlays []*models.Song, historyLen int, ratingDist map[int]int, now time.Time) Snapshot {
	snap := Snapshot{
		Timestamp:         now.Format(timestampLayout),
		SongCountByRating: ratingDist,
		TopLongestSongs:   []SongRef{},
		RecentlyPlayed:    []SongRef{},
	}
	if snap.SongCountByRating == nil {
		snap.SongCountByRating = map[int]int{}
	}

	snap.SystemOverview = Overview{
		TotalSongsInPlaylist: len(songs),
		TotalPlaybackHistory: historyLen,
	}

	if len(songs) > 0 {
		total := 0
		shortest, longest := songs[0], songs[0]
		for _, s := range songs {
			total += s.Duration
			if s.Duration < shortest.Duration {
				shortest = s
			}
			if s.Duration > longest.Duration {
				longest = s
			}
		}
		snap.SystemOverview.TotalDurationSeconds = total
		snap.SystemOverview.AverageSongDuration = total / len(songs)
		snap.Extremes.ShortestSong = Extreme{Title: shortest.Title, Duration: shortest.Duration}
		snap.Extremes.LongestSong = Extreme{Title: longest.Title, Duration: longest.Duration}

		longestFirst := sorting.MergeSort(songs, sorting.DurationDesc)
		for i := 0; i < topLongestCount && i < len(longestFirst); i++ {
			snap.TopLongestSongs = append(snap.TopLongestSongs, ref(longestFirst[i]))
		}
	}

	limit := recentPlayedCount
	if limit > len(recentPlays) {
		limit = len(recentPlays)
	}
	for _, s := range recentPlays[:limit] {
		snap.RecentlyPlayed = append(snap.RecentlyPlayed, ref(s))
	}

	return snap
}

func ref(s *models.Song) SongRef {
	return SongRef{SongID: s.ID, Title: s.Title, Artist: s.Artist, Duration: s.Duration}
}
