package sorting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playwise/internal/models"
)

func song(t *testing.T, title string, duration int) *models.Song {
	t.Helper()
	s, err := models.NewSong(title, "Artist", duration)
	require.NoError(t, err)
	return s
}

func sortedTitles(songs []*models.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.Title
	}
	return out
}

func TestMergeSort_AlphaTitle(t *testing.T) {
	songs := []*models.Song{
		song(t, "charlie", 100),
		song(t, "Alpha", 200),
		song(t, "bravo", 300),
	}
	sorted := MergeSort(songs, AlphaTitle)
	assert.Equal(t, []string{"Alpha", "bravo", "charlie"}, sortedTitles(sorted))
	// Input untouched
	assert.Equal(t, "charlie", songs[0].Title)
}

func TestMergeSort_Duration(t *testing.T) {
	songs := []*models.Song{
		song(t, "mid", 200),
		song(t, "long", 300),
		song(t, "short", 100),
	}

	asc := MergeSort(songs, DurationAsc)
	assert.Equal(t, []string{"short", "mid", "long"}, sortedTitles(asc))

	desc := MergeSort(songs, DurationDesc)
	assert.Equal(t, []string{"long", "mid", "short"}, sortedTitles(desc))
}

func TestMergeSort_Stable(t *testing.T) {
	songs := []*models.Song{
		song(t, "first", 100),
		song(t, "second", 100),
		song(t, "third", 100),
	}
	sorted := MergeSort(songs, DurationDesc)
	assert.Equal(t, []string{"first", "second", "third"}, sortedTitles(sorted))
}

func TestMergeSort_RecentFirst(t *testing.T) {
	older := song(t, "older", 100)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := song(t, "newer", 100)

	sorted := MergeSort([]*models.Song{older, newer}, RecentFirst)
	assert.Equal(t, []string{"newer", "older"}, sortedTitles(sorted))
}

func TestMergeSort_SmallInputs(t *testing.T) {
	assert.Empty(t, MergeSort(nil, AlphaTitle))
	one := []*models.Song{song(t, "only", 100)}
	assert.Equal(t, []string{"only"}, sortedTitles(MergeSort(one, AlphaTitle)))
}
