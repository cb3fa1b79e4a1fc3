// Package lookup provides the dual-key hash index over the catalog plus the
// duplicate-detection gate that guards admission.
package lookup

import (
	"playwise/internal/models"
	"playwise/internal/textnorm"
)

// Map is the dual hash index: song ID -> song and normalized title -> song.
// It mirrors playlist membership exactly; the facade calls Put/Remove on
// every admission and deletion.
type Map struct {
	byID    map[string]*models.Song
	byTitle map[string]*models.Song
}

// NewMap creates an empty lookup map.
func NewMap() *Map {
	return &Map{
		byID:    make(map[string]*models.Song),
		byTitle: make(map[string]*models.Song),
	}
}

// Put inserts a song into both indexes. An existing entry for the same ID is
// overwritten; for the title index the latest song wins on collision.
func (m *Map) Put(song *models.Song) {
	if song == nil {
		return
	}
	m.byID[song.ID] = song
	m.byTitle[textnorm.Normalize(song.Title)] = song
}

// Remove purges a song from both indexes. Absent IDs are a no-op.
func (m *Map) Remove(songID string) bool {
	song, ok := m.byID[songID]
	if !ok {
		return false
	}
	delete(m.byID, songID)
	titleKey := textnorm.Normalize(song.Title)
	// Only drop the title entry when this song still owns it; a later song
	// with the same title may have overwritten it.
	if current, ok := m.byTitle[titleKey]; ok && current.ID == songID {
		delete(m.byTitle, titleKey)
	}
	return true
}

// ByID returns the song with the given ID.
func (m *Map) ByID(songID string) (*models.Song, bool) {
	song, ok := m.byID[songID]
	return song, ok
}

// ByTitle returns the song registered under the normalized title.
func (m *Map) ByTitle(title string) (*models.Song, bool) {
	song, ok := m.byTitle[textnorm.Normalize(title)]
	return song, ok
}

// Len returns the number of indexed songs.
func (m *Map) Len() int {
	return len(m.byID)
}

// All returns every indexed song, in no particular order.
func (m *Map) All() []*models.Song {
	songs := make([]*models.Song, 0, len(m.byID))
	for _, song := range m.byID {
		songs = append(songs, song)
	}
	return songs
}
