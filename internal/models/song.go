package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating bounds for songs. Zero means unrated.
const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrEmptyTitle    = errors.New("song title must not be empty")
	ErrEmptyArtist   = errors.New("song artist must not be empty")
	ErrBadDuration   = errors.New("song duration must be >= 0 seconds")
	ErrInvalidRating = errors.New("rating must be an integer between 1 and 5")
)

// Song represents a single track in the catalog. The playlist owns the
// canonical value; every other index stores the ID and derived keys only.
type Song struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration int    `json:"duration"` // seconds

	// Classification metadata used by the explorer and recommender
	Genre    string `json:"genre,omitempty"`
	Subgenre string `json:"subgenre,omitempty"`
	Mood     string `json:"mood,omitempty"`
	BPM      int    `json:"bpm,omitempty"`

	// Rating is 0 while unrated, otherwise 1-5
	Rating int `json:"rating,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSong creates a song with a freshly generated ID.
func NewSong(title, artist string, duration int) (*Song, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if artist == "" {
		return nil, ErrEmptyArtist
	}
	if duration < 0 {
		return nil, ErrBadDuration
	}
	now := time.Now()
	return &Song{
		ID:        primitive.NewObjectID().Hex(),
		Title:     title,
		Artist:    artist,
		Duration:  duration,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidRating reports whether r is inside the 1-5 rating scale.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// SetRating updates the song's rating in place.
func (s *Song) SetRating(r int) error {
	if !ValidRating(r) {
		return ErrInvalidRating
	}
	s.Rating = r
	s.UpdatedAt = time.Now()
	return nil
}

// Rated reports whether the song has been rated at all.
func (s *Song) Rated() bool {
	return s.Rating != 0
}
