// Package testutil holds shared test fixtures.
package testutil

import (
	"fmt"

	"playwise/internal/engine"
)

// SongBuilder provides a fluent interface for creating test song inputs
type SongBuilder struct {
	input engine.SongInput
}

// NewSongBuilder creates a new song builder with default values
func NewSongBuilder() *SongBuilder {
	return &SongBuilder{
		input: engine.SongInput{
			Title:    "Test Song",
			Artist:   "Test Artist",
			Duration: 240,
		},
	}
}

// WithTitle sets the song title
func (b *SongBuilder) WithTitle(title string) *SongBuilder {
	b.input.Title = title
	return b
}

// WithArtist sets the song artist
func (b *SongBuilder) WithArtist(artist string) *SongBuilder {
	b.input.Artist = artist
	return b
}

// WithDuration sets the song duration in seconds
func (b *SongBuilder) WithDuration(seconds int) *SongBuilder {
	b.input.Duration = seconds
	return b
}

// WithGenre sets the classification genre
func (b *SongBuilder) WithGenre(genre string) *SongBuilder {
	b.input.Genre = genre
	return b
}

// WithSubgenre sets the classification subgenre
func (b *SongBuilder) WithSubgenre(subgenre string) *SongBuilder {
	b.input.Subgenre = subgenre
	return b
}

// WithMood sets the classification mood
func (b *SongBuilder) WithMood(mood string) *SongBuilder {
	b.input.Mood = mood
	return b
}

// WithBPM sets the tempo
func (b *SongBuilder) WithBPM(bpm int) *SongBuilder {
	b.input.BPM = bpm
	return b
}

// WithRating sets the initial rating
func (b *SongBuilder) WithRating(rating int) *SongBuilder {
	b.input.Rating = rating
	return b
}

// Build returns the constructed input
func (b *SongBuilder) Build() engine.SongInput {
	return b.input
}

// SongInputs generates n distinct inputs, useful for filling playlists.
func SongInputs(n int) []engine.SongInput {
	inputs := make([]engine.SongInput, n)
	for i := range inputs {
		inputs[i] = NewSongBuilder().
			WithTitle(fmt.Sprintf("Song %02d", i)).
			WithArtist(fmt.Sprintf("Artist %02d", i)).
			WithDuration(120 + 10*i).
			Build()
	}
	return inputs
}
