// Package playlist implements the ordered song catalog as a doubly-linked
// list, plus the edit history (undo) and shuffle helpers layered on top of it.
package playlist

import (
	"errors"

	"playwise/internal/models"
)

var (
	ErrIndexOutOfBounds = errors.New("playlist index out of bounds")
	ErrNilSong          = errors.New("song must not be nil")
)

// node is a doubly-linked list node wrapping one song.
type node struct {
	song *models.Song
	prev *node
	next *node
}

// Engine is the canonical ordered sequence of songs. It never rejects a song
// on content grounds; admission policy lives in the owning facade.
type Engine struct {
	head *node
	tail *node
	size int
}

// NewEngine creates an empty playlist.
func NewEngine() *Engine {
	return &Engine{}
}

// Size returns the number of songs in the playlist.
func (e *Engine) Size() int {
	return e.size
}

// Add appends a song at the tail and returns its position.
func (e *Engine) Add(song *models.Song) (int, error) {
	if song == nil {
		return 0, ErrNilSong
	}
	n := &node{song: song}
	if e.head == nil {
		e.head = n
		e.tail = n
	} else {
		e.tail.next = n
		n.prev = e.tail
		e.tail = n
	}
	e.size++
	return e.size - 1, nil
}

// nodeAt walks to the node at index from the nearer end.
func (e *Engine) nodeAt(index int) *node {
	if index < e.size/2 {
		n := e.head
		for i := 0; i < index; i++ {
			n = n.next
		}
		return n
	}
	n := e.tail
	for i := e.size - 1; i > index; i-- {
		n = n.prev
	}
	return n
}

// Delete unlinks the node at index and returns the removed song.
func (e *Engine) Delete(index int) (*models.Song, error) {
	if index < 0 || index >= e.size {
		return nil, ErrIndexOutOfBounds
	}
	n := e.nodeAt(index)
	e.unlink(n)
	return n.song, nil
}

func (e *Engine) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		e.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		e.tail = n.prev
	}
	n.prev = nil
	n.next = nil
	e.size--
}

// Move extracts the node at from and reinserts it at to, shifting the
// songs in between.
func (e *Engine) Move(from, to int) error {
	if from < 0 || from >= e.size || to < 0 || to >= e.size {
		return ErrIndexOutOfBounds
	}
	if from == to {
		return nil
	}
	n := e.nodeAt(from)
	e.unlink(n)
	e.insertAt(n, to)
	return nil
}

// insertAt links n back into the list so it ends up at index. The node must
// already be unlinked; index may equal size (append).
func (e *Engine) insertAt(n *node, index int) {
	switch {
	case e.head == nil:
		e.head = n
		e.tail = n
	case index == 0:
		n.next = e.head
		e.head.prev = n
		e.head = n
	case index >= e.size:
		n.prev = e.tail
		e.tail.next = n
		e.tail = n
	default:
		target := e.nodeAt(index)
		n.prev = target.prev
		n.next = target
		target.prev.next = n
		target.prev = n
	}
	e.size++
}

// InsertAt places a song at a specific index, used by undo to restore
// deleted songs in place.
func (e *Engine) InsertAt(song *models.Song, index int) error {
	if song == nil {
		return ErrNilSong
	}
	if index < 0 {
		return ErrIndexOutOfBounds
	}
	e.insertAt(&node{song: song}, index)
	return nil
}

// Reverse flips the playlist order in place by swapping every node's links.
func (e *Engine) Reverse() {
	current := e.head
	e.tail = e.head
	var prev *node
	for current != nil {
		next := current.next
		current.next = prev
		current.prev = next
		prev = current
		current = next
	}
	e.head = prev
}

// GetAll returns an ordered snapshot of the playlist. Callers must not
// mutate the songs in place.
func (e *Engine) GetAll() []*models.Song {
	songs := make([]*models.Song, 0, e.size)
	for n := e.head; n != nil; n = n.next {
		songs = append(songs, n.song)
	}
	return songs
}

// IndexOf returns the position of the song with the given ID, or -1.
func (e *Engine) IndexOf(songID string) int {
	i := 0
	for n := e.head; n != nil; n = n.next {
		if n.song.ID == songID {
			return i
		}
		i++
	}
	return -1
}
