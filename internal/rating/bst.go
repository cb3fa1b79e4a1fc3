// Package rating implements the secondary index from song rating (1-5) to
// the set of songs holding that rating, organized as a binary search tree of
// buckets. With only five possible keys the tree depth is bounded by five,
// so it can never meaningfully degrade; the BST shape is kept for the
// bucket contract, not for balance.
package rating

import (
	"errors"
	"sort"
)

var ErrInvalidRating = errors.New("rating must be an integer between 1 and 5")

// bstNode holds one rating bucket.
type bstNode struct {
	rating int
	songs  map[string]struct{}
	left   *bstNode
	right  *bstNode
}

// BST indexes song IDs by rating. A reverse id -> rating map makes deletes
// target a single bucket instead of scanning the whole tree.
type BST struct {
	root     *bstNode
	ratingOf map[string]int
}

// NewBST creates an empty rating index.
func NewBST() *BST {
	return &BST{ratingOf: make(map[string]int)}
}

// Insert places a song into the bucket for rating. If the song already holds
// a different rating it is migrated atomically: removed from the old bucket
// before joining the new one.
func (t *BST) Insert(songID string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if old, ok := t.ratingOf[songID]; ok {
		if old == rating {
			return nil
		}
		t.removeFromBucket(songID, old)
	}
	t.root = insert(t.root, songID, rating)
	t.ratingOf[songID] = rating
	return nil
}

func insert(n *bstNode, songID string, rating int) *bstNode {
	if n == nil {
		return &bstNode{
			rating: rating,
			songs:  map[string]struct{}{songID: {}},
		}
	}
	switch {
	case rating < n.rating:
		n.left = insert(n.left, songID, rating)
	case rating > n.rating:
		n.right = insert(n.right, songID, rating)
	default:
		n.songs[songID] = struct{}{}
	}
	return n
}

// Search returns the song IDs holding the given rating, sorted for stable
// output. An unknown or absent rating yields an empty slice.
func (t *BST) Search(rating int) []string {
	n := t.root
	for n != nil {
		switch {
		case rating < n.rating:
			n = n.left
		case rating > n.rating:
			n = n.right
		default:
			ids := make([]string, 0, len(n.songs))
			for id := range n.songs {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			return ids
		}
	}
	return []string{}
}

// Delete removes a song from its bucket. Unknown songs are a no-op.
func (t *BST) Delete(songID string) {
	rating, ok := t.ratingOf[songID]
	if !ok {
		return
	}
	t.removeFromBucket(songID, rating)
	delete(t.ratingOf, songID)
}

func (t *BST) removeFromBucket(songID string, rating int) {
	n := t.root
	for n != nil {
		switch {
		case rating < n.rating:
			n = n.left
		case rating > n.rating:
			n = n.right
		default:
			delete(n.songs, songID)
			return
		}
	}
}

// RatingOf returns the current rating of a song.
func (t *BST) RatingOf(songID string) (int, bool) {
	r, ok := t.ratingOf[songID]
	return r, ok
}

// Distribution returns song counts per rating via in-order traversal.
// Empty buckets left behind by migrations are skipped.
func (t *BST) Distribution() map[int]int {
	dist := make(map[int]int)
	var walk func(n *bstNode)
	walk = func(n *bstNode) {
		if n == nil {
			return
		}
		walk(n.left)
		if len(n.songs) > 0 {
			dist[n.rating] = len(n.songs)
		}
		walk(n.right)
	}
	walk(t.root)
	return dist
}

// Len returns the number of rated songs.
func (t *BST) Len() int {
	return len(t.ratingOf)
}
