// Package explorer implements the hierarchical classification index:
// an n-ary tree keyed genre -> subgenre -> mood -> artist. Song IDs live at
// the artist-level leaves; a reverse map from song ID to its full path makes
// removal O(depth) without a tree scan.
package explorer

import (
	"sort"

	"playwise/internal/textnorm"
)

// Depth is the number of classification levels.
const Depth = 4

// Mode selects a traversal order.
type Mode string

const (
	DepthFirst   Mode = "depth_first"
	BreadthFirst Mode = "breadth_first"
)

// Criteria is a partial classification path; empty fields are wildcards.
type Criteria struct {
	Genre    string
	Subgenre string
	Mood     string
	Artist   string
}

func (c Criteria) levels() [Depth]string {
	return [Depth]string{
		textnorm.Normalize(c.Genre),
		textnorm.Normalize(c.Subgenre),
		textnorm.Normalize(c.Mood),
		textnorm.Normalize(c.Artist),
	}
}

type node struct {
	key      string
	children map[string]*node
	songs    map[string]struct{}
}

func newNode(key string) *node {
	return &node{key: key, children: make(map[string]*node)}
}

func (n *node) sortedChildren() []*node {
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*node, len(keys))
	for i, k := range keys {
		out[i] = n.children[k]
	}
	return out
}

// Explorer is the classification tree plus the reverse song -> path map.
type Explorer struct {
	root  *node
	paths map[string][Depth]string
}

// New creates an empty explorer.
func New() *Explorer {
	return &Explorer{
		root:  newNode(""),
		paths: make(map[string][Depth]string),
	}
}

// Add classifies a song under its normalized 4-level path. Unset labels are
// stored as empty segments so every song sits at a full-depth leaf and level
// positions stay meaningful for wildcard search. A song is reachable from
// exactly one path; re-adding moves it.
func (e *Explorer) Add(songID, genre, subgenre, mood, artist string) {
	if _, ok := e.paths[songID]; ok {
		e.Remove(songID)
	}
	path := [Depth]string{
		textnorm.Normalize(genre),
		textnorm.Normalize(subgenre),
		textnorm.Normalize(mood),
		textnorm.Normalize(artist),
	}
	current := e.root
	for _, key := range path {
		child, ok := current.children[key]
		if !ok {
			child = newNode(key)
			current.children[key] = child
		}
		current = child
	}
	if current.songs == nil {
		current.songs = make(map[string]struct{})
	}
	current.songs[songID] = struct{}{}
	e.paths[songID] = path
}

// Remove deletes a song from its leaf via the reverse map and prunes empty
// nodes upward. Unknown songs are a no-op.
func (e *Explorer) Remove(songID string) {
	path, ok := e.paths[songID]
	if !ok {
		return
	}
	delete(e.paths, songID)
	removeAt(e.root, path[:], songID)
}

// removeAt walks the path, deletes the song at the leaf and reports whether
// the visited node became empty so the caller can prune it.
func removeAt(n *node, path []string, songID string) bool {
	if len(path) == 0 {
		delete(n.songs, songID)
	} else {
		child, ok := n.children[path[0]]
		if ok && removeAt(child, path[1:], songID) {
			delete(n.children, path[0])
		}
	}
	return len(n.songs) == 0 && len(n.children) == 0
}

// PathOf returns the normalized classification path of a song.
func (e *Explorer) PathOf(songID string) ([]string, bool) {
	path, ok := e.paths[songID]
	if !ok {
		return nil, false
	}
	return path[:], true
}

// GetByPath returns the song IDs stored exactly at the node the path leads
// to, optionally unioning every descendant leaf. Songs live only at
// full-depth leaves, so a shorter path without includeSubtree yields an
// empty set.
func (e *Explorer) GetByPath(path []string, includeSubtree bool) []string {
	current := e.root
	for _, raw := range path {
		child, ok := current.children[textnorm.Normalize(raw)]
		if !ok {
			return []string{}
		}
		current = child
	}

	ids := make(map[string]struct{})
	if includeSubtree {
		queue := []*node{current}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			for id := range n.songs {
				ids[id] = struct{}{}
			}
			for _, child := range n.children {
				queue = append(queue, child)
			}
		}
	} else {
		for id := range current.songs {
			ids[id] = struct{}{}
		}
	}
	return sortedIDs(ids)
}

// Search returns the union of leaf sets matching the criteria, with missing
// levels treated as wildcards. Empty criteria return the empty set, not the
// whole catalog. The tree must not be mutated by concurrent callers.
func (e *Explorer) Search(c Criteria) []string {
	levels := c.levels()
	any := false
	for _, l := range levels {
		if l != "" {
			any = true
			break
		}
	}
	if !any {
		return []string{}
	}

	ids := make(map[string]struct{})
	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		if depth == Depth {
			for id := range n.songs {
				ids[id] = struct{}{}
			}
			return
		}
		want := levels[depth]
		for key, child := range n.children {
			if want != "" && key != want {
				continue
			}
			walk(child, depth+1)
		}
	}
	walk(e.root, 0)
	return sortedIDs(ids)
}

// Traverse visits every node exactly once in the requested order, passing
// each node's path and its song IDs. Mutating the tree from the visitor is
// undefined.
func (e *Explorer) Traverse(mode Mode, visit func(path []string, songIDs []string)) {
	type frame struct {
		n    *node
		path []string
	}

	if mode == BreadthFirst {
		queue := []frame{{n: e.root}}
		for len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]
			visit(f.path, sortedSet(f.n.songs))
			for _, child := range f.n.sortedChildren() {
				queue = append(queue, frame{n: child, path: appendPath(f.path, child.key)})
			}
		}
		return
	}

	stack := []frame{{n: e.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(f.path, sortedSet(f.n.songs))
		children := f.n.sortedChildren()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{n: children[i], path: appendPath(f.path, children[i].key)})
		}
	}
}

// Len returns the number of classified songs.
func (e *Explorer) Len() int {
	return len(e.paths)
}

func appendPath(path []string, key string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = key
	return out
}

func sortedSet(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	return sortedIDs(set)
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
