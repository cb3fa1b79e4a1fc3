// Package favorites ranks songs by cumulative listen time using a max-heap
// with lazy invalidation: heap entries are hints validated against a live
// value table at pop time.
package favorites

import (
	"container/heap"
	"errors"
)

var ErrInvalidDelta = errors.New("listen delta must be > 0 seconds")

// Entry is one ranked favorite.
type Entry struct {
	SongID          string `json:"song_id"`
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	TotalListenTime int    `json:"total_listen_time"`
}

type songInfo struct {
	title  string
	artist string
	seq    uint64 // registration order, the tie-break for equal listen time
}

// hint is a possibly-stale heap entry.
type hint struct {
	listenTime int
	seq        uint64
	songID     string
}

type hintHeap []hint

func (h hintHeap) Len() int { return len(h) }
func (h hintHeap) Less(i, j int) bool {
	if h[i].listenTime != h[j].listenTime {
		return h[i].listenTime > h[j].listenTime
	}
	return h[i].seq < h[j].seq
}
func (h hintHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *hintHeap) Push(x any)        { *h = append(*h, x.(hint)) }
func (h *hintHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue tracks cumulative listen time per song.
type Queue struct {
	live    map[string]int
	info    map[string]songInfo
	hints   hintHeap
	nextSeq uint64
}

// NewQueue creates an empty favorites queue.
func NewQueue() *Queue {
	return &Queue{
		live: make(map[string]int),
		info: make(map[string]songInfo),
	}
}

// Add registers a song with zero listen time. Already-tracked songs keep
// their accrued time.
func (q *Queue) Add(songID, title, artist string) {
	if _, ok := q.info[songID]; ok {
		return
	}
	q.info[songID] = songInfo{title: title, artist: artist, seq: q.nextSeq}
	q.nextSeq++
	if _, ok := q.live[songID]; !ok {
		q.live[songID] = 0
	}
}

// Tracked reports whether the song is registered.
func (q *Queue) Tracked(songID string) bool {
	_, ok := q.info[songID]
	return ok
}

// RecordListen accrues listen time and pushes a fresh heap hint; the stale
// hint for the previous total stays behind and is discarded lazily.
func (q *Queue) RecordListen(songID string, deltaSeconds int) error {
	if deltaSeconds <= 0 {
		return ErrInvalidDelta
	}
	info, ok := q.info[songID]
	if !ok {
		return nil // not tracked, nothing to accrue
	}
	q.live[songID] += deltaSeconds
	heap.Push(&q.hints, hint{
		listenTime: q.live[songID],
		seq:        info.seq,
		songID:     songID,
	})
	q.maybeCompact()
	return nil
}

// TopN returns the n songs with the highest cumulative listen time,
// descending, ties broken by registration order. Live entries popped during
// the query are pushed back so later queries still find them.
func (q *Queue) TopN(n int) []Entry {
	result := make([]Entry, 0, n)
	emitted := make(map[string]struct{})
	var keep []hint

	for len(result) < n && q.hints.Len() > 0 {
		h := heap.Pop(&q.hints).(hint)
		current, tracked := q.live[h.songID]
		_, known := q.info[h.songID]
		if !tracked || !known || current != h.listenTime {
			continue // stale hint, lazy delete
		}
		if _, dup := emitted[h.songID]; dup {
			keep = append(keep, h)
			continue
		}
		emitted[h.songID] = struct{}{}
		info := q.info[h.songID]
		result = append(result, Entry{
			SongID:          h.songID,
			Title:           info.title,
			Artist:          info.artist,
			TotalListenTime: current,
		})
		keep = append(keep, h)
	}

	for _, h := range keep {
		heap.Push(&q.hints, h)
	}
	return result
}

// ListenTime returns the accrued seconds for a song.
func (q *Queue) ListenTime(songID string) (int, bool) {
	v, ok := q.live[songID]
	return v, ok
}

// ListenTimes returns a copy of the live value table.
func (q *Queue) ListenTimes() map[string]int {
	out := make(map[string]int, len(q.live))
	for id, v := range q.live {
		out[id] = v
	}
	return out
}

// Remove stops tracking a song; its stale heap hints are discarded as they
// surface.
func (q *Queue) Remove(songID string) {
	delete(q.live, songID)
	delete(q.info, songID)
}

// Clear resets the queue completely.
func (q *Queue) Clear() {
	q.live = make(map[string]int)
	q.info = make(map[string]songInfo)
	q.hints = nil
}

// maybeCompact rebuilds the heap from the live table once stale hints
// dominate, bounding heap growth under heavy listen churn.
func (q *Queue) maybeCompact() {
	if len(q.live) == 0 || q.hints.Len() <= 4*len(q.live) {
		return
	}
	rebuilt := make(hintHeap, 0, len(q.live))
	for id, v := range q.live {
		info, ok := q.info[id]
		if !ok {
			continue
		}
		rebuilt = append(rebuilt, hint{listenTime: v, seq: info.seq, songID: id})
	}
	q.hints = rebuilt
	heap.Init(&q.hints)
}
