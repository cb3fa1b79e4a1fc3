// Package engine is the consistency facade over every catalog structure.
// All cross-structure operations (admission, cascade deletion, playback)
// happen here under a single lock, so no caller can observe a song present
// in one index and absent from another.
package engine

import (
	"errors"
	"sync"
	"time"

	"playwise/internal/blocklist"
	"playwise/internal/dashboard"
	"playwise/internal/explorer"
	"playwise/internal/favorites"
	"playwise/internal/history"
	"playwise/internal/lookup"
	"playwise/internal/models"
	"playwise/internal/playlist"
	"playwise/internal/rating"
	"playwise/internal/recommend"
)

// DefaultPlaylist is used when a caller passes an empty playlist ID.
const DefaultPlaylist = "main"

var (
	ErrSongNotFound     = errors.New("song not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
)

// Status classifies the outcome of an admission attempt. Policy rejections
// are values, not errors: a blocked artist is the system working as intended.
type Status string

const (
	StatusAdmitted          Status = "admitted"
	StatusBlockedArtist     Status = "blocked_artist"
	StatusDuplicateRejected Status = "duplicate_rejected"
)

// AdmissionResult reports what happened to a submitted song.
type AdmissionResult struct {
	Status    Status       `json:"status"`
	Song      *models.Song `json:"song,omitempty"`
	Position  int          `json:"position,omitempty"`
	EvictedID string       `json:"evicted_id,omitempty"`
	// ExistingID is set on duplicate rejection so clients can find the
	// song that holds the slot.
	ExistingID string `json:"existing_id,omitempty"`
}

// SongInput carries the caller-supplied fields of a new song. The ID is
// always generated server-side.
type SongInput struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration int    `json:"duration"`
	Genre    string `json:"genre"`
	Subgenre string `json:"subgenre"`
	Mood     string `json:"mood"`
	BPM      int    `json:"bpm"`
	Rating   int    `json:"rating"`
}

// Options configures a new engine.
type Options struct {
	DedupePolicy lookup.Policy
	SkipCapacity int
	UndoHistory  int
	WindowSize   int
}

// Engine owns every catalog structure and the per-playlist sequences.
type Engine struct {
	mu sync.RWMutex

	songs       *lookup.Map
	cleaner     *lookup.DuplicateCleaner
	blocked     *blocklist.ArtistBlocklist
	ratings     *rating.BST
	favorites   *favorites.Queue
	explorer    *explorer.Explorer
	played      *history.Stack
	skipped     *history.SkippedTracker
	recommender *recommend.Recommender
	shuffler    *playlist.Shuffler

	playlists map[string]*playlist.Engine
	undoLogs  map[string]*playlist.ActionLog
	undoMax   int
}

// metaSource resolves recommender metadata from the lookup map. It is only
// called while the engine lock is held.
type metaSource struct {
	songs *lookup.Map
}

func (s metaSource) Meta(songID string) (recommend.Meta, bool) {
	song, ok := s.songs.ByID(songID)
	if !ok {
		return recommend.Meta{}, false
	}
	return recommend.Meta{
		Genre:    song.Genre,
		Subgenre: song.Subgenre,
		Mood:     song.Mood,
		Artist:   song.Artist,
		Duration: song.Duration,
		BPM:      song.BPM,
	}, true
}

// New creates an engine with an empty catalog and the default playlist.
func New(opts Options) *Engine {
	e := &Engine{
		songs:     lookup.NewMap(),
		cleaner:   lookup.NewDuplicateCleaner(opts.DedupePolicy),
		blocked:   blocklist.New(),
		ratings:   rating.NewBST(),
		favorites: favorites.NewQueue(),
		explorer:  explorer.New(),
		played:    history.NewStack(),
		skipped:   history.NewSkippedTracker(opts.SkipCapacity),
		shuffler:  playlist.NewShuffler(nil),
		playlists: make(map[string]*playlist.Engine),
		undoLogs:  make(map[string]*playlist.ActionLog),
		undoMax:   opts.UndoHistory,
	}
	e.recommender = recommend.New(e.explorer, e.skipped, metaSource{songs: e.songs}, e.favorites, opts.WindowSize)
	e.playlists[DefaultPlaylist] = playlist.NewEngine()
	return e
}

func normalizePlaylistID(id string) string {
	if id == "" {
		return DefaultPlaylist
	}
	return id
}

// getPlaylist returns the playlist, creating it lazily. Lock must be held.
func (e *Engine) getPlaylist(id string) *playlist.Engine {
	id = normalizePlaylistID(id)
	p, ok := e.playlists[id]
	if !ok {
		p = playlist.NewEngine()
		e.playlists[id] = p
	}
	return p
}

func (e *Engine) undoLog(id string) *playlist.ActionLog {
	id = normalizePlaylistID(id)
	l, ok := e.undoLogs[id]
	if !ok {
		l = playlist.NewActionLog(e.undoMax)
		e.undoLogs[id] = l
	}
	return l
}

// AddSong runs the admission pipeline: blocklist gate, duplicate policy,
// then registration across every index. The returned result distinguishes
// policy rejections from validation errors.
func (e *Engine) AddSong(playlistID string, in SongInput) (AdmissionResult, error) {
	if in.Rating != 0 && !models.ValidRating(in.Rating) {
		return AdmissionResult{}, models.ErrInvalidRating
	}
	song, err := models.NewSong(in.Title, in.Artist, in.Duration)
	if err != nil {
		return AdmissionResult{}, err
	}
	song.Genre = in.Genre
	song.Subgenre = in.Subgenre
	song.Mood = in.Mood
	song.BPM = in.BPM
	song.Rating = in.Rating

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.blocked.IsBlocked(in.Artist) {
		return AdmissionResult{Status: StatusBlockedArtist}, nil
	}

	result := AdmissionResult{Status: StatusAdmitted}
	if existingID, dup := e.cleaner.ExistingID(in.Title, in.Artist); dup {
		if e.cleaner.Policy() == lookup.KeepFirst {
			return AdmissionResult{Status: StatusDuplicateRejected, ExistingID: existingID}, nil
		}
		// Latest wins: the previous holder leaves every index first.
		if evicted, ok := e.songs.ByID(existingID); ok {
			e.removeEverywhere(evicted)
			result.EvictedID = existingID
		}
	}

	pos := e.admit(playlistID, song)
	result.Song = song
	result.Position = pos

	songID := song.ID
	pid := normalizePlaylistID(playlistID)
	e.undoLog(pid).Record(playlist.ActionAdd, func() {
		if s, ok := e.songs.ByID(songID); ok {
			e.removeEverywhere(s)
		}
	})
	return result, nil
}

// admit registers an already-validated song everywhere. Lock must be held.
func (e *Engine) admit(playlistID string, song *models.Song) int {
	pos, _ := e.getPlaylist(playlistID).Add(song)
	e.songs.Put(song)
	e.cleaner.Register(song.ID, song.Title, song.Artist)
	e.explorer.Add(song.ID, song.Genre, song.Subgenre, song.Mood, song.Artist)
	e.favorites.Add(song.ID, song.Title, song.Artist)
	if song.Rating != 0 {
		e.ratings.Insert(song.ID, song.Rating)
	}
	return pos
}

// removeEverywhere cascades a song out of every structure. Lock must be held.
func (e *Engine) removeEverywhere(song *models.Song) {
	for _, p := range e.playlists {
		if idx := p.IndexOf(song.ID); idx >= 0 {
			p.Delete(idx)
		}
	}
	e.songs.Remove(song.ID)
	e.cleaner.Deregister(song.ID, song.Title, song.Artist)
	e.ratings.Delete(song.ID)
	e.explorer.Remove(song.ID)
	e.favorites.Remove(song.ID)
	e.recommender.Forget(song.ID)
	e.skipped.Forget(song.ID)
}

// DeleteSong removes the song at index from the playlist and cascades the
// removal across every index.
func (e *Engine) DeleteSong(playlistID string, index int) (*models.Song, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pid := normalizePlaylistID(playlistID)
	p, ok := e.playlists[pid]
	if !ok {
		return nil, ErrPlaylistNotFound
	}
	song, err := p.Delete(index)
	if err != nil {
		return nil, err
	}
	// One catalog entry can sit in several playlists after a merge; the
	// cascade clears every membership, not just the addressed one.
	otherPositions := make(map[string]int)
	for id, pl := range e.playlists {
		for idx := pl.IndexOf(song.ID); idx >= 0; idx = pl.IndexOf(song.ID) {
			pl.Delete(idx)
			otherPositions[id] = idx
		}
	}
	prevListen, _ := e.favorites.ListenTime(song.ID)
	e.songs.Remove(song.ID)
	e.cleaner.Deregister(song.ID, song.Title, song.Artist)
	e.ratings.Delete(song.ID)
	e.explorer.Remove(song.ID)
	e.favorites.Remove(song.ID)
	e.recommender.Forget(song.ID)
	e.skipped.Forget(song.ID)

	restored := song
	at := index
	e.undoLog(pid).Record(playlist.ActionDelete, func() {
		e.getPlaylist(pid).InsertAt(restored, at)
		for id, idx := range otherPositions {
			e.getPlaylist(id).InsertAt(restored, idx)
		}
		e.songs.Put(restored)
		e.cleaner.Register(restored.ID, restored.Title, restored.Artist)
		e.explorer.Add(restored.ID, restored.Genre, restored.Subgenre, restored.Mood, restored.Artist)
		e.favorites.Add(restored.ID, restored.Title, restored.Artist)
		if prevListen > 0 {
			e.favorites.RecordListen(restored.ID, prevListen)
		}
		if restored.Rating != 0 {
			e.ratings.Insert(restored.ID, restored.Rating)
		}
	})
	return song, nil
}

// MoveSong repositions a song within a playlist.
func (e *Engine) MoveSong(playlistID string, from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pid := normalizePlaylistID(playlistID)
	p, ok := e.playlists[pid]
	if !ok {
		return ErrPlaylistNotFound
	}
	if err := p.Move(from, to); err != nil {
		return err
	}
	// Resolve through the map at undo time: a later shuffle replaces the
	// playlist object, so a captured pointer would mutate an orphan.
	e.undoLog(pid).Record(playlist.ActionMove, func() {
		e.getPlaylist(pid).Move(to, from)
	})
	return nil
}

// ReversePlaylist flips the playlist order in place.
func (e *Engine) ReversePlaylist(playlistID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pid := normalizePlaylistID(playlistID)
	p, ok := e.playlists[pid]
	if !ok {
		return ErrPlaylistNotFound
	}
	p.Reverse()
	e.undoLog(pid).Record(playlist.ActionReverse, func() {
		e.getPlaylist(pid).Reverse()
	})
	return nil
}

// ShuffleConstrained reorders the playlist avoiding consecutive artists
// where an arrangement exists.
func (e *Engine) ShuffleConstrained(playlistID string) ([]*models.Song, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pid := normalizePlaylistID(playlistID)
	p, ok := e.playlists[pid]
	if !ok {
		return nil, ErrPlaylistNotFound
	}
	before := p.GetAll()
	shuffled := e.shuffler.Shuffle(before)
	e.playlists[pid] = rebuild(shuffled)

	e.undoLog(pid).Record(playlist.ActionShuffle, func() {
		e.playlists[pid] = rebuild(before)
	})
	return shuffled, nil
}

// rebuild constructs a playlist holding the given order.
func rebuild(songs []*models.Song) *playlist.Engine {
	p := playlist.NewEngine()
	for _, s := range songs {
		p.Add(s)
	}
	return p
}

// MergeAlternating interleaves two playlists into a new one, leaving the
// sources untouched.
func (e *Engine) MergeAlternating(aID, bID, destID string) ([]*models.Song, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.playlists[normalizePlaylistID(aID)]
	if !ok {
		return nil, ErrPlaylistNotFound
	}
	b, ok := e.playlists[normalizePlaylistID(bID)]
	if !ok {
		return nil, ErrPlaylistNotFound
	}
	merged := playlist.MergeAlternating(a.GetAll(), b.GetAll())
	e.playlists[normalizePlaylistID(destID)] = rebuild(merged)
	return merged, nil
}

// Songs returns an ordered snapshot of a playlist.
func (e *Engine) Songs(playlistID string) ([]*models.Song, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, ok := e.playlists[normalizePlaylistID(playlistID)]
	if !ok {
		return nil, ErrPlaylistNotFound
	}
	return p.GetAll(), nil
}

// UndoLastN reverts up to n edits on a playlist, newest first.
func (e *Engine) UndoLastN(playlistID string, n int) []playlist.ActionType {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undoLog(playlistID).UndoLastN(n)
}

// EditHistory returns the recorded edit types for a playlist, oldest first.
func (e *Engine) EditHistory(playlistID string) []playlist.ActionType {
	e.mu.RLock()
	defer e.mu.RUnlock()
	l, ok := e.undoLogs[normalizePlaylistID(playlistID)]
	if !ok {
		return nil
	}
	return l.History()
}

// RateSong sets a song's rating, migrating it between rating buckets.
func (e *Engine) RateSong(songID string, r int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	song, ok := e.songs.ByID(songID)
	if !ok {
		return ErrSongNotFound
	}
	if err := e.ratings.Insert(songID, r); err != nil {
		return err
	}
	return song.SetRating(r)
}

// SongsByRating returns the songs holding a given rating.
func (e *Engine) SongsByRating(r int) ([]*models.Song, error) {
	if !models.ValidRating(r) {
		return nil, rating.ErrInvalidRating
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resolve(e.ratings.Search(r)), nil
}

// RatingDistribution returns song counts per rating.
func (e *Engine) RatingDistribution() map[int]int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ratings.Distribution()
}

// PlaySong records a playback: history push, recommender window update and
// listen-time accrual for the song's full duration.
func (e *Engine) PlaySong(songID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	song, ok := e.songs.ByID(songID)
	if !ok {
		return ErrSongNotFound
	}
	e.played.Push(song)
	e.recommender.RecordPlay(songID, time.Now(), song.Duration, recommend.Meta{
		Genre:    song.Genre,
		Subgenre: song.Subgenre,
		Mood:     song.Mood,
		Artist:   song.Artist,
		Duration: song.Duration,
		BPM:      song.BPM,
	})
	if song.Duration > 0 {
		e.favorites.RecordListen(songID, song.Duration)
	}
	return nil
}

// SkipSong marks a song as recently skipped.
func (e *Engine) SkipSong(songID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.songs.ByID(songID); !ok {
		return ErrSongNotFound
	}
	e.skipped.Skip(songID)
	return nil
}

// RecordListen accrues explicit listen time for a song.
func (e *Engine) RecordListen(songID string, deltaSeconds int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.songs.ByID(songID); !ok {
		return ErrSongNotFound
	}
	return e.favorites.RecordListen(songID, deltaSeconds)
}

// TopFavorites returns the n songs with the most accrued listen time.
func (e *Engine) TopFavorites(n int) []favorites.Entry {
	e.mu.Lock() // TopN rebalances the heap internally
	defer e.mu.Unlock()
	return e.favorites.TopN(n)
}

// Recommend produces up to topN suggestions seeded from recent plays,
// excluding the given playlist's current songs.
func (e *Engine) Recommend(seedCount, topN int, excludePlaylistID string) []recommend.Recommendation {
	e.mu.Lock() // the recommender queries mutable shared structures
	defer e.mu.Unlock()

	exclude := make(map[string]struct{})
	if p, ok := e.playlists[normalizePlaylistID(excludePlaylistID)]; ok {
		for _, s := range p.GetAll() {
			exclude[s.ID] = struct{}{}
		}
	}
	return e.recommender.Recommend(seedCount, topN, exclude)
}

// BlockArtist adds an artist to the admission blocklist.
func (e *Engine) BlockArtist(artist string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blocked.Block(artist)
}

// UnblockArtist removes an artist from the blocklist.
func (e *Engine) UnblockArtist(artist string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.blocked.Unblock(artist)
}

// BlockedArtists lists the normalized blocked names.
func (e *Engine) BlockedArtists() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.blocked.Blocked()
}

// SongByID resolves a song through the lookup map.
func (e *Engine) SongByID(songID string) (*models.Song, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.songs.ByID(songID)
}

// SongByTitle resolves a song by normalized title.
func (e *Engine) SongByTitle(title string) (*models.Song, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.songs.ByTitle(title)
}

// ExplorerSearch returns the songs matching a partial classification path.
func (e *Engine) ExplorerSearch(c explorer.Criteria) []*models.Song {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resolve(e.explorer.Search(c))
}

// RecentlyPlayed returns up to n plays, most recent first.
func (e *Engine) RecentlyPlayed(n int) []*models.Song {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.played.Recent(n)
}

// RecentlySkipped returns the skip window, oldest first.
func (e *Engine) RecentlySkipped() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.skipped.Recent()
}

// Snapshot assembles the live dashboard for a playlist under one consistent
// view of every structure.
func (e *Engine) Snapshot(playlistID string) (dashboard.Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, ok := e.playlists[normalizePlaylistID(playlistID)]
	if !ok {
		return dashboard.Snapshot{}, ErrPlaylistNotFound
	}
	return dashboard.Build(p.GetAll(), e.played.Recent(5), e.played.Len(), e.ratings.Distribution(), time.Now()), nil
}

// resolve maps song IDs onto catalog songs, dropping unknown IDs. Lock must
// be held.
func (e *Engine) resolve(ids []string) []*models.Song {
	out := make([]*models.Song, 0, len(ids))
	for _, id := range ids {
		if song, ok := e.songs.ByID(id); ok {
			out = append(out, song)
		}
	}
	return out
}
