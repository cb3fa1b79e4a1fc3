// Package handlers exposes the engine over a gin REST facade. Handlers do
// no catalog logic of their own: they bind, delegate and map outcomes to
// status codes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"playwise/internal/cache"
	"playwise/internal/engine"
	"playwise/internal/explorer"
	"playwise/internal/favorites"
	"playwise/internal/models"
	"playwise/internal/playlist"
	"playwise/internal/rating"
)

// CatalogHandler handles all catalog requests.
type CatalogHandler struct {
	engine      *engine.Engine
	cache       cache.Cache
	snapshotTTL time.Duration
}

// NewCatalogHandler creates a handler; cache may be nil to disable snapshot
// caching.
func NewCatalogHandler(eng *engine.Engine, c cache.Cache, snapshotTTL time.Duration) *CatalogHandler {
	return &CatalogHandler{engine: eng, cache: c, snapshotTTL: snapshotTTL}
}

// MoveRequest repositions a song inside a playlist.
type MoveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// UndoRequest reverts the last N playlist edits.
type UndoRequest struct {
	Count int `json:"count"`
}

// MergeRequest interleaves two playlists into a destination playlist.
type MergeRequest struct {
	SourceA     string `json:"source_a" binding:"required"`
	SourceB     string `json:"source_b" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

// ListenRequest accrues listen time for a song.
type ListenRequest struct {
	Seconds int `json:"seconds" binding:"required"`
}

// RatingRequest sets a song's rating.
type RatingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// BlockRequest adds an artist to the blocklist.
type BlockRequest struct {
	Artist string `json:"artist" binding:"required"`
}

// AddSong handles POST /api/v1/playlists/:id/songs
func (h *CatalogHandler) AddSong(c *gin.Context) {
	var req engine.SongInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.engine.AddSong(c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	switch result.Status {
	case engine.StatusBlockedArtist:
		c.JSON(http.StatusForbidden, result)
	case engine.StatusDuplicateRejected:
		c.JSON(http.StatusConflict, result)
	default:
		h.invalidateSnapshot(c.Request.Context(), c.Param("id"))
		c.JSON(http.StatusCreated, result)
	}
}

// GetSongs handles GET /api/v1/playlists/:id/songs
func (h *CatalogHandler) GetSongs(c *gin.Context) {
	songs, err := h.engine.Songs(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlist_id": c.Param("id"), "songs": songs, "count": len(songs)})
}

// DeleteSong handles DELETE /api/v1/playlists/:id/songs/:index
func (h *CatalogHandler) DeleteSong(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}
	song, err := h.engine.DeleteSong(c.Param("id"), index)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.invalidateSnapshot(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"removed": song})
}

// MoveSong handles POST /api/v1/playlists/:id/move
func (h *CatalogHandler) MoveSong(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.engine.MoveSong(c.Param("id"), req.From, req.To); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "moved"})
}

// ReversePlaylist handles POST /api/v1/playlists/:id/reverse
func (h *CatalogHandler) ReversePlaylist(c *gin.Context) {
	if err := h.engine.ReversePlaylist(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reversed"})
}

// ShufflePlaylist handles POST /api/v1/playlists/:id/shuffle
func (h *CatalogHandler) ShufflePlaylist(c *gin.Context) {
	songs, err := h.engine.ShuffleConstrained(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"songs": songs})
}

// Undo handles POST /api/v1/playlists/:id/undo
func (h *CatalogHandler) Undo(c *gin.Context) {
	var req UndoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}
	undone := h.engine.UndoLastN(c.Param("id"), req.Count)
	h.invalidateSnapshot(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"undone": undone})
}

// MergePlaylists handles POST /api/v1/playlists/merge
func (h *CatalogHandler) MergePlaylists(c *gin.Context) {
	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	merged, err := h.engine.MergeAlternating(req.SourceA, req.SourceB, req.Destination)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlist_id": req.Destination, "songs": merged, "count": len(merged)})
}

// GetSong handles GET /api/v1/songs/:id
func (h *CatalogHandler) GetSong(c *gin.Context) {
	song, ok := h.engine.SongByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
		return
	}
	c.JSON(http.StatusOK, song)
}

// PlaySong handles POST /api/v1/songs/:id/play
func (h *CatalogHandler) PlaySong(c *gin.Context) {
	if err := h.engine.PlaySong(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "played"})
}

// SkipSong handles POST /api/v1/songs/:id/skip
func (h *CatalogHandler) SkipSong(c *gin.Context) {
	if err := h.engine.SkipSong(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "skipped"})
}

// RecordListen handles POST /api/v1/songs/:id/listen
func (h *CatalogHandler) RecordListen(c *gin.Context) {
	var req ListenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.engine.RecordListen(c.Param("id"), req.Seconds); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

// RateSong handles PUT /api/v1/songs/:id/rating
func (h *CatalogHandler) RateSong(c *gin.Context) {
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.engine.RateSong(c.Param("id"), req.Rating); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rated", "rating": req.Rating})
}

// SongsByRating handles GET /api/v1/ratings/:rating
func (h *CatalogHandler) SongsByRating(c *gin.Context) {
	r, err := strconv.Atoi(c.Param("rating"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be an integer"})
		return
	}
	songs, err := h.engine.SongsByRating(r)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": r, "songs": songs})
}

// BlockArtist handles POST /api/v1/blocklist
func (h *CatalogHandler) BlockArtist(c *gin.Context) {
	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	h.engine.BlockArtist(req.Artist)
	c.JSON(http.StatusOK, gin.H{"blocked": h.engine.BlockedArtists()})
}

// UnblockArtist handles DELETE /api/v1/blocklist/:artist
func (h *CatalogHandler) UnblockArtist(c *gin.Context) {
	if !h.engine.UnblockArtist(c.Param("artist")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not on blocklist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": h.engine.BlockedArtists()})
}

// GetBlocklist handles GET /api/v1/blocklist
func (h *CatalogHandler) GetBlocklist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"blocked": h.engine.BlockedArtists()})
}

// GetFavorites handles GET /api/v1/favorites
func (h *CatalogHandler) GetFavorites(c *gin.Context) {
	limit := intQuery(c, "limit", 10)
	entries := h.engine.TopFavorites(limit)
	if entries == nil {
		entries = []favorites.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"favorites": entries})
}

// GetRecommendations handles GET /api/v1/recommendations
func (h *CatalogHandler) GetRecommendations(c *gin.Context) {
	seeds := intQuery(c, "seeds", 0)
	limit := intQuery(c, "limit", 0)
	recs := h.engine.Recommend(seeds, limit, c.Query("exclude_playlist"))
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// SearchExplorer handles GET /api/v1/explorer/search
func (h *CatalogHandler) SearchExplorer(c *gin.Context) {
	criteria := explorer.Criteria{
		Genre:    c.Query("genre"),
		Subgenre: c.Query("subgenre"),
		Mood:     c.Query("mood"),
		Artist:   c.Query("artist"),
	}
	songs := h.engine.ExplorerSearch(criteria)
	c.JSON(http.StatusOK, gin.H{"songs": songs, "count": len(songs)})
}

// GetSnapshot handles GET /snapshot. Responses are cached per playlist for
// the configured TTL; a brief staleness window is acceptable for a
// monitoring view.
func (h *CatalogHandler) GetSnapshot(c *gin.Context) {
	playlistID := c.DefaultQuery("playlist", engine.DefaultPlaylist)

	key := snapshotKey(playlistID)
	if h.cache != nil {
		if data, err := h.cache.Get(c.Request.Context(), key); err == nil && data != nil {
			c.Data(http.StatusOK, "application/json", data)
			return
		}
	}

	snap, err := h.engine.Snapshot(playlistID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.cache != nil {
		if data, err := json.Marshal(snap); err == nil {
			if err := h.cache.Set(c.Request.Context(), key, data, h.snapshotTTL); err != nil {
				slog.Warn("snapshot cache write failed", "key", key, "error", err)
			}
		}
	}
	c.JSON(http.StatusOK, snap)
}

// Health handles GET /health
func (h *CatalogHandler) Health(c *gin.Context) {
	status := gin.H{"status": "ok"}
	if h.cache != nil {
		if err := h.cache.Health(c.Request.Context()); err != nil {
			status["cache"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["cache"] = "ok"
	}
	c.JSON(http.StatusOK, status)
}

func (h *CatalogHandler) invalidateSnapshot(ctx context.Context, playlistID string) {
	if h.cache == nil {
		return
	}
	if playlistID == "" {
		playlistID = engine.DefaultPlaylist
	}
	if err := h.cache.Delete(ctx, snapshotKey(playlistID)); err != nil {
		slog.Warn("snapshot cache invalidation failed", "playlist", playlistID, "error", err)
	}
}

func snapshotKey(playlistID string) string {
	return "snapshot:" + playlistID
}

// fail maps engine errors to HTTP status codes.
func (h *CatalogHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrSongNotFound), errors.Is(err, engine.ErrPlaylistNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, playlist.ErrIndexOutOfBounds),
		errors.Is(err, models.ErrInvalidRating),
		errors.Is(err, rating.ErrInvalidRating),
		errors.Is(err, favorites.ErrInvalidDelta),
		errors.Is(err, models.ErrEmptyTitle),
		errors.Is(err, models.ErrEmptyArtist),
		errors.Is(err, models.ErrBadDuration):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
