package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playwise/internal/cache"
	"playwise/internal/engine"
	"playwise/internal/lookup"
	"playwise/internal/models"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *engine.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	eng := engine.New(engine.Options{
		DedupePolicy: lookup.KeepFirst,
		SkipCapacity: 10,
		UndoHistory:  50,
	})
	handler := NewCatalogHandler(eng, cache.NewMemoryCache(16), time.Minute)
	return SetupRouter(handler), eng
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func addSong(t *testing.T, router *gin.Engine, playlistID string, in engine.SongInput) *models.Song {
	t.Helper()
	rec := doJSON(t, router, "POST", "/api/v1/playlists/"+playlistID+"/songs", in)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result engine.AdmissionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.Song)
	return result.Song
}

func TestAddSong_Created(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/playlists/main/songs", engine.SongInput{
		Title: "Blue in Green", Artist: "Miles Davis", Duration: 337, Genre: "Jazz",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var result engine.AdmissionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, engine.StatusAdmitted, result.Status)
	assert.NotEmpty(t, result.Song.ID)
}

func TestAddSong_InvalidBody(t *testing.T) {
	router, _ := setupTestRouter(t)

	req, _ := http.NewRequest("POST", "/api/v1/playlists/main/songs", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddSong_ValidationError(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/playlists/main/songs", engine.SongInput{
		Title: "", Artist: "Someone", Duration: 100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddSong_BlockedArtist(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/blocklist", BlockRequest{Artist: "Nickelback"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "POST", "/api/v1/playlists/main/songs", engine.SongInput{
		Title: "Photograph", Artist: "Nickelback", Duration: 258,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var result engine.AdmissionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, engine.StatusBlockedArtist, result.Status)
}

func TestAddSong_Duplicate(t *testing.T) {
	router, _ := setupTestRouter(t)
	addSong(t, router, "main", engine.SongInput{Title: "So What", Artist: "Miles Davis", Duration: 545})

	rec := doJSON(t, router, "POST", "/api/v1/playlists/main/songs", engine.SongInput{
		Title: "so what", Artist: "MILES DAVIS", Duration: 500,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetSongs(t *testing.T) {
	router, _ := setupTestRouter(t)
	addSong(t, router, "main", engine.SongInput{Title: "A", Artist: "X", Duration: 100})
	addSong(t, router, "main", engine.SongInput{Title: "B", Artist: "Y", Duration: 200})

	rec := doJSON(t, router, "GET", "/api/v1/playlists/main/songs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Songs []models.Song `json:"songs"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "A", resp.Songs[0].Title)
}

func TestDeleteSong(t *testing.T) {
	router, _ := setupTestRouter(t)
	song := addSong(t, router, "main", engine.SongInput{Title: "A", Artist: "X", Duration: 100})

	rec := doJSON(t, router, "DELETE", "/api/v1/playlists/main/songs/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Removed models.Song `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, song.ID, resp.Removed.ID)

	rec = doJSON(t, router, "DELETE", "/api/v1/playlists/main/songs/0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, "DELETE", "/api/v1/playlists/main/songs/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoveReverseUndo(t *testing.T) {
	router, _ := setupTestRouter(t)
	a := addSong(t, router, "main", engine.SongInput{Title: "A", Artist: "X", Duration: 100})
	b := addSong(t, router, "main", engine.SongInput{Title: "B", Artist: "Y", Duration: 100})

	rec := doJSON(t, router, "POST", "/api/v1/playlists/main/move", MoveRequest{From: 0, To: 1})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "POST", "/api/v1/playlists/main/reverse", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "POST", "/api/v1/playlists/main/undo", UndoRequest{Count: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Songs []models.Song `json:"songs"`
	}
	rec = doJSON(t, router, "GET", "/api/v1/playlists/main/songs", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Songs, 2)
	assert.Equal(t, a.ID, resp.Songs[0].ID)
	assert.Equal(t, b.ID, resp.Songs[1].ID)

	rec = doJSON(t, router, "POST", "/api/v1/playlists/main/move", MoveRequest{From: 0, To: 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMergePlaylists(t *testing.T) {
	router, _ := setupTestRouter(t)
	addSong(t, router, "a", engine.SongInput{Title: "A1", Artist: "X", Duration: 100})
	addSong(t, router, "b", engine.SongInput{Title: "B1", Artist: "Y", Duration: 100})

	rec := doJSON(t, router, "POST", "/api/v1/playlists/merge", MergeRequest{
		SourceA: "a", SourceB: "b", Destination: "mix",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestPlaySkipListenRating(t *testing.T) {
	router, _ := setupTestRouter(t)
	song := addSong(t, router, "main", engine.SongInput{Title: "A", Artist: "X", Duration: 100})

	rec := doJSON(t, router, "POST", "/api/v1/songs/"+song.ID+"/play", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "POST", "/api/v1/songs/"+song.ID+"/skip", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "POST", "/api/v1/songs/"+song.ID+"/listen", ListenRequest{Seconds: 30})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "POST", "/api/v1/songs/"+song.ID+"/listen", ListenRequest{Seconds: -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, "PUT", "/api/v1/songs/"+song.ID+"/rating", RatingRequest{Rating: 4})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "PUT", "/api/v1/songs/"+song.ID+"/rating", RatingRequest{Rating: 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, "POST", "/api/v1/songs/unknown/play", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, "GET", "/api/v1/ratings/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Songs []models.Song `json:"songs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Songs, 1)
	assert.Equal(t, song.ID, resp.Songs[0].ID)
}

func TestFavoritesAndRecommendations(t *testing.T) {
	router, _ := setupTestRouter(t)
	seed := addSong(t, router, "main", engine.SongInput{Title: "Seed", Artist: "X", Duration: 300, Genre: "Jazz"})
	match := addSong(t, router, "library", engine.SongInput{Title: "Match", Artist: "Y", Duration: 310, Genre: "Jazz"})

	rec := doJSON(t, router, "POST", "/api/v1/songs/"+seed.ID+"/play", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/v1/favorites?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var favResp struct {
		Favorites []struct {
			SongID string `json:"song_id"`
		} `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &favResp))
	require.NotEmpty(t, favResp.Favorites)
	assert.Equal(t, seed.ID, favResp.Favorites[0].SongID)

	rec = doJSON(t, router, "GET", "/api/v1/recommendations?exclude_playlist=main", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recResp struct {
		Recommendations []struct {
			SongID string `json:"song_id"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recResp))
	require.NotEmpty(t, recResp.Recommendations)
	assert.Equal(t, match.ID, recResp.Recommendations[0].SongID)
}

func TestSearchExplorer(t *testing.T) {
	router, _ := setupTestRouter(t)
	jazz := addSong(t, router, "main", engine.SongInput{Title: "A", Artist: "X", Duration: 100, Genre: "Jazz", Mood: "Calm"})
	addSong(t, router, "main", engine.SongInput{Title: "B", Artist: "Y", Duration: 100, Genre: "Metal"})

	rec := doJSON(t, router, "GET", "/api/v1/explorer/search?genre=Jazz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Songs []models.Song `json:"songs"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, jazz.ID, resp.Songs[0].ID)

	// Empty criteria yield an empty result, not the whole catalog
	rec = doJSON(t, router, "GET", "/api/v1/explorer/search", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
}

func TestBlocklistEndpoints(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/blocklist", BlockRequest{Artist: "Bad Artist"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/v1/blocklist", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Blocked []string `json:"blocked"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"bad artist"}, resp.Blocked)

	rec = doJSON(t, router, "DELETE", "/api/v1/blocklist/bad%20artist", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "DELETE", "/api/v1/blocklist/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSnapshotAndHealth(t *testing.T) {
	router, _ := setupTestRouter(t)
	addSong(t, router, "main", engine.SongInput{Title: "A", Artist: "X", Duration: 100})

	rec := doJSON(t, router, "GET", "/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap struct {
		SystemOverview struct {
			TotalSongsInPlaylist int `json:"total_songs_in_playlist"`
		} `json:"system_overview"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.SystemOverview.TotalSongsInPlaylist)

	// A write invalidates the cached snapshot
	addSong(t, router, "main", engine.SongInput{Title: "B", Artist: "Y", Duration: 100})
	rec = doJSON(t, router, "GET", "/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 2, snap.SystemOverview.TotalSongsInPlaylist)

	rec = doJSON(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
