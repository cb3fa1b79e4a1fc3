package integration

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playwise/internal/cache"
	"playwise/internal/client"
	"playwise/internal/engine"
	"playwise/internal/handlers"
	"playwise/internal/lookup"
	"playwise/internal/testutil"
)

func startServer(t *testing.T) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	eng := engine.New(engine.Options{
		DedupePolicy: lookup.KeepFirst,
		SkipCapacity: 10,
		UndoHistory:  50,
	})
	handler := handlers.NewCatalogHandler(eng, cache.NewMemoryCache(16), time.Second)
	server := httptest.NewServer(handlers.SetupRouter(handler))
	t.Cleanup(server.Close)

	return client.New(server.URL)
}

func TestAPI_EndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := startServer(t)
	require.NoError(t, api.Health(ctx))
	require.NoError(t, api.BlockArtist(ctx, "Blocked Artist"))

	// Admit three songs, one submission blocked, one duplicate rejected
	first, err := api.AddSong(ctx, "main", testutil.NewSongBuilder().
		WithTitle("Blue in Green").WithArtist("Miles Davis").WithDuration(337).WithGenre("Jazz").Build())
	require.NoError(t, err)
	require.Equal(t, engine.StatusAdmitted, first.Status)

	blocked, err := api.AddSong(ctx, "main", testutil.NewSongBuilder().
		WithTitle("Anything").WithArtist("Blocked Artist").Build())
	require.NoError(t, err)
	assert.Equal(t, engine.StatusBlockedArtist, blocked.Status)

	dup, err := api.AddSong(ctx, "main", testutil.NewSongBuilder().
		WithTitle("  blue IN green ").WithArtist("miles davis").WithDuration(300).Build())
	require.NoError(t, err)
	assert.Equal(t, engine.StatusDuplicateRejected, dup.Status)
	assert.Equal(t, first.Song.ID, dup.ExistingID)

	second, err := api.AddSong(ctx, "main", testutil.NewSongBuilder().
		WithTitle("So What").WithArtist("Miles Davis").WithDuration(545).WithGenre("Jazz").WithRating(5).Build())
	require.NoError(t, err)
	require.Equal(t, engine.StatusAdmitted, second.Status)

	songs, err := api.Songs(ctx, "main")
	require.NoError(t, err)
	assert.Len(t, songs, 2)

	// Playback and ratings flow through to favorites and the snapshot
	require.NoError(t, api.PlaySong(ctx, first.Song.ID))
	require.NoError(t, api.RecordListen(ctx, first.Song.ID, 60))
	require.NoError(t, api.RateSong(ctx, first.Song.ID, 4))

	favs, err := api.Favorites(ctx, 5)
	require.NoError(t, err)
	require.NotEmpty(t, favs)
	assert.Equal(t, first.Song.ID, favs[0].SongID)
	assert.Equal(t, 397, favs[0].TotalListenTime)

	snap, err := api.Snapshot(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.SystemOverview.TotalSongsInPlaylist)
	assert.Equal(t, 882, snap.SystemOverview.TotalDurationSeconds)
	assert.Equal(t, 1, snap.SystemOverview.TotalPlaybackHistory)
	assert.Equal(t, map[int]int{4: 1, 5: 1}, snap.SongCountByRating)

	// A library song with matching genre gets recommended
	library, err := api.AddSong(ctx, "library", testutil.NewSongBuilder().
		WithTitle("Freddie Freeloader").WithArtist("Wynton Kelly").WithDuration(340).WithGenre("Jazz").Build())
	require.NoError(t, err)
	require.Equal(t, engine.StatusAdmitted, library.Status)

	recs, err := api.Recommendations(ctx, "main")
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Equal(t, library.Song.ID, recs[0].SongID)

	// Deleting a song frees its composite key
	removed, err := api.DeleteSong(ctx, "main", 0)
	require.NoError(t, err)
	assert.Equal(t, first.Song.ID, removed.ID)

	readd, err := api.AddSong(ctx, "main", testutil.NewSongBuilder().
		WithTitle("Blue in Green").WithArtist("Miles Davis").WithDuration(337).Build())
	require.NoError(t, err)
	assert.Equal(t, engine.StatusAdmitted, readd.Status)
}

func TestAPI_SkipExcludesFromRecommendations(t *testing.T) {
	ctx := context.Background()
	api := startServer(t)

	seed, err := api.AddSong(ctx, "main", testutil.NewSongBuilder().
		WithTitle("Seed").WithArtist("X").WithGenre("Jazz").Build())
	require.NoError(t, err)

	candidate, err := api.AddSong(ctx, "library", testutil.NewSongBuilder().
		WithTitle("Candidate").WithArtist("Y").WithGenre("Jazz").Build())
	require.NoError(t, err)

	require.NoError(t, api.PlaySong(ctx, seed.Song.ID))
	require.NoError(t, api.SkipSong(ctx, candidate.Song.ID))

	recs, err := api.Recommendations(ctx, "main")
	require.NoError(t, err)
	for _, r := range recs {
		assert.NotEqual(t, candidate.Song.ID, r.SongID)
	}
}
