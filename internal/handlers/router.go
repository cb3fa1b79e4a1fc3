package handlers

import "github.com/gin-gonic/gin"

// SetupRouter wires every endpoint onto a gin engine.
func SetupRouter(h *CatalogHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.Health)
	router.GET("/snapshot", h.GetSnapshot)

	v1 := router.Group("/api/v1")
	{
		playlists := v1.Group("/playlists")
		{
			playlists.POST("/merge", h.MergePlaylists)
			playlists.POST("/:id/songs", h.AddSong)
			playlists.GET("/:id/songs", h.GetSongs)
			playlists.DELETE("/:id/songs/:index", h.DeleteSong)
			playlists.POST("/:id/move", h.MoveSong)
			playlists.POST("/:id/reverse", h.ReversePlaylist)
			playlists.POST("/:id/shuffle", h.ShufflePlaylist)
			playlists.POST("/:id/undo", h.Undo)
		}

		songs := v1.Group("/songs")
		{
			songs.GET("/:id", h.GetSong)
			songs.POST("/:id/play", h.PlaySong)
			songs.POST("/:id/skip", h.SkipSong)
			songs.POST("/:id/listen", h.RecordListen)
			songs.PUT("/:id/rating", h.RateSong)
		}

		v1.GET("/ratings/:rating", h.SongsByRating)

		v1.POST("/blocklist", h.BlockArtist)
		v1.GET("/blocklist", h.GetBlocklist)
		v1.DELETE("/blocklist/:artist", h.UnblockArtist)

		v1.GET("/favorites", h.GetFavorites)
		v1.GET("/recommendations", h.GetRecommendations)
		v1.GET("/explorer/search", h.SearchExplorer)
	}

	return router
}
