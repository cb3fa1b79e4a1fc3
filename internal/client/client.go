// Package client is a small REST client for the catalog API, used by
// integration tests and by external tooling that talks to a running server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"playwise/internal/dashboard"
	"playwise/internal/engine"
	"playwise/internal/favorites"
	"playwise/internal/models"
	"playwise/internal/recommend"
)

// APIError carries a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to a catalog server.
type Client struct {
	http *resty.Client
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)
	return &Client{http: http}
}

type errorBody struct {
	Error string `json:"error"`
}

// AddSong submits a song for admission to a playlist. Policy rejections come
// back in the result's Status, not as an error.
func (c *Client) AddSong(ctx context.Context, playlistID string, in engine.SongInput) (*engine.AdmissionResult, error) {
	var result engine.AdmissionResult
	var apiErr errorBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/api/v1/playlists/%s/songs", playlistID))
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode() {
	case http.StatusCreated, http.StatusForbidden, http.StatusConflict:
		// Forbidden and Conflict still carry an AdmissionResult body
		if resp.StatusCode() != http.StatusCreated {
			if err := json.Unmarshal(resp.Body(), &result); err != nil {
				return nil, err
			}
		}
		return &result, nil
	default:
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
}

// Songs fetches the ordered contents of a playlist.
func (c *Client) Songs(ctx context.Context, playlistID string) ([]*models.Song, error) {
	var result struct {
		Songs []*models.Song `json:"songs"`
	}
	return result.Songs, c.get(ctx, fmt.Sprintf("/api/v1/playlists/%s/songs", playlistID), &result)
}

// DeleteSong removes the song at index from a playlist.
func (c *Client) DeleteSong(ctx context.Context, playlistID string, index int) (*models.Song, error) {
	var result struct {
		Removed *models.Song `json:"removed"`
	}
	var apiErr errorBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiErr).
		Delete(fmt.Sprintf("/api/v1/playlists/%s/songs/%d", playlistID, index))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
	return result.Removed, nil
}

// BlockArtist adds an artist to the admission blocklist.
func (c *Client) BlockArtist(ctx context.Context, artist string) error {
	return c.post(ctx, "/api/v1/blocklist", map[string]string{"artist": artist}, nil)
}

// PlaySong records a playback.
func (c *Client) PlaySong(ctx context.Context, songID string) error {
	return c.post(ctx, fmt.Sprintf("/api/v1/songs/%s/play", songID), nil, nil)
}

// SkipSong marks a song skipped.
func (c *Client) SkipSong(ctx context.Context, songID string) error {
	return c.post(ctx, fmt.Sprintf("/api/v1/songs/%s/skip", songID), nil, nil)
}

// RateSong sets a song's rating.
func (c *Client) RateSong(ctx context.Context, songID string, rating int) error {
	var apiErr errorBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]int{"rating": rating}).
		SetError(&apiErr).
		Put(fmt.Sprintf("/api/v1/songs/%s/rating", songID))
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
	return nil
}

// RecordListen accrues listen time for a song.
func (c *Client) RecordListen(ctx context.Context, songID string, seconds int) error {
	return c.post(ctx, fmt.Sprintf("/api/v1/songs/%s/listen", songID), map[string]int{"seconds": seconds}, nil)
}

// Favorites fetches the top listened songs.
func (c *Client) Favorites(ctx context.Context, limit int) ([]favorites.Entry, error) {
	var result struct {
		Favorites []favorites.Entry `json:"favorites"`
	}
	return result.Favorites, c.get(ctx, fmt.Sprintf("/api/v1/favorites?limit=%d", limit), &result)
}

// Recommendations fetches suggestions, excluding a playlist's songs.
func (c *Client) Recommendations(ctx context.Context, excludePlaylist string) ([]recommend.Recommendation, error) {
	var result struct {
		Recommendations []recommend.Recommendation `json:"recommendations"`
	}
	return result.Recommendations, c.get(ctx, "/api/v1/recommendations?exclude_playlist="+excludePlaylist, &result)
}

// Snapshot fetches the live dashboard for a playlist.
func (c *Client) Snapshot(ctx context.Context, playlistID string) (*dashboard.Snapshot, error) {
	var snap dashboard.Snapshot
	if err := c.get(ctx, "/snapshot?playlist="+playlistID, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Health checks server liveness.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	var apiErr errorBody
	req := c.http.R().SetContext(ctx).SetError(&apiErr)
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Get(path)
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var apiErr errorBody
	req := c.http.R().SetContext(ctx).SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
	return nil
}
