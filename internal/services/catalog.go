package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/catalog/internal/catalog"
	"github.com/desertthunder/catalog/internal/models"
	"github.com/desertthunder/catalog/internal/shared"
)

// APIError is a non-2xx response from the catalog server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %d %s", shared.ErrAPIRequest, e.StatusCode, e.Message)
}

// Unwrap returns [shared.ErrAPIRequest].
func (e *APIError) Unwrap() error {
	return shared.ErrAPIRequest
}

// Is matches the catalog sentinel that corresponds to the status code, so callers can use the same checks
// against a remote server as against an in-process [catalog.Service].
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return target == shared.ErrValidation
	case http.StatusNotFound:
		return target == shared.ErrNotFound
	case http.StatusConflict:
		return target == shared.ErrConflict
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		return target == shared.ErrServiceUnavailable
	}
	return false
}

// CatalogClient implements [Service] against a running catalog server.
type CatalogClient struct {
	api *APIService
}

// NewCatalogClient creates a [CatalogClient] for the API rooted at baseURL.
func NewCatalogClient(baseURL string, client *http.Client) *CatalogClient {
	return &CatalogClient{api: NewAPIService(baseURL, client)}
}

// BaseURL returns the API root the client sends requests to.
func (c *CatalogClient) BaseURL() string { return c.api.BaseURL() }

// Health reports whether the server answers its health check. The check lives outside the API prefix.
func (c *CatalogClient) Health(ctx context.Context) error {
	u, err := url.Parse(c.api.BaseURL())
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	u.Path = "/health"

	resp, err := NewAPIService(u.Scheme+"://"+u.Host, c.api.httpClient).Get(ctx, u.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	}
	return check(resp)
}

// ListSongs implements [Service].
func (c *CatalogClient) ListSongs(ctx context.Context, filter string) ([]models.Song, error) {
	path := "/songs"
	if filter != "" {
		path += "?" + url.Values{"filter": {filter}}.Encode()
	}

	var songs []models.Song
	if err := c.call(ctx, http.MethodGet, path, nil, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// CreateSong implements [Service].
func (c *CatalogClient) CreateSong(ctx context.Context, in catalog.SongInput) (*models.Song, error) {
	var song models.Song
	if err := c.call(ctx, http.MethodPost, "/songs", in, &song); err != nil {
		return nil, err
	}
	return &song, nil
}

// UpdateSong implements [Service].
func (c *CatalogClient) UpdateSong(ctx context.Context, id int, in catalog.SongInput) (*models.Song, error) {
	var song models.Song
	if err := c.call(ctx, http.MethodPatch, "/songs/"+strconv.Itoa(id), in, &song); err != nil {
		return nil, err
	}
	return &song, nil
}

// DeleteSong implements [Service].
func (c *CatalogClient) DeleteSong(ctx context.Context, id int) (*models.Song, error) {
	var song models.Song
	if err := c.call(ctx, http.MethodDelete, "/songs/"+strconv.Itoa(id), nil, &song); err != nil {
		return nil, err
	}
	return &song, nil
}

// ListPlaylists implements [Service].
func (c *CatalogClient) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := c.call(ctx, http.MethodGet, "/playlists", nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// GetPlaylist implements [Service].
func (c *CatalogClient) GetPlaylist(ctx context.Context, id int) (*models.PlaylistDetail, error) {
	var detail models.PlaylistDetail
	if err := c.call(ctx, http.MethodGet, "/playlists/"+strconv.Itoa(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreatePlaylist implements [Service].
func (c *CatalogClient) CreatePlaylist(ctx context.Context, in catalog.PlaylistInput) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := c.call(ctx, http.MethodPost, "/playlists", in, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddSongToPlaylist implements [Service].
func (c *CatalogClient) AddSongToPlaylist(ctx context.Context, playlistID, songID int) (*models.PlaylistDetail, error) {
	path := fmt.Sprintf("/playlists/%d/songs/%d", playlistID, songID)

	var detail models.PlaylistDetail
	if err := c.call(ctx, http.MethodPatch, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// call sends body as JSON, turns non-2xx responses into [*APIError] and decodes the result into out.
func (c *CatalogClient) call(ctx context.Context, method, path string, body, out any) error {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	resp, err := c.api.Do(ctx, method, path, data)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	}
	if err := check(resp); err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}
	return nil
}

func check(resp *APIResponse) error {
	if resp.OK() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Error != "":
			apiErr.Message = body.Error
		}
	}
	return apiErr
}

// IsAPIError reports whether err came from a non-2xx server response and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
