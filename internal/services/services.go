// package services defines interface Service for the catalog operations and an HTTP client implementing it
package services

import (
	"context"

	"github.com/desertthunder/catalog/internal/catalog"
	"github.com/desertthunder/catalog/internal/models"
)

// Service defines the catalog operations, served either in process by [catalog.Service] or remotely through
// [CatalogClient].
type Service interface {
	// ListSongs returns all songs, or those whose title or artist contains filter ignoring case.
	ListSongs(ctx context.Context, filter string) ([]models.Song, error)

	// CreateSong adds a song with a new id.
	CreateSong(ctx context.Context, in catalog.SongInput) (*models.Song, error)

	// UpdateSong merges the present fields of in into the song.
	UpdateSong(ctx context.Context, id int, in catalog.SongInput) (*models.Song, error)

	// DeleteSong removes a song no playlist references and returns it.
	DeleteSong(ctx context.Context, id int) (*models.Song, error)

	// ListPlaylists returns all playlists with raw song ids.
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylist returns a playlist with its songs resolved.
	GetPlaylist(ctx context.Context, id int) (*models.PlaylistDetail, error)

	// CreatePlaylist adds an empty playlist.
	CreatePlaylist(ctx context.Context, in catalog.PlaylistInput) (*models.Playlist, error)

	// AddSongToPlaylist appends a song to the end of a playlist.
	AddSongToPlaylist(ctx context.Context, playlistID, songID int) (*models.PlaylistDetail, error)
}

var (
	_ Service = (*catalog.Service)(nil)
	_ Service = (*CatalogClient)(nil)
)
