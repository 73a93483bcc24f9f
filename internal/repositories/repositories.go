// package repositories provides storage backends for the catalog.
package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/catalog/internal/models"
	"github.com/desertthunder/catalog/internal/shared"
)

// Store groups the repositories of one storage backend.
type Store interface {
	Songs() models.SongRepository
	Playlists() models.PlaylistRepository
	// Seed loads songs and playlists, keeping their ids, when the store holds no songs yet.
	Seed(ctx context.Context, songs []models.Song, playlists []models.Playlist) error
	Close() error
}

// Open creates the [Store] selected by cfg.Driver.
func Open(ctx context.Context, cfg shared.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case shared.DriverMemory, "":
		return NewMemoryStore(), nil
	case shared.DriverSQLite:
		return OpenSQLite(ctx, cfg)
	case shared.DriverMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownDriver, cfg.Driver)
	}
}

// maxIDs returns the highest song and playlist ids in the seed data.
func maxIDs(songs []models.Song, playlists []models.Playlist) (int, int) {
	var maxSong, maxPlaylist int
	for _, s := range songs {
		maxSong = max(maxSong, s.ID)
	}
	for _, p := range playlists {
		maxPlaylist = max(maxPlaylist, p.ID)
	}
	return maxSong, maxPlaylist
}

func songNotFound(id int) error {
	return fmt.Errorf("%w: %d", shared.ErrSongNotFound, id)
}

func playlistNotFound(id int) error {
	return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, id)
}

func alreadyMember(playlistID, songID int) error {
	return fmt.Errorf("%w: song %d is already in playlist %d", shared.ErrConflict, songID, playlistID)
}
