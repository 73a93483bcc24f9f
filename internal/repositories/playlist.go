package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/catalog/internal/models"
)

// PlaylistRepository implements [models.PlaylistRepository] on SQLite.
//
// Membership lives in playlist_songs; position preserves append order.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// List retrieves all playlists ordered by id, with their song ids in track order
func (r *PlaylistRepository) List(ctx context.Context) ([]models.Playlist, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM playlists ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	index := map[int]int{}
	for rows.Next() {
		p := models.Playlist{SongIDs: []int{}}
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		index[p.ID] = len(playlists)
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	members, err := r.db.QueryContext(ctx, "SELECT playlist_id, song_id FROM playlist_songs ORDER BY playlist_id ASC, position ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer members.Close()

	for members.Next() {
		var playlistID, songID int
		if err := members.Scan(&playlistID, &songID); err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}
		if i, ok := index[playlistID]; ok {
			playlists[i].SongIDs = append(playlists[i].SongIDs, songID)
		}
	}

	if err := members.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// Get retrieves a playlist by id
func (r *PlaylistRepository) Get(ctx context.Context, id int) (*models.Playlist, error) {
	p := models.Playlist{SongIDs: []int{}}

	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM playlists WHERE id = ?", id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, playlistNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT song_id FROM playlist_songs WHERE playlist_id = ? ORDER BY position ASC", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var songID int
		if err := rows.Scan(&songID); err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}
		p.SongIDs = append(p.SongIDs, songID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return &p, nil
}

// Create inserts an empty playlist and sets its generated id
func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	now := time.Now()

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO playlists (name, created_at, updated_at) VALUES (?, ?, ?)",
		playlist.Name, now, now,
	)
	if err != nil {
		return constraintError(err, "playlist %q already exists", playlist.Name)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read playlist id: %w", err)
	}

	playlist.ID = int(id)
	playlist.SongIDs = []int{}
	return nil
}

// AppendSong adds songID after the playlist's current last track
func (r *PlaylistRepository) AppendSong(ctx context.Context, playlistID, songID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := exists(ctx, tx, "SELECT EXISTS(SELECT 1 FROM playlists WHERE id = ?)", playlistID, playlistNotFound(playlistID)); err != nil {
		return err
	}
	if err := exists(ctx, tx, "SELECT EXISTS(SELECT 1 FROM songs WHERE id = ?)", songID, songNotFound(songID)); err != nil {
		return err
	}

	var position int
	err = tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_songs WHERE playlist_id = ?", playlistID).Scan(&position)
	if err != nil {
		return fmt.Errorf("failed to compute position: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO playlist_songs (playlist_id, song_id, position) VALUES (?, ?, ?)",
		playlistID, songID, position,
	)
	if err != nil {
		return constraintError(err, "song %d is already in playlist %d", songID, playlistID)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE playlists SET updated_at = ? WHERE id = ?", time.Now(), playlistID); err != nil {
		return fmt.Errorf("failed to touch playlist: %w", err)
	}

	return tx.Commit()
}

func exists(ctx context.Context, tx *sql.Tx, query string, id int, missing error) error {
	var ok bool
	if err := tx.QueryRowContext(ctx, query, id).Scan(&ok); err != nil {
		return fmt.Errorf("failed to check existence: %w", err)
	}
	if !ok {
		return missing
	}
	return nil
}
