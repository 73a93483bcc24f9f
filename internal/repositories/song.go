package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/catalog/internal/models"
)

// SongRepository implements [models.SongRepository] on SQLite.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// List retrieves all songs ordered by id
func (r *SongRepository) List(ctx context.Context) ([]models.Song, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title, artist FROM songs ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := []models.Song{}
	for rows.Next() {
		var song models.Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Artist); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// Get retrieves a song by id
func (r *SongRepository) Get(ctx context.Context, id int) (*models.Song, error) {
	var song models.Song

	err := r.db.QueryRowContext(ctx, "SELECT id, title, artist FROM songs WHERE id = ?", id).
		Scan(&song.ID, &song.Title, &song.Artist)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, songNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	return &song, nil
}

// Create inserts a song and sets its generated id
func (r *SongRepository) Create(ctx context.Context, song *models.Song) error {
	now := time.Now()

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO songs (title, artist, created_at, updated_at) VALUES (?, ?, ?, ?)",
		song.Title, song.Artist, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read song id: %w", err)
	}

	song.ID = int(id)
	return nil
}

// Update modifies the title and artist of an existing song
func (r *SongRepository) Update(ctx context.Context, song *models.Song) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE songs SET title = ?, artist = ?, updated_at = ? WHERE id = ?",
		song.Title, song.Artist, time.Now(), song.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	return expectRow(result, songNotFound(song.ID))
}

// Delete removes a song by id.
//
// Songs still referenced by a playlist are protected by the foreign key and fail with a conflict.
func (r *SongRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return constraintError(err, "song %d is part of a playlist", id)
	}

	return expectRow(result, songNotFound(id))
}

// expectRow returns notFound when the statement touched no rows.
func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
