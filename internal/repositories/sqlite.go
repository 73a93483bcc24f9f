package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/catalog/internal/models"
	"github.com/desertthunder/catalog/internal/shared"
)

// SQLiteStore implements [Store] on a migrated SQLite database.
type SQLiteStore struct {
	db        *sql.DB
	songs     *SongRepository
	playlists *PlaylistRepository
}

// NewSQLiteStore wraps an open database whose migrations have already been applied.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:        db,
		songs:     NewSongRepository(db),
		playlists: NewPlaylistRepository(db),
	}
}

// OpenSQLite opens the database at cfg.Path, applies pending migrations and returns the store.
func OpenSQLite(ctx context.Context, cfg shared.DatabaseConfig) (*SQLiteStore, error) {
	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, cfg.Path, cfg.MaxOpenConns, cfg.MaxIdleConns)

	if err := shared.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewSQLiteStore(db), nil
}

// Songs implements [Store].
func (s *SQLiteStore) Songs() models.SongRepository { return s.songs }

// Playlists implements [Store].
func (s *SQLiteStore) Playlists() models.PlaylistRepository { return s.playlists }

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Seed implements [Store].
//
// Rows keep their seeded ids; AUTOINCREMENT then continues past the highest one.
func (s *SQLiteStore) Seed(ctx context.Context, songs []models.Song, playlists []models.Playlist) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM songs").Scan(&count); err != nil {
		return fmt.Errorf("failed to count songs: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, song := range songs {
		if _, err := tx.ExecContext(ctx, "INSERT INTO songs (id, title, artist) VALUES (?, ?, ?)", song.ID, song.Title, song.Artist); err != nil {
			return fmt.Errorf("failed to seed song %d: %w", song.ID, err)
		}
	}

	for _, p := range playlists {
		if _, err := tx.ExecContext(ctx, "INSERT INTO playlists (id, name) VALUES (?, ?)", p.ID, p.Name); err != nil {
			return fmt.Errorf("failed to seed playlist %d: %w", p.ID, err)
		}
		for i, songID := range p.SongIDs {
			if _, err := tx.ExecContext(ctx, "INSERT INTO playlist_songs (playlist_id, song_id, position) VALUES (?, ?, ?)", p.ID, songID, i+1); err != nil {
				return fmt.Errorf("failed to seed playlist %d song %d: %w", p.ID, songID, err)
			}
		}
	}

	return tx.Commit()
}

// constraintError maps SQLite constraint failures onto [shared.ErrConflict].
func constraintError(err error, format string, args ...any) error {
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "FOREIGN KEY constraint") {
		return fmt.Errorf("%w: %s", shared.ErrConflict, fmt.Sprintf(format, args...))
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
