package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/catalog/internal/models"
	"github.com/desertthunder/catalog/internal/shared"
)

func TestSQLiteConstraints(t *testing.T) {
	ctx := context.Background()

	t.Run("Delete Referenced Song", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		store := NewSQLiteStore(db)
		if err := store.Seed(ctx, seedSongs, seedPlaylists); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		err := store.Songs().Delete(ctx, 1)
		if !errors.Is(err, shared.ErrConflict) {
			t.Fatalf("expected ErrConflict for referenced song, got %v", err)
		}

		if _, err := store.Songs().Get(ctx, 1); err != nil {
			t.Errorf("referenced song should still exist: %v", err)
		}
	})

	t.Run("Duplicate Playlist Name", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		if err := repo.Create(ctx, &models.Playlist{Name: "Lo-Fi Study"}); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		err := repo.Create(ctx, &models.Playlist{Name: "Lo-Fi Study"})
		if !errors.Is(err, shared.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}

		if err := repo.Create(ctx, &models.Playlist{Name: "lo-fi study"}); err != nil {
			t.Errorf("names differing only in case should be allowed: %v", err)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		songs := NewSongRepository(db)
		if _, err := songs.List(ctx); err == nil {
			t.Error("expected error listing from closed database")
		}
		if err := songs.Create(ctx, &models.Song{Title: "a", Artist: "b"}); err == nil {
			t.Error("expected error creating in closed database")
		}

		playlists := NewPlaylistRepository(db)
		if _, err := playlists.List(ctx); err == nil {
			t.Error("expected error listing playlists from closed database")
		}
		if err := playlists.AppendSong(ctx, 1, 1); err == nil {
			t.Error("expected error appending in closed database")
		}
	})
}
