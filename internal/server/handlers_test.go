package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalog/internal/catalog"
	"github.com/desertthunder/catalog/internal/models"
	"github.com/desertthunder/catalog/internal/repositories"
	"github.com/desertthunder/catalog/internal/shared"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := repositories.NewMemoryStore()
	if err := store.Seed(context.Background(), catalog.SampleSongs(), catalog.SamplePlaylists()); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	logger := log.New(io.Discard)
	svc := catalog.NewService(store.Songs(), store.Playlists(), logger)
	return NewRouter(shared.DefaultConfig().Server, svc, logger)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestSongEndpoints(t *testing.T) {
	t.Run("GET /songs", func(t *testing.T) {
		h := newTestRouter(t)

		w := do(t, h, http.MethodGet, "/api/v1/songs", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("unexpected content type %q", ct)
		}

		songs := decode[[]models.Song](t, w)
		if len(songs) != 8 {
			t.Errorf("expected 8 songs, got %d", len(songs))
		}
	})

	t.Run("GET /songs?filter", func(t *testing.T) {
		h := newTestRouter(t)

		w := do(t, h, http.MethodGet, "/api/v1/songs?filter=weeknd", "")
		songs := decode[[]models.Song](t, w)
		if len(songs) != 1 || songs[0].ID != 1 {
			t.Errorf("unexpected filtered songs %v", songs)
		}

		w = do(t, h, http.MethodGet, "/api/v1/songs?filter=nothing-matches", "")
		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Errorf("expected empty JSON array, got %s", w.Body.String())
		}
	})

	t.Run("POST /songs", func(t *testing.T) {
		h := newTestRouter(t)

		w := do(t, h, http.MethodPost, "/api/v1/songs", `{"title":"Espresso","artist":"Sabrina Carpenter"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		song := decode[models.Song](t, w)
		if song.ID != 9 || song.Title != "Espresso" {
			t.Errorf("unexpected song %+v", song)
		}

		w = do(t, h, http.MethodPost, "/api/v1/songs", `{"title":"ESPRESSO","artist":"sabrina carpenter"}`)
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409 for duplicate, got %d", w.Code)
		}
		if msg := decode[ErrorResponse](t, w).Message; msg != "Song already exists" {
			t.Errorf("unexpected message %q", msg)
		}
	})

	t.Run("POST /songs validation", func(t *testing.T) {
		h := newTestRouter(t)

		tests := []struct {
			name string
			body string
			want string
		}{
			{name: "missing artist", body: `{"title":"x"}`, want: "Title and artist fields are required in the request body."},
			{name: "empty body", body: "", want: "Title and artist fields are required in the request body."},
			{name: "malformed json", body: `{"title":`, want: "invalid request body"},
			{name: "wrong type", body: `{"title":1,"artist":"x"}`, want: "invalid request body"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := do(t, h, http.MethodPost, "/api/v1/songs", tt.body)
				if w.Code != http.StatusBadRequest {
					t.Fatalf("expected 400, got %d", w.Code)
				}
				if msg := decode[ErrorResponse](t, w).Message; msg != tt.want {
					t.Errorf("message = %q, want %q", msg, tt.want)
				}
			})
		}

		songs := decode[[]models.Song](t, do(t, h, http.MethodGet, "/api/v1/songs", ""))
		if len(songs) != 8 {
			t.Errorf("rejected requests should not mutate state, got %d songs", len(songs))
		}
	})

	t.Run("PATCH /songs/{songId}", func(t *testing.T) {
		h := newTestRouter(t)

		w := do(t, h, http.MethodPatch, "/api/v1/songs/6", `{"artist":"Lola Young & Co"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		song := decode[models.Song](t, w)
		if song.Title != "Messy" || song.Artist != "Lola Young & Co" {
			t.Errorf("unexpected song %+v", song)
		}

		if w := do(t, h, http.MethodPatch, "/api/v1/songs/6", `{}`); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 without fields, got %d", w.Code)
		}

		w = do(t, h, http.MethodPatch, "/api/v1/songs/77", `{"title":"x"}`)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
		if msg := decode[ErrorResponse](t, w).Message; msg != "Song with id 77 does not exist." {
			t.Errorf("unexpected message %q", msg)
		}
	})

	t.Run("DELETE /songs/{songId}", func(t *testing.T) {
		h := newTestRouter(t)

		w := do(t, h, http.MethodDelete, "/api/v1/songs/1", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409 for referenced song, got %d", w.Code)
		}

		w = do(t, h, http.MethodDelete, "/api/v1/songs/7", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if song := decode[models.Song](t, w); song.ID != 7 || song.Title != "Lucy" {
			t.Errorf("expected deleted song in body, got %+v", song)
		}

		if w := do(t, h, http.MethodDelete, "/api/v1/songs/7", ""); w.Code != http.StatusNotFound {
			t.Errorf("expected 404 on second delete, got %d", w.Code)
		}
	})

	t.Run("invalid ids", func(t *testing.T) {
		h := newTestRouter(t)

		for _, path := range []string{"/api/v1/songs/abc", "/api/v1/songs/1.5"} {
			w := do(t, h, http.MethodDelete, path, "")
			if w.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", path, w.Code)
			}
		}

		if w := do(t, h, http.MethodDelete, "/api/v1/songs/-1", ""); w.Code != http.StatusNotFound {
			t.Errorf("negative ids should be not found, got %d", w.Code)
		}
	})
}

func TestPlaylistEndpoints(t *testing.T) {
	t.Run("GET /playlists", func(t *testing.T) {
		h := newTestRouter(t)

		w := do(t, h, http.MethodGet, "/api/v1/playlists", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var raw []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(raw) != 3 {
			t.Fatalf("expected 3 playlists, got %d", len(raw))
		}
		if _, ok := raw[0]["songs"]; ok {
			t.Error("list should return raw song ids only")
		}
		if ids, ok := raw[2]["songIds"].([]any); !ok || len(ids) != 0 {
			t.Errorf("expected empty songIds array, got %v", raw[2]["songIds"])
		}
	})

	t.Run("GET /playlists/{id}", func(t *testing.T) {
		h := newTestRouter(t)

		w := do(t, h, http.MethodGet, "/api/v1/playlists/2", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		detail := decode[models.PlaylistDetail](t, w)
		if detail.Name != "Workout Playlist" || len(detail.Songs) != 3 {
			t.Errorf("unexpected detail %+v", detail)
		}

		if w := do(t, h, http.MethodGet, "/api/v1/playlists/99", ""); w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
		if w := do(t, h, http.MethodGet, "/api/v1/playlists/one", ""); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("POST /playlists", func(t *testing.T) {
		h := newTestRouter(t)

		w := do(t, h, http.MethodPost, "/api/v1/playlists", `{"name":"Road Trip"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		if strings.TrimSpace(w.Body.String()) != `{"id":4,"name":"Road Trip","songIds":[]}` {
			t.Errorf("unexpected body %s", w.Body.String())
		}

		if w := do(t, h, http.MethodPost, "/api/v1/playlists", `{"name":"Road Trip"}`); w.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", w.Code)
		}

		w = do(t, h, http.MethodPost, "/api/v1/playlists", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
		if msg := decode[ErrorResponse](t, w).Message; msg != "Name field is required in the request body." {
			t.Errorf("unexpected message %q", msg)
		}
	})

	t.Run("PATCH /playlists/{playlistId}/songs/{songId}", func(t *testing.T) {
		h := newTestRouter(t)

		w := do(t, h, http.MethodPatch, "/api/v1/playlists/1/songs/5", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		detail := decode[models.PlaylistDetail](t, w)
		want := []int{1, 2, 3, 4, 5}
		if len(detail.SongIDs) != len(want) {
			t.Fatalf("songIds = %v, want %v", detail.SongIDs, want)
		}
		for i := range want {
			if detail.SongIDs[i] != want[i] {
				t.Fatalf("songIds = %v, want %v", detail.SongIDs, want)
			}
		}
		if len(detail.Songs) != 5 {
			t.Fatalf("expected 5 songs, got %d", len(detail.Songs))
		}
		if last := detail.Songs[4]; last != (models.Song{ID: 5, Title: "Róa", Artist: "VÆB"}) {
			t.Errorf("unexpected last song %+v", last)
		}

		w = do(t, h, http.MethodPatch, "/api/v1/playlists/1/songs/5", "")
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409 on repeat, got %d", w.Code)
		}
		if msg := decode[ErrorResponse](t, w).Message; msg != "Song already exists in the playlist" {
			t.Errorf("unexpected message %q", msg)
		}

		if w := do(t, h, http.MethodPatch, "/api/v1/playlists/9/songs/5", ""); w.Code != http.StatusNotFound {
			t.Errorf("expected 404 for missing playlist, got %d", w.Code)
		}
		if w := do(t, h, http.MethodPatch, "/api/v1/playlists/1/songs/50", ""); w.Code != http.StatusNotFound {
			t.Errorf("expected 404 for missing song, got %d", w.Code)
		}
		if w := do(t, h, http.MethodPatch, "/api/v1/playlists/1/songs/x", ""); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for invalid song id, got %d", w.Code)
		}
	})
}

func TestRouting(t *testing.T) {
	h := newTestRouter(t)

	t.Run("health", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/health", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if body := decode[map[string]any](t, w); body["status"] != "ok" {
			t.Errorf("unexpected body %v", body)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/v1/albums", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		if msg := decode[ErrorResponse](t, w).Message; msg != "Cannot GET /api/v1/albums" {
			t.Errorf("unexpected message %q", msg)
		}
	})

	t.Run("unregistered method", func(t *testing.T) {
		if w := do(t, h, http.MethodPut, "/api/v1/songs/1", `{}`); w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("custom prefix", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		svc := catalog.NewService(store.Songs(), store.Playlists(), log.New(io.Discard))

		cfg := shared.DefaultConfig().Server
		cfg.APIPrefix = "/catalog/"
		r := NewRouter(cfg, svc, log.New(io.Discard))

		if w := do(t, r, http.MethodGet, "/catalog/songs", ""); w.Code != http.StatusOK {
			t.Errorf("expected 200 under custom prefix, got %d", w.Code)
		}
		if w := do(t, r, http.MethodGet, "/api/v1/songs", ""); w.Code != http.StatusNotFound {
			t.Errorf("expected 404 under default prefix, got %d", w.Code)
		}
	})
}

type failingCatalog struct{ Catalog }

func (failingCatalog) ListSongs(context.Context, string) ([]models.Song, error) {
	return nil, errors.New("database is locked")
}

func (failingCatalog) ListPlaylists(context.Context) ([]models.Playlist, error) {
	panic("boom")
}

func TestFailures(t *testing.T) {
	logger := log.New(io.Discard)
	h := NewRouter(shared.DefaultConfig().Server, failingCatalog{}, logger)

	t.Run("storage error", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/v1/songs", "")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if msg := decode[ErrorResponse](t, w).Message; strings.Contains(msg, "locked") {
			t.Errorf("internal details leaked: %q", msg)
		}
	})

	t.Run("panic", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/v1/playlists", "")
		if w.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", w.Code)
		}
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: shared.ErrValidation, want: http.StatusBadRequest},
		{err: shared.ErrSongNotFound, want: http.StatusNotFound},
		{err: shared.ErrPlaylistNotFound, want: http.StatusNotFound},
		{err: &catalog.Error{Kind: shared.ErrConflict, Message: "x"}, want: http.StatusConflict},
		{err: errors.New("other"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
