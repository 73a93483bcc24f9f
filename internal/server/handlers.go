package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalog/internal/catalog"
	"github.com/desertthunder/catalog/internal/models"
	"github.com/desertthunder/catalog/internal/shared"
)

const maxBodyBytes = 1 << 20

// Catalog is the set of operations served by [CatalogHandler]; [*catalog.Service] implements it.
type Catalog interface {
	ListSongs(ctx context.Context, filter string) ([]models.Song, error)
	CreateSong(ctx context.Context, in catalog.SongInput) (*models.Song, error)
	UpdateSong(ctx context.Context, id int, in catalog.SongInput) (*models.Song, error)
	DeleteSong(ctx context.Context, id int) (*models.Song, error)
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)
	GetPlaylist(ctx context.Context, id int) (*models.PlaylistDetail, error)
	CreatePlaylist(ctx context.Context, in catalog.PlaylistInput) (*models.Playlist, error)
	AddSongToPlaylist(ctx context.Context, playlistID, songID int) (*models.PlaylistDetail, error)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// CatalogHandler serves the song and playlist endpoints under a path prefix.
//
// Requests are dispatched on the pattern the router matched, so it must be registered through [Router.Handler].
type CatalogHandler struct {
	svc    Catalog
	logger *log.Logger
	routes map[string]http.HandlerFunc
}

// NewCatalogHandler creates a [CatalogHandler] for svc with routes under prefix, e.g. "/api/v1".
func NewCatalogHandler(svc Catalog, prefix string, logger *log.Logger) *CatalogHandler {
	if logger == nil {
		logger = log.Default()
	}

	h := &CatalogHandler{svc: svc, logger: logger}
	p := cleanPrefix(prefix)

	h.routes = map[string]http.HandlerFunc{
		"GET " + p + "/songs":                                  h.listSongs,
		"POST " + p + "/songs":                                 h.createSong,
		"PATCH " + p + "/songs/{songId}":                       h.updateSong,
		"DELETE " + p + "/songs/{songId}":                      h.deleteSong,
		"GET " + p + "/playlists":                              h.listPlaylists,
		"POST " + p + "/playlists":                             h.createPlaylist,
		"GET " + p + "/playlists/{id}":                         h.getPlaylist,
		"PATCH " + p + "/playlists/{playlistId}/songs/{songId}": h.addSongToPlaylist,
	}
	return h
}

// Routes implements [Handler].
func (h *CatalogHandler) Routes() []string {
	routes := make([]string, 0, len(h.routes))
	for pattern := range h.routes {
		routes = append(routes, pattern)
	}
	slices.Sort(routes)
	return routes
}

// ServeHTTP implements [Handler].
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route, ok := h.routes[r.Pattern]
	if !ok {
		NotFound(w, r)
		return
	}
	route(w, r)
}

func (h *CatalogHandler) listSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.svc.ListSongs(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (h *CatalogHandler) createSong(w http.ResponseWriter, r *http.Request) {
	var in catalog.SongInput
	if !h.decode(w, r, &in) {
		return
	}

	song, err := h.svc.CreateSong(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func (h *CatalogHandler) updateSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "songId")
	if !ok {
		return
	}

	var in catalog.SongInput
	if !h.decode(w, r, &in) {
		return
	}

	song, err := h.svc.UpdateSong(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (h *CatalogHandler) deleteSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "songId")
	if !ok {
		return
	}

	song, err := h.svc.DeleteSong(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (h *CatalogHandler) listPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.svc.ListPlaylists(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (h *CatalogHandler) getPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.svc.GetPlaylist(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *CatalogHandler) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var in catalog.PlaylistInput
	if !h.decode(w, r, &in) {
		return
	}

	playlist, err := h.svc.CreatePlaylist(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

func (h *CatalogHandler) addSongToPlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}
	songID, ok := pathID(w, r, "songId")
	if !ok {
		return
	}

	detail, err := h.svc.AddSongToPlaylist(r.Context(), playlistID, songID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// decode reads a JSON object into v. An empty body leaves v at its zero value.
func (h *CatalogHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	h.logger.Debug("rejected request body", "path", r.URL.Path, "err", err)
	writeError(w, http.StatusBadRequest, "invalid request body")
	return false
}

// fail maps err onto a status code and writes it as an [ErrorResponse].
func (h *CatalogHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "err", err)
		writeError(w, status, "Internal server error")
		return
	}

	msg := err.Error()
	var ce *catalog.Error
	if errors.As(err, &ce) {
		msg = ce.Message
	}
	writeError(w, status, msg)
}

// StatusFor returns the HTTP status for a catalog error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HealthHandler reports liveness at GET /health.
type HealthHandler struct {
	started time.Time
}

// NewHealthHandler creates a [HealthHandler].
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now()}
}

// Routes implements [Handler].
func (h *HealthHandler) Routes() []string {
	return []string{"GET /health"}
}

// ServeHTTP implements [Handler].
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// NotFound writes a JSON 404 naming the method and path.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path))
}

// NewRouter wires the catalog and health handlers behind the default middleware stack.
func NewRouter(cfg shared.ServerConfig, svc Catalog, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = log.Default()
	}

	router := NewBasicRouter()
	router.Use(Defaults(cfg, logger)...)
	router.Handler(NewCatalogHandler(svc, cfg.APIPrefix, logger))
	router.Handler(NewHealthHandler())
	router.NotFound(http.HandlerFunc(NotFound))
	return router
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.PathValue(name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s %q: must be an integer.", name, raw))
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Message: msg})
}

func cleanPrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}
