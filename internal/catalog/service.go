package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalog/internal/models"
	"github.com/desertthunder/catalog/internal/shared"
)

const (
	msgSongFieldsRequired   = "Title and artist fields are required in the request body."
	msgSongFieldRequired    = "Either title or artist field is required in the request body"
	msgSongFieldEmpty       = "Title and artist fields must not be empty."
	msgSongExists           = "Song already exists"
	msgSongInPlaylist       = "Cannot delete song since it is part of an existing playlist."
	msgPlaylistNameRequired = "Name field is required in the request body."
	msgPlaylistExists       = "Playlist already exists"
	msgSongAlreadyInList    = "Song already exists in the playlist"
)

// SongInput is the body of create and update song requests. Nil fields were absent.
type SongInput struct {
	Title  *string `json:"title"`
	Artist *string `json:"artist"`
}

// PlaylistInput is the body of a create playlist request.
type PlaylistInput struct {
	Name *string `json:"name"`
}

// Service implements the catalog operations over a pair of repositories.
type Service struct {
	mu        sync.Mutex
	songs     models.SongRepository
	playlists models.PlaylistRepository
	logger    *log.Logger
}

// NewService creates a [Service]. A nil logger falls back to [log.Default].
func NewService(songs models.SongRepository, playlists models.PlaylistRepository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		songs:     songs,
		playlists: playlists,
		logger:    shared.WithLogger(logger, "component", "catalog"),
	}
}

// ListSongs returns every song, or only those whose title or artist contains filter ignoring case.
func (s *Service) ListSongs(ctx context.Context, filter string) ([]models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	songs, err := s.songs.List(ctx)
	if err != nil {
		return nil, classify(err, "list songs", 0, 0)
	}
	if filter == "" {
		return songs, nil
	}

	needle := strings.ToLower(filter)
	matched := []models.Song{}
	for _, song := range songs {
		if strings.Contains(strings.ToLower(song.Title), needle) ||
			strings.Contains(strings.ToLower(song.Artist), needle) {
			matched = append(matched, song)
		}
	}
	return matched, nil
}

// CreateSong adds a song unless one with the same title and artist, ignoring case, exists.
func (s *Service) CreateSong(ctx context.Context, in SongInput) (*models.Song, error) {
	if blank(in.Title) || blank(in.Artist) {
		return nil, validationError(msgSongFieldsRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	songs, err := s.songs.List(ctx)
	if err != nil {
		return nil, classify(err, "list songs", 0, 0)
	}

	for _, song := range songs {
		if strings.EqualFold(song.Title, *in.Title) && strings.EqualFold(song.Artist, *in.Artist) {
			return nil, conflictError(msgSongExists)
		}
	}

	song := &models.Song{Title: *in.Title, Artist: *in.Artist}
	if err := s.songs.Create(ctx, song); err != nil {
		return nil, classify(err, "create song", 0, 0)
	}

	s.logger.Info("created song", "id", song.ID, "title", song.Title, "artist", song.Artist)
	return song, nil
}

// UpdateSong merges the fields present in input into song id.
//
// A present field must not be blank; an update never clears a title or artist.
// No duplicate check runs on update.
func (s *Service) UpdateSong(ctx context.Context, id int, in SongInput) (*models.Song, error) {
	if in.Title == nil && in.Artist == nil {
		return nil, validationError(msgSongFieldRequired)
	}
	if (in.Title != nil && blank(in.Title)) || (in.Artist != nil && blank(in.Artist)) {
		return nil, validationError(msgSongFieldEmpty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	song, err := s.songs.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "get song", id, 0)
	}

	if in.Title != nil {
		song.Title = *in.Title
	}
	if in.Artist != nil {
		song.Artist = *in.Artist
	}

	if err := s.songs.Update(ctx, song); err != nil {
		return nil, classify(err, "update song", id, 0)
	}

	s.logger.Info("updated song", "id", song.ID, "title", song.Title, "artist", song.Artist)
	return song, nil
}

// DeleteSong removes song id and returns it.
//
// A song referenced by any playlist is never deleted; the reference scan runs before the existence check.
func (s *Service) DeleteSong(ctx context.Context, id int) (*models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlists, err := s.playlists.List(ctx)
	if err != nil {
		return nil, classify(err, "list playlists", 0, 0)
	}
	for _, p := range playlists {
		if p.Contains(id) {
			return nil, conflictError(msgSongInPlaylist)
		}
	}

	song, err := s.songs.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "get song", id, 0)
	}

	if err := s.songs.Delete(ctx, id); err != nil {
		if isConflict(err) {
			return nil, conflictError(msgSongInPlaylist)
		}
		return nil, classify(err, "delete song", id, 0)
	}

	s.logger.Info("deleted song", "id", id)
	return song, nil
}

// ListPlaylists returns every playlist with its raw song ids.
func (s *Service) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlists, err := s.playlists.List(ctx)
	if err != nil {
		return nil, classify(err, "list playlists", 0, 0)
	}
	return playlists, nil
}

// GetPlaylist returns playlist id with its songs resolved.
func (s *Service) GetPlaylist(ctx context.Context, id int) (*models.PlaylistDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.detail(ctx, id)
}

// CreatePlaylist adds an empty playlist unless one with exactly the same name exists.
func (s *Service) CreatePlaylist(ctx context.Context, in PlaylistInput) (*models.Playlist, error) {
	if blank(in.Name) {
		return nil, validationError(msgPlaylistNameRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	playlists, err := s.playlists.List(ctx)
	if err != nil {
		return nil, classify(err, "list playlists", 0, 0)
	}
	for _, p := range playlists {
		if p.Name == *in.Name {
			return nil, conflictError(msgPlaylistExists)
		}
	}

	playlist := &models.Playlist{Name: *in.Name, SongIDs: []int{}}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		if isConflict(err) {
			return nil, conflictError(msgPlaylistExists)
		}
		return nil, classify(err, "create playlist", 0, 0)
	}

	s.logger.Info("created playlist", "id", playlist.ID, "name", playlist.Name)
	return playlist, nil
}

// AddSongToPlaylist appends songID to the end of playlist playlistID and returns the resolved playlist.
func (s *Service) AddSongToPlaylist(ctx context.Context, playlistID, songID int) (*models.PlaylistDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, err := s.playlists.Get(ctx, playlistID)
	if err != nil {
		return nil, classify(err, "get playlist", 0, playlistID)
	}
	if _, err := s.songs.Get(ctx, songID); err != nil {
		return nil, classify(err, "get song", songID, 0)
	}
	if playlist.Contains(songID) {
		return nil, conflictError(msgSongAlreadyInList)
	}

	if err := s.playlists.AppendSong(ctx, playlistID, songID); err != nil {
		if isConflict(err) {
			return nil, conflictError(msgSongAlreadyInList)
		}
		return nil, classify(err, "add song to playlist", songID, playlistID)
	}

	s.logger.Info("added song to playlist", "playlist", playlistID, "song", songID)
	return s.detail(ctx, playlistID)
}

// detail resolves the songs of playlist id, dropping ids that no longer resolve. Callers hold s.mu.
func (s *Service) detail(ctx context.Context, id int) (*models.PlaylistDetail, error) {
	playlist, err := s.playlists.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "get playlist", 0, id)
	}

	songs, err := s.songs.List(ctx)
	if err != nil {
		return nil, classify(err, "list songs", 0, 0)
	}

	byID := make(map[int]models.Song, len(songs))
	for _, song := range songs {
		byID[song.ID] = song
	}

	resolved := make([]models.Song, 0, len(playlist.SongIDs))
	for _, songID := range playlist.SongIDs {
		if song, ok := byID[songID]; ok {
			resolved = append(resolved, song)
		}
	}

	return &models.PlaylistDetail{Playlist: playlist.Clone(), Songs: resolved}, nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// isConflict reports a constraint the store enforced itself, e.g. a foreign key or unique index.
func isConflict(err error) bool {
	return errors.Is(err, shared.ErrConflict)
}
