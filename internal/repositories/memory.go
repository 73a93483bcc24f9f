package repositories

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/desertthunder/catalog/internal/models"
)

// MemoryStore keeps songs and playlists in maps keyed by id for the lifetime of the process.
//
// Values are copied in and out so callers never share memory with the store.
type MemoryStore struct {
	mu             sync.RWMutex
	songs          map[int]models.Song
	playlists      map[int]models.Playlist
	nextSongID     int
	nextPlaylistID int
}

// NewMemoryStore creates an empty [MemoryStore] whose counters start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		songs:          make(map[int]models.Song),
		playlists:      make(map[int]models.Playlist),
		nextSongID:     1,
		nextPlaylistID: 1,
	}
}

// Songs implements [Store].
func (s *MemoryStore) Songs() models.SongRepository { return &memorySongs{s} }

// Playlists implements [Store].
func (s *MemoryStore) Playlists() models.PlaylistRepository { return &memoryPlaylists{s} }

// Close implements [Store]; there is nothing to release.
func (s *MemoryStore) Close() error { return nil }

// Seed implements [Store].
func (s *MemoryStore) Seed(ctx context.Context, songs []models.Song, playlists []models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.songs) > 0 {
		return nil
	}

	for _, song := range songs {
		s.songs[song.ID] = song
	}
	for _, p := range playlists {
		s.playlists[p.ID] = p.Clone()
	}

	maxSong, maxPlaylist := maxIDs(songs, playlists)
	s.nextSongID = max(s.nextSongID, maxSong+1)
	s.nextPlaylistID = max(s.nextPlaylistID, maxPlaylist+1)
	return nil
}

type memorySongs struct{ s *MemoryStore }

func (r *memorySongs) List(ctx context.Context) ([]models.Song, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	songs := make([]models.Song, 0, len(r.s.songs))
	for _, id := range slices.Sorted(maps.Keys(r.s.songs)) {
		songs = append(songs, r.s.songs[id])
	}
	return songs, nil
}

func (r *memorySongs) Get(ctx context.Context, id int) (*models.Song, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	song, ok := r.s.songs[id]
	if !ok {
		return nil, songNotFound(id)
	}
	return &song, nil
}

func (r *memorySongs) Create(ctx context.Context, song *models.Song) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	song.ID = r.s.nextSongID
	r.s.nextSongID++
	r.s.songs[song.ID] = *song
	return nil
}

func (r *memorySongs) Update(ctx context.Context, song *models.Song) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.songs[song.ID]; !ok {
		return songNotFound(song.ID)
	}
	r.s.songs[song.ID] = *song
	return nil
}

func (r *memorySongs) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.songs[id]; !ok {
		return songNotFound(id)
	}
	delete(r.s.songs, id)
	return nil
}

type memoryPlaylists struct{ s *MemoryStore }

func (r *memoryPlaylists) List(ctx context.Context) ([]models.Playlist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	playlists := make([]models.Playlist, 0, len(r.s.playlists))
	for _, id := range slices.Sorted(maps.Keys(r.s.playlists)) {
		playlists = append(playlists, r.s.playlists[id].Clone())
	}
	return playlists, nil
}

func (r *memoryPlaylists) Get(ctx context.Context, id int) (*models.Playlist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.playlists[id]
	if !ok {
		return nil, playlistNotFound(id)
	}
	p = p.Clone()
	return &p, nil
}

func (r *memoryPlaylists) Create(ctx context.Context, playlist *models.Playlist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	playlist.ID = r.s.nextPlaylistID
	r.s.nextPlaylistID++
	*playlist = playlist.Clone()
	r.s.playlists[playlist.ID] = playlist.Clone()
	return nil
}

func (r *memoryPlaylists) AppendSong(ctx context.Context, playlistID, songID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.playlists[playlistID]
	if !ok {
		return playlistNotFound(playlistID)
	}
	if _, ok := r.s.songs[songID]; !ok {
		return songNotFound(songID)
	}
	if p.Contains(songID) {
		return alreadyMember(playlistID, songID)
	}

	p = p.Clone()
	p.SongIDs = append(p.SongIDs, songID)
	r.s.playlists[playlistID] = p
	return nil
}
