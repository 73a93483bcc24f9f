// package models defines the data model for the catalog service
package models

import (
	"context"
	"slices"
)

// Song is a catalog entry.
type Song struct {
	ID     int    `json:"id" bson:"_id"`
	Title  string `json:"title" bson:"title"`
	Artist string `json:"artist" bson:"artist"`
}

// Playlist is a named collection of song references in track order.
type Playlist struct {
	ID      int    `json:"id" bson:"_id"`
	Name    string `json:"name" bson:"name"`
	SongIDs []int  `json:"songIds" bson:"songIds"`
}

// PlaylistDetail is a [Playlist] with its SongIDs resolved to songs.
type PlaylistDetail struct {
	Playlist
	Songs []Song `json:"songs"`
}

// Contains reports whether songID is a member of the playlist.
func (p *Playlist) Contains(songID int) bool {
	return slices.Contains(p.SongIDs, songID)
}

// Clone returns a copy that shares no memory with p.
func (p Playlist) Clone() Playlist {
	ids := make([]int, len(p.SongIDs))
	copy(ids, p.SongIDs)
	p.SongIDs = ids
	return p
}

// SongRepository defines storage operations for songs.
type SongRepository interface {
	// List returns all songs in id order
	List(ctx context.Context) ([]Song, error)
	// Get retrieves a song by id
	Get(ctx context.Context, id int) (*Song, error)
	// Create assigns the next id to song and stores it
	Create(ctx context.Context, song *Song) error
	// Update replaces the stored title and artist
	Update(ctx context.Context, song *Song) error
	// Delete removes a song by id
	Delete(ctx context.Context, id int) error
}

// PlaylistRepository defines storage operations for playlists.
type PlaylistRepository interface {
	// List returns all playlists in id order
	List(ctx context.Context) ([]Playlist, error)
	// Get retrieves a playlist by id
	Get(ctx context.Context, id int) (*Playlist, error)
	// Create assigns the next id to playlist and stores it
	Create(ctx context.Context, playlist *Playlist) error
	// AppendSong adds songID at the end of the playlist
	AppendSong(ctx context.Context, playlistID, songID int) error
}
