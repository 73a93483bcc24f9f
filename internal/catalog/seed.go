package catalog

import "github.com/desertthunder/catalog/internal/models"

// SampleSongs returns the songs a fresh catalog is seeded with.
func SampleSongs() []models.Song {
	return []models.Song{
		{ID: 1, Title: "Cry For Me", Artist: "The Weeknd"},
		{ID: 2, Title: "Busy Woman", Artist: "Sabrina Carpenter"},
		{ID: 3, Title: "Call Me When You Break Up", Artist: "Selena Gomez, benny blanco, Gracie Adams"},
		{ID: 4, Title: "Abracadabra", Artist: "Lady Gaga"},
		{ID: 5, Title: "Róa", Artist: "VÆB"},
		{ID: 6, Title: "Messy", Artist: "Lola Young"},
		{ID: 7, Title: "Lucy", Artist: "Idle Cave"},
		{ID: 8, Title: "Eclipse", Artist: "parrow"},
	}
}

// SamplePlaylists returns the playlists a fresh catalog is seeded with.
//
// Every song id refers to an entry of [SampleSongs].
func SamplePlaylists() []models.Playlist {
	return []models.Playlist{
		{ID: 1, Name: "Hot Hits Iceland", SongIDs: []int{1, 2, 3, 4}},
		{ID: 2, Name: "Workout Playlist", SongIDs: []int{2, 5, 6}},
		{ID: 3, Name: "Lo-Fi Study", SongIDs: []int{}},
	}
}
