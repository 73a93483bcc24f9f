// Package models defines the catalog's domain entities and the persistence interfaces backends implement.
//
//   - [Song] : a catalog entry identified by a server-assigned integer id
//   - [Playlist] : a uniquely named, ordered list of song ids
//   - [PlaylistDetail] : a playlist with its song ids resolved to full [Song] values
//
// [SongRepository] and [PlaylistRepository] are context-first CRUD interfaces keyed by integer id.
// Implementations live in internal/repositories.
package models
