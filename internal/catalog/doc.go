// Package catalog implements the song and playlist catalog on top of the repositories in [models].
//
// # Operations
//
// [Service] exposes the eight catalog operations: list, create, update and delete songs; list, get and create
// playlists; and append a song to a playlist.
//
// # Atomicity
//
// Every operation holds the service mutex for its whole duration. Checks such as duplicate detection and the
// playlist reference scan before a delete run against the same state the following write sees, whichever
// storage backend is plugged in.
//
// # Errors
//
// Failures are reported as [*Error], whose Kind is one of [shared.ErrValidation], [shared.ErrNotFound] or
// [shared.ErrConflict]. Use [errors.Is] against those sentinels to pick a response. Storage failures are
// returned wrapped and unclassified.
package catalog
