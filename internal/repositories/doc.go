// Package repositories implements catalog storage backends behind the [models.SongRepository] and
// [models.PlaylistRepository] interfaces.
//
// Key Implementations:
//   - [MemoryStore] : process-lifetime maps keyed by id, the default backend
//   - [SQLiteStore] : tables created by the embedded migrations in internal/shared
//   - [MongoStore] : one collection per entity plus a counters collection
//
// Every backend assigns ids from per-collection counters that only move forward, so an id is never
// handed out twice even after the entity it named was deleted. [Store.Seed] loads sample data into an
// empty store and advances the counters past the highest seeded id.
//
// Lookups of missing entities fail with [shared.ErrSongNotFound] or [shared.ErrPlaylistNotFound];
// duplicate membership and constraint violations fail with [shared.ErrConflict].
package repositories
