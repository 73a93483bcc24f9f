// Package tasks runs long catalog operations in the background with real-time progress reporting.
//
// # Bulk Export
//
// [PlaylistEngine.BulkExport] writes many playlists to disk at once:
//
//  1. Resolves the playlist ids, listing every playlist when none are given
//  2. Fetches each playlist from a [PlaylistSource] under a rate limit
//  3. Hands fetched playlists to a pool of workers that write them with the formatter package
//  4. Writes export_manifest.json recording the outcome of every playlist
//
// A failed playlist is recorded in the result and the manifest. It never stops the rest of the run.
//
// # Progress Reporting
//
// Operations report through a [ProgressUpdate] channel. Sends use select with default, so a slow or absent
// reader never blocks the export.
package tasks
