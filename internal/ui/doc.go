// Package ui renders CLI output with lipgloss.
//
// [Palette] holds the named styles the commands print with. Its table helpers lay out songs, playlists and
// playlist tracks as bordered tables. When output is not a terminal lipgloss drops the colors and leaves the
// plain text.
package ui
