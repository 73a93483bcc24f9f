package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/catalog/internal/models"
)

// SongTable renders songs as an ID/Title/Artist table.
func (p *Palette) SongTable(songs []models.Song) string {
	if len(songs) == 0 {
		return p.Help("No songs found.")
	}

	rows := make([][]string, 0, len(songs))
	for _, s := range songs {
		rows = append(rows, []string{strconv.Itoa(s.ID), s.Title, s.Artist})
	}
	return p.table(rows, "ID", "TITLE", "ARTIST")
}

// PlaylistTable renders playlists with their track counts and raw song ids.
func (p *Palette) PlaylistTable(playlists []models.Playlist) string {
	if len(playlists) == 0 {
		return p.Help("No playlists found.")
	}

	rows := make([][]string, 0, len(playlists))
	for _, pl := range playlists {
		ids := make([]string, 0, len(pl.SongIDs))
		for _, id := range pl.SongIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		rows = append(rows, []string{
			strconv.Itoa(pl.ID), pl.Name, strconv.Itoa(len(pl.SongIDs)), strings.Join(ids, ", "),
		})
	}
	return p.table(rows, "ID", "NAME", "TRACKS", "SONG IDS")
}

// TrackTable renders the resolved songs of a playlist in track order.
func (p *Palette) TrackTable(detail *models.PlaylistDetail) string {
	if len(detail.Songs) == 0 {
		return p.Help("No tracks yet.")
	}

	rows := make([][]string, 0, len(detail.Songs))
	for i, s := range detail.Songs {
		rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(s.ID), s.Title, s.Artist})
	}
	return p.table(rows, "#", "ID", "TITLE", "ARTIST")
}

func (p *Palette) table(rows [][]string, headers ...string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.title.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}
