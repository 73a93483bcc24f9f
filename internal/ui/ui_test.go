package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/catalog/internal/models"
)

func TestPalette(t *testing.T) {
	p := NewPalette("#000000", "#000001", "#000002", "#000003", "#000004")

	t.Run("Renders Text", func(t *testing.T) {
		for name, got := range map[string]string{
			"Title": p.Title("hello"),
			"OK":    p.OK("hello"),
			"Err":   p.Err("hello"),
			"Warn":  p.Warn("hello"),
			"Help":  p.Help("hello"),
			"On":    p.On("hello", lipgloss.Color("#FFFFFF")),
			"As":    p.As("hello", lipgloss.Color("#FFFFFF")),
		} {
			if !strings.Contains(got, "hello") {
				t.Errorf("%s() = %q, want it to contain hello", name, got)
			}
		}
	})

	t.Run("SongTable", func(t *testing.T) {
		got := p.SongTable([]models.Song{
			{ID: 1, Title: "Cry For Me", Artist: "The Weeknd"},
			{ID: 5, Title: "Róa", Artist: "VÆB"},
		})
		for _, want := range []string{"TITLE", "ARTIST", "Cry For Me", "The Weeknd", "Róa", "VÆB"} {
			if !strings.Contains(got, want) {
				t.Errorf("table missing %q:\n%s", want, got)
			}
		}

		if got := p.SongTable(nil); !strings.Contains(got, "No songs found.") {
			t.Errorf("empty table = %q", got)
		}
	})

	t.Run("PlaylistTable", func(t *testing.T) {
		got := p.PlaylistTable([]models.Playlist{
			{ID: 2, Name: "Workout Playlist", SongIDs: []int{2, 5, 6}},
		})
		for _, want := range []string{"NAME", "Workout Playlist", "2, 5, 6"} {
			if !strings.Contains(got, want) {
				t.Errorf("table missing %q:\n%s", want, got)
			}
		}

		if got := p.PlaylistTable([]models.Playlist{}); !strings.Contains(got, "No playlists found.") {
			t.Errorf("empty table = %q", got)
		}
	})

	t.Run("TrackTable", func(t *testing.T) {
		detail := &models.PlaylistDetail{
			Playlist: models.Playlist{ID: 1, Name: "Mix", SongIDs: []int{4}},
			Songs:    []models.Song{{ID: 4, Title: "Abracadabra", Artist: "Lady Gaga"}},
		}
		got := p.TrackTable(detail)
		if !strings.Contains(got, "Abracadabra") || !strings.Contains(got, "Lady Gaga") {
			t.Errorf("table missing track:\n%s", got)
		}

		detail.Songs = nil
		if got := p.TrackTable(detail); !strings.Contains(got, "No tracks yet.") {
			t.Errorf("empty table = %q", got)
		}
	})
}
