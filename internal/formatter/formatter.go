// package formatter provides functions to export playlist data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/desertthunder/catalog/internal/models"
	"github.com/desertthunder/catalog/internal/shared"
)

// Export formats understood by [Export].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
	FormatJSON     = "json"
)

// ParseFormat resolves a user supplied format name, accepting common aliases ("md", "text").
func ParseFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// Extension returns the file extension, without a dot, for a format returned by [ParseFormat].
func Extension(format string) string {
	switch format {
	case FormatMarkdown:
		return "md"
	default:
		return format
	}
}

// Export renders a playlist in the named format.
func Export(detail *models.PlaylistDetail, format string) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatCSV:
		return ExportToCSV(detail)
	case FormatMarkdown:
		return ExportToMarkdown(detail)
	case FormatJSON:
		return ExportToJSON(detail)
	default:
		return ExportToText(detail)
	}
}

// ExportToCSV converts a PlaylistDetail to CSV format with columns: Position, ID, Title, Artist
func ExportToCSV(detail *models.PlaylistDetail) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Title", "Artist"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range detail.Songs {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(song.ID),
			song.Title,
			song.Artist,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a PlaylistDetail to Markdown format
func ExportToMarkdown(detail *models.PlaylistDetail) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", detail.Name)
	fmt.Fprintf(&buf, "**Playlist ID**: %d\n", detail.ID)
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(detail.Songs))

	buf.WriteString("## Tracks\n\n")
	if len(detail.Songs) == 0 {
		buf.WriteString("_No tracks yet._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| # | Title | Artist |\n")
	buf.WriteString("|---|-------|--------|\n")
	for i, song := range detail.Songs {
		fmt.Fprintf(&buf, "| %d | %s | %s |\n", i+1, escapeCell(song.Title), escapeCell(song.Artist))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PlaylistDetail to plain text format
func ExportToText(detail *models.PlaylistDetail) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", detail.Name)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(detail.Songs))

	for i, song := range detail.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, song.Artist, song.Title)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the playlist exactly as the API returns it, indented.
func ExportToJSON(detail *models.PlaylistDetail) ([]byte, error) {
	data, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal playlist: %w", err)
	}
	return append(data, '\n'), nil
}

// Filename returns the default export filename for a playlist, e.g. "1_hot-hits-iceland.csv".
func Filename(detail *models.PlaylistDetail, format string) string {
	return fmt.Sprintf("%d_%s.%s", detail.ID, Slug(detail.Name), Extension(format))
}

// WriteExport renders detail and writes it to path, defaulting to [Filename] in the working directory.
//
// Returns the path written.
func WriteExport(detail *models.PlaylistDetail, format, path string) (string, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return "", err
	}

	data, err := Export(detail, f)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = Filename(detail, f)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s export: %w", f, err)
	}
	return path, nil
}

// ManifestEntry records the outcome of exporting one playlist.
type ManifestEntry struct {
	PlaylistID   int      `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Status       string   `json:"status"`
	Files        []string `json:"files,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Manifest summarizes a bulk export.
type Manifest struct {
	Format            string          `json:"format"`
	ExportedAt        time.Time       `json:"exported_at"`
	OutputDirectory   string          `json:"output_directory"`
	TotalPlaylists    int             `json:"total_playlists"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Playlists         []ManifestEntry `json:"playlists"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m *Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Slug lowercases name and replaces runs of characters other than letters and digits with "-".
func Slug(name string) string {
	var b strings.Builder
	dash := false

	for _, r := range strings.ToLower(name) {
		if isSlugRune(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "playlist"
	}
	return slug
}

func isSlugRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
