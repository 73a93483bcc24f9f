package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalog/internal/models"
	"github.com/desertthunder/catalog/internal/shared"
)

// PlaylistSource is the subset of the catalog operations an export needs.
//
// Both services.Service implementations satisfy it.
type PlaylistSource interface {
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)
	GetPlaylist(ctx context.Context, id int) (*models.PlaylistDetail, error)
}

// Exporter defines bulk operations over the playlists of a catalog.
type Exporter interface {
	// BulkExport writes every playlist in ids (all playlists when ids is empty) to opts.OutputDir.
	BulkExport(ctx context.Context, prog chan<- ProgressUpdate, ids []int, opts BulkExportOpts) (*BulkExportResult, error)
}

// PlaylistEngine implements [Exporter] against a [PlaylistSource].
type PlaylistEngine struct {
	source PlaylistSource
	logger *log.Logger
}

var _ Exporter = (*PlaylistEngine)(nil)

// NewPlaylistEngine creates a new PlaylistEngine reading from source.
func NewPlaylistEngine(source PlaylistSource, logger *log.Logger) *PlaylistEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &PlaylistEngine{
		source: source,
		logger: shared.WithLogger(logger, "component", "export"),
	}
}

// PlaylistExportJob is a fetched playlist waiting to be written.
type PlaylistExportJob struct {
	PlaylistID int
	Detail     *models.PlaylistDetail
}

// PlaylistExportResult is the outcome of exporting one playlist.
type PlaylistExportResult struct {
	PlaylistID   int
	PlaylistName string
	Success      bool
	Files        []string
	Error        error
}

// BulkExportResult summarizes a [PlaylistEngine.BulkExport] run.
type BulkExportResult struct {
	TotalPlaylists    int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []PlaylistExportResult // ordered by PlaylistID
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
