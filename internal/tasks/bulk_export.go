package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/catalog/internal/formatter"
	"github.com/desertthunder/catalog/internal/shared"
	"golang.org/x/time/rate"
)

// ManifestName is the file written next to the exports.
const ManifestName = "export_manifest.json"

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: catalog_export_{epoch})
	NumWorkers int     // Concurrent writers (default: 4, max: 10)
	RateLimit  float64 // Playlist fetches per second (default: 10)
}

func (o *BulkExportOpts) defaults() error {
	format, err := formatter.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	o.Format = format

	if o.OutputDir == "" {
		o.OutputDir = fmt.Sprintf("catalog_export_%d", time.Now().Unix())
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = 4
	}
	if o.NumWorkers > 10 {
		o.NumWorkers = 10
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 10.0
	}
	return nil
}

// BulkExport exports multiple playlists concurrently with rate limiting and progress tracking.
//
// Playlists are fetched one at a time under the rate limit and handed to a pool of writers. A playlist that
// cannot be fetched or written is recorded as failed without stopping the others. When every playlist has been
// handled a manifest summarizing the run is written to [ManifestName] in the output directory.
func (e *PlaylistEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []int,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: playlist source not initialized", shared.ErrServiceUnavailable)
	}
	if err := opts.defaults(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		e.sendProgress(prog, fetchPlaylistsUpdate(0, 0))
		playlists, err := e.source.ListPlaylists(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list playlists: %w", err)
		}
		for _, p := range playlists {
			ids = append(ids, p.ID)
		}
		e.sendProgress(prog, fetchPlaylistsUpdate(len(ids), len(ids)))
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalPlaylists:  len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(ids)),
	}

	e.logger.Info("starting bulk export", "playlists", len(ids), "format", opts.Format, "dir", opts.OutputDir)

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan PlaylistExportJob, len(ids))
	results := make(chan PlaylistExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)

		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			detail, err := e.source.GetPlaylist(ctx, id)
			if err != nil {
				results <- PlaylistExportResult{
					PlaylistID:   id,
					PlaylistName: fmt.Sprintf("Unknown (%d)", id),
					Error:        fmt.Errorf("failed to fetch playlist: %w", err),
				}
				continue
			}

			e.sendProgress(prog, exportingPlaylistUpdate(i+1, len(ids), detail.Name))
			jobs <- PlaylistExportJob{PlaylistID: id, Detail: detail}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.logger.Warn("playlist export failed", "id", res.PlaylistID, "error", res.Error)
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.PlaylistName, res.Error))
		}
	}

	slices.SortFunc(result.Results, func(a, b PlaylistExportResult) int {
		return a.PlaylistID - b.PlaylistID
	})

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export interrupted: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestName)
	e.sendProgress(prog, writeManifestUpdate(manifestPath))
	if err := formatter.WriteManifest(result.Manifest(opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.logger.Info("bulk export finished",
		"succeeded", result.SuccessfulExports, "failed", result.FailedExports, "manifest", manifestPath)
	return result, nil
}

// exportWorker writes playlists from the jobs channel until it is closed.
func (e *PlaylistEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan PlaylistExportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			continue
		}
		results <- e.exportSinglePlaylist(job, opts)
	}
}

// exportSinglePlaylist writes one playlist in the requested format.
func (e *PlaylistEngine) exportSinglePlaylist(j PlaylistExportJob, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   j.PlaylistID,
		PlaylistName: j.Detail.Name,
		Files:        []string{},
	}

	path := filepath.Join(opts.OutputDir, formatter.Filename(j.Detail, opts.Format))
	written, err := formatter.WriteExport(j.Detail, opts.Format, path)
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		return result
	}

	result.Files = []string{written}
	result.Success = true
	return result
}

// Manifest summarizes the result in the form written to [ManifestName].
func (r *BulkExportResult) Manifest(format string) *formatter.Manifest {
	m := &formatter.Manifest{
		Format:            format,
		ExportedAt:        time.Now().UTC(),
		OutputDirectory:   r.OutputDirectory,
		TotalPlaylists:    r.TotalPlaylists,
		SuccessfulExports: r.SuccessfulExports,
		FailedExports:     r.FailedExports,
		Playlists:         make([]formatter.ManifestEntry, 0, len(r.Results)),
	}

	for _, res := range r.Results {
		entry := formatter.ManifestEntry{
			PlaylistID:   res.PlaylistID,
			PlaylistName: res.PlaylistName,
			Status:       "success",
			Files:        res.Files,
		}
		if !res.Success {
			entry.Status = "failed"
			if res.Error != nil {
				entry.Error = res.Error.Error()
			}
		}
		m.Playlists = append(m.Playlists, entry)
	}
	return m
}

// IsPartial reports whether some but not all playlists failed.
func (r *BulkExportResult) IsPartial() bool {
	return r.FailedExports > 0 && r.SuccessfulExports > 0
}

// Err joins the errors of every failed playlist, or returns nil.
func (r *BulkExportResult) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Error != nil {
			errs = append(errs, fmt.Errorf("playlist %d: %w", res.PlaylistID, res.Error))
		}
	}
	return errors.Join(errs...)
}
