package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/catalog/internal/catalog"
	"github.com/desertthunder/catalog/internal/formatter"
	"github.com/desertthunder/catalog/internal/models"
	"github.com/desertthunder/catalog/internal/shared"
	"github.com/desertthunder/catalog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistsList lists playlists with their raw song ids.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.catalog(cmd).ListPlaylists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	return r.writePlain("%s\n", r.styles.PlaylistTable(playlists))
}

// PlaylistsShow prints one playlist with its songs resolved.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	detail, err := r.catalog(cmd).GetPlaylist(ctx, cmd.Int("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, cmd.Bool("pretty"))
	}

	return r.writeDetail(detail)
}

// PlaylistsCreate creates an empty playlist named --name.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.catalog(cmd).CreatePlaylist(ctx, catalog.PlaylistInput{Name: optional(cmd, "name")})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	return r.writePlain("%s Created playlist %d: %s\n", r.styles.OK("✓"), playlist.ID, playlist.Name)
}

// PlaylistsAdd appends a song to the end of a playlist.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	detail, err := r.catalog(cmd).AddSongToPlaylist(ctx, cmd.Int("playlist-id"), cmd.Int("song-id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, cmd.Bool("pretty"))
	}

	if err := r.writePlain("%s Added song %d\n\n", r.styles.OK("✓"), cmd.Int("song-id")); err != nil {
		return err
	}
	return r.writeDetail(detail)
}

// PlaylistsExport writes one playlist to a file or stdout, or every playlist to a directory with --all.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		return r.exportAll(ctx, cmd, format)
	}

	if !cmd.IsSet("id") {
		return fmt.Errorf("%w: --id or --all is required", shared.ErrMissingArgument)
	}

	detail, err := r.catalog(cmd).GetPlaylist(ctx, cmd.Int("id"))
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "-" {
		data, err := formatter.Export(detail, format)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	path, err := formatter.WriteExport(detail, format, output)
	if err != nil {
		return err
	}

	r.logger.Info("playlist exported", "id", detail.ID, "format", format, "path", path)
	return r.writePlain("%s Exported %s (%d tracks) to %s\n", r.styles.OK("✓"), detail.Name, len(detail.Songs), path)
}

func (r *Runner) exportAll(ctx context.Context, cmd *cli.Command, format string) error {
	engine := tasks.NewPlaylistEngine(r.catalog(cmd), r.logger)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("%s\n", r.styles.Help(update.Message))
		}
	}()

	result, err := engine.BulkExport(ctx, progressCh, nil, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Manifest(format), cmd.Bool("pretty"))
	}

	r.writePlainln("%s", r.styles.Title("Export complete"))
	r.writePlain("Playlists: %d\n", result.TotalPlaylists)
	r.writePlain("%s %d exported\n", r.styles.OK("✓"), result.SuccessfulExports)
	if result.FailedExports > 0 {
		r.writePlain("%s %d failed\n", r.styles.Err("✗"), result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %v\n", res.PlaylistName, res.Error)
			}
		}
	}
	return r.writePlain("Manifest: %s\n", result.ManifestPath)
}

func (r *Runner) writeDetail(detail *models.PlaylistDetail) error {
	if err := r.writePlainHeader(fmt.Sprintf("%s (#%d)", detail.Name, detail.ID)); err != nil {
		return err
	}
	return r.writePlain("%s\n", r.styles.TrackTable(detail))
}
