package main

import (
	"context"

	"github.com/desertthunder/catalog/internal/catalog"
	"github.com/urfave/cli/v3"
)

// SongsList lists songs, optionally filtered by title or artist.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	filter := cmd.String("filter")

	r.logger.Debug("listing songs", "filter", filter)

	songs, err := r.catalog(cmd).ListSongs(ctx, filter)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	return r.writePlain("%s\n", r.styles.SongTable(songs))
}

// SongsAdd creates a song from --title and --artist.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	in := catalog.SongInput{
		Title:  optional(cmd, "title"),
		Artist: optional(cmd, "artist"),
	}

	song, err := r.catalog(cmd).CreateSong(ctx, in)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(song, cmd.Bool("pretty"))
	}

	return r.writePlain("%s Added song %d: %s by %s\n", r.styles.OK("✓"), song.ID, song.Title, song.Artist)
}

// SongsUpdate changes the fields given on the command line and leaves the others alone.
func (r *Runner) SongsUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int("id")
	in := catalog.SongInput{
		Title:  optional(cmd, "title"),
		Artist: optional(cmd, "artist"),
	}

	song, err := r.catalog(cmd).UpdateSong(ctx, id, in)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(song, cmd.Bool("pretty"))
	}

	return r.writePlain("%s Updated song %d: %s by %s\n", r.styles.OK("✓"), song.ID, song.Title, song.Artist)
}

// SongsDelete removes a song.
func (r *Runner) SongsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int("id")

	song, err := r.catalog(cmd).DeleteSong(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(song, cmd.Bool("pretty"))
	}

	return r.writePlain("%s Deleted song %d: %s by %s\n", r.styles.OK("✓"), song.ID, song.Title, song.Artist)
}

// optional returns the value of a string flag, or nil when it was not given.
func optional(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.String(name)
	return &v
}
