// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// clientFlags returns the flags shared by commands that talk to a running server.
func clientFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:    "url",
			Usage:   "Base URL of the catalog API (default: client.base_url from config)",
			Sources: cli.EnvVars("CATALOG_URL"),
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}, extra...)
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the catalog HTTP API",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (default: server.host from config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (default: server.port from config)",
			},
			&cli.StringFlag{
				Name:  "driver",
				Usage: "Storage backend: memory, sqlite or mongo (default: database.driver from config)",
			},
			&cli.BoolFlag{
				Name:  "no-seed",
				Usage: "Start with an empty catalog",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand prepares configuration and the SQLite database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create configuration and run database migrations",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the SQLite database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupRollback,
			},
		},
	}
}

// songsCommand handles song operations against a running server
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "List and edit songs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List songs",
				Flags: clientFlags(
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Only songs whose title or artist contains this text",
					},
				),
				Action: r.SongsList,
			},
			{
				Name:  "add",
				Usage: "Add a song",
				Flags: clientFlags(
					&cli.StringFlag{Name: "title", Usage: "Song title", Required: true},
					&cli.StringFlag{Name: "artist", Usage: "Song artist", Required: true},
				),
				Action: r.SongsAdd,
			},
			{
				Name:  "update",
				Usage: "Change the title or artist of a song",
				Flags: clientFlags(
					&cli.IntFlag{Name: "id", Usage: "Song ID", Required: true},
					&cli.StringFlag{Name: "title", Usage: "New title"},
					&cli.StringFlag{Name: "artist", Usage: "New artist"},
				),
				Action: r.SongsUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a song that is in no playlist",
				Flags: clientFlags(
					&cli.IntFlag{Name: "id", Usage: "Song ID", Required: true},
				),
				Action: r.SongsDelete,
			},
		},
	}
}

// playlistsCommand handles playlist operations against a running server
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "List, build and export playlists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List playlists",
				Flags:  clientFlags(),
				Action: r.PlaylistsList,
			},
			{
				Name:  "show",
				Usage: "Show a playlist with its songs",
				Flags: clientFlags(
					&cli.IntFlag{Name: "id", Usage: "Playlist ID", Required: true},
				),
				Action: r.PlaylistsShow,
			},
			{
				Name:  "create",
				Usage: "Create an empty playlist",
				Flags: clientFlags(
					&cli.StringFlag{Name: "name", Usage: "Playlist name", Required: true},
				),
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "add",
				Usage: "Append a song to a playlist",
				Flags: clientFlags(
					&cli.IntFlag{Name: "playlist-id", Usage: "Playlist ID", Required: true},
					&cli.IntFlag{Name: "song-id", Usage: "Song ID", Required: true},
				),
				Action: r.PlaylistsAdd,
			},
			{
				Name:  "export",
				Usage: "Export one playlist, or all of them with --all",
				Flags: clientFlags(
					&cli.IntFlag{Name: "id", Usage: "Playlist ID to export"},
					&cli.BoolFlag{Name: "all", Usage: "Export every playlist into --output as a directory"},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: json, csv, markdown, txt",
						Value: "txt",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file, '-' for stdout, or directory with --all",
					},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent writers with --all", Value: 4},
					&cli.FloatFlag{Name: "rate", Usage: "Playlist fetches per second with --all", Value: 10},
				),
				Action: r.PlaylistsExport,
			},
		},
	}
}

// healthCommand checks a running server
func healthCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check that the catalog API is reachable",
		Flags:  clientFlags(),
		Action: r.Health,
	}
}
