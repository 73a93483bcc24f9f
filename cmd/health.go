package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Health checks that the server at the configured URL answers.
func (r *Runner) Health(ctx context.Context, cmd *cli.Command) error {
	client := r.client(cmd)

	if err := client.Health(ctx); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]string{"status": "ok", "url": client.BaseURL()}, cmd.Bool("pretty"))
	}
	return r.writePlain("%s %s is healthy\n", r.styles.OK("✓"), client.BaseURL())
}
