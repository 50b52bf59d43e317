package main

import (
	"context"
	"fmt"

	"github.com/mixtapefm/mixtape/internal/flow"
	"github.com/mixtapefm/mixtape/internal/formatter"
	"github.com/mixtapefm/mixtape/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Playlists lists the locally recorded playlist mirror.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	db, playlists, _, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	recorded, err := playlists.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(recorded, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.FormatPlaylistList(recorded))
}

// PlaylistsExport exports recorded playlists to files in bulk.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	db, playlists, tracks, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	engine := tasks.NewExportEngine(flow.NewLibrary(playlists, tracks))

	prog := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.ExportAll(ctx, prog, tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		IDs:        cmd.StringSlice("id"),
	})
	close(prog)
	<-done

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("Exported %d/%d playlists to %s", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlain("%d exports failed; see %s\n", result.FailedExports, result.ManifestPath)
	}
	return nil
}
