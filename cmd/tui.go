package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mixtapefm/mixtape/internal/flow"
	"github.com/mixtapefm/mixtape/internal/shared"
	"github.com/mixtapefm/mixtape/internal/spotify"
	"github.com/mixtapefm/mixtape/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for building playlists.
//
// With --server the flow talks to a running mixtape server through the proxy
// client; otherwise it talks to Spotify directly using the configured
// application credentials.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	var auth flow.Authenticator
	var actions flow.Actions

	if serverURL := cmd.String("server"); serverURL != "" {
		proxy := spotify.NewProxyClient(serverURL, nil)
		auth, actions = proxy, proxy
	} else {
		client, err := spotify.NewClient(r.config.Credentials.Spotify)
		if err != nil {
			return fmt.Errorf("cannot start without credentials (or use --server): %w", err)
		}
		auth, actions = client, client
	}

	db, playlists, tracks, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mixtape-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, log.DebugLevel)

	f := flow.New(auth, actions, flow.NewLibrary(playlists, tracks), fileLogger)
	model := ui.NewModel(ctx, f)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
