package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mixtapefm/mixtape/internal/server"
	"github.com/mixtapefm/mixtape/internal/shared"
	"github.com/mixtapefm/mixtape/internal/spotify"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP server hosting the token exchange proxy, the Spotify
// action proxy and the playlist mirror reads.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	db, playlists, tracks, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	// The action proxy authenticates with the caller's bearer token, so it
	// stays up even when the application credentials are missing; only the
	// token exchange refuses to serve.
	var exchanger server.TokenExchanger
	var actions server.ActionProxy
	client, clientErr := spotify.NewClient(r.config.Credentials.Spotify)
	if clientErr != nil {
		r.logger.Warn("spotify credentials not configured, token exchange will reject requests", "error", clientErr)
		actions = spotify.NewActionClient()
	} else {
		exchanger = client
		actions = client
	}

	router := server.NewBasicRouter()
	router.Use(
		server.RequestLogging(r.logger),
		server.CORS(),
		server.RateLimit(r.config.Server.RateLimit),
	)
	router.Handler(server.NewAuthHandler(exchanger, clientErr, shared.WithLogger(r.logger, "handler", "auth")))
	router.Handler(server.NewActionHandler(actions, shared.WithLogger(r.logger, "handler", "actions")))
	router.Handler(server.NewPlaylistHandler(playlists, tracks, shared.WithLogger(r.logger, "handler", "playlists")))
	router.Handle(http.MethodGet, "/health", server.HealthHandler())

	host := r.config.Server.Host
	if flagHost := cmd.String("host"); flagHost != "" {
		host = flagHost
	}
	port := r.config.Server.Port
	if flagPort := int(cmd.Int("port")); flagPort != 0 {
		port = flagPort
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
