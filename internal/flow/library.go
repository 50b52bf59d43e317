package flow

import (
	"context"

	"github.com/mixtapefm/mixtape/internal/models"
	"github.com/mixtapefm/mixtape/internal/store"
)

// Store is the slice of the local mirror the flow drives.
type Store interface {
	CreatePlaylist(ctx context.Context, playlist *models.Playlist) error
	ListPlaylists(ctx context.Context) ([]*models.Playlist, error)
	RecordTracks(ctx context.Context, playlistID string, tracks []models.Track) error
	ListTracks(ctx context.Context, playlistID string) ([]*models.PlaylistTrack, error)
}

// Library adapts the SQLite repositories to the [Store] interface.
type Library struct {
	playlists *store.PlaylistRepository
	tracks    *store.TrackRepository
}

// NewLibrary creates a Library over the given repositories.
func NewLibrary(playlists *store.PlaylistRepository, tracks *store.TrackRepository) *Library {
	return &Library{playlists: playlists, tracks: tracks}
}

func (l *Library) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	return l.playlists.Create(ctx, playlist)
}

func (l *Library) ListPlaylists(ctx context.Context) ([]*models.Playlist, error) {
	return l.playlists.List(ctx)
}

func (l *Library) RecordTracks(ctx context.Context, playlistID string, tracks []models.Track) error {
	return l.tracks.RecordBatch(ctx, playlistID, tracks)
}

func (l *Library) ListTracks(ctx context.Context, playlistID string) ([]*models.PlaylistTrack, error) {
	return l.tracks.ListByPlaylist(ctx, playlistID)
}
