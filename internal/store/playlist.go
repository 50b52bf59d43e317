package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mixtapefm/mixtape/internal/models"
	"github.com/mixtapefm/mixtape/internal/shared"
)

// PlaylistRepository handles playlist rows in the local mirror.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist with a generated local ID.
//
// spotify_id uniqueness is not enforced; creating the same remote playlist
// twice yields two mirror rows, matching what actually happened remotely.
func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	if playlist.Name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	now := time.Now()
	playlist.ID = shared.GenerateID()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now

	query := `
		INSERT INTO playlists (id, spotify_id, name, description, image_url, total_tracks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		playlist.ID,
		playlist.SpotifyID,
		playlist.Name,
		playlist.Description,
		playlist.ImageURL,
		playlist.TotalTracks,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by local ID
func (r *PlaylistRepository) Get(ctx context.Context, id string) (*models.Playlist, error) {
	query := `
		SELECT id, spotify_id, name, description, image_url, total_tracks, created_at, updated_at
		FROM playlists
		WHERE id = ?
	`

	playlist, err := scanPlaylist(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	return playlist, nil
}

// List retrieves all playlists, newest first
func (r *PlaylistRepository) List(ctx context.Context) ([]*models.Playlist, error) {
	query := `
		SELECT id, spotify_id, name, description, image_url, total_tracks, created_at, updated_at
		FROM playlists
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan logic
type scanner interface {
	Scan(dest ...any) error
}

func scanPlaylist(row scanner) (*models.Playlist, error) {
	var p models.Playlist
	err := row.Scan(
		&p.ID,
		&p.SpotifyID,
		&p.Name,
		&p.Description,
		&p.ImageURL,
		&p.TotalTracks,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
