package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mixtapefm/mixtape/internal/models"
	"github.com/mixtapefm/mixtape/internal/shared"
)

// TrackRepository handles the ordered track rows belonging to mirrored playlists.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// RecordBatch inserts one row per track in the given order, appending after any
// rows already recorded for the playlist. After the inserts it sets the owning
// playlist's total_tracks to the actual row count and refreshes updated_at, so
// the counter never drifts from the rows across repeated batches.
func (r *TrackRepository) RecordBatch(ctx context.Context, playlistID string, tracks []models.Track) error {
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}
	if len(tracks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM playlist_tracks WHERE playlist_id = ?`,
		playlistID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to read next position: %w", err)
	}

	now := time.Now()
	insert := `
		INSERT INTO playlist_tracks (id, playlist_id, spotify_track_id, track_name, artist_name, album_name, duration_ms, preview_url, image_url, position, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, track := range tracks {
		_, err := tx.ExecContext(ctx, insert,
			shared.GenerateID(),
			playlistID,
			track.ID,
			track.Name,
			track.ArtistLine(),
			track.Album,
			track.DurationMS,
			track.PreviewURL,
			track.ImageURL,
			next+i,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert track %s: %w", track.ID, err)
		}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE playlists
		SET total_tracks = (SELECT COUNT(*) FROM playlist_tracks WHERE playlist_id = ?), updated_at = ?
		WHERE id = ?
	`, playlistID, now, playlistID)
	if err != nil {
		return fmt.Errorf("failed to update track count: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit track batch: %w", err)
	}

	return nil
}

// ListByPlaylist retrieves a playlist's tracks in addition order
func (r *TrackRepository) ListByPlaylist(ctx context.Context, playlistID string) ([]*models.PlaylistTrack, error) {
	query := `
		SELECT id, playlist_id, spotify_track_id, track_name, artist_name, album_name, duration_ms, preview_url, image_url, position, added_at
		FROM playlist_tracks
		WHERE playlist_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.PlaylistTrack
	for rows.Next() {
		var t models.PlaylistTrack
		err := rows.Scan(
			&t.ID,
			&t.PlaylistID,
			&t.SpotifyTrackID,
			&t.TrackName,
			&t.ArtistName,
			&t.AlbumName,
			&t.DurationMS,
			&t.PreviewURL,
			&t.ImageURL,
			&t.Position,
			&t.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist track: %w", err)
		}
		tracks = append(tracks, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}
