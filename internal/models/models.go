// package models defines the data model shared across the app
package models

import (
	"strings"
	"time"
)

// Track is a track as returned by the provider's search endpoint.
// Immutable once fetched.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"` // ordered as the provider lists them
	Album      string   `json:"album"`
	ImageURL   string   `json:"image_url,omitempty"`
	PreviewURL string   `json:"preview_url,omitempty"`
	DurationMS int      `json:"duration_ms"`
}

// ArtistLine flattens the ordered artist names for display and persistence.
func (t Track) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// Playlist is the local mirror of a playlist created on the provider.
type Playlist struct {
	ID          string    `json:"id"` // local id, not the provider's
	SpotifyID   string    `json:"spotify_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	TotalTracks int       `json:"total_tracks"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaylistTrack is one recorded track membership. Rows belong to exactly one
// playlist; Position preserves addition order.
type PlaylistTrack struct {
	ID             string    `json:"id"`
	PlaylistID     string    `json:"playlist_id"`
	SpotifyTrackID string    `json:"spotify_track_id"`
	TrackName      string    `json:"track_name"`
	ArtistName     string    `json:"artist_name"` // flattened, comma-joined
	AlbumName      string    `json:"album_name"`
	DurationMS     int       `json:"duration_ms"`
	PreviewURL     string    `json:"preview_url,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	Position       int       `json:"position"`
	AddedAt        time.Time `json:"added_at"`
}

// Track converts a recorded row back into a playable [Track]. The flattened
// artist line stays flattened; the provider's split is not recoverable.
func (pt PlaylistTrack) Track() Track {
	return Track{
		ID:         pt.SpotifyTrackID,
		Name:       pt.TrackName,
		Artists:    []string{pt.ArtistName},
		Album:      pt.AlbumName,
		ImageURL:   pt.ImageURL,
		PreviewURL: pt.PreviewURL,
		DurationMS: pt.DurationMS,
	}
}
