// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

import (
	"encoding/json"

	"github.com/mixtapefm/mixtape/internal/models"
)

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// User represents the authenticated user's profile, fetched to resolve the
// owner id before creating a playlist.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Artist represents a track's artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Album represents a track's album.
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// TrackObject represents a full track object from the search endpoint.
type TrackObject struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	DurationMS int      `json:"duration_ms"`
	PreviewURL string   `json:"preview_url"`
	URI        string   `json:"uri"`
}

// Model converts a TrackObject into the app's [models.Track].
func (t TrackObject) Model() models.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	track := models.Track{
		ID:         t.ID,
		Name:       t.Name,
		Artists:    artists,
		Album:      t.Album.Name,
		PreviewURL: t.PreviewURL,
		DurationMS: t.DurationMS,
	}
	if len(t.Album.Images) > 0 {
		track.ImageURL = t.Album.Images[0].URL
	}

	return track
}

// SearchPage represents the track portion of a search response.
type SearchPage struct {
	Tracks struct {
		Items  []TrackObject `json:"items"`
		Total  int           `json:"total"`
		Limit  int           `json:"limit"`
		Offset int           `json:"offset"`
	} `json:"tracks"`
}

// Models converts the page's items into app tracks, preserving result order.
func (p *SearchPage) Models() []models.Track {
	tracks := make([]models.Track, len(p.Tracks.Items))
	for i, item := range p.Tracks.Items {
		tracks[i] = item.Model()
	}
	return tracks
}

// Playlist represents a playlist object as returned by the create endpoint.
type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Public      bool    `json:"public"`
	Images      []Image `json:"images"`
	URI         string  `json:"uri"`
}

// ImageURL returns the playlist's primary image URL, if any.
func (p *Playlist) ImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// Snapshot is the provider's acknowledgment after a playlist mutation.
type Snapshot struct {
	SnapshotID string `json:"snapshot_id"`
}

// Token is the token endpoint's response. The raw body is kept so the
// exchange proxy can pass it through verbatim.
type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	RefreshToken string `json:"refresh_token"`

	raw []byte
}

// Raw returns the unmodified token endpoint response body. A token built by
// hand rather than decoded from a response marshals itself instead.
func (t *Token) Raw() []byte {
	if t.raw == nil {
		raw, _ := json.Marshal(t)
		return raw
	}
	return t.raw
}
