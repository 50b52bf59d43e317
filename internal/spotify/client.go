package spotify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mixtapefm/mixtape/internal/models"
	"github.com/mixtapefm/mixtape/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// AuthState is the fixed anti-forgery state value used on the redirect
	// round-trip. It is part of the wire contract with the page, not a
	// per-session nonce.
	AuthState = "spotify_auth"

	searchLimit = 20
)

var scopes = []string{
	"playlist-modify-public",
	"playlist-modify-private",
	"user-read-private",
}

// UpstreamError wraps a non-2xx provider response, preserving the original
// status code and body so proxies can pass both through.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("spotify API error: status %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return shared.ErrUpstream
}

// Client talks to the Spotify accounts service and Web API. It holds no
// token: every action takes the caller-supplied bearer token, and the code
// exchange returns the token to the caller.
type Client struct {
	config     *oauth2.Config
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Client from the configured application credentials.
// Fails fast when the client id or secret is not configured; the exchange
// must never be attempted with partial credentials.
func NewClient(cfg shared.SpotifyConfig) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: spotify client_id not configured", shared.ErrMissingCredentials)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_secret not configured", shared.ErrMissingCredentials)
	}
	if cfg.RedirectURI == "" {
		return nil, fmt.Errorf("%w: spotify redirect_uri not configured", shared.ErrMissingCredentials)
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   spotifyAuthURL,
			TokenURL:  spotifyTokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &Client{
		config:     config,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
	}, nil
}

// NewActionClient creates a Client that can perform bearer-token actions but
// cannot run the authorization flow. Actions authenticate with the caller's
// access token, so the application credentials are not needed.
func NewActionClient() *Client {
	return &Client{
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
	}
}

// AuthURL builds the authorization URL the page navigates to for consent.
func (c *Client) AuthURL(_ context.Context) (string, error) {
	return c.config.AuthCodeURL(AuthState), nil
}

// ExchangeCode exchanges an authorization code for tokens by POSTing the
// token endpoint with HTTP Basic client credentials and the fixed redirect
// URI. The raw response body is preserved for passthrough.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", shared.ErrInvalidInput)
	}

	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.config.RedirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(c.config.ClientID + ":" + c.config.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}

	token := &Token{raw: body}
	if err := json.Unmarshal(body, token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response missing access_token", shared.ErrAuthFailed)
	}

	return token, nil
}

// doRequest performs a bearer-authenticated request against the Web API and
// returns the raw response body. Non-2xx responses become [UpstreamError].
func (c *Client) doRequest(ctx context.Context, method, accessToken, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}

	return body, nil
}

// SearchTracksRaw performs a track search and returns the provider's payload
// verbatim. Limit 20, track type only, no pagination.
func (c *Client) SearchTracksRaw(ctx context.Context, accessToken, query string) ([]byte, error) {
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), searchLimit)
	return c.doRequest(ctx, http.MethodGet, accessToken, endpoint, nil)
}

// SearchTracks performs a track search and returns the result tracks in
// provider order.
func (c *Client) SearchTracks(ctx context.Context, accessToken, query string) ([]models.Track, error) {
	body, err := c.SearchTracksRaw(ctx, accessToken, query)
	if err != nil {
		return nil, err
	}

	var page SearchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return page.Models(), nil
}

// CurrentUser resolves the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	body, err := c.doRequest(ctx, http.MethodGet, accessToken, "/me", nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user profile: %w", err)
	}

	return &user, nil
}

// CreatePlaylistRaw resolves the current user, then creates a private
// playlist under that user, returning the provider's playlist object
// verbatim.
func (c *Client) CreatePlaylistRaw(ctx context.Context, accessToken, name, description string) ([]byte, error) {
	user, err := c.CurrentUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"name":        name,
		"description": description,
		"public":      false,
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(user.ID))
	return c.doRequest(ctx, http.MethodPost, accessToken, endpoint, payload)
}

// CreatePlaylist creates a private playlist and returns the decoded object.
func (c *Client) CreatePlaylist(ctx context.Context, accessToken, name, description string) (*Playlist, error) {
	body, err := c.CreatePlaylistRaw(ctx, accessToken, name, description)
	if err != nil {
		return nil, err
	}

	var playlist Playlist
	if err := json.Unmarshal(body, &playlist); err != nil {
		return nil, fmt.Errorf("failed to decode playlist response: %w", err)
	}

	return &playlist, nil
}

// AddTracksRaw maps the raw track ids to spotify:track URIs and posts them to
// the playlist, returning the snapshot response verbatim. Ids are not
// validated or deduplicated.
func (c *Client) AddTracksRaw(ctx context.Context, accessToken, playlistID string, trackIDs []string) ([]byte, error) {
	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		uris[i] = "spotify:track:" + id
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return c.doRequest(ctx, http.MethodPost, accessToken, endpoint, map[string]any{"uris": uris})
}

// AddTracks posts the track ids to the playlist and returns the snapshot id.
func (c *Client) AddTracks(ctx context.Context, accessToken, playlistID string, trackIDs []string) (string, error) {
	body, err := c.AddTracksRaw(ctx, accessToken, playlistID, trackIDs)
	if err != nil {
		return "", err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return "", fmt.Errorf("failed to decode snapshot response: %w", err)
	}

	return snapshot.SnapshotID, nil
}
