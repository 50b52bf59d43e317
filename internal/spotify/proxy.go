// HTTP client for the mixtape server's action proxies, for flows running
// outside the server process. Speaks the same JSON action shapes the page
// uses.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mixtapefm/mixtape/internal/models"
)

const (
	// Proxy endpoint paths served by internal/server.
	AuthProxyPath   = "/functions/spotify-auth"
	ActionProxyPath = "/functions/spotify-api"
)

// ProxyClient invokes the auth and action proxies over HTTP.
type ProxyClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewProxyClient creates a proxy client for the server at baseURL.
func NewProxyClient(baseURL string, client *http.Client) *ProxyClient {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ProxyClient{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// actionRequest is the request body both proxies accept.
type actionRequest struct {
	Action      string   `json:"action"`
	Code        string   `json:"code,omitempty"`
	AccessToken string   `json:"accessToken,omitempty"`
	Query       string   `json:"query,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	PlaylistID  string   `json:"playlistId,omitempty"`
	TrackIDs    []string `json:"trackIds,omitempty"`
}

// invoke POSTs an action request and returns the response body. Non-2xx
// responses become [UpstreamError] so callers see the same failure shape as
// with the in-process [Client].
func (p *ProxyClient) invoke(ctx context.Context, path string, req actionRequest) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
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

// AuthURL fetches the provider authorization URL from the auth proxy.
func (p *ProxyClient) AuthURL(ctx context.Context) (string, error) {
	body, err := p.invoke(ctx, AuthProxyPath, actionRequest{Action: "getAuthUrl"})
	if err != nil {
		return "", err
	}

	var payload struct {
		AuthURL string `json:"authUrl"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode auth URL response: %w", err)
	}

	return payload.AuthURL, nil
}

// ExchangeCode exchanges an authorization code through the auth proxy.
func (p *ProxyClient) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	body, err := p.invoke(ctx, AuthProxyPath, actionRequest{Action: "getAccessToken", Code: code})
	if err != nil {
		return nil, err
	}

	token := &Token{raw: body}
	if err := json.Unmarshal(body, token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return token, nil
}

// SearchTracks searches tracks through the action proxy.
func (p *ProxyClient) SearchTracks(ctx context.Context, accessToken, query string) ([]models.Track, error) {
	body, err := p.invoke(ctx, ActionProxyPath, actionRequest{
		Action:      "searchTracks",
		AccessToken: accessToken,
		Query:       query,
	})
	if err != nil {
		return nil, err
	}

	var page SearchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return page.Models(), nil
}

// CreatePlaylist creates a playlist through the action proxy.
func (p *ProxyClient) CreatePlaylist(ctx context.Context, accessToken, name, description string) (*Playlist, error) {
	body, err := p.invoke(ctx, ActionProxyPath, actionRequest{
		Action:      "createPlaylist",
		AccessToken: accessToken,
		Name:        name,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	var playlist Playlist
	if err := json.Unmarshal(body, &playlist); err != nil {
		return nil, fmt.Errorf("failed to decode playlist response: %w", err)
	}

	return &playlist, nil
}

// AddTracks adds tracks to a playlist through the action proxy and returns
// the snapshot id.
func (p *ProxyClient) AddTracks(ctx context.Context, accessToken, playlistID string, trackIDs []string) (string, error) {
	body, err := p.invoke(ctx, ActionProxyPath, actionRequest{
		Action:      "addTracksToPlaylist",
		AccessToken: accessToken,
		PlaylistID:  playlistID,
		TrackIDs:    trackIDs,
	})
	if err != nil {
		return "", err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return "", fmt.Errorf("failed to decode snapshot response: %w", err)
	}

	return snapshot.SnapshotID, nil
}
