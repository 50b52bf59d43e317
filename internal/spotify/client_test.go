package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mixtapefm/mixtape/internal/shared"
	th "github.com/mixtapefm/mixtape/internal/testing"
)

func testConfig() shared.SpotifyConfig {
	return shared.SpotifyConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		RedirectURI:  "http://localhost:3000/playlist",
	}
}

// countingTransport fails every request and counts attempts, to prove that
// input validation short-circuits before any outbound call.
type countingTransport struct {
	calls int
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls++
	return nil, errors.New("no network in this test")
}

func TestNewClient(t *testing.T) {
	t.Run("With Valid Credentials", func(t *testing.T) {
		client, err := NewClient(testConfig())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client == nil {
			t.Fatal("expected client to be created")
		}
	})

	t.Run("Missing Client ID", func(t *testing.T) {
		cfg := testConfig()
		cfg.ClientID = ""
		if _, err := NewClient(cfg); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Missing Client Secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.ClientSecret = ""
		if _, err := NewClient(cfg); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Missing Redirect URI", func(t *testing.T) {
		cfg := testConfig()
		cfg.RedirectURI = ""
		if _, err := NewClient(cfg); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestAuthURL(t *testing.T) {
	client, err := NewClient(testConfig())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	authURL, err := client.AuthURL(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("auth URL should parse: %v", err)
	}

	if parsed.Host != "accounts.spotify.com" {
		t.Errorf("auth URL should point at accounts.spotify.com, got %s", parsed.Host)
	}

	q := parsed.Query()
	if q.Get("client_id") != "test_client_id" {
		t.Errorf("expected client_id in auth URL, got %s", q.Get("client_id"))
	}
	if q.Get("response_type") != "code" {
		t.Errorf("expected response_type=code, got %s", q.Get("response_type"))
	}
	if q.Get("state") != AuthState {
		t.Errorf("expected state=%s, got %s", AuthState, q.Get("state"))
	}
	if q.Get("redirect_uri") != "http://localhost:3000/playlist" {
		t.Errorf("expected configured redirect_uri, got %s", q.Get("redirect_uri"))
	}
	if scope := q.Get("scope"); !strings.Contains(scope, "playlist-modify-private") || !strings.Contains(scope, "user-read-private") {
		t.Errorf("expected playlist scopes, got %s", scope)
	}
}

func TestExchangeCode(t *testing.T) {
	t.Run("Blank Code Issues No Call", func(t *testing.T) {
		client, err := NewClient(testConfig())
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		transport := &countingTransport{}
		client.httpClient = &http.Client{Transport: transport}

		_, err = client.ExchangeCode(context.Background(), "")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if transport.calls != 0 {
			t.Errorf("expected no outbound call, got %d", transport.calls)
		}
	})

	t.Run("Successful Exchange", func(t *testing.T) {
		var gotAuth, gotBody string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"tok1","token_type":"Bearer","expires_in":3600}`))
		}))
		defer server.Close()

		client, err := NewClient(testConfig())
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		client.config.Endpoint.TokenURL = server.URL

		token, err := client.ExchangeCode(context.Background(), "abc123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if token.AccessToken != "tok1" {
			t.Errorf("expected access token tok1, got %s", token.AccessToken)
		}
		if !strings.HasPrefix(gotAuth, "Basic ") {
			t.Errorf("expected Basic authorization header, got %s", gotAuth)
		}
		if !strings.Contains(gotBody, "grant_type=authorization_code") || !strings.Contains(gotBody, "code=abc123") {
			t.Errorf("unexpected form body: %s", gotBody)
		}
		if !strings.Contains(gotBody, "redirect_uri=") {
			t.Errorf("expected redirect_uri in form body: %s", gotBody)
		}
		if !strings.Contains(string(token.Raw()), `"access_token":"tok1"`) {
			t.Error("expected raw body to be preserved")
		}
	})

	t.Run("Rejected Exchange", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
		}))
		defer server.Close()

		client, err := NewClient(testConfig())
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		client.config.Endpoint.TokenURL = server.URL

		_, err = client.ExchangeCode(context.Background(), "expired")
		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if upstream.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", upstream.StatusCode)
		}
		if !strings.Contains(string(upstream.Body), "invalid_grant") {
			t.Errorf("expected upstream body to be preserved, got %s", upstream.Body)
		}
		if !errors.Is(err, shared.ErrUpstream) {
			t.Error("UpstreamError should unwrap to ErrUpstream")
		}
	})
}

func TestSearchTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("expected /search, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "daft punk" || q.Get("type") != "track" || q.Get("limit") != "20" {
			t.Errorf("unexpected search query: %v", q)
		}
		if r.Header.Get("Authorization") != "Bearer tok1" {
			t.Errorf("expected bearer token, got %s", r.Header.Get("Authorization"))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"tracks": map[string]any{
				"items": []map[string]any{
					{
						"id":          "t1",
						"name":        "One More Time",
						"artists":     []map[string]any{{"name": "Daft Punk"}},
						"album":       map[string]any{"name": "Discovery", "images": []map[string]any{{"url": "http://img/1"}}},
						"duration_ms": 320000,
						"preview_url": "http://preview/1",
					},
				},
				"total": 1, "limit": 20, "offset": 0,
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	client.baseURL = server.URL

	tracks, err := client.SearchTracks(context.Background(), "tok1", "daft punk")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(tracks))
	}
	track := tracks[0]
	if track.ID != "t1" || track.Name != "One More Time" {
		t.Errorf("unexpected track: %+v", track)
	}
	if track.ArtistLine() != "Daft Punk" {
		t.Errorf("expected flattened artist line, got %s", track.ArtistLine())
	}
	if track.ImageURL != "http://img/1" || track.PreviewURL != "http://preview/1" {
		t.Errorf("expected image and preview URLs, got %+v", track)
	}
}

func TestCreatePlaylist(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(User{ID: "user1", DisplayName: "Tester"})
	})
	mux.HandleFunc("/users/user1/playlists", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["name"] != "Our Mix" || payload["public"] != false {
			t.Errorf("unexpected create payload: %v", payload)
		}
		json.NewEncoder(w).Encode(Playlist{ID: "pl1", Name: "Our Mix"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(testConfig())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	client.baseURL = server.URL

	playlist, err := client.CreatePlaylist(context.Background(), "tok1", "Our Mix", "for us")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if playlist.ID != "pl1" {
		t.Errorf("expected playlist id pl1, got %s", playlist.ID)
	}
}

func TestAddTracks(t *testing.T) {
	t.Run("Maps IDs To URIs", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists/pl1/tracks" {
				t.Errorf("expected playlist tracks path, got %s", r.URL.Path)
			}
			var payload struct {
				URIs []string `json:"uris"`
			}
			json.NewDecoder(r.Body).Decode(&payload)
			want := []string{"spotify:track:t1", "spotify:track:t2"}
			if len(payload.URIs) != 2 || payload.URIs[0] != want[0] || payload.URIs[1] != want[1] {
				t.Errorf("expected %v, got %v", want, payload.URIs)
			}
			json.NewEncoder(w).Encode(Snapshot{SnapshotID: "snap1"})
		}))
		defer server.Close()

		client, err := NewClient(testConfig())
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		client.baseURL = server.URL

		snapshot, err := client.AddTracks(context.Background(), "tok1", "pl1", []string{"t1", "t2"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if snapshot != "snap1" {
			t.Errorf("expected snapshot snap1, got %s", snapshot)
		}
	})

	t.Run("Forbidden Passes Through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"status":403,"message":"Insufficient client scope"}}`))
		}))
		defer server.Close()

		client, err := NewClient(testConfig())
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		client.baseURL = server.URL

		_, err = client.AddTracks(context.Background(), "tok1", "pl1", []string{"t1"})
		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if upstream.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", upstream.StatusCode)
		}
	})
}

func TestTransportFailures(t *testing.T) {
	t.Run("Dial Failure", func(t *testing.T) {
		client, err := NewClient(testConfig())
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		client.httpClient = &http.Client{Transport: th.NewMockRoundTripper(nil, errors.New("dial failed"))}

		if _, err := client.SearchTracks(context.Background(), "tok1", "daft punk"); err == nil {
			t.Error("expected transport error to surface")
		}
	})

	t.Run("Unreadable Body", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &th.FCloser{}, Header: http.Header{}}

		client, err := NewClient(testConfig())
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		client.httpClient = &http.Client{Transport: th.NewMockRoundTripper(resp, nil)}

		if _, err := client.SearchTracksRaw(context.Background(), "tok1", "daft punk"); err == nil {
			t.Error("expected body read error to surface")
		}
	})
}
