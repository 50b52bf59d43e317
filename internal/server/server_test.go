package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mixtapefm/mixtape/internal/models"
	"github.com/mixtapefm/mixtape/internal/shared"
	"github.com/mixtapefm/mixtape/internal/spotify"
	"github.com/mixtapefm/mixtape/internal/store"
)

// stubExchanger implements TokenExchanger for handler tests
type stubExchanger struct {
	url   string
	token *spotify.Token
	err   error
}

func (s *stubExchanger) AuthURL(_ context.Context) (string, error) {
	return s.url, s.err
}

func (s *stubExchanger) ExchangeCode(_ context.Context, code string) (*spotify.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.token, nil
}

// stubActions implements ActionProxy, recording the last action routed to it
type stubActions struct {
	body       []byte
	err        error
	lastAction string
}

func (s *stubActions) SearchTracksRaw(_ context.Context, _, _ string) ([]byte, error) {
	s.lastAction = "searchTracks"
	return s.body, s.err
}

func (s *stubActions) CreatePlaylistRaw(_ context.Context, _, _, _ string) ([]byte, error) {
	s.lastAction = "createPlaylist"
	return s.body, s.err
}

func (s *stubActions) AddTracksRaw(_ context.Context, _, _ string, _ []string) ([]byte, error) {
	s.lastAction = "addTracksToPlaylist"
	return s.body, s.err
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

func TestAuthHandler(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("Get Auth URL", func(t *testing.T) {
		handler := NewAuthHandler(&stubExchanger{url: "https://accounts.spotify.com/authorize?client_id=abc"}, nil, logger)

		rec := postJSON(t, handler, spotify.AuthProxyPath, map[string]string{"action": "getAuthUrl"})

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if !strings.Contains(body["authUrl"], "accounts.spotify.com") {
			t.Errorf("expected authUrl in response, got %v", body)
		}
	})

	t.Run("Exchange Returns Raw Token", func(t *testing.T) {
		token := &spotify.Token{AccessToken: "tok123", TokenType: "Bearer", ExpiresIn: 3600}
		handler := NewAuthHandler(&stubExchanger{token: token}, nil, logger)

		rec := postJSON(t, handler, spotify.AuthProxyPath, map[string]string{"action": "getAccessToken", "code": "abc"})

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["access_token"] != "tok123" {
			t.Errorf("expected access_token tok123, got %v", body["access_token"])
		}
		if body["expires_in"] != float64(3600) {
			t.Errorf("expected expires_in 3600, got %v", body["expires_in"])
		}
	})

	t.Run("Missing Code", func(t *testing.T) {
		handler := NewAuthHandler(&stubExchanger{}, nil, logger)

		rec := postJSON(t, handler, spotify.AuthProxyPath, map[string]string{"action": "getAccessToken"})

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.Error == "" {
			t.Error("expected error message in body")
		}
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		handler := NewAuthHandler(nil, shared.ErrMissingCredentials, logger)

		rec := postJSON(t, handler, spotify.AuthProxyPath, map[string]string{"action": "getAuthUrl"})

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
	})

	t.Run("Upstream Rejection Passes Through", func(t *testing.T) {
		upstream := &spotify.UpstreamError{StatusCode: http.StatusBadRequest, Body: []byte(`{"error":"invalid_grant"}`)}
		handler := NewAuthHandler(&stubExchanger{err: upstream}, nil, logger)

		rec := postJSON(t, handler, spotify.AuthProxyPath, map[string]string{"action": "getAccessToken", "code": "expired"})

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "invalid_grant") {
			t.Errorf("expected upstream body passed through, got %s", rec.Body.String())
		}
	})

	t.Run("Unknown Action", func(t *testing.T) {
		handler := NewAuthHandler(&stubExchanger{}, nil, logger)

		rec := postJSON(t, handler, spotify.AuthProxyPath, map[string]string{"action": "refreshToken"})

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("Rejects GET", func(t *testing.T) {
		handler := NewAuthHandler(&stubExchanger{}, nil, logger)

		req := httptest.NewRequest(http.MethodGet, spotify.AuthProxyPath, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", rec.Code)
		}
	})
}

func TestActionHandler(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("Routes Actions", func(t *testing.T) {
		cases := []struct {
			action  string
			payload map[string]any
		}{
			{"searchTracks", map[string]any{"query": "daft punk"}},
			{"createPlaylist", map[string]any{"name": "Mix"}},
			{"addTracksToPlaylist", map[string]any{"playlistId": "pl1", "trackIds": []string{"t1"}}},
		}

		for _, tc := range cases {
			t.Run(tc.action, func(t *testing.T) {
				actions := &stubActions{body: []byte(`{"ok":true}`)}
				handler := NewActionHandler(actions, logger)

				payload := map[string]any{"action": tc.action, "accessToken": "tok"}
				for k, v := range tc.payload {
					payload[k] = v
				}

				rec := postJSON(t, handler, spotify.ActionProxyPath, payload)

				if rec.Code != http.StatusOK {
					t.Fatalf("expected status 200, got %d", rec.Code)
				}
				if actions.lastAction != tc.action {
					t.Errorf("expected action %s routed, got %s", tc.action, actions.lastAction)
				}
				if rec.Body.String() != `{"ok":true}` {
					t.Errorf("expected raw body passed through, got %s", rec.Body.String())
				}
			})
		}
	})

	t.Run("Missing Access Token", func(t *testing.T) {
		handler := NewActionHandler(&stubActions{}, logger)

		rec := postJSON(t, handler, spotify.ActionProxyPath, map[string]string{"action": "searchTracks"})

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("Unknown Action", func(t *testing.T) {
		handler := NewActionHandler(&stubActions{}, logger)

		rec := postJSON(t, handler, spotify.ActionProxyPath, map[string]string{"action": "deletePlaylist", "accessToken": "tok"})

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.Details != "deletePlaylist" {
			t.Errorf("expected offending action in details, got %q", body.Details)
		}
	})

	t.Run("Forbidden Passes Through", func(t *testing.T) {
		upstream := &spotify.UpstreamError{StatusCode: http.StatusForbidden, Body: []byte(`{"error":{"status":403,"message":"Insufficient client scope"}}`)}
		handler := NewActionHandler(&stubActions{err: upstream}, logger)

		rec := postJSON(t, handler, spotify.ActionProxyPath, map[string]any{"action": "createPlaylist", "accessToken": "tok", "name": "Mix"})

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Insufficient client scope") {
			t.Errorf("expected upstream body passed through, got %s", rec.Body.String())
		}
	})
}

func setupStoreDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestPlaylistHandler(t *testing.T) {
	logger := shared.NewLogger(io.Discard)
	ctx := context.Background()

	newRouter := func(db *sql.DB) *BasicRouter {
		router := NewBasicRouter()
		router.Handler(NewPlaylistHandler(store.NewPlaylistRepository(db), store.NewTrackRepository(db), logger))
		return router
	}

	t.Run("List Playlists", func(t *testing.T) {
		db := setupStoreDB(t)
		playlists := store.NewPlaylistRepository(db)
		if err := playlists.Create(ctx, &models.Playlist{Name: "Road Trip", SpotifyID: "sp1"}); err != nil {
			t.Fatalf("failed to seed playlist: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/playlists", nil)
		rec := httptest.NewRecorder()
		newRouter(db).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var body struct {
			Playlists []models.Playlist `json:"playlists"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(body.Playlists) != 1 || body.Playlists[0].Name != "Road Trip" {
			t.Errorf("expected seeded playlist in response, got %+v", body.Playlists)
		}
	})

	t.Run("List Tracks", func(t *testing.T) {
		db := setupStoreDB(t)
		playlists := store.NewPlaylistRepository(db)
		tracks := store.NewTrackRepository(db)

		playlist := &models.Playlist{Name: "Road Trip"}
		if err := playlists.Create(ctx, playlist); err != nil {
			t.Fatalf("failed to seed playlist: %v", err)
		}
		batch := []models.Track{{ID: "t1", Name: "Song One", Artists: []string{"Artist"}}}
		if err := tracks.RecordBatch(ctx, playlist.ID, batch); err != nil {
			t.Fatalf("failed to seed tracks: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/playlists/"+playlist.ID+"/tracks", nil)
		rec := httptest.NewRecorder()
		newRouter(db).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var body struct {
			Tracks []models.PlaylistTrack `json:"tracks"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(body.Tracks) != 1 || body.Tracks[0].TrackName != "Song One" {
			t.Errorf("expected seeded track in response, got %+v", body.Tracks)
		}
	})

	t.Run("Unknown Playlist", func(t *testing.T) {
		db := setupStoreDB(t)

		req := httptest.NewRequest(http.MethodGet, "/api/playlists/nope/tracks", nil)
		rec := httptest.NewRecorder()
		newRouter(db).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("CORS Preflight", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(CORS())
		router.Handle("POST", spotify.AuthProxyPath, okHandler)

		req := httptest.NewRequest(http.MethodOptions, spotify.AuthProxyPath, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("expected wildcard origin, got %q", got)
		}
	})

	t.Run("Rate Limit", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(RateLimit(1))
		router.Handle("GET", "/health", okHandler)

		first := httptest.NewRecorder()
		router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
		if first.Code != http.StatusOK {
			t.Fatalf("expected first request to pass, got %d", first.Code)
		}

		second := httptest.NewRecorder()
		router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))
		if second.Code != http.StatusTooManyRequests {
			t.Errorf("expected second request limited with 429, got %d", second.Code)
		}
	})

	t.Run("Disabled Rate Limit", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(RateLimit(0))
		router.Handle("GET", "/health", okHandler)

		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("request %d: expected status 200, got %d", i, rec.Code)
			}
		}
	})
}

// TestProxyClientRoundTrip exercises the proxy client against a full router,
// the way the TUI talks to a running serve instance.
func TestProxyClientRoundTrip(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	searchPage := `{"tracks":{"items":[{"id":"t1","name":"One More Time","artists":[{"name":"Daft Punk"}],"album":{"name":"Discovery"},"duration_ms":320000}],"total":1,"limit":20,"offset":0}}`

	router := NewBasicRouter()
	router.Use(CORS())
	router.Handler(NewAuthHandler(&stubExchanger{
		url:   "https://accounts.spotify.com/authorize?client_id=abc&state=spotify_auth",
		token: &spotify.Token{AccessToken: "tok1", TokenType: "Bearer", ExpiresIn: 3600},
	}, nil, logger))
	router.Handler(NewActionHandler(&stubActions{body: []byte(searchPage)}, logger))

	srv := httptest.NewServer(router)
	defer srv.Close()

	client := spotify.NewProxyClient(srv.URL, nil)
	ctx := context.Background()

	t.Run("Auth URL", func(t *testing.T) {
		url, err := client.AuthURL(ctx)
		if err != nil {
			t.Fatalf("failed to fetch auth url: %v", err)
		}
		if !strings.Contains(url, "state=spotify_auth") {
			t.Errorf("expected state in auth url, got %s", url)
		}
	})

	t.Run("Exchange Code", func(t *testing.T) {
		token, err := client.ExchangeCode(ctx, "abc123")
		if err != nil {
			t.Fatalf("failed to exchange code: %v", err)
		}
		if token.AccessToken != "tok1" {
			t.Errorf("expected token tok1, got %s", token.AccessToken)
		}
	})

	t.Run("Search Tracks", func(t *testing.T) {
		tracks, err := client.SearchTracks(ctx, "tok1", "daft punk")
		if err != nil {
			t.Fatalf("failed to search: %v", err)
		}
		if len(tracks) != 1 || tracks[0].Name != "One More Time" {
			t.Fatalf("expected parsed search results, got %+v", tracks)
		}
		if tracks[0].ArtistLine() != "Daft Punk" {
			t.Errorf("expected artist line, got %s", tracks[0].ArtistLine())
		}
	})
}
