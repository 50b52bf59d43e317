// package server contains the routing, middleware & proxy handlers for the playlist service
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mixtapefm/mixtape/internal/spotify"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the playlist service.
// Implementations handle specific endpoints (auth exchange, Spotify actions, store reads).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// TokenExchanger is the slice of the Spotify client the auth proxy needs.
type TokenExchanger interface {
	AuthURL(ctx context.Context) (string, error)
	ExchangeCode(ctx context.Context, code string) (*spotify.Token, error)
}

// ActionProxy is the slice of the Spotify client the action proxy needs.
// Raw variants return the provider's JSON untouched so clients see exactly
// what Spotify sent.
type ActionProxy interface {
	SearchTracksRaw(ctx context.Context, accessToken, query string) ([]byte, error)
	CreatePlaylistRaw(ctx context.Context, accessToken, name, description string) ([]byte, error)
	AddTracksRaw(ctx context.Context, accessToken, playlistID string, trackIDs []string) ([]byte, error)
}

// errorBody is the JSON error envelope shared by the proxy endpoints.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}

// writeUpstream relays a provider rejection verbatim, preserving its status
// code and body so clients can distinguish expiry (401) from permissions (403).
func writeUpstream(w http.ResponseWriter, err *spotify.UpstreamError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.Body)
}
