// Package server provides HTTP routing, middleware, and the two Spotify proxy endpoints.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Proxy Endpoints
//
// [AuthHandler] serves POST /functions/spotify-auth, the token exchange proxy.
// It builds the Spotify authorization URL and trades callback codes for tokens
// using the server-side client secret. Tokens are returned to the caller, never
// stored; the proxy keeps no session.
//
// [ActionHandler] serves POST /functions/spotify-api, the action proxy.
// Every request carries the caller's bearer token and a discriminating action
// (searchTracks, createPlaylist, addTracksToPlaylist). Spotify's JSON passes
// through untouched, and a provider rejection keeps its original status code
// and body so clients can tell an expired token (401) from missing scopes (403).
//
// # Store Reads
//
// [PlaylistHandler] exposes the local playlist mirror read-only under
// /api/playlists, for clients that want the library without a Spotify session.
//
// # Middleware
//
// [RequestLogging], [CORS] and [RateLimit] are applied by the serve command.
// CORS answers preflight directly so browser clients can call the proxies
// cross-origin.
package server
