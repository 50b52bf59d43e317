// Package spotify implements the provider integration: authorization URL
// construction, the authorization-code exchange, and the three Web API
// actions the app uses (search tracks, create playlist, add tracks).
//
// [Client] talks to Spotify directly and backs the server's proxy endpoints.
// [ProxyClient] speaks the proxies' JSON action shapes over HTTP, so the
// client flow can run against a deployed server with the same interface.
//
// Both are stateless pass-throughs: no token is stored, no search pagination
// is followed, and track ids are not validated or deduplicated before an add.
// Any non-2xx provider response surfaces as [UpstreamError] with the original
// status code and body intact.
package spotify
