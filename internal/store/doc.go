// Package store implements SQLite persistence for the local playlist mirror.
//
// The mirror records playlists created through the Spotify client and the
// tracks added to them, so the library survives restarts independently of any
// OAuth session. Writes happen after the corresponding remote mutation
// succeeded; no transaction spans the remote call and the local insert.
//
// Key Implementations:
//   - [PlaylistRepository] : playlist rows, newest first listing
//   - [TrackRepository] : ordered playlist tracks with batch recording
package store
