// Package flow implements the client-side state machine behind the rendering
// surface: OAuth session lifecycle, track search, the pending selection, and
// the two-phase playlist commits against Spotify and the local mirror.
//
// The package is UI-agnostic. A surface (the terminal UI, or a test) calls
// the [Flow] operations and renders whatever state comes back; nothing here
// blocks on user interaction.
//
// Commits return a [CommitResult] rather than a bare error because the remote
// mutation and the local mirror write are sequential, not atomic: the result
// tags whether both sides, only Spotify, or neither took the change, and at
// which stage a failure happened. Divergence is reported, never reconciled.
package flow
