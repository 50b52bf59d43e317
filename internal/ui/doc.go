// Package ui implements the terminal interface with bubbletea. The model is
// a thin view over [flow.Flow]: key handlers call flow operations inside
// tea.Cmd closures and the resulting messages re-render whatever state the
// flow now holds. Four views cover the session: connecting the Spotify
// account, searching and picking tracks, naming a new playlist, and browsing
// the recorded playlist mirror.
package ui
