package ui

import (
	"github.com/mixtapefm/mixtape/internal/flow"
	"github.com/mixtapefm/mixtape/internal/models"
)

// authURLMsg carries the authorization URL for the connect view.
type authURLMsg struct {
	url string
	err error
}

// callbackHandledMsg is the outcome of parsing a pasted redirect URL and
// running the token exchange.
type callbackHandledMsg struct {
	callback flow.Callback
	err      error
}

// searchDoneMsg carries replaced search results, or the error that left the
// previous results in place.
type searchDoneMsg struct {
	tracks []models.Track
	err    error
}

// commitDoneMsg carries the tagged result of a playlist commit.
type commitDoneMsg struct {
	result flow.CommitResult
}

// playlistsMsg carries the refreshed playlist mirror listing.
type playlistsMsg struct {
	playlists []*models.Playlist
	err       error
}

// expandedMsg carries one playlist's tracks after an expand toggle.
type expandedMsg struct {
	tracks []*models.PlaylistTrack
	err    error
}
