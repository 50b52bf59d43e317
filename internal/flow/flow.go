package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mixtapefm/mixtape/internal/models"
	"github.com/mixtapefm/mixtape/internal/shared"
	"github.com/mixtapefm/mixtape/internal/spotify"
)

// Authenticator is the slice of the Spotify client that drives the OAuth dance.
// Both the direct client and the proxy client satisfy it.
type Authenticator interface {
	AuthURL(ctx context.Context) (string, error)
	ExchangeCode(ctx context.Context, code string) (*spotify.Token, error)
}

// Actions is the slice of the Spotify client the flow mutates playlists through.
type Actions interface {
	SearchTracks(ctx context.Context, accessToken, query string) ([]models.Track, error)
	CreatePlaylist(ctx context.Context, accessToken, name, description string) (*spotify.Playlist, error)
	AddTracks(ctx context.Context, accessToken, playlistID string, trackIDs []string) (string, error)
}

// Flow is the state machine behind the rendering surface: session, search
// results, pending selection, mirrored playlists and the playback queue.
// It is built for single-goroutine use; overlapping calls settle
// last-write-wins and nothing is retried.
type Flow struct {
	auth    Authenticator
	actions Actions
	library Store
	logger  *log.Logger

	session   Session
	results   []models.Track
	selection *Selection
	playlists []*models.Playlist

	expanded       string
	expandedTracks []*models.PlaylistTrack

	surface PlaybackSurface
	queue   *Queue
}

// New creates a Flow in the Unauthenticated state.
func New(auth Authenticator, actions Actions, library Store, logger *log.Logger) *Flow {
	return &Flow{
		auth:      auth,
		actions:   actions,
		library:   library,
		logger:    logger,
		selection: NewSelection(),
	}
}

// SetPlaybackSurface attaches the surface Play hands tracks to.
func (f *Flow) SetPlaybackSurface(surface PlaybackSurface) {
	f.surface = surface
}

// Session returns a snapshot of the session.
func (f *Flow) Session() Session {
	return f.session
}

// Results returns the current search results.
func (f *Flow) Results() []models.Track {
	return f.results
}

// Selection returns the pending track selection.
func (f *Flow) Selection() *Selection {
	return f.selection
}

// Playlists returns the mirrored playlists from the last refresh.
func (f *Flow) Playlists() []*models.Playlist {
	return f.playlists
}

// Expanded returns the currently expanded playlist id and its tracks.
func (f *Flow) Expanded() (string, []*models.PlaylistTrack) {
	return f.expanded, f.expandedTracks
}

// NowPlaying returns the active playback queue, nil before the first Play.
func (f *Flow) NowPlaying() *Queue {
	return f.queue
}

// Connect starts a fresh auth attempt and returns the authorization URL for
// the surface to navigate to. Leaves the Failed state.
func (f *Flow) Connect(ctx context.Context) (string, error) {
	url, err := f.auth.AuthURL(ctx)
	if err != nil {
		return "", err
	}

	f.session = Session{}
	return url, nil
}

// HandleCallback inspects a redirect URL once and, when it carries an
// authorization code, drives the token exchange. The parsed callback is
// returned so the surface knows to clear the URL whenever it is not
// [NotACallback].
func (f *Flow) HandleCallback(ctx context.Context, rawURL string) (Callback, error) {
	callback := ParseCallback(rawURL)

	switch cb := callback.(type) {
	case NotACallback:
		return callback, nil

	case CallbackDenied:
		f.logger.Warn("authorization denied", "reason", cb.Reason)
		f.session.fail(cb.Reason)
		return callback, fmt.Errorf("%w: %s", shared.ErrAuthDenied, cb.Reason)

	case CallbackCode:
		f.session.beginAuth()

		token, err := f.auth.ExchangeCode(ctx, cb.Code)
		if err != nil {
			f.logger.Error("token exchange failed", "error", err)
			f.session.fail(err.Error())
			return callback, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}

		f.session.authenticate(token.AccessToken)
		return callback, nil
	}

	return callback, nil
}

// Search replaces the results with matches for query. A blank or
// whitespace-only query issues no call and leaves the results alone, as does
// a failed search.
func (f *Flow) Search(ctx context.Context, query string) ([]models.Track, error) {
	if f.session.state != Authenticated {
		return nil, shared.ErrNotAuthenticated
	}

	if strings.TrimSpace(query) == "" {
		return f.results, nil
	}

	tracks, err := f.actions.SearchTracks(ctx, f.session.token, query)
	if err != nil {
		return f.results, err
	}

	f.results = tracks
	return f.results, nil
}

// Select adds a track to the pending selection. Reports whether the
// selection changed.
func (f *Flow) Select(track models.Track) bool {
	return f.selection.Add(track)
}

// Deselect removes a track id from the pending selection. Reports whether
// the selection changed.
func (f *Flow) Deselect(id string) bool {
	return f.selection.Remove(id)
}

// CreatePlaylistWithSelection creates the playlist on Spotify, mirrors it
// locally, and, when the selection is non-empty, commits the selection to it.
func (f *Flow) CreatePlaylistWithSelection(ctx context.Context, name, description string) CommitResult {
	if f.session.state != Authenticated {
		return CommitResult{Outcome: CommitFailed, Stage: StageCreateRemote, Err: shared.ErrNotAuthenticated}
	}
	if strings.TrimSpace(name) == "" {
		return CommitResult{Outcome: CommitFailed, Stage: StageCreateRemote, Err: fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)}
	}

	remote, err := f.actions.CreatePlaylist(ctx, f.session.token, name, description)
	if err != nil {
		return CommitResult{Outcome: CommitFailed, Stage: StageCreateRemote, Err: err}
	}

	local := &models.Playlist{
		SpotifyID:   remote.ID,
		Name:        remote.Name,
		Description: remote.Description,
		ImageURL:    remote.ImageURL(),
	}
	if err := f.library.CreatePlaylist(ctx, local); err != nil {
		f.logger.Error("playlist mirror write failed", "spotify_id", remote.ID, "error", err)
		return CommitResult{Outcome: CommitRemoteOnly, Stage: StageMirrorLocal, SpotifyID: remote.ID, Err: err}
	}

	if f.selection.Len() == 0 {
		f.refresh(ctx)
		return CommitResult{Outcome: CommitRemoteAndLocal, Playlist: local, SpotifyID: remote.ID}
	}

	result := f.AddSelectionToPlaylist(ctx, local.ID, remote.ID)
	result.Playlist = local
	return result
}

// AddSelectionToPlaylist commits the pending selection to an existing
// playlist: the remote add first, then the local record. A remote failure
// keeps the selection so the user can retry; once Spotify has accepted the
// tracks the selection clears even if the local record fails, since retrying
// would duplicate them remotely.
func (f *Flow) AddSelectionToPlaylist(ctx context.Context, localID, spotifyID string) CommitResult {
	if f.session.state != Authenticated {
		return CommitResult{Outcome: CommitFailed, Stage: StageAddRemote, Err: shared.ErrNotAuthenticated}
	}
	if f.selection.Len() == 0 {
		return CommitResult{Outcome: CommitFailed, Stage: StageAddRemote, Err: fmt.Errorf("%w: selection is empty", shared.ErrInvalidInput)}
	}

	tracks := f.selection.Tracks()

	if _, err := f.actions.AddTracks(ctx, f.session.token, spotifyID, f.selection.IDs()); err != nil {
		return CommitResult{Outcome: CommitFailed, Stage: StageAddRemote, SpotifyID: spotifyID, Err: err}
	}

	f.selection.Clear()

	if err := f.library.RecordTracks(ctx, localID, tracks); err != nil {
		f.logger.Error("track record failed", "playlist_id", localID, "error", err)
		return CommitResult{Outcome: CommitRemoteOnly, Stage: StageRecordLocal, SpotifyID: spotifyID, Err: err}
	}

	f.refresh(ctx)
	return CommitResult{Outcome: CommitRemoteAndLocal, SpotifyID: spotifyID}
}

// RefreshPlaylists reloads the mirrored playlist list.
func (f *Flow) RefreshPlaylists(ctx context.Context) ([]*models.Playlist, error) {
	playlists, err := f.library.ListPlaylists(ctx)
	if err != nil {
		return f.playlists, err
	}

	f.playlists = playlists
	return f.playlists, nil
}

// refresh is the best-effort variant used after commits; a stale list is
// tolerable there.
func (f *Flow) refresh(ctx context.Context) {
	if _, err := f.RefreshPlaylists(ctx); err != nil {
		f.logger.Warn("playlist refresh failed", "error", err)
	}
}

// ExpandPlaylist toggles which playlist's tracks are shown. Expanding always
// re-fetches from the mirror; expanding the already-expanded playlist
// collapses it without a fetch.
func (f *Flow) ExpandPlaylist(ctx context.Context, localID string) ([]*models.PlaylistTrack, error) {
	if f.expanded == localID {
		f.expanded = ""
		f.expandedTracks = nil
		return nil, nil
	}

	tracks, err := f.library.ListTracks(ctx, localID)
	if err != nil {
		return nil, err
	}

	f.expanded = localID
	f.expandedTracks = tracks
	return tracks, nil
}

// Play builds a queue over the exact list the track was shown in and hands
// the current track to the playback surface.
func (f *Flow) Play(track models.Track, context []models.Track) *Queue {
	f.queue = NewQueue(track, context)
	if f.surface != nil {
		f.surface.NowPlaying(f.queue.Current())
	}
	return f.queue
}

// Next advances the playback queue, if one is active.
func (f *Flow) Next() {
	if f.queue == nil {
		return
	}
	track := f.queue.Next()
	if f.surface != nil {
		f.surface.NowPlaying(track)
	}
}

// Previous steps the playback queue back, if one is active.
func (f *Flow) Previous() {
	if f.queue == nil {
		return
	}
	track := f.queue.Previous()
	if f.surface != nil {
		f.surface.NowPlaying(track)
	}
}
