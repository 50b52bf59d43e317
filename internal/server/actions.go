package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mixtapefm/mixtape/internal/spotify"
)

// actionProxyRequest is the envelope browser clients post to the action proxy.
// playlistId and trackIds mirror the camelCase the web client sends.
type actionProxyRequest struct {
	Action      string   `json:"action"`
	AccessToken string   `json:"accessToken"`
	Query       string   `json:"query,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	PlaylistID  string   `json:"playlistId,omitempty"`
	TrackIDs    []string `json:"trackIds,omitempty"`
}

// ActionHandler is the Spotify action proxy. It holds no session: each
// request carries its bearer token, and Spotify's verdict on that token
// (expiry, permissions) flows back to the caller with status and body intact.
type ActionHandler struct {
	actions ActionProxy
	logger  *log.Logger
}

// NewActionHandler creates the Spotify action proxy handler.
func NewActionHandler(actions ActionProxy, logger *log.Logger) *ActionHandler {
	return &ActionHandler{actions: actions, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *ActionHandler) Routes() []string {
	return []string{spotify.ActionProxyPath}
}

func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req actionProxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.AccessToken == "" {
		writeError(w, http.StatusBadRequest, "access token is required", "")
		return
	}

	var (
		body []byte
		err  error
	)

	switch req.Action {
	case "searchTracks":
		body, err = h.actions.SearchTracksRaw(r.Context(), req.AccessToken, req.Query)
	case "createPlaylist":
		body, err = h.actions.CreatePlaylistRaw(r.Context(), req.AccessToken, req.Name, req.Description)
	case "addTracksToPlaylist":
		body, err = h.actions.AddTracksRaw(r.Context(), req.AccessToken, req.PlaylistID, req.TrackIDs)
	default:
		writeError(w, http.StatusBadRequest, "unknown action", req.Action)
		return
	}

	if err != nil {
		var upstream *spotify.UpstreamError
		if errors.As(err, &upstream) {
			h.logger.Warn("spotify rejected action", "action", req.Action, "status", upstream.StatusCode)
			writeUpstream(w, upstream)
			return
		}
		h.logger.Error("spotify action failed", "action", req.Action, "error", err)
		writeError(w, http.StatusInternalServerError, "spotify request failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
