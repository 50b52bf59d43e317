package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mixtapefm/mixtape/internal/models"
	"github.com/mixtapefm/mixtape/internal/shared"
	"github.com/mixtapefm/mixtape/internal/store"
)

// PlaylistHandler serves read access to the local playlist mirror.
type PlaylistHandler struct {
	playlists *store.PlaylistRepository
	tracks    *store.TrackRepository
	logger    *log.Logger
}

// NewPlaylistHandler creates the mirror read handler.
func NewPlaylistHandler(playlists *store.PlaylistRepository, tracks *store.TrackRepository, logger *log.Logger) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists, tracks: tracks, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *PlaylistHandler) Routes() []string {
	return []string{
		"GET /api/playlists",
		"GET /api/playlists/{id}/tracks",
	}
}

func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if id := r.PathValue("id"); id != "" {
		h.listTracks(w, r, id)
		return
	}
	h.listPlaylists(w, r)
}

func (h *PlaylistHandler) listPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.playlists.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list playlists", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list playlists", err.Error())
		return
	}

	if playlists == nil {
		playlists = []*models.Playlist{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlists": playlists})
}

func (h *PlaylistHandler) listTracks(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.playlists.Get(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrPlaylistNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found", id)
			return
		}
		h.logger.Error("failed to load playlist", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load playlist", err.Error())
		return
	}

	tracks, err := h.tracks.ListByPlaylist(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list tracks", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list tracks", err.Error())
		return
	}

	if tracks == nil {
		tracks = []*models.PlaylistTrack{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}

// HealthHandler answers liveness probes.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
