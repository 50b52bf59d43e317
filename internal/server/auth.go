package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mixtapefm/mixtape/internal/spotify"
)

// authRequest is the envelope browser clients post to the token exchange proxy.
type authRequest struct {
	Action string `json:"action"`
	Code   string `json:"code,omitempty"`
}

// AuthHandler is the token exchange proxy. It keeps the client secret
// server-side: clients ask it for the authorization URL and trade callback
// codes for tokens, and the token is returned to the caller rather than
// stored here.
type AuthHandler struct {
	exchanger TokenExchanger
	configErr error
	logger    *log.Logger
}

// NewAuthHandler creates the token exchange proxy handler.
//
// configErr carries a credential configuration failure from startup; the
// handler still serves, answering every request with a 500 configuration
// error, so a misconfigured deployment fails loudly instead of silently.
func NewAuthHandler(exchanger TokenExchanger, configErr error, logger *log.Logger) *AuthHandler {
	return &AuthHandler{exchanger: exchanger, configErr: configErr, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{spotify.AuthProxyPath}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if h.configErr != nil {
		h.logger.Error("auth proxy misconfigured", "error", h.configErr)
		writeError(w, http.StatusInternalServerError, "spotify credentials not configured", h.configErr.Error())
		return
	}

	switch req.Action {
	case "getAuthUrl":
		url, err := h.exchanger.AuthURL(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build authorization url", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"authUrl": url})

	case "getAccessToken":
		if req.Code == "" {
			writeError(w, http.StatusBadRequest, "authorization code is required", "")
			return
		}

		token, err := h.exchanger.ExchangeCode(r.Context(), req.Code)
		if err != nil {
			var upstream *spotify.UpstreamError
			if errors.As(err, &upstream) {
				h.logger.Warn("token exchange rejected", "status", upstream.StatusCode)
				writeUpstream(w, upstream)
				return
			}
			h.logger.Error("token exchange failed", "error", err)
			writeError(w, http.StatusInternalServerError, "token exchange failed", err.Error())
			return
		}

		// Relay Spotify's token JSON untouched, expires_in and all.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(token.Raw())

	default:
		writeError(w, http.StatusBadRequest, "unknown action", req.Action)
	}
}
