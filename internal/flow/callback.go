package flow

import (
	"net/url"

	"github.com/mixtapefm/mixtape/internal/spotify"
)

// Callback is the parsed outcome of inspecting a redirect URL. Exactly one of
// [CallbackCode], [CallbackDenied] or [NotACallback] is returned by
// [ParseCallback].
type Callback interface {
	isCallback()
}

// CallbackCode carries the authorization code from a successful consent redirect.
type CallbackCode struct {
	Code string
}

// CallbackDenied carries the provider's error parameter from a rejected consent.
type CallbackDenied struct {
	Reason string
}

// NotACallback means the URL carries no recognizable consent parameters.
type NotACallback struct{}

func (CallbackCode) isCallback()   {}
func (CallbackDenied) isCallback() {}
func (NotACallback) isCallback()   {}

// ParseCallback inspects a redirect URL for OAuth consent parameters.
//
// An error parameter wins over anything else. A code only counts when paired
// with the expected anti-forgery state token; a code with a missing or
// mismatched state is treated as not a callback at all.
func ParseCallback(rawURL string) Callback {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return NotACallback{}
	}

	query := parsed.Query()

	if reason := query.Get("error"); reason != "" {
		return CallbackDenied{Reason: reason}
	}

	code := query.Get("code")
	if code == "" || query.Get("state") != spotify.AuthState {
		return NotACallback{}
	}

	return CallbackCode{Code: code}
}
