package flow

// SessionState tracks where the user is in the OAuth dance.
type SessionState int

const (
	Unauthenticated SessionState = iota
	Authenticating
	Authenticated
	// Failed absorbs; only a fresh connect attempt leaves it.
	Failed
)

func (s SessionState) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the explicit holder of the access token and its lifecycle:
// acquired on callback, dropped with the process, never persisted.
type Session struct {
	state   SessionState
	token   string
	failure string
}

// State returns the current session state.
func (s Session) State() SessionState {
	return s.state
}

// Token returns the access token; empty unless Authenticated.
func (s Session) Token() string {
	return s.token
}

// Failure returns the reason the session entered Failed, if it did.
func (s Session) Failure() string {
	return s.failure
}

func (s *Session) beginAuth() {
	s.state = Authenticating
	s.failure = ""
}

func (s *Session) authenticate(token string) {
	s.state = Authenticated
	s.token = token
	s.failure = ""
}

func (s *Session) fail(reason string) {
	s.state = Failed
	s.token = ""
	s.failure = reason
}
