package flow

import "github.com/mixtapefm/mixtape/internal/models"

// CommitOutcome distinguishes a fully mirrored commit from one that only
// reached Spotify, and either from a commit that failed outright.
type CommitOutcome int

const (
	CommitFailed CommitOutcome = iota
	// CommitRemoteOnly means the remote mutation succeeded but the local
	// mirror write did not; the two stores have diverged and nothing
	// reconciles them.
	CommitRemoteOnly
	CommitRemoteAndLocal
)

func (o CommitOutcome) String() string {
	switch o {
	case CommitFailed:
		return "failed"
	case CommitRemoteOnly:
		return "remote only"
	case CommitRemoteAndLocal:
		return "remote and local"
	default:
		return "unknown"
	}
}

// CommitStage names the step a commit stopped at.
type CommitStage string

const (
	StageCreateRemote CommitStage = "create remote playlist"
	StageMirrorLocal  CommitStage = "mirror playlist locally"
	StageAddRemote    CommitStage = "add tracks remotely"
	StageRecordLocal  CommitStage = "record tracks locally"
)

// CommitResult reports what a playlist commit actually did, so callers can
// tell partial failure from full success instead of inferring it from which
// error they caught.
type CommitResult struct {
	Outcome CommitOutcome
	// Stage is the step that failed; empty when Outcome is CommitRemoteAndLocal.
	Stage CommitStage
	// Playlist is the local mirror row, when one was written.
	Playlist *models.Playlist
	// SpotifyID is the remote playlist id, when remote creation succeeded.
	SpotifyID string
	Err       error
}
