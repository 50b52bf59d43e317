package flow

import "github.com/mixtapefm/mixtape/internal/models"

// PlaybackSurface renders whatever track playback lands on. The terminal UI
// shows a "now playing" footer with the track's preview URL.
type PlaybackSurface interface {
	NowPlaying(track models.Track)
}

// Queue is the playback context: the exact ordered list the chosen track was
// shown in, search results or one playlist's tracks. Next and Previous
// navigate within it and clamp at the ends.
type Queue struct {
	tracks []models.Track
	pos    int
}

// NewQueue builds a queue positioned at track within context. A track absent
// from its context yields a single-entry queue of just that track.
func NewQueue(track models.Track, context []models.Track) *Queue {
	for i, t := range context {
		if t.ID == track.ID {
			tracks := make([]models.Track, len(context))
			copy(tracks, context)
			return &Queue{tracks: tracks, pos: i}
		}
	}
	return &Queue{tracks: []models.Track{track}}
}

// Current returns the track at the queue position.
func (q *Queue) Current() models.Track {
	return q.tracks[q.pos]
}

// Next advances and returns the new current track, staying put at the end.
func (q *Queue) Next() models.Track {
	if q.pos < len(q.tracks)-1 {
		q.pos++
	}
	return q.tracks[q.pos]
}

// Previous steps back and returns the new current track, staying put at the start.
func (q *Queue) Previous() models.Track {
	if q.pos > 0 {
		q.pos--
	}
	return q.tracks[q.pos]
}

// Len returns the queue length.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// Index returns the current position within the queue.
func (q *Queue) Index() int {
	return q.pos
}
