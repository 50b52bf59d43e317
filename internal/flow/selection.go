package flow

import "github.com/mixtapefm/mixtape/internal/models"

// Selection is the pending set of tracks chosen for the next playlist commit.
// Insertion order is preserved for display.
type Selection struct {
	order []models.Track
	index map[string]int
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{index: make(map[string]int)}
}

// Add selects a track. Reports whether the selection changed; selecting a
// track already present is a no-op.
func (s *Selection) Add(track models.Track) bool {
	if _, ok := s.index[track.ID]; ok {
		return false
	}
	s.index[track.ID] = len(s.order)
	s.order = append(s.order, track)
	return true
}

// Remove deselects by track id. Reports whether the selection changed;
// removing an absent id is a no-op.
func (s *Selection) Remove(id string) bool {
	at, ok := s.index[id]
	if !ok {
		return false
	}

	s.order = append(s.order[:at], s.order[at+1:]...)
	delete(s.index, id)
	for i := at; i < len(s.order); i++ {
		s.index[s.order[i].ID] = i
	}
	return true
}

// Contains reports whether the track id is selected.
func (s *Selection) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Tracks returns the selected tracks in insertion order.
func (s *Selection) Tracks() []models.Track {
	tracks := make([]models.Track, len(s.order))
	copy(tracks, s.order)
	return tracks
}

// IDs returns the selected track ids in insertion order.
func (s *Selection) IDs() []string {
	ids := make([]string, len(s.order))
	for i, track := range s.order {
		ids[i] = track.ID
	}
	return ids
}

// Len returns the number of selected tracks.
func (s *Selection) Len() int {
	return len(s.order)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.order = nil
	s.index = make(map[string]int)
}
