package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/mixtapefm/mixtape/internal/models"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = playlistItem{}
)

// trackItem wraps [models.Track] to implement [list.Item]. The selection
// marker reflects the pending track selection.
type trackItem struct {
	track    models.Track
	selected bool
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string {
	if i.selected {
		return "● " + i.track.Name
	}
	return i.track.Name
}
func (i trackItem) Description() string {
	desc := i.track.ArtistLine()
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	return desc
}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
	expanded bool
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string {
	if i.expanded {
		return "▾ " + i.playlist.Name
	}
	return i.playlist.Name
}
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.playlist.TotalTracks)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}
