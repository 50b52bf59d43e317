package formatter

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mixtapefm/mixtape/internal/models"
	th "github.com/mixtapefm/mixtape/internal/testing"
)

func sampleExport() *PlaylistExport {
	return &PlaylistExport{
		Playlist: models.Playlist{
			ID:          "local123",
			SpotifyID:   "sp123",
			Name:        "Road Trip",
			Description: "for the drive",
			TotalTracks: 2,
			CreatedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		Tracks: []*models.PlaylistTrack{
			{
				SpotifyTrackID: "track1",
				TrackName:      "Song One",
				ArtistName:     "Artist One",
				AlbumName:      "Album One",
				DurationMS:     180000,
				Position:       0,
			},
			{
				SpotifyTrackID: "track2",
				TrackName:      "Song Two",
				ArtistName:     "Artist Two",
				AlbumName:      "Album Two",
				DurationMS:     240000,
				Position:       1,
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Position,Title,Artist,Album,Duration,SpotifyID") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Song One") {
			t.Errorf("CSV missing track1 title")
		}
		if !strings.Contains(output, "3:00") {
			t.Errorf("CSV missing formatted duration")
		}
		if !strings.Contains(output, "track2") {
			t.Errorf("CSV missing track2 id")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport(), "cover.jpg")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Road Trip") {
			t.Errorf("Markdown missing title heading")
		}
		if !strings.Contains(output, "![Cover](cover.jpg)") {
			t.Errorf("Markdown missing cover image reference")
		}
		if !strings.Contains(output, "1. Artist One - Song One (Album One) [3:00]") {
			t.Errorf("Markdown missing numbered track line, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Playlist: Road Trip") {
			t.Errorf("text missing playlist name")
		}
		if !strings.Contains(output, "2. Artist Two - Song Two") {
			t.Errorf("text missing numbered track line, got: %s", output)
		}
	})
}

func TestFormatPlaylistList(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		output := string(FormatPlaylistList(nil))
		if !strings.Contains(output, "No playlists") {
			t.Errorf("expected empty notice, got: %s", output)
		}
	})

	t.Run("Lists Entries In Order", func(t *testing.T) {
		playlists := []*models.Playlist{
			{ID: "l1", SpotifyID: "sp1", Name: "Newest", TotalTracks: 3},
			{ID: "l2", SpotifyID: "sp2", Name: "Older", Description: "old favorites", TotalTracks: 12},
		}

		output := string(FormatPlaylistList(playlists))

		if !strings.Contains(output, "1. Newest (3 tracks)") {
			t.Errorf("expected first entry, got: %s", output)
		}
		if !strings.Contains(output, "2. Older (12 tracks)") {
			t.Errorf("expected second entry, got: %s", output)
		}
		if !strings.Contains(output, "old favorites") {
			t.Errorf("expected description line, got: %s", output)
		}
	})
}

func TestWriteExports(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "export")

		result, err := WriteCSVExport(sampleExport(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		th.AssertFileExists(t, result.TracksFile)
		th.AssertFileExists(t, result.MetadataFile)

		if !strings.Contains(th.MustReadFile(t, result.MetadataFile), "Road Trip") {
			t.Error("expected playlist name in metadata JSON")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracks.txt")

		written, err := WriteTextExport(sampleExport(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("WriteMarkdownExport Creates Directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "md-dir")

		if _, err := WriteMarkdownExport(sampleExport(), dir, ""); err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		th.AssertDirExists(t, dir)
		th.AssertFileExists(t, filepath.Join(dir, "README.md"))
	})

	t.Run("WriteMarkdownExport Without Image", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "md")

		result, err := WriteMarkdownExport(sampleExport(), dir, "")
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		if len(result.Files) != 1 || !strings.HasSuffix(result.Files[0], "README.md") {
			t.Errorf("expected README.md only, got %v", result.Files)
		}
	})
}
