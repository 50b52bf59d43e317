// package tasks implements bulk operations over the local playlist mirror.
//
// The core abstraction is ExportEngine, which writes recorded playlists out
// to files in bulk. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mixtapefm/mixtape/internal/formatter"
	"github.com/mixtapefm/mixtape/internal/models"
	"github.com/mixtapefm/mixtape/internal/shared"
)

// Library is the slice of the local mirror the export engine reads from.
type Library interface {
	ListPlaylists(ctx context.Context) ([]*models.Playlist, error)
	ListTracks(ctx context.Context, playlistID string) ([]*models.PlaylistTrack, error)
}

// ExportOpts contains configuration for bulk playlist exports.
type ExportOpts struct {
	Format     string   // Export format: csv, markdown, txt
	OutputDir  string   // Base output directory (default: mixtape_export_{epoch})
	NumWorkers int      // Concurrent workers (default: 5)
	IDs        []string // Playlist IDs to export (empty: all recorded playlists)
}

// PlaylistExportResult represents the outcome of exporting a single playlist.
type PlaylistExportResult struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Error        error    `json:"-"`
	ErrorMessage string   `json:"error,omitempty"`
}

// ExportResult summarizes a bulk export run. It doubles as the manifest
// written alongside the exported files.
type ExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	Format            string                 `json:"format"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"-"`
	Results           []PlaylistExportResult `json:"results"`
}

// ExportEngine exports recorded playlists to files using a worker pool.
type ExportEngine struct {
	library Library
}

// NewExportEngine creates an ExportEngine over the given library.
func NewExportEngine(library Library) *ExportEngine {
	return &ExportEngine{library: library}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ExportAll exports the selected playlists concurrently, writes a manifest
// summarizing the run, and returns the aggregate result. Individual playlist
// failures are recorded in the result rather than aborting the run.
func (e *ExportEngine) ExportAll(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	switch opts.Format {
	case "csv", "markdown", "txt":
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidInput, opts.Format)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("mixtape_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	playlists, err := e.library.ListPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	selected := playlists
	if len(opts.IDs) > 0 {
		wanted := make(map[string]bool, len(opts.IDs))
		for _, id := range opts.IDs {
			wanted[id] = true
		}
		selected = nil
		for _, playlist := range playlists {
			if wanted[playlist.ID] {
				selected = append(selected, playlist)
			}
		}
		if len(selected) != len(opts.IDs) {
			return nil, fmt.Errorf("%w: %d of %d requested playlists are recorded", shared.ErrPlaylistNotFound, len(selected), len(opts.IDs))
		}
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		TotalPlaylists:  len(selected),
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(selected)),
	}

	e.sendProgress(prog, loadPlaylistsUpdate(len(selected)))

	jobs := make(chan *models.Playlist, len(selected))
	results := make(chan PlaylistExportResult, len(selected))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, playlist := range selected {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			e.sendProgress(prog, exportingPlaylistUpdate(i+1, len(selected), playlist.Name))
			jobs <- playlist
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(selected), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(selected), res.PlaylistName, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	manifest, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports playlists from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan *models.Playlist,
	results chan<- PlaylistExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for playlist := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportSinglePlaylist(ctx, playlist, opts)
	}
}

// exportSinglePlaylist reads one playlist's rows and writes it out in the
// requested format.
func (e *ExportEngine) exportSinglePlaylist(
	ctx context.Context,
	playlist *models.Playlist,
	opts ExportOpts,
) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   playlist.ID,
		PlaylistName: playlist.Name,
		Files:        []string{},
	}

	fail := func(err error) PlaylistExportResult {
		result.Error = err
		result.ErrorMessage = err.Error()
		return result
	}

	tracks, err := e.library.ListTracks(ctx, playlist.ID)
	if err != nil {
		return fail(fmt.Errorf("failed to read tracks: %w", err))
	}

	export := &formatter.PlaylistExport{
		Playlist: *playlist,
		Tracks:   tracks,
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, playlist.ID)
		csvRes, err := formatter.WriteCSVExport(export, baseFilepath)
		if err != nil {
			return fail(fmt.Errorf("CSV export failed: %w", err))
		}
		result.Files = []string{csvRes.TracksFile, csvRes.MetadataFile}

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, playlist.ID)
		mdRes, err := formatter.WriteMarkdownExport(export, outputDir, playlist.ImageURL)
		if err != nil {
			return fail(fmt.Errorf("markdown export failed: %w", err))
		}
		result.Files = mdRes.Files

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_tracks.txt", playlist.ID))
		written, err := formatter.WriteTextExport(export, txtPath)
		if err != nil {
			return fail(fmt.Errorf("text export failed: %w", err))
		}
		result.Files = []string{written}
	}

	result.Success = true
	return result
}
