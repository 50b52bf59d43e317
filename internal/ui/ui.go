package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mixtapefm/mixtape/internal/flow"
	"github.com/mixtapefm/mixtape/internal/models"
	"github.com/mixtapefm/mixtape/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ConnectView ViewState = iota
	SearchView
	CreateView
	PlaylistsView
)

// Model represents the TUI application state. It renders whatever the flow
// holds; all domain state lives in [flow.Flow].
type Model struct {
	ctx  context.Context
	flow *flow.Flow
	view ViewState

	width  int
	height int

	pasteInput  textinput.Model
	searchInput textinput.Model
	nameInput   textinput.Model
	results     list.Model
	playlists   list.Model

	searching  bool // search input focused
	authURL    string
	nowPlaying *models.Track
	status     string
	banner     string

	help help.Model
	keys keyMap
}

var _ flow.PlaybackSurface = (*Model)(nil)

// NewModel creates a new TUI model over the given flow and registers itself
// as the flow's playback surface.
func NewModel(ctx context.Context, f *flow.Flow) *Model {
	paste := textinput.New()
	paste.Placeholder = "paste the URL you were redirected to"
	paste.Focus()

	search := textinput.New()
	search.Placeholder = "search tracks"

	name := textinput.New()
	name.Placeholder = "playlist name"

	m := &Model{
		ctx:         ctx,
		flow:        f,
		view:        ConnectView,
		pasteInput:  paste,
		searchInput: search,
		nameInput:   name,
		results:     list.New(nil, list.NewDefaultDelegate(), 0, 0),
		playlists:   list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:        help.New(),
		keys:        newKeyMap(),
	}
	m.results.Title = "Search Results"
	m.playlists.Title = "Your Playlists"

	f.SetPlaybackSurface(m)
	return m
}

// NowPlaying implements [flow.PlaybackSurface].
func (m *Model) NowPlaying(track models.Track) {
	m.nowPlaying = &track
}

// Init starts the connect flow by fetching the authorization URL.
func (m *Model) Init() tea.Cmd {
	return m.fetchAuthURL()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-10)
		m.playlists.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ConnectView:
			return m.handleConnectKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case CreateView:
			return m.handleCreateKeys(msg)
		case PlaylistsView:
			return m.handlePlaylistsKeys(msg)
		}

	case authURLMsg:
		if msg.err != nil {
			m.banner = msg.err.Error()
			return m, nil
		}
		m.authURL = msg.url
		return m, nil

	case callbackHandledMsg:
		if msg.err != nil {
			m.banner = msg.err.Error()
			m.pasteInput.SetValue("")
			return m, nil
		}
		if _, ok := msg.callback.(flow.NotACallback); ok {
			m.status = "that URL carries no authorization code"
			return m, nil
		}
		m.banner = ""
		m.view = SearchView
		m.searching = true
		m.searchInput.Focus()
		return m, m.refreshPlaylists()

	case searchDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("search failed: %v", msg.err)
			return m, nil
		}
		m.status = ""
		m.rebuildResults(msg.tracks)
		return m, nil

	case commitDoneMsg:
		return m.applyCommit(msg.result)

	case playlistsMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("failed to load playlists: %v", msg.err)
			return m, nil
		}
		m.rebuildPlaylists(msg.playlists)
		return m, nil

	case expandedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("failed to load tracks: %v", msg.err)
			return m, nil
		}
		m.rebuildPlaylists(m.flow.Playlists())
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case ConnectView:
		body = m.renderConnect()
	case SearchView:
		body = m.renderSearch()
	case CreateView:
		body = m.renderCreate()
	case PlaylistsView:
		body = m.renderPlaylists()
	}

	return body + m.renderFooter()
}

func (m *Model) handleConnectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		// Empty input opens the consent page; a pasted URL submits it.
		raw := m.pasteInput.Value()
		if raw == "" {
			if m.authURL == "" {
				return m, m.fetchAuthURL()
			}
			if err := shared.OpenBrowser(m.authURL); err != nil {
				m.status = fmt.Sprintf("failed to open browser: %v", err)
			}
			return m, nil
		}
		m.pasteInput.SetValue("")
		return m, m.handleCallback(raw)
	}

	var cmd tea.Cmd
	m.pasteInput, cmd = m.pasteInput.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, m.search(m.searchInput.Value())
		}

		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch {
	case msg.String() == "q" || msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.focus):
		m.searching = true
		m.searchInput.Focus()
		return m, nil
	case key.Matches(msg, m.keys.switchTo):
		m.view = PlaylistsView
		return m, m.refreshPlaylists()
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.results.SelectedItem().(trackItem); ok {
			if item.selected {
				m.flow.Deselect(item.track.ID)
			} else {
				m.flow.Select(item.track)
			}
			m.rebuildResults(m.flow.Results())
		}
		return m, nil
	case key.Matches(msg, m.keys.create):
		if m.flow.Selection().Len() == 0 {
			m.status = "pick some tracks first"
			return m, nil
		}
		m.view = CreateView
		m.nameInput.Focus()
		return m, nil
	case key.Matches(msg, m.keys.play):
		if item, ok := m.results.SelectedItem().(trackItem); ok {
			m.flow.Play(item.track, m.flow.Results())
		}
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.flow.Next()
		return m, nil
	case key.Matches(msg, m.keys.previous):
		m.flow.Previous()
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SearchView
		m.nameInput.Blur()
		return m, nil
	case "enter":
		name := m.nameInput.Value()
		if name == "" {
			return m, nil
		}
		m.nameInput.SetValue("")
		m.nameInput.Blur()
		return m, m.createPlaylist(name)
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "q" || msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.switchTo), key.Matches(msg, m.keys.back):
		m.view = SearchView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.playlists.SelectedItem().(playlistItem); ok {
			return m, m.expand(item.playlist.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.add):
		if m.flow.Selection().Len() == 0 {
			m.status = "pick some tracks first"
			return m, nil
		}
		if item, ok := m.playlists.SelectedItem().(playlistItem); ok {
			return m, m.addSelection(item.playlist.ID, item.playlist.SpotifyID)
		}
		return m, nil
	case key.Matches(msg, m.keys.play):
		if _, tracks := m.flow.Expanded(); len(tracks) > 0 {
			playable := make([]models.Track, len(tracks))
			for i, pt := range tracks {
				playable[i] = pt.Track()
			}
			m.flow.Play(playable[0], playable)
		}
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.flow.Next()
		return m, nil
	case key.Matches(msg, m.keys.previous):
		m.flow.Previous()
		return m, nil
	}

	var cmd tea.Cmd
	m.playlists, cmd = m.playlists.Update(msg)
	return m, cmd
}

func (m *Model) applyCommit(result flow.CommitResult) (tea.Model, tea.Cmd) {
	switch result.Outcome {
	case flow.CommitRemoteAndLocal:
		m.status = styles.ok.Render("playlist saved")
		m.view = PlaylistsView
		m.rebuildPlaylists(m.flow.Playlists())
		return m, nil
	case flow.CommitRemoteOnly:
		m.status = styles.warn.Render(fmt.Sprintf("saved on Spotify, but the local step %q failed: %v", result.Stage, result.Err))
		m.view = PlaylistsView
		return m, m.refreshPlaylists()
	default:
		m.status = styles.err.Render(fmt.Sprintf("commit failed at %q: %v", result.Stage, result.Err))
		return m, nil
	}
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.results, cmd = m.results.Update(msg)
	case PlaylistsView:
		m.playlists, cmd = m.playlists.Update(msg)
	}
	return m, cmd
}

func (m *Model) rebuildResults(tracks []models.Track) {
	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track, selected: m.flow.Selection().Contains(track.ID)}
	}
	m.results.SetItems(items)
}

func (m *Model) rebuildPlaylists(playlists []*models.Playlist) {
	expandedID, _ := m.flow.Expanded()
	items := make([]list.Item, len(playlists))
	for i, playlist := range playlists {
		items[i] = playlistItem{playlist: *playlist, expanded: playlist.ID == expandedID}
	}
	m.playlists.SetItems(items)
}

func (m *Model) fetchAuthURL() tea.Cmd {
	return func() tea.Msg {
		url, err := m.flow.Connect(m.ctx)
		return authURLMsg{url: url, err: err}
	}
}

func (m *Model) handleCallback(rawURL string) tea.Cmd {
	return func() tea.Msg {
		callback, err := m.flow.HandleCallback(m.ctx, rawURL)
		return callbackHandledMsg{callback: callback, err: err}
	}
}

func (m *Model) search(query string) tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.flow.Search(m.ctx, query)
		return searchDoneMsg{tracks: tracks, err: err}
	}
}

func (m *Model) createPlaylist(name string) tea.Cmd {
	return func() tea.Msg {
		return commitDoneMsg{result: m.flow.CreatePlaylistWithSelection(m.ctx, name, "")}
	}
}

func (m *Model) addSelection(localID, spotifyID string) tea.Cmd {
	return func() tea.Msg {
		return commitDoneMsg{result: m.flow.AddSelectionToPlaylist(m.ctx, localID, spotifyID)}
	}
}

func (m *Model) refreshPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.flow.RefreshPlaylists(m.ctx)
		return playlistsMsg{playlists: playlists, err: err}
	}
}

func (m *Model) expand(localID string) tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.flow.ExpandPlaylist(m.ctx, localID)
		return expandedMsg{tracks: tracks, err: err}
	}
}

func (m *Model) renderConnect() string {
	title := styles.title.Render("Connect to Spotify")

	var banner string
	if m.banner != "" {
		banner = styles.err.Render(m.banner) + "\n\n"
	}

	body := "Press enter to open the authorization page in your browser.\n" +
		"After approving, paste the URL you land on below and press enter.\n\n" +
		m.pasteInput.View()

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back})
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, banner, body, helpView)
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search")

	helpKeys := []key.Binding{m.keys.toggle, m.keys.create, m.keys.play, m.keys.switchTo, m.keys.quit}
	if m.searching {
		helpKeys = []key.Binding{m.keys.enter, m.keys.back}
	}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, m.searchInput.View(), m.results.View(), helpView)
}

func (m *Model) renderCreate() string {
	title := styles.title.Render("New Playlist")
	info := fmt.Sprintf("%d tracks picked\n", m.flow.Selection().Len())
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, info, m.nameInput.View(), helpView)
}

func (m *Model) renderPlaylists() string {
	var expanded string
	if _, tracks := m.flow.Expanded(); len(tracks) > 0 {
		expanded = "\n"
		for _, pt := range tracks {
			expanded += fmt.Sprintf("  %d. %s - %s [%s]\n", pt.Position+1, pt.ArtistName, pt.TrackName, shared.FormatDuration(pt.DurationMS))
		}
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.add, m.keys.play, m.keys.switchTo, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n%s", m.playlists.View(), expanded, helpView)
}

func (m *Model) renderFooter() string {
	var footer string

	if m.status != "" {
		footer += "\n" + m.status
	}

	if count := m.flow.Selection().Len(); count > 0 {
		footer += "\n" + styles.help.Render(fmt.Sprintf("%d tracks picked", count))
	}

	if m.nowPlaying != nil {
		line := fmt.Sprintf("♪ %s - %s", m.nowPlaying.ArtistLine(), m.nowPlaying.Name)
		if m.nowPlaying.PreviewURL != "" {
			line += "  " + m.nowPlaying.PreviewURL
		}
		footer += "\n" + styles.ok.Render(line)
	}

	return footer
}
