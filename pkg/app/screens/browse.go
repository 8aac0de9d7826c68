package screens

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/pokewall/pkg/app/components"
	"github.com/kerbaras/pokewall/pkg/app/styles"
	"github.com/kerbaras/pokewall/pkg/services"
	"github.com/kerbaras/pokewall/pkg/sources"
)

const listWidth = 28

// BrowseScreen lists the catalog, previews the selected entry's artwork and applies it as wallpaper.
//
// Fetches run as commands off the update loop. Each selection bumps gen and cancels the previous
// fetch; a result whose gen is no longer current is dropped, so the preview and lastPath always
// belong to the latest selection.
type BrowseScreen struct {
	svc      Service
	ctx      context.Context
	input    textinput.Model
	list     *components.EntryList
	spinner  spinner.Model
	progress *components.ProgressTracker

	gen      uint64
	cancel   context.CancelFunc
	fetching string
	loading  bool

	current  string
	preview  string
	lastPath string
	status   string
	err      error

	width  int
	height int
}

func NewBrowseScreen(ctx context.Context, svc Service) *BrowseScreen {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.CharLimit = 40
	ti.Width = listWidth - 4

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusFetching

	return &BrowseScreen{
		svc:      svc,
		ctx:      ctx,
		input:    ti,
		list:     components.NewEntryList(),
		spinner:  sp,
		progress: components.NewProgressTracker(listWidth),
		loading:  true,
	}
}

func (s *BrowseScreen) Init() tea.Cmd {
	return tea.Batch(s.loadEntries, s.spinner.Tick)
}

// Capturing reports whether key presses go to the filter input.
func (s *BrowseScreen) Capturing() bool {
	return s.input.Focused()
}

// LastPath is the artwork the wallpaper action applies, empty until a fetch succeeds.
func (s *BrowseScreen) LastPath() string {
	return s.lastPath
}

func (s *BrowseScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.list.Width = listWidth
		s.list.Height = msg.Height - 14
		s.progress.SetWidth(listWidth)

	case tea.KeyMsg:
		if s.input.Focused() {
			switch msg.String() {
			case "esc", "enter":
				s.input.Blur()
				return s, nil
			}
			s.input, cmd = s.input.Update(msg)
			s.list.SetFilter(s.input.Value())
			return s, cmd
		}

		switch msg.String() {
		case "/":
			s.input.Focus()
			return s, textinput.Blink
		case "esc":
			s.input.SetValue("")
			s.list.SetFilter("")
		case "up", "k":
			s.list.Prev()
		case "down", "j":
			s.list.Next()
		case "enter":
			if name, ok := s.list.Selected(); ok {
				return s, s.fetch(name)
			}
		case "w":
			return s, s.setWallpaper()
		case "r":
			s.loading = true
			s.err = nil
			return s, s.loadEntries
		}

	case SwitchScreenMsg:
		if name, ok := msg.Data.(string); ok && name != "" {
			s.input.SetValue("")
			s.list.SetFilter("")
			s.list.Select(name)
			return s, s.fetch(name)
		}

	case spinner.TickMsg:
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case entriesLoadedMsg:
		s.loading = false
		s.err = msg.err
		s.list.SetItems(msg.names)
		s.list.SetCached(msg.cached)

	case imageFetchedMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		s.fetching = ""
		s.cancel = nil
		if msg.err != nil {
			s.err = msg.err
			s.preview = ""
			s.lastPath = ""
			s.status = ""
			return s, nil
		}
		s.err = nil
		s.preview = msg.preview
		s.lastPath = msg.path
		s.list.MarkCached(msg.name)
		s.status = fmt.Sprintf("Saved to %s", msg.path)

	case wallpaperSetMsg:
		if msg.err != nil {
			s.err = msg.err
			s.status = ""
			return s, nil
		}
		s.err = nil
		s.status = fmt.Sprintf("Wallpaper set to %s", msg.path)

	case progressMsg:
		s.progress.Update(services.FetchProgress(msg))
	}

	return s, nil
}

// fetch starts loading name, superseding any fetch still in flight.
func (s *BrowseScreen) fetch(name string) tea.Cmd {
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel

	key := sources.Normalize(name)
	s.current = key
	s.fetching = key
	s.status = ""
	s.err = nil
	s.progress.Clear()

	width, height := s.previewSize()
	svc := s.svc
	return func() tea.Msg {
		defer cancel()
		path, err := svc.FetchImage(ctx, key)
		if err != nil {
			return imageFetchedMsg{gen: gen, name: key, err: err}
		}
		preview, err := components.LoadArtwork(path, width, height)
		if err != nil {
			return imageFetchedMsg{gen: gen, name: key, err: err}
		}
		return imageFetchedMsg{gen: gen, name: key, path: path, preview: preview}
	}
}

func (s *BrowseScreen) setWallpaper() tea.Cmd {
	if s.lastPath == "" {
		s.status = "Fetch an image before setting the wallpaper"
		return nil
	}
	path := s.lastPath
	svc := s.svc
	ctx := s.ctx
	s.status = "Setting wallpaper..."
	return func() tea.Msg {
		applied, err := svc.SetWallpaper(ctx, path)
		return wallpaperSetMsg{source: browseView, path: applied, err: err}
	}
}

// loadEntries lists the catalog and the artwork already on disk. A broken cache index
// only loses the markers.
func (s *BrowseScreen) loadEntries() tea.Msg {
	names, err := s.svc.ListEntries(s.ctx)
	if err != nil {
		return entriesLoadedMsg{err: err}
	}

	var cached []string
	if images, err := s.svc.CachedImages(); err == nil {
		cached = make([]string, 0, len(images))
		for _, img := range images {
			cached = append(cached, img.Name)
		}
	}
	return entriesLoadedMsg{names: names, cached: cached}
}

func (s *BrowseScreen) previewSize() (int, int) {
	width := s.width - listWidth - 10
	height := s.height - 12
	if width < 10 {
		width = 40
	}
	if height < 5 {
		height = 20
	}
	return width, height
}

func (s *BrowseScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("Pokewall")

	inputStyle := styles.InputStyle
	if s.input.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	inputView := inputStyle.Render(s.input.View())

	var listView string
	if s.loading {
		listView = s.spinner.View() + " Loading catalog..."
	} else {
		listView = s.list.View()
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		inputView,
		styles.PaneStyle.Width(listWidth).Render(listView),
	)

	right := styles.PreviewStyle.Render(s.renderPreview())

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	var statusLine string
	switch {
	case s.err != nil:
		statusLine = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	case s.status != "":
		statusLine = styles.StatusCompleted.Render(s.status)
	}

	wallpaperHelp := "w: set wallpaper"
	if s.lastPath == "" {
		wallpaperHelp = styles.MutedStyle.Strikethrough(true).Render(wallpaperHelp)
	}
	help := styles.HelpStyle.Render(
		"/: filter • ↑/k ↓/j: navigate • enter: show artwork • " + wallpaperHelp + " • r: reload • tab: switch view • q: quit",
	)

	return fmt.Sprintf("%s\n%s\n%s\n%s%s", header, body, statusLine, s.progress.View(), help)
}

func (s *BrowseScreen) renderPreview() string {
	width, height := s.previewSize()
	var content string
	switch {
	case s.fetching != "":
		content = s.spinner.View() + " Fetching " + sources.Capitalize(s.fetching) + "..."
	case s.preview != "":
		content = lipgloss.JoinVertical(lipgloss.Center,
			styles.SubtitleStyle.Render(sources.Capitalize(s.current)),
			s.preview,
		)
	default:
		content = styles.MutedStyle.Render("Select an entry and press enter")
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
