package screens

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/pokewall/pkg/app/styles"
	"github.com/kerbaras/pokewall/pkg/data"
	"github.com/kerbaras/pokewall/pkg/sources"
)

// CacheScreen lists the artwork already on disk.
type CacheScreen struct {
	svc       Service
	ctx       context.Context
	albumPath string
	table     table.Model
	images    []*data.CachedImage
	status    string
	width     int
	height    int
	err       error
}

func NewCacheScreen(ctx context.Context, svc Service, albumPath string) *CacheScreen {
	t := table.New(
		table.WithColumns(cacheColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Secondary).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.Foreground).
		Background(styles.Primary).
		Bold(true)
	t.SetStyles(s)

	return &CacheScreen{
		svc:       svc,
		ctx:       ctx,
		albumPath: albumPath,
		table:     t,
	}
}

func cacheColumns(width int) []table.Column {
	pathWidth := width - 20 - 10 - 20 - 8
	if pathWidth < 10 {
		pathWidth = 10
	}
	return []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Size", Width: 10},
		{Title: "Fetched", Width: 20},
		{Title: "Path", Width: pathWidth},
	}
}

func (s *CacheScreen) Init() tea.Cmd {
	return s.loadCache
}

func (s *CacheScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.table.SetColumns(cacheColumns(msg.Width - 4))
		s.table.SetHeight(msg.Height - 10)

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return s, s.loadCache
		case "enter":
			if img := s.selected(); img != nil {
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "browse", Data: img.Name}
				}
			}
			return s, nil
		case "w":
			if img := s.selected(); img != nil {
				s.status = "Setting wallpaper..."
				return s, s.setWallpaper(img.Path)
			}
			return s, nil
		case "e":
			s.status = "Exporting album..."
			return s, s.exportAlbum
		}
		s.table, cmd = s.table.Update(msg)

	case cacheLoadedMsg:
		s.err = msg.err
		s.images = msg.images
		s.table.SetRows(cacheRows(msg.images))

	case wallpaperSetMsg:
		s.err = msg.err
		if msg.err == nil {
			s.status = fmt.Sprintf("Wallpaper set to %s", msg.path)
		} else {
			s.status = ""
		}

	case albumExportedMsg:
		s.err = msg.err
		if msg.err == nil {
			s.status = fmt.Sprintf("Album written to %s", msg.path)
		} else {
			s.status = ""
		}
	}

	return s, cmd
}

func (s *CacheScreen) selected() *data.CachedImage {
	i := s.table.Cursor()
	if i < 0 || i >= len(s.images) {
		return nil
	}
	return s.images[i]
}

func cacheRows(images []*data.CachedImage) []table.Row {
	rows := make([]table.Row, 0, len(images))
	for _, img := range images {
		fetched := "-"
		if !img.FetchedAt.IsZero() {
			fetched = img.FetchedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{
			sources.Capitalize(img.Name),
			fmt.Sprintf("%d KB", (img.Size+1023)/1024),
			fetched,
			img.Path,
		})
	}
	return rows
}

func (s *CacheScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render(fmt.Sprintf("Cached artwork (%d)", len(s.images)))

	var statusLine string
	switch {
	case s.err != nil:
		statusLine = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	case s.status != "":
		statusLine = styles.StatusCompleted.Render(s.status)
	}

	var body string
	if len(s.images) == 0 {
		body = styles.MutedStyle.Render("Nothing cached yet. Fetch some artwork from the browse tab.")
	} else {
		body = s.table.View()
	}

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: navigate • enter: show • w: set wallpaper • e: export album • r: refresh • tab: switch view • q: quit",
	)

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, body, statusLine, help)
}

// Commands
func (s *CacheScreen) loadCache() tea.Msg {
	images, err := s.svc.CachedImages()
	return cacheLoadedMsg{images: images, err: err}
}

func (s *CacheScreen) setWallpaper(path string) tea.Cmd {
	svc, ctx := s.svc, s.ctx
	return func() tea.Msg {
		applied, err := svc.SetWallpaper(ctx, path)
		return wallpaperSetMsg{source: cacheView, path: applied, err: err}
	}
}

func (s *CacheScreen) exportAlbum() tea.Msg {
	path, err := s.svc.ExportAlbum(s.ctx, s.albumPath)
	return albumExportedMsg{path: path, err: err}
}
