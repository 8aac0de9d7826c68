package screens

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/pokewall/pkg/app/styles"
)

type screenType int

const (
	browseView screenType = iota
	cacheView
)

type RootScreen struct {
	svc Service

	currentView screenType
	browse      *BrowseScreen
	cache       *CacheScreen

	width  int
	height int
}

// NewRootScreen builds the tabbed UI. albumPath is where the cache tab exports its album.
func NewRootScreen(ctx context.Context, svc Service, albumPath string) *RootScreen {
	return &RootScreen{
		svc:         svc,
		currentView: browseView,
		browse:      NewBrowseScreen(ctx, svc),
		cache:       NewCacheScreen(ctx, svc, albumPath),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return tea.Batch(r.browse.Init(), listenForProgress(r.svc.Progress()))
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		_, browseCmd := r.browse.Update(msg)
		_, cacheCmd := r.cache.Update(msg)
		return r, tea.Batch(browseCmd, cacheCmd)

	case tea.KeyMsg:
		capturing := r.currentView == browseView && r.browse.Capturing()
		switch msg.String() {
		case "ctrl+c":
			return r, tea.Quit
		case "q":
			if !capturing {
				return r, tea.Quit
			}
		case "tab":
			if !capturing {
				r.currentView = (r.currentView + 1) % 2
				if r.currentView == cacheView {
					cmd = r.cache.Init()
				}
				return r, cmd
			}
		}

	case SwitchScreenMsg:
		switch msg.Screen {
		case "browse":
			r.currentView = browseView
			_, cmd = r.browse.Update(msg)
		case "cache":
			r.currentView = cacheView
			cmd = r.cache.Init()
		}
		return r, cmd

	case progressMsg:
		r.browse.Update(msg)
		return r, listenForProgress(r.svc.Progress())

	// background results belong to a specific screen whichever tab is showing
	case entriesLoadedMsg, imageFetchedMsg, spinner.TickMsg:
		_, cmd = r.browse.Update(msg)
		return r, cmd

	case cacheLoadedMsg, albumExportedMsg:
		_, cmd = r.cache.Update(msg)
		return r, cmd

	case wallpaperSetMsg:
		if msg.source == cacheView {
			_, cmd = r.cache.Update(msg)
		} else {
			_, cmd = r.browse.Update(msg)
		}
		return r, cmd
	}

	switch r.currentView {
	case browseView:
		_, cmd = r.browse.Update(msg)
	case cacheView:
		_, cmd = r.cache.Update(msg)
	}
	return r, cmd
}

func (r *RootScreen) View() string {
	tabs := r.renderTabs()

	var content string
	switch r.currentView {
	case browseView:
		content = r.browse.View()
	case cacheView:
		content = r.cache.View()
	}

	return fmt.Sprintf("%s\n\n%s", tabs, content)
}

func (r *RootScreen) renderTabs() string {
	browseTab := "Browse"
	cacheTab := "Cache"

	if r.currentView == browseView {
		browseTab = styles.ActiveTabStyle.Render(browseTab)
		cacheTab = styles.InactiveTabStyle.Render(cacheTab)
	} else {
		browseTab = styles.InactiveTabStyle.Render(browseTab)
		cacheTab = styles.ActiveTabStyle.Render(cacheTab)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, browseTab, cacheTab)
}
