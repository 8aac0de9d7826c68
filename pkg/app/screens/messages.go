package screens

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/pokewall/pkg/data"
	"github.com/kerbaras/pokewall/pkg/services"
)

// Service is what the screens need from the controller.
type Service interface {
	ListEntries(ctx context.Context) ([]string, error)
	FetchImage(ctx context.Context, name string) (string, error)
	SetWallpaper(ctx context.Context, path string) (string, error)
	CachedImages() ([]*data.CachedImage, error)
	ExportAlbum(ctx context.Context, outPath string) (string, error)
	Progress() <-chan services.FetchProgress
}

// SwitchScreenMsg asks the root screen to change tabs.
type SwitchScreenMsg struct {
	Screen string
	Data   interface{}
}

type entriesLoadedMsg struct {
	names  []string
	cached []string
	err    error
}

// imageFetchedMsg carries a fetch result tagged with the selection generation it belongs to.
type imageFetchedMsg struct {
	gen     uint64
	name    string
	path    string
	preview string
	err     error
}

// wallpaperSetMsg is delivered to the screen that asked for it.
type wallpaperSetMsg struct {
	source screenType
	path   string
	err    error
}

type cacheLoadedMsg struct {
	images []*data.CachedImage
	err    error
}

type albumExportedMsg struct {
	path string
	err  error
}

type progressMsg services.FetchProgress

func listenForProgress(ch <-chan services.FetchProgress) tea.Cmd {
	return func() tea.Msg {
		progress, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(progress)
	}
}
