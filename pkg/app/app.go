package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/pokewall/pkg/app/screens"
)

type App struct {
	svc       screens.Service
	albumPath string
}

// NewApp builds the TUI around svc. The cache tab exports albums to albumPath.
func NewApp(svc screens.Service, albumPath string) *App {
	return &App{svc: svc, albumPath: albumPath}
}

// Run blocks until the user quits. Cancelling ctx aborts in-flight fetches.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := screens.NewRootScreen(ctx, a.svc, a.albumPath)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
