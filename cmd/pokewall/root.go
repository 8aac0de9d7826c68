package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/kerbaras/pokewall/pkg/app"
	"github.com/kerbaras/pokewall/pkg/config"
	"github.com/kerbaras/pokewall/pkg/services"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cacheDir   string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:          "pokewall",
	Short:        "Browse Pokémon artwork and set it as your wallpaper",
	Long:         "Browse the PokeAPI catalog, cache official artwork locally and apply it as the desktop background",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// the TUI owns the terminal, so logs go to a file
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath()), 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer logFile.Close()

		logger := newLogger(logFile)
		controller, err := services.NewController(cfg, logger)
		if err != nil {
			return err
		}
		defer controller.Close()

		a := app.NewApp(controller, defaultAlbumPath(cfg))
		if err := a.Run(cmd.Context()); err != nil {
			level.Error(logger).Log("msg", "tui exited", "err", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "directory for cached artwork (overrides cache.dir)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.WithCacheDir(cacheDir), nil
}

func newLogger(w io.Writer) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	if debug {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

// newController builds a controller that logs to stderr, for the non-interactive commands.
// Callers own the controller and must Close it.
func newController() (*services.Controller, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}

	controller, err := services.NewController(cfg, newLogger(os.Stderr))
	if err != nil {
		return nil, config.Config{}, err
	}
	return controller, cfg, nil
}

func defaultAlbumPath(cfg config.Config) string {
	return filepath.Join(cfg.Data.Dir, "pokewall-album.epub")
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
