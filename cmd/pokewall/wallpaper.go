package cmd

import (
	"fmt"
	"strings"

	"github.com/kerbaras/pokewall/pkg/integrations"
	"github.com/kerbaras/pokewall/pkg/services"
	"github.com/spf13/cobra"
)

var wallpaperCmd = &cobra.Command{
	Use:   "wallpaper [name]",
	Short: "Set an entry's artwork as the desktop background",
	Long: `Fetch the artwork for an entry (or reuse the cached copy), convert it to JPEG
and apply it as the desktop background. Windows only.

Use --fit to scale the artwork for a screen size, and --list-presets to see the sizes.

Examples:
  pokewall wallpaper charizard
  pokewall wallpaper eevee --fit 1440p`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if listPresets, _ := cmd.Flags().GetBool("list-presets"); listPresets {
			fmt.Println("Screen presets:")
			fmt.Println(strings.Join(integrations.ListScreenPresets(), "\n"))
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("entry name is required (use --list-presets to see screen sizes)")
		}

		fit, _ := cmd.Flags().GetString("fit")
		var preset integrations.ScreenPreset
		if fit != "" {
			var ok bool
			if preset, ok = integrations.GetScreenPreset(fit); !ok {
				return fmt.Errorf("unknown screen preset: %s. Use --list-presets to see available options", fit)
			}
		}

		controller, cfg, err := newController()
		if err != nil {
			return err
		}
		defer controller.Close()

		if fit != "" {
			settings, err := services.WallpaperSettings(cfg.Wallpaper)
			if err != nil {
				return err
			}
			controller.WithConverter(integrations.NewImageConverter(preset.Apply(settings)))
		}

		path, err := controller.FetchImage(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}

		applied, err := controller.SetWallpaper(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("wallpaper failed: %w", err)
		}
		fmt.Printf("🖼  Wallpaper set: %s\n", applied)
		return nil
	},
}

func init() {
	wallpaperCmd.Flags().String("fit", "", "scale to a screen preset (e.g. 1080p, 4k)")
	wallpaperCmd.Flags().Bool("list-presets", false, "list screen presets")
	rootCmd.AddCommand(wallpaperCmd)
}
