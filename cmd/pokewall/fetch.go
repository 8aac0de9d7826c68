package cmd

import (
	"fmt"

	"github.com/kerbaras/pokewall/pkg/sources"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [name...]",
	Short: "Download official artwork into the cache",
	Long:  "Fetch the official artwork for one or more entries. Cached artwork is returned without any network access.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, _, err := newController()
		if err != nil {
			return err
		}
		defer controller.Close()

		go func() {
			for progress := range controller.Progress() {
				if progress.Status == "downloading" && progress.TotalBytes > 0 {
					fmt.Printf("\r  %s: %d/%d bytes", progress.Name, progress.BytesRead, progress.TotalBytes)
				}
			}
		}()

		failed := 0
		for _, name := range args {
			display := sources.Capitalize(sources.Normalize(name))
			origin := "downloaded"
			if hit, _ := controller.CachedImage(name); hit != nil {
				origin = "cached"
			}

			path, err := controller.FetchImage(cmd.Context(), name)
			if err != nil {
				fmt.Printf("\n✗ %s: %v\n", display, err)
				failed++
				continue
			}

			size := ""
			if img, _ := controller.CachedImage(name); img != nil {
				size = fmt.Sprintf(", %d KB", (img.Size+1023)/1024)
			}
			fmt.Printf("\n✓ %s (%s%s): %s\n", display, origin, size, path)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d fetches failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
