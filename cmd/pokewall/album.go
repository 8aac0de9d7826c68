package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var albumCmd = &cobra.Command{
	Use:   "album",
	Short: "Export cached artwork as an EPUB album",
	Long:  "Build an EPUB with one page per cached image, sorted by name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		controller, cfg, err := newController()
		if err != nil {
			return err
		}
		defer controller.Close()

		if output == "" {
			output = defaultAlbumPath(cfg)
		}

		path, err := controller.ExportAlbum(cmd.Context(), output)
		if err != nil {
			return fmt.Errorf("album export failed: %w", err)
		}
		fmt.Printf("📖 Album created: %s\n", path)
		return nil
	},
}

func init() {
	albumCmd.Flags().StringP("output", "o", "", "output file (default {data_dir}/pokewall-album.epub)")
	rootCmd.AddCommand(albumCmd)
}
