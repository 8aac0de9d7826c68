package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/pokewall/pkg/sources"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "List cached artwork",
	Long: `Display the artwork already stored in the cache directory in a formatted table.

Use --prune to drop index rows whose artwork file has been removed from disk.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prune, _ := cmd.Flags().GetBool("prune")

		controller, _, err := newController()
		if err != nil {
			return err
		}
		defer controller.Close()

		if prune {
			pruned, err := controller.PruneIndex()
			if err != nil {
				return fmt.Errorf("prune failed: %w", err)
			}
			fmt.Printf("🧹 Pruned %d stale index entries\n", pruned)
		}

		images, err := controller.CachedImages()
		if err != nil {
			return err
		}

		if len(images) == 0 {
			fmt.Printf("🗂  Nothing cached in %s. Use 'pokewall fetch' to download artwork.\n", controller.CacheDir())
			return nil
		}

		columns := []table.Column{
			{Title: "Name", Width: 24},
			{Title: "Size", Width: 10},
			{Title: "Fetched", Width: 18},
			{Title: "Source", Width: 60},
		}

		rows := []table.Row{}
		var total int64
		for _, img := range images {
			fetched := "-"
			if !img.FetchedAt.IsZero() {
				fetched = img.FetchedAt.Local().Format("2006-01-02 15:04")
			}
			source := img.SourceURL
			if source == "" {
				source = "(not indexed)"
			}
			total += img.Size

			rows = append(rows, table.Row{
				truncateString(sources.Capitalize(img.Name), 22),
				fmt.Sprintf("%d KB", (img.Size+1023)/1024),
				fetched,
				truncateString(source, 58),
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\n🗂  Cache %s (%d images, %d KB)\n\n", controller.CacheDir(), len(images), (total+1023)/1024)
		fmt.Println(t.View())
		return nil
	},
}

func init() {
	cacheCmd.Flags().Bool("prune", false, "drop index rows whose file is missing")
	rootCmd.AddCommand(cacheCmd)
}
