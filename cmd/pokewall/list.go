package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	Long:  "List every entry in the catalog, optionally narrowed with --filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")

		controller, _, err := newController()
		if err != nil {
			return err
		}
		defer controller.Close()

		names, err := controller.ListEntries(cmd.Context())
		if err != nil {
			return fmt.Errorf("list failed: %w", err)
		}

		filter = strings.ToLower(strings.TrimSpace(filter))
		var (
			red = lipgloss.Color("#EE1515")

			headerStyle = lipgloss.NewStyle().Foreground(red).Bold(true).Align(lipgloss.Center)
			cellStyle   = lipgloss.NewStyle().Padding(0, 1)
		)

		t := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(red)).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			}).
			Headers("#", "Name")

		shown := 0
		for i, name := range names {
			if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
				continue
			}
			t.Row(fmt.Sprintf("%d", i+1), name)
			shown++
		}

		if shown == 0 {
			fmt.Println("No entries found.")
			return nil
		}
		fmt.Println(t)
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("filter", "f", "", "only show names containing this text")
	rootCmd.AddCommand(listCmd)
}
