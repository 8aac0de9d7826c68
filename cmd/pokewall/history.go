package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/pokewall/pkg/data"
	"github.com/kerbaras/pokewall/pkg/sources"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent fetches",
	Long:  "Show the most recent fetches with their outcome (hit, miss or error) and duration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		controller, _, err := newController()
		if err != nil {
			return err
		}
		defer controller.Close()

		records, err := controller.History(limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No fetches recorded yet.")
			return nil
		}
		stats, err := controller.FetchStats()
		if err != nil {
			return err
		}

		outcomeStyles := map[string]lipgloss.Style{
			data.OutcomeHit:   lipgloss.NewStyle().Foreground(lipgloss.Color("#C3E88D")),
			data.OutcomeMiss:  lipgloss.NewStyle().Foreground(lipgloss.Color("#82AAFF")),
			data.OutcomeError: lipgloss.NewStyle().Foreground(lipgloss.Color("#F07178")),
		}
		headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EE1515")).Bold(true)
		cellStyle := lipgloss.NewStyle().Padding(0, 1)

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle.Padding(0, 1)
				}
				if col == 2 && row >= 0 && row < len(records) {
					if style, ok := outcomeStyles[records[row].Outcome]; ok {
						return style.Padding(0, 1)
					}
				}
				return cellStyle
			}).
			Headers("When", "Name", "Outcome", "Took", "Error")

		for _, rec := range records {
			t.Row(
				rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				sources.Capitalize(rec.Name),
				rec.Outcome,
				rec.Duration.Round(time.Millisecond).String(),
				truncateString(rec.Error, 50),
			)
		}

		fmt.Println(t)
		fmt.Println(summarizeStats(stats, outcomeStyles))
		return nil
	},
}

// summarizeStats renders the all-time outcome counts, e.g. "hit 3 · miss 1 · error 0 (4 total)".
func summarizeStats(stats map[string]int, styles map[string]lipgloss.Style) string {
	total := 0
	parts := make([]string, 0, 3)
	for _, outcome := range []string{data.OutcomeHit, data.OutcomeMiss, data.OutcomeError} {
		count := stats[outcome]
		total += count
		part := fmt.Sprintf("%s %d", outcome, count)
		if style, ok := styles[outcome]; ok {
			part = style.Render(part)
		}
		parts = append(parts, part)
	}
	return fmt.Sprintf("%s (%d total)", strings.Join(parts, " · "), total)
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of fetches to show")
	rootCmd.AddCommand(historyCmd)
}
