package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kerbaras/pokewall/pkg/app/styles"
	"github.com/kerbaras/pokewall/pkg/services"
	"github.com/kerbaras/pokewall/pkg/sources"
)

// ProgressTracker keeps the latest progress event per entry until it completes.
type ProgressTracker struct {
	fetches map[string]*services.FetchProgress
	width   int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		fetches: make(map[string]*services.FetchProgress),
		width:   width,
	}
}

func (p *ProgressTracker) SetWidth(width int) {
	p.width = width
}

func (p *ProgressTracker) Update(progress services.FetchProgress) {
	if progress.Status == "complete" {
		delete(p.fetches, progress.Name)
		return
	}
	prog := progress
	p.fetches[progress.Name] = &prog
}

func (p *ProgressTracker) Clear() {
	p.fetches = make(map[string]*services.FetchProgress)
}

func (p *ProgressTracker) HasActive() bool {
	return len(p.fetches) > 0
}

func (p *ProgressTracker) View() string {
	if len(p.fetches) == 0 {
		return ""
	}

	names := make([]string, 0, len(p.fetches))
	for name := range p.fetches {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		progress := p.fetches[name]

		statusText := fmt.Sprintf("%s: %s", sources.Capitalize(name), progress.Status)
		if progress.Status == "downloading" {
			if progress.TotalBytes > 0 {
				statusText = fmt.Sprintf("%s (%s/%s)", statusText, formatBytes(progress.BytesRead), formatBytes(progress.TotalBytes))
				b.WriteString(renderProgressBar(progress.BytesRead, progress.TotalBytes, p.width-4))
				b.WriteString("\n")
			} else {
				statusText = fmt.Sprintf("%s (%s)", statusText, formatBytes(progress.BytesRead))
			}
		}
		b.WriteString(styles.StatusStyle(progress.Status).Render(statusText))
		b.WriteString("\n")

		if progress.Error != nil {
			b.WriteString(styles.StatusError.Render(fmt.Sprintf("Error: %s", progress.Error)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderProgressBar(current, total int64, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
	return styles.ProgressBarStyle.Render(bar)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
