package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/pokewall/pkg/app/styles"
	"github.com/kerbaras/pokewall/pkg/sources"
)

// EntryList is a filterable, scrolling list of catalog display names.
type EntryList struct {
	Items         []string
	SelectedIndex int
	Width         int
	Height        int

	filter  string
	visible []string
	cached  map[string]bool
}

func NewEntryList() *EntryList {
	return &EntryList{
		Items:   []string{},
		visible: []string{},
		cached:  map[string]bool{},
		Width:   30,
		Height:  20,
	}
}

// SetItems replaces the entries and reapplies the current filter.
func (l *EntryList) SetItems(items []string) {
	l.Items = items
	l.apply()
}

// SetCached marks which catalog keys already have artwork on disk.
func (l *EntryList) SetCached(names []string) {
	l.cached = make(map[string]bool, len(names))
	for _, name := range names {
		l.cached[sources.Normalize(name)] = true
	}
}

// MarkCached flags a single entry as cached.
func (l *EntryList) MarkCached(name string) {
	l.cached[sources.Normalize(name)] = true
}

// IsCached reports whether name has been marked as cached.
func (l *EntryList) IsCached(name string) bool {
	return l.cached[sources.Normalize(name)]
}

// SetFilter keeps only entries containing query, case-insensitively.
func (l *EntryList) SetFilter(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == l.filter {
		return
	}
	l.filter = query
	l.apply()
}

func (l *EntryList) apply() {
	l.visible = l.visible[:0]
	for _, item := range l.Items {
		if l.filter == "" || strings.Contains(strings.ToLower(item), l.filter) {
			l.visible = append(l.visible, item)
		}
	}
	if l.SelectedIndex >= len(l.visible) {
		l.SelectedIndex = len(l.visible) - 1
	}
	if l.SelectedIndex < 0 {
		l.SelectedIndex = 0
	}
}

// Visible returns the entries passing the filter.
func (l *EntryList) Visible() []string {
	return l.visible
}

func (l *EntryList) Next() {
	if len(l.visible) == 0 {
		return
	}
	l.SelectedIndex++
	if l.SelectedIndex >= len(l.visible) {
		l.SelectedIndex = 0
	}
}

func (l *EntryList) Prev() {
	if len(l.visible) == 0 {
		return
	}
	l.SelectedIndex--
	if l.SelectedIndex < 0 {
		l.SelectedIndex = len(l.visible) - 1
	}
}

// Select moves the cursor to name if it is visible.
func (l *EntryList) Select(name string) bool {
	key := sources.Normalize(name)
	for i, item := range l.visible {
		if sources.Normalize(item) == key {
			l.SelectedIndex = i
			return true
		}
	}
	return false
}

// Selected returns the display name under the cursor.
func (l *EntryList) Selected() (string, bool) {
	if len(l.visible) == 0 || l.SelectedIndex >= len(l.visible) {
		return "", false
	}
	return l.visible[l.SelectedIndex], true
}

// window returns the slice bounds to render so the selection stays on screen.
func (l *EntryList) window() (int, int) {
	rows := l.Height
	if rows < 1 {
		rows = 1
	}
	start, end := 0, len(l.visible)
	if end <= rows {
		return start, end
	}
	start = l.SelectedIndex - rows/2
	if start < 0 {
		start = 0
	}
	end = start + rows
	if end > len(l.visible) {
		end = len(l.visible)
		start = end - rows
	}
	return start, end
}

func (l *EntryList) View() string {
	if len(l.visible) == 0 {
		msg := "No entries"
		if l.filter != "" {
			msg = fmt.Sprintf("Nothing matches %q", l.filter)
		}
		return lipgloss.Place(l.Width, l.Height, lipgloss.Center, lipgloss.Center, styles.MutedStyle.Render(msg))
	}

	var b strings.Builder
	start, end := l.window()
	for i := start; i < end; i++ {
		item := l.visible[i]

		mark := "  "
		if l.IsCached(item) {
			mark = styles.CachedMarkStyle.Render("● ")
		}

		line := styles.TextStyle.Render(item)
		if i == l.SelectedIndex {
			line = styles.SelectedStyle.Render("> " + item)
		}

		b.WriteString(mark)
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
