package integrations

import (
	"fmt"
	"sort"
	"strings"
)

// ScreenPreset is a common desktop resolution a wallpaper can be fitted into.
type ScreenPreset struct {
	Name   string
	Width  int
	Height int
}

// ScreenPresets maps preset ids to resolutions.
var ScreenPresets = map[string]ScreenPreset{
	"720p":      {Name: "HD", Width: 1280, Height: 720},
	"1080p":     {Name: "Full HD", Width: 1920, Height: 1080},
	"1440p":     {Name: "QHD", Width: 2560, Height: 1440},
	"4k":        {Name: "4K UHD", Width: 3840, Height: 2160},
	"ultrawide": {Name: "UWQHD", Width: 3440, Height: 1440},
}

// GetScreenPreset looks up a preset by id, case-insensitively.
func GetScreenPreset(id string) (ScreenPreset, bool) {
	preset, ok := ScreenPresets[strings.ToLower(strings.TrimSpace(id))]
	return preset, ok
}

// ListScreenPresets returns "id: name (WxH)" lines sorted by id.
func ListScreenPresets() []string {
	ids := make([]string, 0, len(ScreenPresets))
	for id := range ScreenPresets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		p := ScreenPresets[id]
		out = append(out, fmt.Sprintf("%s: %s (%dx%d)", id, p.Name, p.Width, p.Height))
	}
	return out
}

// Apply fits settings into the preset's resolution.
func (p ScreenPreset) Apply(settings ConversionSettings) ConversionSettings {
	settings.MaxWidth = p.Width
	settings.MaxHeight = p.Height
	return settings
}
