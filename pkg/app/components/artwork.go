package components

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

const alphaThreshold = 0x80

// LoadArtwork decodes the image at path and renders it to fit width x height cells.
func LoadArtwork(path string, width, height int) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open artwork: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode artwork: %w", err)
	}
	return RenderArtwork(img, width, height), nil
}

// RenderArtwork draws img with upper half blocks, two pixel rows per terminal row.
// Transparent pixels are left to the terminal background.
func RenderArtwork(img image.Image, width, height int) string {
	if width <= 0 || height <= 0 || img.Bounds().Empty() {
		return ""
	}

	w, h := fitPixels(img.Bounds().Dx(), img.Bounds().Dy(), width, height*2)
	scaled := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == img.Bounds().Dx() && h == img.Bounds().Dy() {
		draw.Draw(scaled, scaled.Bounds(), img, img.Bounds().Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	}

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := scaled.NRGBAAt(x, y)
			var bottom color.NRGBA
			if y+1 < h {
				bottom = scaled.NRGBAAt(x, y+1)
			}
			b.WriteString(cell(top, bottom))
		}
		if y+2 < h {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func cell(top, bottom color.NRGBA) string {
	topOn := top.A >= alphaThreshold
	bottomOn := bottom.A >= alphaThreshold

	switch {
	case topOn && bottomOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bottom)).Render("▀")
	case topOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Render("▀")
	case bottomOn:
		return lipgloss.NewStyle().Foreground(hex(bottom)).Render("▄")
	default:
		return " "
	}
}

func hex(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

// fitPixels scales w x h down to fit maxW x maxH, keeping the aspect ratio.
func fitPixels(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	ratio := float64(w) / float64(h)
	if float64(maxW)/float64(maxH) > ratio {
		w = int(float64(maxH) * ratio)
		h = maxH
	} else {
		h = int(float64(maxW) / ratio)
		w = maxW
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
