package integrations

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// ErrImageConversion wraps any failure turning cached artwork into a wallpaper file.
var ErrImageConversion = errors.New("image conversion failed")

// ConversionSettings controls PNG to JPEG wallpaper conversion.
type ConversionSettings struct {
	Quality    int         // JPEG quality (1-100)
	MaxWidth   int         // 0 keeps the source width
	MaxHeight  int         // 0 keeps the source height
	Background color.Color // fills transparent pixels, JPEG has no alpha
}

// DefaultConversionSettings keeps the source size and flattens onto white.
func DefaultConversionSettings() ConversionSettings {
	return ConversionSettings{
		Quality:    90,
		Background: color.White,
	}
}

// ImageConverter re-encodes cached artwork for the wallpaper setter.
type ImageConverter struct {
	settings ConversionSettings
}

func NewImageConverter(settings ConversionSettings) *ImageConverter {
	if settings.Quality <= 0 || settings.Quality > 100 {
		settings.Quality = 90
	}
	if settings.Background == nil {
		settings.Background = color.White
	}
	return &ImageConverter{settings: settings}
}

// ToJPEG decodes src and writes it as a JPEG to dst.
func (c *ImageConverter) ToJPEG(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrImageConversion, src, err)
	}
	defer in.Close()

	encoded, err := c.Convert(in)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".wallpaper-*.jpg")
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrImageConversion, dst, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrImageConversion, dst, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrImageConversion, dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("%w: rename %s: %w", ErrImageConversion, dst, err)
	}
	return nil
}

// Convert decodes any registered image format from input and returns JPEG bytes.
func (c *ImageConverter) Convert(input io.Reader) ([]byte, error) {
	img, _, err := image.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrImageConversion, err)
	}

	bounds := img.Bounds()
	width, height := c.calculateDimensions(bounds.Dx(), bounds.Dy())

	// flatten first so scaling never blends against transparent black
	var processed image.Image = c.flatten(img)
	if width != bounds.Dx() || height != bounds.Dy() {
		processed = c.resize(processed, width, height)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: c.settings.Quality}); err != nil {
		return nil, fmt.Errorf("%w: encode: %w", ErrImageConversion, err)
	}
	return buf.Bytes(), nil
}

// calculateDimensions fits width x height inside the configured maximums, keeping the aspect ratio.
func (c *ImageConverter) calculateDimensions(width, height int) (int, int) {
	maxW, maxH := c.settings.MaxWidth, c.settings.MaxHeight
	if maxW <= 0 {
		maxW = width
	}
	if maxH <= 0 {
		maxH = height
	}
	if width <= maxW && height <= maxH {
		return width, height
	}

	widthScale := float64(maxW) / float64(width)
	heightScale := float64(maxH) / float64(height)
	scale := widthScale
	if heightScale < widthScale {
		scale = heightScale
	}

	newWidth := max(1, int(float64(width)*scale))
	newHeight := max(1, int(float64(height)*scale))
	return newWidth, newHeight
}

// flatten composites img over the background color into an opaque RGBA image.
func (c *ImageConverter) flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: c.settings.Background}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

func (c *ImageConverter) resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// ParseHexColor parses "#RRGGBB" or "#RGB".
func ParseHexColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
