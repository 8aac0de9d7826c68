package integrations

import "errors"

var (
	// ErrWallpaperSet means the operating system refused the new desktop background.
	ErrWallpaperSet = errors.New("failed to set wallpaper")
	// ErrUnsupportedPlatform is returned by the setter on anything but Windows.
	ErrUnsupportedPlatform = errors.New("setting the wallpaper is only supported on Windows")
)

// WallpaperSetter applies an image file as the desktop background.
// path must be absolute and point at an existing file.
type WallpaperSetter interface {
	Set(path string) error
}

// NewWallpaperSetter returns the setter for the running platform.
func NewWallpaperSetter() WallpaperSetter {
	return newPlatformSetter()
}
