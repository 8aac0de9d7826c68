//go:build !windows

package integrations

type unsupportedSetter struct{}

func newPlatformSetter() WallpaperSetter {
	return unsupportedSetter{}
}

func (unsupportedSetter) Set(string) error {
	return ErrUnsupportedPlatform
}
