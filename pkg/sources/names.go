package sources

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize maps a display name back to the catalog's lowercase key.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Capitalize upper-cases the first rune of a catalog key for display.
func Capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// ValidateName normalizes name and rejects values unusable as a cache file name or path segment.
func ValidateName(name string) (string, error) {
	key := Normalize(name)
	if key == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if key == "." || key == ".." || strings.ContainsAny(key, `/\?#`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return key, nil
}
