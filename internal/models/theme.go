package models

import "strings"

// ThemeMode is the user's color scheme preference
type ThemeMode int

const (
	ThemeDark ThemeMode = iota
	ThemeLight
)

// DefaultTheme is used when no preference was stored
const DefaultTheme = ThemeDark

// String returns the string representation of the theme
func (t ThemeMode) String() string {
	switch t {
	case ThemeLight:
		return "light"
	default:
		return "dark"
	}
}

// Toggle switches between light and dark
func (t ThemeMode) Toggle() ThemeMode {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ParseThemeMode converts a string to a ThemeMode, falling back to DefaultTheme
func ParseThemeMode(value string) ThemeMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "light":
		return ThemeLight
	default:
		return DefaultTheme
	}
}

// IsValidThemeMode reports whether value names a known theme
func IsValidThemeMode(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "light", "dark":
		return true
	}
	return false
}

// MarshalJSON implements json.Marshaler interface
func (t ThemeMode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (t *ThemeMode) UnmarshalJSON(data []byte) error {
	*t = ParseThemeMode(strings.Trim(string(data), `"`))
	return nil
}
