package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CustomTheme tints the default theme with the app's accent color.
type CustomTheme struct {
	fyne.Theme
	accent color.Color
}

// NewCustomTheme creates a new instance of the custom theme.
func NewCustomTheme(accent color.Color) fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme(), accent: accent}
}

// Color returns the accent for primary and focus colors.
func (t *CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return t.accent
	}
	return t.Theme.Color(name, variant)
}
