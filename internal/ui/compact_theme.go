package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Rust-toned palette
var (
	rustPrimary = color.NRGBA{R: 206, G: 66, B: 43, A: 255}
	rustFocus   = color.NRGBA{R: 206, G: 66, B: 43, A: 96}
	rustSelect  = color.NRGBA{R: 206, G: 66, B: 43, A: 48}
	okGreen     = color.NRGBA{R: 56, G: 142, B: 60, A: 255}
	errRed      = color.NRGBA{R: 198, G: 40, B: 40, A: 255}
	warnAmber   = color.NRGBA{R: 232, G: 150, B: 30, A: 255}
)

// variantColor holds a light and dark value for one color name
type variantColor struct {
	light, dark color.Color
}

var surfaceColors = map[fyne.ThemeColorName]variantColor{
	theme.ColorNameBackground: {
		light: color.NRGBA{R: 248, G: 246, B: 244, A: 255},
		dark:  color.NRGBA{R: 24, G: 22, B: 21, A: 255},
	},
	theme.ColorNameForeground: {
		light: color.NRGBA{R: 36, G: 32, B: 30, A: 255},
		dark:  color.NRGBA{R: 240, G: 236, B: 232, A: 255},
	},
	// result table and jobs panel headers
	theme.ColorNameHeaderBackground: {
		light: color.NRGBA{R: 236, G: 230, B: 224, A: 255},
		dark:  color.NRGBA{R: 38, G: 34, B: 32, A: 255},
	},
	theme.ColorNameSeparator: {
		light: color.NRGBA{R: 222, G: 214, B: 208, A: 255},
		dark:  color.NRGBA{R: 52, G: 47, B: 44, A: 255},
	},
}

// Dense sizes: table rows and job rows stay short, output text stays readable
var compactSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:            3,
	theme.SizeNameInnerPadding:       5,
	theme.SizeNameLineSpacing:        2,
	theme.SizeNameScrollBar:          10,
	theme.SizeNameText:               13,
	theme.SizeNameHeadingText:        17,
	theme.SizeNameSubHeadingText:     14,
	theme.SizeNameCaptionText:        11,
	theme.SizeNameInlineIcon:         18,
	theme.SizeNameInputRadius:        3,
	theme.SizeNameSelectionRadius:    2,
	theme.SizeNameSeparatorThickness: 1,
}

// CompactTheme is a dense theme with a rust-toned primary color
type CompactTheme struct{}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameHyperlink:
		return rustPrimary
	case theme.ColorNameFocus:
		return rustFocus
	case theme.ColorNameSelection:
		return rustSelect
	case theme.ColorNameSuccess:
		return okGreen
	case theme.ColorNameError:
		return errRed
	case theme.ColorNameWarning:
		return warnAmber
	}

	if c, ok := surfaceColors[name]; ok {
		if variant == theme.VariantDark {
			return c.dark
		}
		return c.light
	}
	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	if s, ok := compactSizes[name]; ok {
		return s
	}
	return theme.DefaultTheme().Size(name)
}
