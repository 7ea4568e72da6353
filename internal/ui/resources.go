package ui

import (
	_ "embed"

	"fyne.io/fyne/v2"
)

const (
	AppIcon = "cargo-manager.svg"
)

//go:embed icon.svg
var iconSVG []byte

// LogoResource is the application icon
var LogoResource = fyne.NewStaticResource(AppIcon, iconSVG)

// LoadLogoResource returns the logo, preferring a file next to the binary so
// packagers can ship a raster icon.
func LoadLogoResource() (fyne.Resource, error) {
	if res, err := fyne.LoadResourceFromPath(AppIcon); err == nil {
		return res, nil
	}
	return LogoResource, nil
}
