package model

// InheritedField is shown for manifest fields taken from the workspace root
const InheritedField = "(workspace)"

// PackageInfo is the subset of a Cargo.toml the local package page shows
type PackageInfo struct {
	Name         string
	Version      string
	Authors      []string
	Description  string
	License      string
	Repository   string
	Edition      string
	ManifestPath string
	Dir          string
	Workspace    bool // manifest declares a [workspace] section
}

// FirstAuthor returns the first listed author or an empty string
func (p *PackageInfo) FirstAuthor() string {
	if len(p.Authors) == 0 {
		return ""
	}
	return p.Authors[0]
}

// IsVirtual reports whether the manifest is a workspace root without a package
func (p *PackageInfo) IsVirtual() bool {
	return p.Workspace && p.Name == ""
}
