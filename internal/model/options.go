package model

import "strings"

// Defaults for compile options, matching what a fresh install starts with
const (
	DefaultJobs    = 8
	DefaultEdition = "2021"
)

// PackageKind selects the crate template cargo init generates
type PackageKind string

const (
	KindBin PackageKind = "bin"
	KindLib PackageKind = "lib"
)

// VersionControl selects the repository cargo init creates
type VersionControl string

const (
	VCSGit       VersionControl = "git"
	VCSMercurial VersionControl = "hg"
	VCSPijul     VersionControl = "pijul"
	VCSFossil    VersionControl = "fossil"
	VCSNone      VersionControl = "none"
)

// VersionControlOptions returns all VCS choices in display order
func VersionControlOptions() []VersionControl {
	return []VersionControl{VCSGit, VCSMercurial, VCSPijul, VCSFossil, VCSNone}
}

// CompileOptions carries the knobs shared by build/test/bench/doc/run/install
type CompileOptions struct {
	Jobs              int      // parallel rustc jobs, 0 lets cargo decide
	Target            string   // target triple, empty for host
	Features          []string // features to activate
	NoDefaultFeatures bool
	AllFeatures       bool
	Packages          []string // package spec filter (-p)
	Release           bool
	Mode              Action // one of CompileModes
	Offline           bool
}

// DefaultCompileOptions returns the options a new user starts with
func DefaultCompileOptions() CompileOptions {
	return CompileOptions{
		Jobs: DefaultJobs,
		Mode: ActionBuild,
	}
}

// WithMode returns a copy of the options with the given compile mode
func (o CompileOptions) WithMode(mode Action) CompileOptions {
	o.Mode = mode
	o.Features = append([]string(nil), o.Features...)
	o.Packages = append([]string(nil), o.Packages...)
	return o
}

// NewOptions describes a package to create with cargo init
type NewOptions struct {
	Path    string
	Name    string // empty lets cargo derive it from the directory
	Kind    PackageKind
	VCS     VersionControl
	Edition string
}

// SplitList parses a comma or whitespace separated list, dropping empty items
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}
