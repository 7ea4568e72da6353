package cargo

import (
	"strconv"
	"strings"

	"github.com/ytget/cargo-manager/internal/model"
)

// Cargo flags
const (
	FlagJobs              = "--jobs"
	FlagTarget            = "--target"
	FlagFeatures          = "--features"
	FlagNoDefaultFeatures = "--no-default-features"
	FlagAllFeatures       = "--all-features"
	FlagPackage           = "--package"
	FlagRelease           = "--release"
	FlagOffline           = "--offline"
	FlagRegistry          = "--registry"
	FlagBin               = "--bin"
	FlagLib               = "--lib"
	FlagVCS               = "--vcs"
	FlagName              = "--name"
	FlagEdition           = "--edition"
	FlagColor             = "--color"
	ColorNever            = "never"
	ArgsSeparator         = "--"
)

// BuildArgs returns the arguments for a compile-mode action (build, test,
// bench, doc or run). extra is appended after "--" and only used for run.
func BuildArgs(opts model.CompileOptions, extra []string) []string {
	mode := opts.Mode
	if !mode.IsCompileMode() {
		mode = model.ActionBuild
	}

	args := []string{mode.String(), FlagColor, ColorNever}
	args = append(args, commonArgs(opts)...)
	// cargo bench always uses the bench profile and rejects --release
	if opts.Release && mode != model.ActionBench {
		args = append(args, FlagRelease)
	}
	for _, p := range opts.Packages {
		args = append(args, FlagPackage, p)
	}

	if mode == model.ActionRun && len(extra) > 0 {
		args = append(args, ArgsSeparator)
		args = append(args, extra...)
	}
	return args
}

// InstallArgs returns the arguments for installing crate name. registry is
// only passed when set; an empty value means cargo's default registry.
func InstallArgs(registry, name string, opts model.CompileOptions) []string {
	args := []string{model.ActionInstall.String(), FlagColor, ColorNever}
	if r := strings.TrimSpace(registry); r != "" {
		args = append(args, FlagRegistry, r)
	}
	args = append(args, commonArgs(opts)...)
	return append(args, name)
}

// PublishArgs returns the arguments for cargo publish
func PublishArgs(opts model.CompileOptions) []string {
	args := []string{model.ActionPublish.String(), FlagColor, ColorNever}
	args = append(args, commonArgs(opts)...)
	if len(opts.Packages) > 0 {
		args = append(args, FlagPackage, opts.Packages[0])
	}
	return args
}

// UpdateArgs returns the arguments for cargo update
func UpdateArgs(offline bool) []string {
	args := []string{model.ActionUpdate.String(), FlagColor, ColorNever}
	if offline {
		args = append(args, FlagOffline)
	}
	return args
}

// InitArgs returns the arguments for creating a package at o.Path
func InitArgs(o model.NewOptions) []string {
	args := []string{model.ActionInit.String(), FlagColor, ColorNever}

	switch o.Kind {
	case model.KindLib:
		args = append(args, FlagLib)
	default:
		args = append(args, FlagBin)
	}
	if o.VCS != "" {
		args = append(args, FlagVCS, string(o.VCS))
	}
	if name := strings.TrimSpace(o.Name); name != "" {
		args = append(args, FlagName, name)
	}
	if o.Edition != "" {
		args = append(args, FlagEdition, o.Edition)
	}
	return append(args, o.Path)
}

// commonArgs covers the flags build, install and publish share
func commonArgs(opts model.CompileOptions) []string {
	var args []string
	if opts.Jobs > 0 {
		args = append(args, FlagJobs, strconv.Itoa(opts.Jobs))
	}
	if t := strings.TrimSpace(opts.Target); t != "" {
		args = append(args, FlagTarget, t)
	}
	if opts.AllFeatures {
		args = append(args, FlagAllFeatures)
	} else if len(opts.Features) > 0 {
		args = append(args, FlagFeatures, strings.Join(opts.Features, ","))
	}
	if opts.NoDefaultFeatures {
		args = append(args, FlagNoDefaultFeatures)
	}
	if opts.Offline {
		args = append(args, FlagOffline)
	}
	return args
}
