package config

import (
	"strings"

	"fyne.io/fyne/v2"

	"github.com/ytget/cargo-manager/internal/model"
	"github.com/ytget/cargo-manager/internal/platform"
	"github.com/ytget/cargo-manager/internal/registry"
)

// Settings keys for Fyne preferences
const (
	KeyJobs              = "compile_jobs"
	KeyTarget            = "compile_target"
	KeyFeatures          = "compile_features"
	KeyNoDefaultFeatures = "compile_no_default_features"
	KeyAllFeatures       = "compile_all_features"
	KeyPackages          = "compile_packages"
	KeyRelease           = "compile_release"
	KeyOffline           = "compile_offline"
	KeyMaxParallel       = "max_parallel_jobs"
	KeyLanguage          = "app_language"
	KeyShowSuccess       = "show_success_dialogs"
	KeyLastPackageDir    = "last_package_directory"
	KeyProjectsDir       = "projects_directory"
	KeySearchOrder       = "search_order"
)

// Default values
const (
	DefaultMaxParallel = 2
	MaxParallelLimit   = 8
	DefaultLanguage    = "system"
	DefaultShowSuccess = true
	DefaultSearchOrder = registry.OrderRelevance
)

// Settings manages user preferences edited through the Options dialog
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// CompileOptions returns the stored compile options with mode build
func (s *Settings) CompileOptions() model.CompileOptions {
	p := s.app.Preferences()
	opts := model.DefaultCompileOptions()
	opts.Jobs = p.IntWithFallback(KeyJobs, model.DefaultJobs)
	opts.Target = p.String(KeyTarget)
	opts.Features = model.SplitList(p.String(KeyFeatures))
	opts.NoDefaultFeatures = p.Bool(KeyNoDefaultFeatures)
	opts.AllFeatures = p.Bool(KeyAllFeatures)
	opts.Packages = model.SplitList(p.String(KeyPackages))
	opts.Release = p.Bool(KeyRelease)
	opts.Offline = p.Bool(KeyOffline)
	return opts
}

// SetCompileOptions stores compile options. Mode is not persisted.
func (s *Settings) SetCompileOptions(opts model.CompileOptions) {
	p := s.app.Preferences()
	jobs := opts.Jobs
	if jobs < 0 {
		jobs = 0
	}
	p.SetInt(KeyJobs, jobs)
	p.SetString(KeyTarget, strings.TrimSpace(opts.Target))
	p.SetString(KeyFeatures, strings.Join(opts.Features, ","))
	p.SetBool(KeyNoDefaultFeatures, opts.NoDefaultFeatures)
	p.SetBool(KeyAllFeatures, opts.AllFeatures)
	p.SetString(KeyPackages, strings.Join(opts.Packages, ","))
	p.SetBool(KeyRelease, opts.Release)
	p.SetBool(KeyOffline, opts.Offline)
}

// GetMaxParallelJobs returns the maximum number of cargo jobs run at once
func (s *Settings) GetMaxParallelJobs() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelJobs(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelJobs sets the maximum number of cargo jobs run at once
func (s *Settings) SetMaxParallelJobs(count int) {
	if count < 1 {
		count = 1
	}
	if count > MaxParallelLimit {
		count = MaxParallelLimit
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetShowSuccessDialogs returns whether finished actions pop up an information dialog
func (s *Settings) GetShowSuccessDialogs() bool {
	return s.app.Preferences().BoolWithFallback(KeyShowSuccess, DefaultShowSuccess)
}

// SetShowSuccessDialogs sets whether finished actions pop up an information dialog
func (s *Settings) SetShowSuccessDialogs(show bool) {
	s.app.Preferences().SetBool(KeyShowSuccess, show)
}

// GetLastPackageDir returns the package directory opened last time
func (s *Settings) GetLastPackageDir() string {
	return s.app.Preferences().String(KeyLastPackageDir)
}

// SetLastPackageDir remembers the package directory shown on the Local page
func (s *Settings) SetLastPackageDir(dir string) {
	s.app.Preferences().SetString(KeyLastPackageDir, dir)
}

// GetProjectsDirectory returns the parent directory offered for new packages
func (s *Settings) GetProjectsDirectory() string {
	dir := s.app.Preferences().String(KeyProjectsDir)
	if dir == "" {
		defaultDir, err := platform.GetHomeProjectsDir()
		if err != nil {
			defaultDir = "."
		}
		s.SetProjectsDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetProjectsDirectory sets the parent directory offered for new packages
func (s *Settings) SetProjectsDirectory(dir string) {
	s.app.Preferences().SetString(KeyProjectsDir, dir)
}

// GetSearchOrder returns how search results are sorted
func (s *Settings) GetSearchOrder() registry.Order {
	order, err := registry.ParseOrder(s.app.Preferences().String(KeySearchOrder))
	if err != nil {
		return DefaultSearchOrder
	}
	return order
}

// SetSearchOrder sets how search results are sorted
func (s *Settings) SetSearchOrder(order registry.Order) {
	s.app.Preferences().SetString(KeySearchOrder, string(order))
}
