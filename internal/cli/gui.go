package cli

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/cargo-manager/internal/cargo"
	"github.com/ytget/cargo-manager/internal/config"
	"github.com/ytget/cargo-manager/internal/jobs"
	"github.com/ytget/cargo-manager/internal/platform"
	"github.com/ytget/cargo-manager/internal/registry"
	"github.com/ytget/cargo-manager/internal/ui"
)

const (
	AppID   = "com.ytget.cargo-manager"
	AppName = "Cargo Manager"

	WindowWidth  = 960
	WindowHeight = 720
)

// runGUI wires the services together and blocks until the window closes
func runGUI(cfg config.Config, packagePath string) error {
	log.Printf("%s v%s starting (cargo: %s, registry: %s)", AppName, version, cfg.Cargo.Path, cfg.Registry.URL)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())
	if logo, err := ui.LoadLogoResource(); err == nil {
		myApp.SetIcon(logo)
	}

	window := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	lockRoot, err := platform.AppCacheDir()
	if err != nil {
		// jobs still run, only without cross-process package locks
		log.Printf("package locks disabled: %v", err)
		lockRoot = ""
	}

	runner := cargo.NewRunner(cfg.Cargo.Path)
	jobsSvc := jobs.NewService(runner, jobs.DefaultParallel, jobs.WithLockRoot(lockRoot))
	client := registry.NewClient(cfg.Registry.URL, cfg.Registry.UserAgent, registry.WithTimeout(cfg.Registry.Timeout))

	root := ui.NewRootUI(window, myApp, jobsSvc, client, cfg)
	if packagePath != "" {
		root.OpenPackage(packagePath)
	}

	window.ShowAndRun()
	return nil
}
