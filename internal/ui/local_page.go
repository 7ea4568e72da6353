package ui

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/cargo-manager/internal/cargo"
	"github.com/ytget/cargo-manager/internal/jobs"
	"github.com/ytget/cargo-manager/internal/manifest"
	"github.com/ytget/cargo-manager/internal/model"
	"github.com/ytget/cargo-manager/internal/platform"
)

// localPage is the state of the Local Package tab
type localPage struct {
	path string
	info *model.PackageInfo

	pathEntry    *widget.Entry
	argsEntry    *widget.Entry
	nameValue    *widget.Label
	versionValue *widget.Label
	authorValue  *widget.Label
	descValue    *widget.Label
	licenseValue *widget.Label
	noteLabel    *widget.Label

	actionButtons []*widget.Button
}

func (ui *RootUI) buildLocalPage() fyne.CanvasObject {
	p := &ui.local

	p.pathEntry = widget.NewEntry()
	p.pathEntry.SetPlaceHolder(ui.t(KeyPackagePath))
	p.pathEntry.SetText(p.path)
	p.pathEntry.OnSubmitted = func(text string) {
		p.path = strings.TrimSpace(text)
		ui.loadPackage(p.path)
	}

	browseBtn := widget.NewButton(IconFolder+" "+ui.t(KeyBrowse), ui.onBrowsePackage)
	pathRow := container.NewBorder(nil, nil, nil, browseBtn, p.pathEntry)

	value := func() *widget.Label {
		l := widget.NewLabel(DashPlaceholder)
		l.Truncation = fyne.TextTruncateEllipsis
		return l
	}
	p.nameValue = value()
	p.nameValue.TextStyle = fyne.TextStyle{Bold: true}
	p.versionValue = value()
	p.authorValue = value()
	p.licenseValue = value()
	p.descValue = widget.NewLabel(DashPlaceholder)
	p.descValue.Wrapping = fyne.TextWrapWord

	p.noteLabel = widget.NewLabel("")
	p.noteLabel.Importance = widget.WarningImportance
	p.noteLabel.Hide()

	details := widget.NewForm(
		widget.NewFormItem(ui.t(KeyName), p.nameValue),
		widget.NewFormItem(ui.t(KeyVersion), p.versionValue),
		widget.NewFormItem(ui.t(KeyAuthor), p.authorValue),
		widget.NewFormItem(ui.t(KeyLicense), p.licenseValue),
		widget.NewFormItem(ui.t(KeyDescription), p.descValue),
	)

	p.argsEntry = widget.NewEntry()
	p.argsEntry.SetPlaceHolder(ui.t(KeyRunArgs))

	action := func(key string, a model.Action) *widget.Button {
		b := widget.NewButton(ui.t(key), func() { ui.onPackageAction(a) })
		p.actionButtons = append(p.actionButtons, b)
		return b
	}
	p.actionButtons = nil

	buildBtn := action(KeyBuild, model.ActionBuild)
	buildBtn.Importance = widget.HighImportance
	compileRow := container.NewGridWithColumns(5,
		buildBtn,
		action(KeyTest, model.ActionTest),
		action(KeyBench, model.ActionBench),
		action(KeyDoc, model.ActionDoc),
		action(KeyRun, model.ActionRun),
	)

	docsBtn := widget.NewButton(ui.t(KeyOpenDocs), ui.onOpenDocs)
	folderBtn := widget.NewButton(ui.t(KeyOpenFolder), ui.onOpenPackageFolder)
	p.actionButtons = append(p.actionButtons, docsBtn, folderBtn)
	toolsRow := container.NewGridWithColumns(5,
		action(KeyPublish, model.ActionPublish),
		action(KeyUpdate, model.ActionUpdate),
		docsBtn,
		folderBtn,
		widget.NewButton(IconSettings+" "+ui.t(KeyOptions), ui.onShowOptions),
	)

	ui.showPackage(p.info)
	if p.info == nil && p.path != "" {
		// restore the last package quietly; errors surface when the user acts
		if info, err := manifest.ForPath(p.path); err == nil {
			ui.showPackage(info)
		}
	}

	return container.NewVBox(
		pathRow,
		details,
		p.noteLabel,
		widget.NewSeparator(),
		compileRow,
		p.argsEntry,
		toolsRow,
	)
}

// onBrowsePackage opens a folder chooser for the package directory
func (ui *RootUI) onBrowsePackage() {
	d := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if uri == nil {
			return
		}
		ui.local.path = uri.Path()
		ui.local.pathEntry.SetText(uri.Path())
		ui.loadPackage(uri.Path())
	}, ui.window)

	start := ui.local.path
	if start == "" {
		start = ui.settings.GetProjectsDirectory()
	}
	if lister, err := storage.ListerForURI(storage.NewFileURI(start)); err == nil {
		d.SetLocation(lister)
	}
	d.Show()
}

// loadPackage reads the manifest at path and refreshes the page
func (ui *RootUI) loadPackage(path string) {
	if strings.TrimSpace(path) == "" {
		ui.showPackage(nil)
		return
	}

	info, err := manifest.ForPath(path)
	if err != nil {
		log.Printf("load package %s: %v", path, err)
		ui.showPackage(nil)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.t(KeyManifestError), err), ui.window)
		return
	}

	ui.showPackage(info)
	ui.settings.SetLastPackageDir(info.Dir)
}

// showPackage fills the detail labels; nil clears them
func (ui *RootUI) showPackage(info *model.PackageInfo) {
	p := &ui.local
	p.info = info

	orDash := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return DashPlaceholder
		}
		return s
	}

	if info == nil {
		for _, l := range []*widget.Label{p.nameValue, p.versionValue, p.authorValue, p.licenseValue, p.descValue} {
			l.SetText(DashPlaceholder)
		}
		p.noteLabel.Hide()
		for _, b := range p.actionButtons {
			b.Disable()
		}
		return
	}

	p.nameValue.SetText(orDash(info.Name))
	p.versionValue.SetText(orDash(info.Version))
	p.authorValue.SetText(orDash(info.FirstAuthor()))
	p.licenseValue.SetText(orDash(info.License))
	p.descValue.SetText(orDash(info.Description))

	switch {
	case info.IsVirtual():
		p.noteLabel.SetText(ui.t(KeyVirtualWorkspace))
		p.noteLabel.Show()
	case info.Workspace:
		p.noteLabel.SetText(ui.t(KeyWorkspace))
		p.noteLabel.Show()
	default:
		p.noteLabel.Hide()
	}

	for _, b := range p.actionButtons {
		b.Enable()
	}
}

// onPackageAction turns a button press into a job for the current package
func (ui *RootUI) onPackageAction(action model.Action) {
	info := ui.local.info
	if info == nil {
		dialog.ShowInformation(ui.t(KeyError), ui.t(KeyNoPackage), ui.window)
		return
	}

	spec := jobs.Spec{
		Action:  action,
		Dir:     info.Dir,
		Label:   info.Name,
		Options: ui.settings.CompileOptions(),
	}
	if action == model.ActionRun {
		spec.Args = strings.Fields(ui.local.argsEntry.Text)
	}
	ui.submitJob(spec)
}

// onOpenDocs opens the generated documentation of the current package
func (ui *RootUI) onOpenDocs() {
	info := ui.local.info
	if info == nil || info.Name == "" {
		dialog.ShowInformation(ui.t(KeyError), ui.t(KeyNoPackage), ui.window)
		return
	}

	index := cargo.DocIndexPath(info.Dir, info.Name, ui.settings.CompileOptions().Target)
	if _, err := os.Stat(index); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			dialog.ShowInformation(ui.t(KeyDoc), ui.t(KeyDocsNotBuilt), ui.window)
			return
		}
		dialog.ShowError(err, ui.window)
		return
	}

	if err := platform.OpenFileWithDefaultApp(index); err != nil {
		log.Printf("open docs %s: %v", index, err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.t(KeyErrorOpeningFile), err), ui.window)
	}
}

// onOpenPackageFolder reveals the package directory in the file manager
func (ui *RootUI) onOpenPackageFolder() {
	info := ui.local.info
	if info == nil {
		return
	}
	if err := platform.OpenFileInManager(info.ManifestPath); err != nil {
		log.Printf("reveal %s: %v", info.ManifestPath, err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.t(KeyErrorOpeningFile), err), ui.window)
	}
}
