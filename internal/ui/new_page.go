package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/cargo-manager/internal/jobs"
	"github.com/ytget/cargo-manager/internal/model"
)

// Editions offered for new packages
var editions = []string{"2015", "2018", "2021", "2024"}

// newPage is the state of the New Package tab
type newPage struct {
	location string

	locationEntry *widget.Entry
	nameEntry     *widget.Entry
	kindRadio     *widget.RadioGroup
	vcsSelect     *widget.Select
	editionSelect *widget.Select
	targetLabel   *widget.Label
}

func (ui *RootUI) buildNewPage() fyne.CanvasObject {
	p := &ui.newPkg

	p.locationEntry = widget.NewEntry()
	p.locationEntry.SetText(p.location)
	p.locationEntry.OnChanged = func(s string) {
		p.location = s
		ui.updateNewTarget()
	}
	browseBtn := widget.NewButton(IconFolder+" "+ui.t(KeyBrowse), ui.onBrowseLocation)
	locationRow := container.NewBorder(nil, nil, nil, browseBtn, p.locationEntry)

	p.nameEntry = widget.NewEntry()
	p.nameEntry.SetPlaceHolder("my-crate")
	p.nameEntry.Validator = validatePackageName
	p.nameEntry.OnChanged = func(string) { ui.updateNewTarget() }

	p.kindRadio = widget.NewRadioGroup([]string{string(model.KindBin), string(model.KindLib)}, nil)
	p.kindRadio.Horizontal = true
	p.kindRadio.Required = true
	p.kindRadio.SetSelected(string(model.KindBin))

	vcs := make([]string, 0, len(model.VersionControlOptions()))
	for _, v := range model.VersionControlOptions() {
		vcs = append(vcs, string(v))
	}
	p.vcsSelect = widget.NewSelect(vcs, nil)
	p.vcsSelect.SetSelected(string(model.VCSGit))

	p.editionSelect = widget.NewSelect(editions, nil)
	p.editionSelect.SetSelected(model.DefaultEdition)

	p.targetLabel = widget.NewLabel("")
	p.targetLabel.TextStyle = fyne.TextStyle{Monospace: true}
	p.targetLabel.Truncation = fyne.TextTruncateEllipsis
	ui.updateNewTarget()

	createBtn := widget.NewButton(ui.t(KeyCreate), ui.onCreatePackage)
	createBtn.Importance = widget.HighImportance

	form := widget.NewForm(
		widget.NewFormItem(ui.t(KeyParentFolder), locationRow),
		widget.NewFormItem(ui.t(KeyPackageName), p.nameEntry),
		widget.NewFormItem(ui.t(KeyPackageType), p.kindRadio),
		widget.NewFormItem(ui.t(KeyVersionControl), p.vcsSelect),
		widget.NewFormItem(ui.t(KeyEdition), p.editionSelect),
	)

	return container.NewVBox(form, p.targetLabel, container.NewHBox(createBtn))
}

// updateNewTarget previews the directory cargo init will use
func (ui *RootUI) updateNewTarget() {
	p := &ui.newPkg
	if p.targetLabel == nil || p.nameEntry == nil {
		return
	}
	if path := newPackagePath(p.location, p.nameEntry.Text); path != "" {
		p.targetLabel.SetText(path)
	} else {
		p.targetLabel.SetText(DashPlaceholder)
	}
}

// newPackagePath joins the parent folder and package name
func newPackagePath(location, name string) string {
	location = strings.TrimSpace(location)
	name = strings.TrimSpace(name)
	if location == "" || name == "" {
		return ""
	}
	return filepath.Join(location, name)
}

// validatePackageName applies cargo's basic naming rules
func validatePackageName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9', r == '-':
			if i == 0 {
				return fmt.Errorf("name cannot start with %q", r)
			}
		default:
			return fmt.Errorf("invalid character %q in package name", r)
		}
	}
	return nil
}

func (ui *RootUI) onBrowseLocation() {
	d := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if uri == nil {
			return
		}
		ui.newPkg.locationEntry.SetText(uri.Path())
	}, ui.window)

	if lister, err := storage.ListerForURI(storage.NewFileURI(ui.newPkg.location)); err == nil {
		d.SetLocation(lister)
	}
	d.Show()
}

// onCreatePackage submits a cargo init job
func (ui *RootUI) onCreatePackage() {
	p := &ui.newPkg
	name := strings.TrimSpace(p.nameEntry.Text)

	path := newPackagePath(p.location, name)
	if path == "" {
		dialog.ShowInformation(ui.t(KeyTabNew), ui.t(KeyPleaseEnterPath), ui.window)
		return
	}
	if err := validatePackageName(name); err != nil {
		dialog.ShowError(err, ui.window)
		return
	}

	ui.settings.SetProjectsDirectory(strings.TrimSpace(p.location))

	ui.submitJob(jobs.Spec{
		Action: model.ActionInit,
		Label:  name,
		New: model.NewOptions{
			Path:    path,
			Name:    name,
			Kind:    model.PackageKind(p.kindRadio.Selected),
			VCS:     model.VersionControl(p.vcsSelect.Selected),
			Edition: p.editionSelect.Selected,
		},
	})
}
