package ui

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/cargo-manager/internal/config"
	"github.com/ytget/cargo-manager/internal/model"
)

var errInvalidJobs = errors.New("must be a non-negative number")

// OptionsDialog edits compile options and interface preferences
type OptionsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	jobsEntry         *widget.Entry
	targetEntry       *widget.Entry
	featuresEntry     *widget.Entry
	noDefaultCheck    *widget.Check
	allFeaturesCheck  *widget.Check
	packagesEntry     *widget.Entry
	releaseCheck      *widget.Check
	offlineCheck      *widget.Check
	maxParallelSelect *widget.Select
	languageSelect    *widget.Select
	showSuccessCheck  *widget.Check

	languageCodes map[string]string // display name -> code
}

// ShowOptionsDialog builds and shows the options dialog. onSaved runs after
// the settings were written.
func ShowOptionsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) {
	od := &OptionsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}
	od.createUI()
	od.loadCurrentSettings()
	od.dialog.Show()
}

func (od *OptionsDialog) createUI() {
	t := od.localization.GetText

	od.jobsEntry = widget.NewEntry()
	od.jobsEntry.SetPlaceHolder(strconv.Itoa(model.DefaultJobs))
	od.jobsEntry.Validator = validateJobs

	od.targetEntry = widget.NewEntry()
	od.targetEntry.SetPlaceHolder("x86_64-unknown-linux-gnu")

	od.featuresEntry = widget.NewEntry()
	od.featuresEntry.SetPlaceHolder("serde, derive")

	od.noDefaultCheck = widget.NewCheck(t(KeyNoDefaultFeatures), nil)
	od.allFeaturesCheck = widget.NewCheck(t(KeyAllFeatures), func(checked bool) {
		// --all-features makes the explicit list meaningless
		if checked {
			od.featuresEntry.Disable()
		} else {
			od.featuresEntry.Enable()
		}
	})

	od.packagesEntry = widget.NewEntry()
	od.packagesEntry.SetPlaceHolder("my-crate")

	od.releaseCheck = widget.NewCheck(t(KeyRelease), nil)
	od.offlineCheck = widget.NewCheck(t(KeyOffline), nil)

	parallelOptions := make([]string, 0, config.MaxParallelLimit)
	for i := 1; i <= config.MaxParallelLimit; i++ {
		parallelOptions = append(parallelOptions, strconv.Itoa(i))
	}
	od.maxParallelSelect = widget.NewSelect(parallelOptions, nil)

	od.languageCodes = make(map[string]string)
	names := make([]string, 0)
	for code, name := range od.settings.GetLanguageOptions() {
		od.languageCodes[name] = code
		names = append(names, name)
	}
	sort.Strings(names)
	od.languageSelect = widget.NewSelect(names, nil)

	od.showSuccessCheck = widget.NewCheck(t(KeyShowSuccess), nil)

	compileForm := widget.NewForm(
		widget.NewFormItem(t(KeyJobsCount), od.jobsEntry),
		widget.NewFormItem(t(KeyTarget), od.targetEntry),
		widget.NewFormItem(t(KeyFeatures), od.featuresEntry),
		widget.NewFormItem("", container.NewHBox(od.noDefaultCheck, od.allFeaturesCheck)),
		widget.NewFormItem(t(KeyPackageSpec), od.packagesEntry),
		widget.NewFormItem("", container.NewHBox(od.releaseCheck, od.offlineCheck)),
	)

	interfaceForm := widget.NewForm(
		widget.NewFormItem(t(KeyMaxParallel), od.maxParallelSelect),
		widget.NewFormItem(t(KeyLanguage), od.languageSelect),
		widget.NewFormItem("", od.showSuccessCheck),
	)

	heading := func(text string) *widget.Label {
		l := widget.NewLabel(text)
		l.TextStyle = fyne.TextStyle{Bold: true}
		return l
	}

	form := container.NewVBox(
		heading(t(KeyCompileSection)),
		widget.NewSeparator(),
		compileForm,
		heading(t(KeyInterfaceSection)),
		widget.NewSeparator(),
		interfaceForm,
	)

	od.dialog = dialog.NewCustomConfirm(
		t(KeyOptions),
		t(KeySave),
		t(KeyCancel),
		container.NewVScroll(form),
		od.onSave,
		od.window,
	)
	od.dialog.Resize(fyne.NewSize(OptionsDialogWidth, OptionsDialogHeight))
}

func (od *OptionsDialog) loadCurrentSettings() {
	opts := od.settings.CompileOptions()

	if opts.Jobs > 0 {
		od.jobsEntry.SetText(strconv.Itoa(opts.Jobs))
	} else {
		od.jobsEntry.SetText("")
	}
	od.targetEntry.SetText(opts.Target)
	od.featuresEntry.SetText(strings.Join(opts.Features, ", "))
	od.noDefaultCheck.SetChecked(opts.NoDefaultFeatures)
	od.allFeaturesCheck.SetChecked(opts.AllFeatures)
	od.packagesEntry.SetText(strings.Join(opts.Packages, ", "))
	od.releaseCheck.SetChecked(opts.Release)
	od.offlineCheck.SetChecked(opts.Offline)

	od.maxParallelSelect.SetSelected(strconv.Itoa(od.settings.GetMaxParallelJobs()))
	lang := od.settings.GetLanguage()
	if name, ok := od.settings.GetLanguageOptions()[lang]; ok {
		od.languageSelect.SetSelected(name)
	}
	od.showSuccessCheck.SetChecked(od.settings.GetShowSuccessDialogs())
}

// collectOptions reads the compile options from the form
func (od *OptionsDialog) collectOptions() model.CompileOptions {
	opts := model.DefaultCompileOptions()
	opts.Jobs = parseJobs(od.jobsEntry.Text)
	opts.Target = strings.TrimSpace(od.targetEntry.Text)
	opts.Features = model.SplitList(od.featuresEntry.Text)
	opts.NoDefaultFeatures = od.noDefaultCheck.Checked
	opts.AllFeatures = od.allFeaturesCheck.Checked
	opts.Packages = model.SplitList(od.packagesEntry.Text)
	opts.Release = od.releaseCheck.Checked
	opts.Offline = od.offlineCheck.Checked
	return opts
}

func (od *OptionsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	od.settings.SetCompileOptions(od.collectOptions())

	if n, err := strconv.Atoi(od.maxParallelSelect.Selected); err == nil {
		od.settings.SetMaxParallelJobs(n)
	}
	if code, ok := od.languageCodes[od.languageSelect.Selected]; ok {
		od.settings.SetLanguage(code)
	}
	od.settings.SetShowSuccessDialogs(od.showSuccessCheck.Checked)

	if od.onSaved != nil {
		od.onSaved()
	}
}

// parseJobs converts the jobs field; blank or invalid input lets cargo decide
func parseJobs(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func validateJobs(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n < 0 {
		return errInvalidJobs
	}
	return nil
}
