package ui

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/cargo-manager/internal/config"
	"github.com/ytget/cargo-manager/internal/jobs"
	"github.com/ytget/cargo-manager/internal/model"
	"github.com/ytget/cargo-manager/internal/search"
)

const (
	// FailureTailLines bounds the output shown in an action failure dialog
	FailureTailLines = 20

	CloseGracePeriod = 2 * time.Second
)

// Tab indexes
const (
	TabLocal = iota
	TabSearch
	TabNew
)

// RootUI holds the application state. Everything in it is owned by the UI
// goroutine; the jobs service and the search dispatcher hand results back
// through fyne.Do.
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	cfg          config.Config
	settings     *config.Settings
	localization *Localization
	jobs         jobs.Manager
	dispatcher   *search.Dispatcher

	tabs      *container.AppTabs
	jobsPanel *JobsPanel
	reported  map[string]bool // finished jobs whose outcome was shown

	local     localPage
	searchTab searchPage
	newPkg    newPage

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, jobsSvc jobs.Manager, searcher search.Searcher, cfg config.Config) *RootUI {
	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		cfg:          cfg,
		settings:     settings,
		localization: localization,
		jobs:         jobsSvc,
		reported:     make(map[string]bool),
	}

	ui.dispatcher = search.New(searcher,
		search.WithLimit(cfg.Search.Limit),
		search.WithTimeout(cfg.Search.Timeout),
		search.WithNotify(func() {
			fyne.Do(ui.pollSearch)
		}),
	)

	ui.jobs.SetMaxParallel(settings.GetMaxParallelJobs())
	ui.jobs.SetUpdateCallback(ui.onJobUpdate)

	window.SetTitle(localization.GetText(KeyAppTitle))
	window.SetCloseIntercept(ui.onClose)

	ui.local.path = settings.GetLastPackageDir()
	ui.searchTab.order = settings.GetSearchOrder()
	ui.newPkg.location = settings.GetProjectsDirectory()

	ui.setupUI()
	return ui
}

// t returns localized text for key
func (ui *RootUI) t(key string) string {
	return ui.localization.GetText(key)
}

// setupUI creates and arranges all UI components. It is called again after
// a language change; page state lives outside the widgets and survives.
func (ui *RootUI) setupUI() {
	ui.createMenu()

	selected := TabLocal
	if ui.tabs != nil {
		selected = ui.tabs.SelectedIndex()
	}

	settingsBtn := widget.NewButton(IconSettings, ui.onShowOptions)
	settingsBtn.Importance = widget.LowImportance

	header := container.NewHBox(settingsBtn)
	if logo, err := LoadLogoResource(); err == nil {
		logoImage := canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(LogoSize, LogoSize))
		logoImage.FillMode = canvas.ImageFillContain
		header = container.NewHBox(logoImage, settingsBtn)
	}

	// Notification panel (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Truncation = fyne.TextTruncateEllipsis
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewBorder(nil, nil, ui.notificationSpinner, nil, ui.notificationLabel)
	ui.notificationContainer.Hide()

	ui.tabs = container.NewAppTabs(
		container.NewTabItem(ui.t(KeyTabLocal), ui.buildLocalPage()),
		container.NewTabItem(ui.t(KeyTabSearch), ui.buildSearchPage()),
		container.NewTabItem(ui.t(KeyTabNew), ui.buildNewPage()),
	)
	ui.tabs.SelectIndex(selected)

	ui.jobsPanel = NewJobsPanel(ui.localization)
	ui.jobsPanel.SetCallbacks(ui.onStopJob, ui.onShowOutput, ui.onRemoveJob)
	for _, job := range ui.jobs.All() {
		ui.jobsPanel.Upsert(job)
	}

	top := container.NewVBox(container.NewBorder(nil, nil, header, nil), ui.notificationContainer)
	split := container.NewVSplit(ui.tabs, ui.jobsPanel.Container())
	split.Offset = 0.62

	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, split))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	optionsItem := fyne.NewMenuItem(ui.t(KeyOptions), ui.onShowOptions)

	languageMenu := fyne.NewMenu(ui.t(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu(ui.t(KeyFile), optionsItem),
		languageMenu,
	)
	ui.window.SetMainMenu(mainMenu)
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
}

// refreshUITexts rebuilds the window content in the current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.t(KeyAppTitle))
	ui.setupUI()
}

// onShowOptions shows the options dialog
func (ui *RootUI) onShowOptions() {
	previousLanguage := ui.settings.GetLanguage()
	ShowOptionsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.jobs.SetMaxParallel(ui.settings.GetMaxParallelJobs())
		if lang := ui.settings.GetLanguage(); lang != previousLanguage {
			ui.localization.SetLanguage(lang)
			ui.refreshUITexts()
		}
		ui.showNotification(ui.t(KeySettingsSaved), false)
	})
}

// showNotification displays a message in the notification panel.
// When spinning is true, a spinner is shown to indicate background activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	if ui.notificationLabel == nil || ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}
	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
		} else {
			ui.notificationSpinner.Hide()
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	if ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}
	fyne.Do(func() {
		ui.notificationSpinner.Hide()
		ui.notificationContainer.Hide()
	})
}

// submitJob queues a cargo action and reports submission errors
func (ui *RootUI) submitJob(spec jobs.Spec) {
	job, err := ui.jobs.Submit(spec)
	if err != nil {
		if errors.Is(err, jobs.ErrAlreadyRunning) {
			dialog.ShowInformation(ui.t(KeyError), ui.t(KeyAlreadyRunning), ui.window)
			return
		}
		dialog.ShowError(fmt.Errorf("%s: %w", fmt.Sprintf(ui.t(KeyActionFailed), spec.Action), err), ui.window)
		return
	}
	ui.showNotification(fmt.Sprintf(ui.t(KeyJobQueued), job.GetDisplayTitle()), false)
}

// onJobUpdate receives job snapshots from the jobs service goroutines
func (ui *RootUI) onJobUpdate(job *model.Job) {
	fyne.Do(func() {
		ui.applyJobUpdate(job)
	})
}

// applyJobUpdate runs on the UI goroutine
func (ui *RootUI) applyJobUpdate(job *model.Job) {
	ui.jobsPanel.Upsert(job)

	if !job.Status.IsFinished() || ui.reported[job.ID] {
		return
	}
	ui.reported[job.ID] = true

	log.Printf("job %s (%s) finished: %s", job.ID, job.GetDisplayTitle(), job.Status)

	switch job.Status {
	case model.JobStatusFailed:
		ui.showJobFailure(job)
	case model.JobStatusSucceeded:
		ui.onJobSucceeded(job)
	case model.JobStatusStopped:
		ui.showNotification(job.GetDisplayTitle()+MiddleDotSeparator+job.Status.String(), false)
	}
}

func (ui *RootUI) onJobSucceeded(job *model.Job) {
	message := fmt.Sprintf(ui.t(KeyActionSucceeded), job.GetDisplayTitle())
	ui.showNotification(message, false)

	ui.app.SendNotification(&fyne.Notification{
		Title:   ui.t(KeyAppTitle),
		Content: message,
	})

	switch job.Action {
	case model.ActionInit:
		// open the package that was just created
		ui.local.path = job.Dir
		ui.loadPackage(job.Dir)
		ui.tabs.SelectIndex(TabLocal)
	case model.ActionPublish, model.ActionUpdate:
		if ui.local.info != nil && ui.local.info.Dir == job.Dir {
			ui.loadPackage(job.Dir)
		}
	}

	if ui.settings.GetShowSuccessDialogs() {
		dialog.ShowInformation(ui.t(KeySuccess), message, ui.window)
	}
}

// showJobFailure shows "Failed to <action>: <reason>" with the output tail
func (ui *RootUI) showJobFailure(job *model.Job) {
	title := fmt.Sprintf(ui.t(KeyActionFailed), job.Action)

	reason := widget.NewLabel(title + ": " + job.LastError)
	reason.Wrapping = fyne.TextWrapWord
	reason.Importance = widget.DangerImportance

	content := fyne.CanvasObject(reason)
	if tail := outputTail(job.Output, FailureTailLines); tail != "" {
		grid := widget.NewTextGridFromString(tail)
		scroll := container.NewScroll(grid)
		scroll.SetMinSize(fyne.NewSize(OutputDialogWidth-40, OutputDialogHeight/2))
		content = container.NewBorder(reason, nil, nil, nil, scroll)
	}

	d := dialog.NewCustom(ui.t(KeyError), ui.t(KeyClose), content, ui.window)
	d.Resize(fyne.NewSize(OutputDialogWidth, OutputDialogHeight))
	d.Show()
}

// outputTail returns the last n lines joined for display
func outputTail(lines []string, n int) string {
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func (ui *RootUI) onStopJob(jobID string) {
	if err := ui.jobs.Stop(jobID); err != nil {
		log.Printf("stop job %s: %v", jobID, err)
		ui.showNotification(err.Error(), false)
	}
}

func (ui *RootUI) onRemoveJob(jobID string) {
	if err := ui.jobs.Remove(jobID); err != nil {
		log.Printf("remove job %s: %v", jobID, err)
		ui.showNotification(err.Error(), false)
		return
	}
	ui.jobsPanel.Remove(jobID)
	delete(ui.reported, jobID)
}

// onShowOutput shows the full captured output of a job
func (ui *RootUI) onShowOutput(jobID string) {
	job, ok := ui.jobs.Get(jobID)
	if !ok {
		job, ok = ui.jobsPanel.Job(jobID)
	}
	if !ok {
		return
	}

	grid := widget.NewTextGridFromString(strings.Join(job.Output, "\n"))
	scroll := container.NewScroll(grid)
	scroll.ScrollToBottom()

	d := dialog.NewCustom(job.GetDisplayTitle()+MiddleDotSeparator+ui.t(KeyOutput), ui.t(KeyClose), scroll, ui.window)
	d.Resize(fyne.NewSize(OutputDialogWidth, OutputDialogHeight))
	d.Show()
}

// OpenPackage loads the package at path into the Local Package page
func (ui *RootUI) OpenPackage(path string) {
	ui.local.path = path
	if ui.local.pathEntry != nil {
		ui.local.pathEntry.SetText(path)
	}
	ui.loadPackage(path)
	ui.tabs.SelectIndex(TabLocal)
}

// onClose stops background work before the window goes away. Cancelled
// cargo processes get a short grace period to exit.
func (ui *RootUI) onClose() {
	ui.dispatcher.Close()
	ui.jobs.StopAll()

	go func() {
		deadline := time.Now().Add(CloseGracePeriod)
		for time.Now().Before(deadline) && hasActiveJobs(ui.jobs.All()) {
			time.Sleep(50 * time.Millisecond)
		}
		fyne.Do(ui.window.Close)
	}()
}

func hasActiveJobs(all []*model.Job) bool {
	for _, job := range all {
		if job.Status.IsActive() {
			return true
		}
	}
	return false
}
