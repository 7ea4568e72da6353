package ui

import (
	"image/color"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/cargo-manager/internal/model"
)

// JobRow is a compact row widget showing one cargo job
type JobRow struct {
	widget.BaseWidget

	job          *model.Job
	localization *Localization

	titleLabel    *widget.Label
	lastLineLabel *widget.Label
	statusLabel   *widget.Label
	elapsedLabel  *widget.Label

	stopBtn   *widget.Button
	outputBtn *widget.Button
	removeBtn *widget.Button

	onStop   func(jobID string)
	onOutput func(jobID string)
	onRemove func(jobID string)
}

// NewJobRow creates a new job row widget
func NewJobRow(job *model.Job, localization *Localization) *JobRow {
	if job == nil {
		job = &model.Job{Status: model.JobStatusPending}
	}

	jr := &JobRow{
		job:          job,
		localization: localization,
	}
	jr.ExtendBaseWidget(jr)
	jr.createUI()
	jr.updateFromJob()
	return jr
}

// SetCallbacks sets the action callbacks
func (jr *JobRow) SetCallbacks(onStop, onOutput, onRemove func(jobID string)) {
	jr.onStop = onStop
	jr.onOutput = onOutput
	jr.onRemove = onRemove
}

// UpdateJob updates the row with a new job snapshot
func (jr *JobRow) UpdateJob(job *model.Job) {
	if job == nil {
		log.Printf("Warning: UpdateJob called with nil job for row %s", jr.job.ID)
		return
	}
	jr.job = job
	jr.updateFromJob()
	jr.Refresh()
}

func (jr *JobRow) createUI() {
	jr.titleLabel = widget.NewLabel("")
	jr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	jr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	jr.lastLineLabel = widget.NewLabel("")
	jr.lastLineLabel.TextStyle = fyne.TextStyle{Monospace: true}
	jr.lastLineLabel.Truncation = fyne.TextTruncateEllipsis

	jr.statusLabel = widget.NewLabel("")
	jr.statusLabel.Alignment = fyne.TextAlignTrailing
	jr.elapsedLabel = widget.NewLabel("")
	jr.elapsedLabel.Alignment = fyne.TextAlignTrailing
	jr.elapsedLabel.TextStyle = fyne.TextStyle{Monospace: true}

	jr.stopBtn = widget.NewButton(jr.localization.GetText(KeyStop), func() {
		if jr.onStop != nil {
			jr.onStop(jr.job.ID)
		}
	})
	jr.outputBtn = widget.NewButton(jr.localization.GetText(KeyOutput), func() {
		if jr.onOutput != nil {
			jr.onOutput(jr.job.ID)
		}
	})
	jr.removeBtn = widget.NewButton(IconClose, func() {
		if jr.onRemove != nil {
			jr.onRemove(jr.job.ID)
		}
	})
	jr.removeBtn.Importance = widget.LowImportance
}

// updateFromJob updates UI components based on job state
func (jr *JobRow) updateFromJob() {
	jr.titleLabel.SetText(jr.job.GetDisplayTitle())

	lastLine := jr.job.LastLine
	if jr.job.Status == model.JobStatusFailed && jr.job.LastError != "" {
		lastLine = jr.job.LastError
	}
	lastLine = strings.Join(strings.Fields(lastLine), " ")
	if lastLine == "" {
		lastLine = DashPlaceholder
	}
	jr.lastLineLabel.SetText(lastLine)

	importance, icon := statusAppearance(jr.job.Status)
	jr.statusLabel.Importance = importance
	jr.statusLabel.SetText(strings.TrimSpace(icon + " " + jr.job.Status.String()))
	jr.elapsedLabel.SetText(jr.job.GetElapsedString())

	jr.updateButtons()
}

// statusAppearance maps a job status to label importance and icon
func statusAppearance(status model.JobStatus) (widget.Importance, string) {
	switch status {
	case model.JobStatusFailed:
		return widget.DangerImportance, IconError
	case model.JobStatusSucceeded:
		return widget.SuccessImportance, IconDone
	case model.JobStatusRunning, model.JobStatusStarting:
		return widget.HighImportance, IconPlay
	case model.JobStatusStopping, model.JobStatusStopped:
		return widget.WarningImportance, IconStop
	case model.JobStatusPending:
		return widget.MediumImportance, IconWaiting
	default:
		return widget.MediumImportance, ""
	}
}

func (jr *JobRow) updateButtons() {
	jr.stopBtn.SetText(jr.localization.GetText(KeyStop))
	jr.outputBtn.SetText(jr.localization.GetText(KeyOutput))

	switch {
	case jr.job.Status == model.JobStatusStopping:
		jr.stopBtn.Disable()
	case jr.job.Status.IsFinished():
		jr.stopBtn.Disable()
	default:
		jr.stopBtn.Enable()
	}

	if jr.job.Status.IsFinished() {
		jr.removeBtn.Enable()
	} else {
		jr.removeBtn.Disable()
	}

	if len(jr.job.Output) > 0 {
		jr.outputBtn.Enable()
	} else {
		jr.outputBtn.Disable()
	}
}

// CreateRenderer creates the widget renderer
func (jr *JobRow) CreateRenderer() fyne.WidgetRenderer {
	return &jobRowRenderer{jobRow: jr}
}

type jobRowRenderer struct {
	jobRow *JobRow
	layout *fyne.Container
}

func (r *jobRowRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	r.layout.Resize(size)
}

func (r *jobRowRenderer) MinSize() fyne.Size {
	if r.layout == nil {
		r.createLayout()
	}
	min := r.layout.MinSize()
	if min.Height < RowMinHeight {
		min.Height = RowMinHeight
	}
	if min.Width < RowMinWidth {
		min.Width = RowMinWidth
	}
	return min
}

func (r *jobRowRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

func (r *jobRowRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

func (r *jobRowRenderer) Destroy() {}

func (r *jobRowRenderer) createLayout() {
	jr := r.jobRow

	// Fixed width using a transparent rectangle underneath
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	info := container.NewVBox(
		fixedWidth(StatusLabelWidth, jr.statusLabel),
		fixedWidth(ElapsedLabelWidth, jr.elapsedLabel),
	)
	actions := container.NewHBox(jr.stopBtn, jr.outputBtn, jr.removeBtn)
	rightCluster := container.NewBorder(nil, nil, nil, actions, info)

	text := container.NewVBox(jr.titleLabel, jr.lastLineLabel)
	content := container.NewBorder(nil, nil, nil, rightCluster, text)

	r.layout = container.NewVBox(content, widget.NewSeparator())
}
