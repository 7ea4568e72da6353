package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/cargo-manager/internal/model"
)

// JobsPanel lists cargo jobs in submission order. It must only be used from
// the UI goroutine.
type JobsPanel struct {
	localization *Localization

	jobs []*model.Job

	container *fyne.Container
	header    *widget.Label
	list      *widget.List

	onStop   func(jobID string)
	onOutput func(jobID string)
	onRemove func(jobID string)
}

// NewJobsPanel creates the jobs panel
func NewJobsPanel(localization *Localization) *JobsPanel {
	jp := &JobsPanel{
		localization: localization,
		jobs:         make([]*model.Job, 0),
	}
	jp.createUI()
	return jp
}

func (jp *JobsPanel) createUI() {
	jp.list = widget.NewList(
		func() int {
			return len(jp.jobs)
		},
		func() fyne.CanvasObject {
			return jp.createJobRow()
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			jp.updateJobRow(id, obj)
		},
	)

	jp.header = widget.NewLabel(jp.localization.GetText(KeyJobs))
	jp.header.TextStyle = fyne.TextStyle{Bold: true}

	jp.container = container.NewBorder(
		jp.header,
		nil,
		nil,
		nil,
		jp.list,
	)
}

func (jp *JobsPanel) createJobRow() fyne.CanvasObject {
	row := NewJobRow(&model.Job{ID: "template", Status: model.JobStatusPending}, jp.localization)
	row.SetCallbacks(
		func(jobID string) {
			if jp.onStop != nil {
				jp.onStop(jobID)
			}
		},
		func(jobID string) {
			if jp.onOutput != nil {
				jp.onOutput(jobID)
			}
		},
		func(jobID string) {
			if jp.onRemove != nil {
				jp.onRemove(jobID)
			}
		},
	)
	return row
}

func (jp *JobsPanel) updateJobRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(jp.jobs) {
		log.Printf("Warning: updateJobRow called with invalid ID %d, total jobs: %d", id, len(jp.jobs))
		return
	}
	row, ok := obj.(*JobRow)
	if !ok {
		log.Printf("Warning: expected JobRow but got %T", obj)
		return
	}
	row.UpdateJob(jp.jobs[id])
}

// Container returns the panel's root container
func (jp *JobsPanel) Container() *fyne.Container {
	return jp.container
}

// SetCallbacks sets the row action callbacks
func (jp *JobsPanel) SetCallbacks(onStop, onOutput, onRemove func(jobID string)) {
	jp.onStop = onStop
	jp.onOutput = onOutput
	jp.onRemove = onRemove
}

// Upsert replaces the job with the same ID or appends a new one, and
// reports the previous snapshot if there was one.
func (jp *JobsPanel) Upsert(job *model.Job) (previous *model.Job) {
	for i, existing := range jp.jobs {
		if existing.ID == job.ID {
			jp.jobs[i] = job
			jp.list.RefreshItem(i)
			return existing
		}
	}
	jp.jobs = append(jp.jobs, job)
	jp.list.Refresh()
	return nil
}

// Remove drops the job from the panel
func (jp *JobsPanel) Remove(jobID string) {
	for i, existing := range jp.jobs {
		if existing.ID == jobID {
			jp.jobs = append(jp.jobs[:i], jp.jobs[i+1:]...)
			jp.list.Refresh()
			return
		}
	}
}

// Job returns the latest snapshot of a job
func (jp *JobsPanel) Job(jobID string) (*model.Job, bool) {
	for _, existing := range jp.jobs {
		if existing.ID == jobID {
			return existing, true
		}
	}
	return nil, false
}

// Len returns the number of jobs shown
func (jp *JobsPanel) Len() int {
	return len(jp.jobs)
}

// RefreshTexts re-applies localized strings
func (jp *JobsPanel) RefreshTexts() {
	jp.header.SetText(jp.localization.GetText(KeyJobs))
	jp.list.Refresh()
}
