package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/cargo-manager/internal/model"
)

func TestJobsPanelUpsertKeepsOrder(t *testing.T) {
	test.NewApp()
	panel := NewJobsPanel(NewLocalization())

	first := &model.Job{ID: "job-1", Action: model.ActionBuild, Label: "demo", Status: model.JobStatusPending}
	second := &model.Job{ID: "job-2", Action: model.ActionTest, Label: "demo", Status: model.JobStatusPending}

	if prev := panel.Upsert(first); prev != nil {
		t.Errorf("Expected no previous snapshot, got %+v", prev)
	}
	panel.Upsert(second)

	updated := &model.Job{ID: "job-1", Action: model.ActionBuild, Label: "demo", Status: model.JobStatusRunning}
	prev := panel.Upsert(updated)
	if prev == nil || prev.Status != model.JobStatusPending {
		t.Errorf("Expected previous pending snapshot, got %+v", prev)
	}

	if panel.Len() != 2 {
		t.Fatalf("Expected 2 jobs, got %d", panel.Len())
	}
	if panel.jobs[0].ID != "job-1" || panel.jobs[1].ID != "job-2" {
		t.Errorf("Unexpected order: %s, %s", panel.jobs[0].ID, panel.jobs[1].ID)
	}
	if job, ok := panel.Job("job-1"); !ok || job.Status != model.JobStatusRunning {
		t.Errorf("Expected job-1 to be running, got %+v", job)
	}
}

func TestJobsPanelRemove(t *testing.T) {
	test.NewApp()
	panel := NewJobsPanel(NewLocalization())
	panel.Upsert(&model.Job{ID: "job-1"})
	panel.Upsert(&model.Job{ID: "job-2"})

	panel.Remove("job-1")
	panel.Remove("missing")

	if panel.Len() != 1 {
		t.Fatalf("Expected 1 job, got %d", panel.Len())
	}
	if _, ok := panel.Job("job-1"); ok {
		t.Error("Removed job should not be found")
	}
}

func TestJobsPanelCallbacks(t *testing.T) {
	test.NewApp()
	panel := NewJobsPanel(NewLocalization())

	var stopped, shown, removed string
	panel.SetCallbacks(
		func(id string) { stopped = id },
		func(id string) { shown = id },
		func(id string) { removed = id },
	)

	row := panel.createJobRow().(*JobRow)
	row.UpdateJob(&model.Job{ID: "job-7", Status: model.JobStatusRunning, Output: []string{"Compiling demo"}})

	test.Tap(row.stopBtn)
	test.Tap(row.outputBtn)
	if stopped != "job-7" || shown != "job-7" {
		t.Errorf("Unexpected callback ids: stop=%q output=%q", stopped, shown)
	}

	// remove is only possible once the job finished
	test.Tap(row.removeBtn)
	if removed != "" {
		t.Errorf("Remove should be disabled for running job, got %q", removed)
	}
	row.UpdateJob(&model.Job{ID: "job-7", Status: model.JobStatusSucceeded})
	test.Tap(row.removeBtn)
	if removed != "job-7" {
		t.Errorf("Expected remove callback for job-7, got %q", removed)
	}
}
