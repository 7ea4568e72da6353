package jobs

// Package jobs runs cargo actions in the background. It manages the job
// lifecycle, the parallelism limit, per-package locking, a single retry for
// network-bound actions, and propagation of job snapshots to the UI.
