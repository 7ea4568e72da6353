package model

// JobStatus represents the status of a background cargo job
type JobStatus string

const (
	// JobStatusPending means the job is queued but not started
	JobStatusPending JobStatus = "Pending"

	// JobStatusStarting means the job acquired a slot and is waiting for its package lock
	JobStatusStarting JobStatus = "Starting"

	// JobStatusRunning means the cargo process is running
	JobStatusRunning JobStatus = "Running"

	// JobStatusStopping means a stop was requested and the process is being cancelled
	JobStatusStopping JobStatus = "Stopping"

	// JobStatusStopped means the job was stopped by user
	JobStatusStopped JobStatus = "Stopped"

	// JobStatusSucceeded means cargo exited successfully
	JobStatusSucceeded JobStatus = "Succeeded"

	// JobStatusFailed means cargo failed or could not be started
	JobStatusFailed JobStatus = "Failed"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if the job is in an active state
func (js JobStatus) IsActive() bool {
	return js == JobStatusStarting || js == JobStatusRunning || js == JobStatusStopping
}

// IsFinished returns true if the job is in a finished state (succeeded, stopped, or failed)
func (js JobStatus) IsFinished() bool {
	return js == JobStatusSucceeded || js == JobStatusStopped || js == JobStatusFailed
}
