package scheduler

import "context"

// Job is a unit of work executed by the worker pool. Sync jobs are the
// main implementation; cleanup or notification jobs slot in the same way.
type Job interface {
	// Execute runs the job. Context should be respected for
	// cancellation and timeouts.
	Execute(ctx context.Context) error

	// UserID returns the user the job operates on, for logging and
	// telemetry attributes.
	UserID() string

	// Description returns a human-readable description of the job.
	Description() string
}
