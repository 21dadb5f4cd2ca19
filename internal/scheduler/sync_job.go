package scheduler

import (
	"context"
	"fmt"

	"kakeibo/internal/domain/banksync"
	"kakeibo/internal/domain/user"
)

// SyncJob imports recent provider activity for a single user. It
// implements the Job interface.
type SyncJob struct {
	user *user.User
	sync *banksync.Service
}

// NewSyncJob creates a sync job for the given user.
func NewSyncJob(u *user.User, sync *banksync.Service) *SyncJob {
	return &SyncJob{user: u, sync: sync}
}

// Execute pulls provider transactions for the user's accounts.
// Per-account failures are collected in the result; the job only fails
// when the sync can't run at all.
func (j *SyncJob) Execute(ctx context.Context) error {
	result, err := j.sync.SyncUser(ctx, j.user.ID)
	if err != nil {
		return fmt.Errorf("bank sync failed: %w", err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("bank sync finished with %d account errors", len(result.Errors))
	}
	return nil
}

// UserID returns the user ID for this job.
func (j *SyncJob) UserID() string {
	return j.user.ID
}

// Description returns a human-readable description of this job.
func (j *SyncJob) Description() string {
	return "bank sync"
}

// SyncJobProvider builds one sync job per registered user. Wired into
// the scheduler as its job provider.
func SyncJobProvider(users user.Repository, sync *banksync.Service) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		all, err := users.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		jobs := make([]Job, 0, len(all))
		for _, u := range all {
			jobs = append(jobs, NewSyncJob(u, sync))
		}
		return jobs, nil
	}
}
