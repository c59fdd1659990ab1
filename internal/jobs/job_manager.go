package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled background work in the application.
// Provides a unified interface to start and stop it.
type JobManager struct {
	completionScheduler *AutoCompletionScheduler
	overdueDeliveryJob  *OverdueDeliveryJob
}

// NewJobManager creates a job manager over the completion scheduler and the
// overdue delivery sweep.
func NewJobManager(
	completionScheduler *AutoCompletionScheduler,
	overdueDeliveryJob *OverdueDeliveryJob,
) *JobManager {
	return &JobManager{
		completionScheduler: completionScheduler,
		overdueDeliveryJob:  overdueDeliveryJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.overdueDeliveryJob.Start(); err != nil {
		return fmt.Errorf("failed to start overdue delivery job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and cancels pending completion timers.
func (jm *JobManager) StopAll() {
	jm.overdueDeliveryJob.Stop()
	jm.completionScheduler.Stop()
}
