// Package jobs provides the deferred and scheduled background work of the
// ordering system.
//
// Two mechanisms drive order auto-completion:
//
//  1. AutoCompletionScheduler - arms an in-process timer per dispatched order
//     and completes it when the estimated delivery time passes
//  2. OverdueDeliveryJob - a cron sweep (github.com/robfig/cron/v3, every
//     fifteen seconds) that completes OUT_FOR_DELIVERY orders whose timers
//     were lost, typically across a restart
//
// Both funnel into the same status-update command handler, so a completion
// behaves identically whether a timer, the sweep, or a restaurant triggered it.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	scheduler := jobs.NewAutoCompletionScheduler(clk, logger)
//	// ... build the status-update handler with the scheduler, then:
//	scheduler.SetCompleter(&updateStatusHandler)
//
//	jobManager := jobs.NewJobManager(scheduler, overdueJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - Completions racing a manual status change surface as conflicts and are
//     ignored; the order already reached a terminal state
//   - Any other completion failure is logged and left for the next sweep
package jobs
