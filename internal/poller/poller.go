// Package poller drives an asynchronous transcription job to completion by
// re-checking its status on a fixed interval under a bounded attempt budget.
package poller

import (
	"context"
	"fmt"
	"time"

	pferrors "github.com/kl2321/FYP2025Kath-sub000/internal/errors"
	"github.com/kl2321/FYP2025Kath-sub000/internal/logger"
	"github.com/kl2321/FYP2025Kath-sub000/internal/types"
)

// StatusFunc fetches one snapshot of a job. A returned error is treated as a
// transient polling failure, not a terminal job state.
type StatusFunc func(ctx context.Context, jobID string) (types.JobSnapshot, error)

// Options bound one polling run. Both values come from configuration; the
// short-form and long-form budgets only differ here, never in the algorithm.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
}

// Transient fetch failures are always swallowed; past this many the log
// level is raised so a dying provider shows up in the logs.
const loudFailureThreshold = 10

// Poll suspends for Interval, fetches the job status, and repeats until the
// job reaches a terminal status or the attempt budget runs out.
//
//   - completed: the result is returned, remaining attempts unused.
//   - error: ErrTranscriptionFailed wrapping the provider message; an error
//     status is terminal, never retried.
//   - fetch failure: swallowed and counted as a consumed attempt.
//   - budget exhausted: ErrPollTimeout.
//   - ctx cancelled while suspended: ErrCancelled, no further attempts.
//
// No state survives a call.
func Poll(ctx context.Context, jobID string, fetch StatusFunc, opts Options) (*types.TranscriptResult, error) {
	log := logger.New().WithField("module", "poller").WithField("job_id", jobID)

	failures := 0
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", pferrors.ErrCancelled, ctx.Err())
		case <-time.After(opts.Interval):
		}

		snap, err := fetch(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", pferrors.ErrCancelled, ctx.Err())
			}
			failures++
			entry := log.WithError(err).WithField("attempt", attempt)
			if failures >= loudFailureThreshold {
				entry.Warn("status fetch keeps failing")
			} else {
				entry.Debug("status fetch failed, will retry")
			}
			continue
		}

		log.WithField("attempt", attempt).WithField("status", snap.Status).Debug("polled job")

		switch snap.Status {
		case types.JobCompleted:
			if snap.Result == nil {
				return nil, fmt.Errorf("%w: completed without result", pferrors.ErrTranscriptionFailed)
			}
			return snap.Result, nil
		case types.JobError:
			msg := snap.ErrorMessage
			if msg == "" {
				msg = "provider reported error"
			}
			return nil, fmt.Errorf("%w: %s", pferrors.ErrTranscriptionFailed, msg)
		case types.JobQueued, types.JobProcessing:
			// keep waiting
		default:
			log.WithField("status", snap.Status).Debug("unknown status, treated as processing")
		}
	}

	return nil, fmt.Errorf("%w: job %s not terminal after %d attempts", pferrors.ErrPollTimeout, jobID, opts.MaxAttempts)
}
