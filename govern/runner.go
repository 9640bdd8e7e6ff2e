package govern

import (
	"context"
	"errors"

	"github.com/meridianlabs/govops/safeservice"
)

// Run dispatches ops strictly sequentially, flushes anything queued as one
// batch named description, and maps the outcomes to an aggregate Result:
//
//   - every operation skipped or executed directly: ResultSuccess.
//   - anything queued (submitted for approval, awaiting manual execution, or
//     a rejected submission that is safe to retry by re-running):
//     ResultPendingGovernance.
//   - a fatal error: ResultFailed; the remaining operations are not
//     attempted. Already-executed direct operations are final on-chain state.
func (c *Context) Run(ctx context.Context, description string, ops []Op) (Result, error) {
	counts := make(map[Outcome]int, 3)
	for _, op := range ops {
		outcome, err := c.Dispatch(ctx, op)
		if err != nil {
			c.lggr.Errorw("Aborting run, operation failed", "op", op.Name, "error", err)

			return ResultFailed, err
		}
		counts[outcome]++
	}

	status, err := c.Flush(ctx, description)
	if err != nil {
		var subErr *safeservice.SubmissionError
		if errors.As(err, &subErr) {
			// On-chain state is unaffected; re-running resubmits the same
			// batch. Retryable pending state, not a crash.
			c.lggr.Warnw("Run pending: batch submission must be retried", "description", description)

			return ResultPendingGovernance, nil
		}

		return ResultFailed, err
	}

	result := ResultSuccess
	switch status {
	case FlushSubmitted:
		result = ResultPendingGovernance
		c.lggr.Infow("Run pending governance: approve the submitted batch, then re-run",
			"description", description)
	case FlushManualRequired:
		result = ResultPendingGovernance
		c.lggr.Warnw("Run pending governance: execute the queued operations manually, then re-run",
			"description", description)
	case FlushNoWork, FlushFailed:
	}

	c.lggr.Infow("Run complete",
		"result", result.String(),
		"skipped", counts[OutcomeSkipped],
		"executed", counts[OutcomeExecutedDirectly],
		"queued", counts[OutcomeQueued])

	return result, nil
}
