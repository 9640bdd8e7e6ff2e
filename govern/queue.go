package govern

import (
	"context"
	"fmt"

	"github.com/meridianlabs/govops/safeservice"
)

// Flush finalizes pending work by submitting all queued Proposals as one named
// batch.
//
//   - Empty queue: no-op, no submission call is made.
//   - Multisig mode off: the queued operations await manual execution; nothing
//     is submitted and the queue is retained.
//   - Multisig mode on: every builder runs, and the Proposals are submitted in
//     insertion order as one Batch. FlushSubmitted means only that the
//     approval service accepted the submission, not that signers have
//     approved it; the queue clears but the run must still report pending
//     governance. On a failed submission the queue is left intact and
//     re-running is safe.
func (c *Context) Flush(ctx context.Context, description string) (FlushStatus, error) {
	if len(c.queue) == 0 {
		c.lggr.Infow("No queued governance operations, nothing to do")

		return FlushNoWork, nil
	}

	if !c.useSafe {
		c.lggr.Warnw("Multisig mode disabled; queued operations are pending manual execution",
			"queued", len(c.queue))

		return FlushManualRequired, nil
	}

	proposals := make([]safeservice.Proposal, 0, len(c.queue))
	for _, q := range c.queue {
		p, err := q.build(ctx)
		if err != nil {
			return FlushFailed, fmt.Errorf("failed to build proposal for operation %q: %w", q.name, err)
		}
		proposals = append(proposals, p)
	}

	if c.artifactsDir != "" {
		if path, err := writeBatchArtifact(c.artifactsDir, description, c.queue, proposals); err != nil {
			c.lggr.Warnw("Failed to write batch artifact", "error", err)
		} else {
			c.lggr.Infow("Wrote batch artifact", "path", path)
		}
	}

	batch, err := c.proposer.ProposeBatch(ctx, description, proposals)
	if err != nil {
		c.lggr.Errorw("Batch submission failed; queue retained, re-run to retry",
			"description", description, "queued", len(c.queue), "error", err)

		return FlushFailed, err
	}

	c.queue = nil
	c.lggr.Infow("Submitted batch for approval; awaiting signatures",
		"description", description,
		"requestID", batch.RequestID,
		"safe", batch.SafeAddress.Hex(),
		"transactions", len(batch.Transactions))

	return FlushSubmitted, nil
}
