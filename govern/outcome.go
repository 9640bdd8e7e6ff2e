package govern

// Outcome classifies the disposition of a single governance operation.
// Exactly one Outcome is produced per Dispatch call, or a fatal error and no
// Outcome at all.
//
// The three-state variant replaces a boolean "operation complete?" convention
// so callers cannot conflate "nothing to do" with "successfully executed".
type Outcome int

const (
	outcomeUnset Outcome = iota
	// OutcomeSkipped means the idempotency check found the operation's effect
	// already present on chain.
	OutcomeSkipped
	// OutcomeExecutedDirectly means the operation ran under the acting
	// account's own authority and was confirmed.
	OutcomeExecutedDirectly
	// OutcomeQueued means the operation was deferred into the proposal queue
	// for multi-party approval.
	OutcomeQueued
)

// Resolved reports whether the operation needs no further governance action.
// A Queued outcome is never resolved; on-chain execution still awaits
// signatures.
func (o Outcome) Resolved() bool {
	return o == OutcomeSkipped || o == OutcomeExecutedDirectly
}

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeExecutedDirectly:
		return "executed"
	case OutcomeQueued:
		return "queued"
	default:
		return "unset"
	}
}

// FlushStatus classifies the disposition of a Flush call.
type FlushStatus int

const (
	// FlushNoWork means the queue was empty; no submission was attempted.
	FlushNoWork FlushStatus = iota
	// FlushManualRequired means multisig mode is disabled and queued
	// operations await manual execution; nothing was submitted.
	FlushManualRequired
	// FlushSubmitted means the approval service accepted the batch. The batch
	// still awaits signatures, so this is never reported as outright success.
	FlushSubmitted
	// FlushFailed means the approval service rejected or could not accept the
	// batch. The queue is retained and re-running is safe.
	FlushFailed
)

func (s FlushStatus) String() string {
	switch s {
	case FlushNoWork:
		return "no-work"
	case FlushManualRequired:
		return "manual-required"
	case FlushSubmitted:
		return "submitted"
	case FlushFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the aggregate disposition of one full run.
type Result int

const (
	// ResultSuccess means every operation was skipped or executed directly.
	ResultSuccess Result = iota
	// ResultPendingGovernance means some operations await external approval.
	// It is non-terminal; re-running later is expected.
	ResultPendingGovernance
	// ResultFailed means a fatal error aborted the run.
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultPendingGovernance:
		return "pending-governance"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}
