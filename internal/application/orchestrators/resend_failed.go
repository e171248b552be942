package orchestrators

import (
	"context"
	"log/slog"

	notifDomain "talentdesk/internal/domain/notification"
)

// ResendSweepResult reports the outcome of a resend-all pass.
type ResendSweepResult struct {
	Attempted int
	Succeeded int
	Failed    int
}

// ExecuteResendRecord retries one record by id, regardless of its current
// status. Admin-triggered, so transport failures propagate.
// PRE: RecordID exists
// POST: Retry attempt persisted; record in sent or failed status
func ExecuteResendRecord(ctx context.Context, recordID string, deps DeliverDeps) (notifDomain.Record, error) {
	return ExecuteResend(ctx, ResendInput{RecordID: recordID, Policy: PolicyPropagate}, deps)
}

// ExecuteResendAllFailed retries every currently failed record in one pass.
// Each record is an independent failure domain; one failed retry never stops
// the sweep.
// POST: Every record that was failed at the start has one more attempt on it
func ExecuteResendAllFailed(ctx context.Context, deps DeliverDeps) (ResendSweepResult, error) {
	failed, err := deps.Records.ListByStatus(ctx, notifDomain.StatusFailed)
	if err != nil {
		return ResendSweepResult{}, err
	}

	result := ResendSweepResult{Attempted: len(failed)}
	for _, rec := range failed {
		if _, err := ExecuteResend(ctx, ResendInput{RecordID: rec.ID, Policy: PolicyPropagate}, deps); err != nil {
			result.Failed++
			continue
		}
		result.Succeeded++
	}

	slog.Info("notification_event", "event", "resend_sweep_finished", "attempted", result.Attempted, "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}
