// Package quota interprets remote-supplied resource limit snapshots: window
// bookkeeping, remaining/would-exceed arithmetic, and hierarchy batch
// evaluation. The engine is stateless and never touches the network; the
// authoritative usage values always come from the service.
package quota

import (
	"fmt"
	"time"

	"github.com/turtacn/permsdk/models"
	"github.com/turtacn/permsdk/pkg/errors"
)

// WindowBounds computes the current window for a limit. For non-total
// windows the boundary is rolled forward from startedAt in whole window
// units until it lies after now, so a reported reset time is never in the
// past. rolled reports whether at least one boundary was crossed, meaning
// the server-side reset is pending and usage is logically zero.
//
// "total" windows never reset: start is startedAt and end is the zero time.
func WindowBounds(windowType models.WindowType, startedAt, now time.Time) (start, end time.Time, rolled bool) {
	if windowType == models.WindowTotal {
		return startedAt, time.Time{}, false
	}

	start = startedAt
	end = advance(windowType, start)
	for !end.After(now) {
		rolled = true
		start = end
		end = advance(windowType, start)
	}
	return start, end, rolled
}

func advance(windowType models.WindowType, t time.Time) time.Time {
	switch windowType {
	case models.WindowHourly:
		return t.Add(time.Hour)
	case models.WindowDaily:
		return t.AddDate(0, 0, 1)
	case models.WindowMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.Add(time.Hour)
	}
}

// Evaluate derives a limit check result from a snapshot and a requested
// amount, as of now. When the snapshot's window boundary has already passed,
// usage is treated as logically zero: the authoritative reset happens
// server-side, but the engine must not report stale usage or a reset time in
// the past.
func Evaluate(snapshot models.LimitSnapshot, amount int64, now time.Time) models.CheckLimitResult {
	start, end, rolled := WindowBounds(snapshot.WindowType, snapshot.WindowStartedAt, now)

	usage := snapshot.CurrentUsage
	if rolled {
		usage = 0
	}

	allowed := usage+amount <= snapshot.LimitValue
	remaining := snapshot.LimitValue - usage
	if remaining < 0 {
		remaining = 0
	}

	return models.CheckLimitResult{
		Allowed:      allowed,
		Limit:        snapshot.LimitValue,
		CurrentUsage: usage,
		Remaining:    remaining,
		WouldExceed:  !allowed,
		WindowType:   snapshot.WindowType,
		WindowStart:  start,
		WindowEnd:    end,
		ResetsAt:     end,
	}
}

// EvaluateBatch applies Evaluate independently to each request/snapshot
// pair, preserving input order and carrying each request's check_id into its
// result. A failing element never short-circuits the rest; this is a gather,
// not a fail-fast pipeline.
func EvaluateBatch(snapshots []models.LimitSnapshot, requests []models.SingleCheckLimitRequest, now time.Time) ([]models.SingleCheckLimitResult, error) {
	if len(snapshots) != len(requests) {
		return nil, errors.ErrValidation(
			fmt.Sprintf("snapshot count %d does not match request count %d", len(snapshots), len(requests)),
			"snapshots")
	}

	results := make([]models.SingleCheckLimitResult, len(requests))
	for i, req := range requests {
		results[i] = models.SingleCheckLimitResult{
			CheckID:          req.CheckID,
			CheckLimitResult: Evaluate(snapshots[i], req.Amount, now),
		}
	}
	return results, nil
}

// ValidateWindowChange rejects changing the window type of an existing
// limit. Mixing window semantics would silently corrupt accounting
// ("monthly used-to-date" versus "total used-ever"), so the change is a
// conflict the caller must resolve explicitly, never an implicit migration.
func ValidateWindowChange(existing, requested models.WindowType) error {
	if existing == "" || existing == requested {
		return nil
	}
	return errors.ErrConflict(
		fmt.Sprintf("active %s limit exists, cannot change window type to %s", existing, requested)).
		WithMetadata("existing_window_type", string(existing)).
		WithMetadata("requested_window_type", string(requested))
}
