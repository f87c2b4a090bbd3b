package quota_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/permsdk/models"
	"github.com/turtacn/permsdk/pkg/errors"
	"github.com/turtacn/permsdk/quota"
)

func TestWindowBounds(t *testing.T) {
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		windowType models.WindowType
		startedAt  time.Time
		now        time.Time
		wantStart  time.Time
		wantEnd    time.Time
		wantRolled bool
	}{
		{
			name:       "Hourly_WithinWindow",
			windowType: models.WindowHourly,
			startedAt:  base,
			now:        base.Add(30 * time.Minute),
			wantStart:  base,
			wantEnd:    base.Add(time.Hour),
			wantRolled: false,
		},
		{
			name:       "Hourly_OneWindowPassed",
			windowType: models.WindowHourly,
			startedAt:  base,
			now:        base.Add(90 * time.Minute),
			wantStart:  base.Add(time.Hour),
			wantEnd:    base.Add(2 * time.Hour),
			wantRolled: true,
		},
		{
			name:       "Hourly_ManyWindowsPassed",
			windowType: models.WindowHourly,
			startedAt:  base,
			now:        base.Add(5*time.Hour + time.Minute),
			wantStart:  base.Add(5 * time.Hour),
			wantEnd:    base.Add(6 * time.Hour),
			wantRolled: true,
		},
		{
			name:       "Daily_WithinWindow",
			windowType: models.WindowDaily,
			startedAt:  base,
			now:        base.Add(23 * time.Hour),
			wantStart:  base,
			wantEnd:    base.AddDate(0, 0, 1),
			wantRolled: false,
		},
		{
			name:       "Monthly_CalendarArithmetic",
			windowType: models.WindowMonthly,
			startedAt:  time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			now:        time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
			wantStart:  time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0),
			wantRolled: false,
		},
		{
			name:       "Total_NeverRolls",
			windowType: models.WindowTotal,
			startedAt:  base,
			now:        base.AddDate(10, 0, 0),
			wantStart:  base,
			wantEnd:    time.Time{},
			wantRolled: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start, end, rolled := quota.WindowBounds(tc.windowType, tc.startedAt, tc.now)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
			assert.Equal(t, tc.wantRolled, rolled)
		})
	}
}

func TestWindowBoundsResetNeverInPast(t *testing.T) {
	startedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC)

	for _, w := range []models.WindowType{models.WindowHourly, models.WindowDaily, models.WindowMonthly} {
		_, end, _ := quota.WindowBounds(w, startedAt, now)
		assert.True(t, end.After(now), "window %s reported a reset time in the past", w)
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	windowStart := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		snapshot      models.LimitSnapshot
		amount        int64
		wantAllowed   bool
		wantUsage     int64
		wantRemaining int64
	}{
		{
			name: "Denied_AmountExceedsRemaining",
			snapshot: models.LimitSnapshot{
				LimitValue: 10, CurrentUsage: 8,
				WindowType: models.WindowHourly, WindowStartedAt: windowStart,
			},
			amount:        5,
			wantAllowed:   false,
			wantUsage:     8,
			wantRemaining: 2,
		},
		{
			name: "Allowed_ExactlyFills",
			snapshot: models.LimitSnapshot{
				LimitValue: 10, CurrentUsage: 8,
				WindowType: models.WindowHourly, WindowStartedAt: windowStart,
			},
			amount:        2,
			wantAllowed:   true,
			wantUsage:     8,
			wantRemaining: 2,
		},
		{
			name: "Denied_AlreadyOverLimit",
			snapshot: models.LimitSnapshot{
				LimitValue: 10, CurrentUsage: 12,
				WindowType: models.WindowHourly, WindowStartedAt: windowStart,
			},
			amount:        1,
			wantAllowed:   false,
			wantUsage:     12,
			wantRemaining: 0,
		},
		{
			name: "Allowed_StaleWindowTreatedAsFresh",
			snapshot: models.LimitSnapshot{
				LimitValue: 10, CurrentUsage: 10,
				WindowType: models.WindowHourly, WindowStartedAt: windowStart.Add(-3 * time.Hour),
			},
			amount:        5,
			wantAllowed:   true,
			wantUsage:     0,
			wantRemaining: 10,
		},
		{
			name: "ZeroLimit_AlwaysDenied",
			snapshot: models.LimitSnapshot{
				LimitValue: 0, CurrentUsage: 0,
				WindowType: models.WindowTotal, WindowStartedAt: windowStart,
			},
			amount:        1,
			wantAllowed:   false,
			wantUsage:     0,
			wantRemaining: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := quota.Evaluate(tc.snapshot, tc.amount, now)
			assert.Equal(t, tc.wantAllowed, result.Allowed)
			assert.Equal(t, !tc.wantAllowed, result.WouldExceed)
			assert.Equal(t, tc.wantUsage, result.CurrentUsage)
			assert.Equal(t, tc.wantRemaining, result.Remaining)
			assert.Equal(t, tc.snapshot.LimitValue, result.Limit)
		})
	}
}

func TestEvaluateTotalWindowHasNoReset(t *testing.T) {
	now := time.Now().UTC()
	result := quota.Evaluate(models.LimitSnapshot{
		LimitValue: 100, CurrentUsage: 40,
		WindowType: models.WindowTotal, WindowStartedAt: now.AddDate(-1, 0, 0),
	}, 10, now)

	assert.True(t, result.Allowed)
	assert.True(t, result.ResetsAt.IsZero())
}

func TestEvaluateBatch(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	windowStart := now.Add(-10 * time.Minute)

	requests := []models.SingleCheckLimitRequest{
		{CheckID: "u", Subject: "user:1", ResourceType: "api_calls", Scope: "api", Amount: 1},
		{CheckID: "o", Subject: "org:1", ResourceType: "api_calls", Scope: "api", Amount: 1},
		{CheckID: "s", Subject: "system:global", ResourceType: "api_calls", Scope: "api", Amount: 1},
	}
	snapshots := []models.LimitSnapshot{
		{LimitValue: 10, CurrentUsage: 3, WindowType: models.WindowHourly, WindowStartedAt: windowStart},
		{LimitValue: 100, CurrentUsage: 100, WindowType: models.WindowHourly, WindowStartedAt: windowStart},
		{LimitValue: 1000, CurrentUsage: 500, WindowType: models.WindowHourly, WindowStartedAt: windowStart},
	}

	results, err := quota.EvaluateBatch(snapshots, requests, now)
	assert.NoError(t, err)
	assert.Len(t, results, 3)

	// Order and correlation survive; the middle denial does not short-circuit.
	assert.Equal(t, "u", results[0].CheckID)
	assert.True(t, results[0].Allowed)
	assert.Equal(t, "o", results[1].CheckID)
	assert.False(t, results[1].Allowed)
	assert.Equal(t, "s", results[2].CheckID)
	assert.True(t, results[2].Allowed)
}

func TestEvaluateBatchLengthMismatch(t *testing.T) {
	_, err := quota.EvaluateBatch(
		[]models.LimitSnapshot{{LimitValue: 1}},
		nil,
		time.Now(),
	)
	assert.True(t, errors.IsValidation(err))
}

func TestValidateWindowChange(t *testing.T) {
	assert.NoError(t, quota.ValidateWindowChange(models.WindowMonthly, models.WindowMonthly))
	assert.NoError(t, quota.ValidateWindowChange("", models.WindowDaily))

	err := quota.ValidateWindowChange(models.WindowMonthly, models.WindowDaily)
	assert.True(t, errors.IsConflict(err))
}
