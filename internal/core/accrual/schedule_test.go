package accrual_test

import (
	"testing"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/SscSPs/trade_credit_ledger/internal/core/accrual"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestIsDue(t *testing.T) {
	now := day(2024, time.March, 2)

	tests := []struct {
		name      string
		last      time.Time
		frequency domain.Frequency
		applyDay  int
		now       time.Time
		want      bool
	}{
		{"daily under a day", now.Add(-23 * time.Hour), domain.Daily, 0, now, false},
		{"daily exactly a day", now.Add(-24 * time.Hour), domain.Daily, 0, now, true},
		{"weekly six days", now.AddDate(0, 0, -6), domain.Weekly, 0, now, false},
		{"weekly seven days", now.AddDate(0, 0, -7), domain.Weekly, 0, now, true},
		{"monthly 31 days back on the 2nd", now.AddDate(0, 0, -31), domain.Monthly, 1, now, true},
		{"monthly before apply day", day(2024, time.January, 1), domain.Monthly, 15, now, false},
		{"monthly on apply day", day(2024, time.January, 1), domain.Monthly, 15, day(2024, time.March, 15), true},
		{"monthly apply day clamped to month end", day(2024, time.January, 15), domain.Monthly, 31, day(2024, time.February, 29), true},
		{"monthly less than a month", day(2024, time.February, 20), domain.Monthly, 1, now, false},
		{"monthly zero apply day acts as first", day(2024, time.January, 2), domain.Monthly, 0, now, true},
		{"quarterly month-end clamp reached", day(2024, time.January, 31), domain.Quarterly, 0, day(2024, time.April, 30), true},
		{"quarterly one day short", day(2024, time.January, 31), domain.Quarterly, 0, day(2024, time.April, 29), false},
		{"annual full year", day(2023, time.March, 2), domain.Annual, 0, now, true},
		{"annual one day short", day(2023, time.March, 2), domain.Annual, 0, day(2024, time.March, 1), false},
		{"annual from leap day", day(2024, time.February, 29), domain.Annual, 0, day(2025, time.February, 28), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accrual.IsDue(tt.last, tt.frequency, tt.applyDay, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := accrual.IsDue(now, domain.Frequency("hourly"), 1, now)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFrequency)
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name      string
		last      time.Time
		frequency domain.Frequency
		applyDay  int
		want      time.Time
	}{
		{"daily", day(2024, time.February, 28), domain.Daily, 0, day(2024, time.February, 29)},
		{"weekly", day(2024, time.February, 28), domain.Weekly, 0, day(2024, time.March, 6)},
		{"monthly apply day already passed", day(2024, time.January, 10), domain.Monthly, 5, day(2024, time.February, 10)},
		{"monthly waits for later apply day", day(2024, time.January, 10), domain.Monthly, 20, time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC)},
		{"monthly early apply day after short period", day(2024, time.February, 20), domain.Monthly, 1, day(2024, time.March, 20)},
		{"monthly apply day clamped", day(2024, time.January, 31), domain.Monthly, 31, day(2024, time.February, 29)},
		{"monthly without apply day keeps day", day(2024, time.March, 31), domain.Monthly, 0, day(2024, time.April, 30)},
		{"quarterly over year end", day(2024, time.November, 30), domain.Quarterly, 0, day(2025, time.February, 28)},
		{"annual", day(2024, time.March, 2), domain.Annual, 0, day(2025, time.March, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accrual.NextDueDate(tt.last, tt.frequency, tt.applyDay)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}

	_, err := accrual.NextDueDate(day(2024, time.March, 2), domain.Frequency(""), 1)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFrequency)
}

func TestNextDueDate_IsFirstDueInstant(t *testing.T) {
	lasts := []time.Time{
		day(2024, time.January, 10),
		day(2024, time.January, 31),
		day(2024, time.February, 20),
		day(2024, time.November, 30),
		time.Date(2024, time.March, 9, 23, 59, 59, 0, time.UTC),
	}
	for _, f := range domain.Frequencies {
		for _, applyDay := range []int{0, 1, 5, 15, 28, 31} {
			for _, last := range lasts {
				next, err := accrual.NextDueDate(last, f, applyDay)
				require.NoError(t, err)
				assert.True(t, next.After(last), "%s day %d last %s: next %s", f, applyDay, last, next)

				due, err := accrual.IsDue(last, f, applyDay, next)
				require.NoError(t, err)
				assert.True(t, due, "%s day %d last %s: not due at %s", f, applyDay, last, next)

				due, err = accrual.IsDue(last, f, applyDay, next.Add(-time.Nanosecond))
				require.NoError(t, err)
				assert.False(t, due, "%s day %d last %s: already due before %s", f, applyDay, last, next)
			}
		}
	}
}
