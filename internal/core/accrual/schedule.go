package accrual

import (
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
)

// IsDue reports whether a period of f has passed since last. Monthly schedules also wait
// for the apply day, clamped to the length of the current month.
func IsDue(last time.Time, f domain.Frequency, applyDay int, now time.Time) (bool, error) {
	spec, err := f.Spec()
	if err != nil {
		return false, err
	}

	if spec.Days > 0 {
		return now.Sub(last) >= time.Duration(spec.Days)*24*time.Hour, nil
	}

	if f == domain.Monthly {
		day := clampDay(applyDay, now.Year(), now.Month())
		if now.Day() < day {
			return false, nil
		}
	}
	return !now.Before(addMonths(last, spec.Months)), nil
}

// NextDueDate is the first instant at which IsDue turns true: last plus one period, and for
// monthly schedules no earlier than the start of the clamped apply day in that month.
func NextDueDate(last time.Time, f domain.Frequency, applyDay int) (time.Time, error) {
	spec, err := f.Spec()
	if err != nil {
		return time.Time{}, err
	}

	if spec.Days > 0 {
		return last.Add(time.Duration(spec.Days) * 24 * time.Hour), nil
	}

	next := addMonths(last, spec.Months)
	if f == domain.Monthly {
		day := clampDay(applyDay, next.Year(), next.Month())
		if next.Day() < day {
			next = time.Date(next.Year(), next.Month(), day, 0, 0, 0, 0, next.Location())
		}
	}
	return next, nil
}

// addMonths moves t forward n calendar months, keeping the day of month where it exists
// and using the last day otherwise (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := min(t.Day(), daysIn(first.Year(), first.Month()))
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func clampDay(day, year int, month time.Month) int {
	if day < 1 {
		day = 1
	}
	return min(day, daysIn(year, month))
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
