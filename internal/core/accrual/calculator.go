// Package accrual holds the pure interest rules: rate resolution, interest arithmetic and
// due-date scheduling. Nothing here touches storage.
package accrual

import (
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PeriodInterest is simple interest, principal * rate% * periods, rounded to cents.
// Zero when any input is not positive.
func PeriodInterest(principal, rate, periods decimal.Decimal) decimal.Decimal {
	if !principal.IsPositive() || !rate.IsPositive() || !periods.IsPositive() {
		return decimal.Zero
	}
	return principal.Mul(rate.Div(hundred)).Mul(periods).Round(2)
}

// CompoundInterest is principal * (1 + rate%)^periods − principal, rounded to cents.
func CompoundInterest(principal, rate, periods decimal.Decimal) decimal.Decimal {
	if !principal.IsPositive() || !rate.IsPositive() || !periods.IsPositive() {
		return decimal.Zero
	}
	growth := decimal.NewFromInt(1).Add(rate.Div(hundred)).Pow(periods)
	return principal.Mul(growth).Sub(principal).Round(2)
}

// ElapsedPeriods converts a number of days into periods of frequency f.
func ElapsedPeriods(f domain.Frequency, elapsedDays int) (decimal.Decimal, error) {
	spec, err := f.Spec()
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(int64(elapsedDays)).Div(spec.AverageDays), nil
}

// CalendarInterest is simple interest over elapsedDays with a rate quoted per frequency period.
func CalendarInterest(principal, rate decimal.Decimal, f domain.Frequency, elapsedDays int) (decimal.Decimal, error) {
	periods, err := ElapsedPeriods(f, elapsedDays)
	if err != nil {
		return decimal.Zero, err
	}
	return PeriodInterest(principal, rate, periods), nil
}

// Calculator applies the configured calculation method.
type Calculator struct {
	Method domain.CalculationMethod
}

// NewCalculator returns a calculator for method; an empty method means simple interest.
func NewCalculator(method domain.CalculationMethod) Calculator {
	if method == "" {
		method = domain.MethodSimple
	}
	return Calculator{Method: method}
}

// Interest computes interest over a number of periods.
func (c Calculator) Interest(principal, rate, periods decimal.Decimal) decimal.Decimal {
	if c.Method == domain.MethodCompound {
		return CompoundInterest(principal, rate, periods)
	}
	return PeriodInterest(principal, rate, periods)
}

// OnePeriod is the interest charged for a single period of the account's frequency.
func (c Calculator) OnePeriod(principal decimal.Decimal, cfg domain.RateConfig) (decimal.Decimal, error) {
	if _, err := cfg.Frequency.Spec(); err != nil {
		return decimal.Zero, err
	}
	return c.Interest(principal, cfg.Rate, decimal.NewFromInt(1)), nil
}

// ForDays computes interest for elapsedDays under cfg.
func (c Calculator) ForDays(principal decimal.Decimal, cfg domain.RateConfig, elapsedDays int) (decimal.Decimal, error) {
	periods, err := ElapsedPeriods(cfg.Frequency, elapsedDays)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Interest(principal, cfg.Rate, periods), nil
}
