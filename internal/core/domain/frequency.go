package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Frequency is the period over which an interest rate applies and accrues.
type Frequency string

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Annual    Frequency = "annual"
)

// FrequencySpec describes one frequency for both interest calculation and due-date scheduling.
// Exactly one of Days or Months is non-zero and gives the length of a single period.
type FrequencySpec struct {
	PeriodsPerYear int
	AverageDays    decimal.Decimal
	Days           int
	Months         int
}

var frequencyTable = map[Frequency]FrequencySpec{
	Daily:     {PeriodsPerYear: 365, AverageDays: decimal.NewFromInt(1), Days: 1},
	Weekly:    {PeriodsPerYear: 52, AverageDays: decimal.NewFromInt(7), Days: 7},
	Monthly:   {PeriodsPerYear: 12, AverageDays: decimal.RequireFromString("30.44"), Months: 1},
	Quarterly: {PeriodsPerYear: 4, AverageDays: decimal.RequireFromString("91.31"), Months: 3},
	Annual:    {PeriodsPerYear: 1, AverageDays: decimal.NewFromInt(365), Months: 12},
}

// Frequencies lists every supported frequency, shortest period first.
var Frequencies = []Frequency{Daily, Weekly, Monthly, Quarterly, Annual}

// Spec returns the table entry for f, or ErrUnsupportedFrequency.
func (f Frequency) Spec() (FrequencySpec, error) {
	spec, ok := frequencyTable[f]
	if !ok {
		return FrequencySpec{}, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFrequency, string(f))
	}
	return spec, nil
}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	_, ok := frequencyTable[f]
	return ok
}

func (f Frequency) String() string {
	return string(f)
}

// ParseFrequency normalizes a frequency token. "annually" and "yearly" are accepted for Annual.
func ParseFrequency(token string) (Frequency, error) {
	normalized := strings.ToLower(strings.TrimSpace(token))
	switch normalized {
	case "annually", "yearly":
		return Annual, nil
	}
	f := Frequency(normalized)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFrequency, token)
	}
	return f, nil
}
