package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccrualRequest selects which accounts an accrual run charges and how.
type AccrualRequest struct {
	Frequency Frequency
	// AccountID restricts the run to one account when set.
	AccountID *string
	// Force skips the due-date check.
	Force bool
	// DryRun computes interest without persisting anything.
	DryRun bool
	// RequireAutoApply skips accounts whose rate is not configured for automatic application.
	// Scheduled runs set it; admin bulk runs do not.
	RequireAutoApply bool
	// Now overrides the run clock. Zero means the service clock.
	Now     time.Time
	ActorID string
}

// AccrualOutcomeStatus is what happened to one account in a run.
type AccrualOutcomeStatus string

const (
	OutcomeApplied AccrualOutcomeStatus = "APPLIED"
	OutcomePreview AccrualOutcomeStatus = "PREVIEW"
	OutcomeSkipped AccrualOutcomeStatus = "SKIPPED"
	OutcomeFailed  AccrualOutcomeStatus = "FAILED"
)

// Skip reasons reported on skipped outcomes.
const (
	SkipFrequencyMismatch = "frequency_mismatch"
	SkipZeroRate          = "zero_rate"
	SkipNotAutoApply      = "auto_apply_disabled"
	SkipNotDue            = "not_due"
	SkipZeroInterest      = "zero_interest"
)

// AccrualOutcome is the per-account result of a run.
type AccrualOutcome struct {
	AccountID  string               `json:"accountID"`
	Status     AccrualOutcomeStatus `json:"status"`
	Reason     string               `json:"reason,omitempty"`
	Principal  decimal.Decimal      `json:"principal"`
	Interest   decimal.Decimal      `json:"interest"`
	RateConfig *RateConfig          `json:"rateConfig,omitempty"`
	NextDueAt  *time.Time           `json:"nextDueAt,omitempty"`
}

// AccrualError records one account that failed; the run continued past it.
type AccrualError struct {
	AccountID string `json:"accountID"`
	Error     string `json:"error"`
}

// AccrualSummary is the result of one accrual run.
type AccrualSummary struct {
	Frequency      Frequency        `json:"frequency"`
	DryRun         bool             `json:"dryRun"`
	ProcessedCount int              `json:"processedCount"`
	SkippedCount   int              `json:"skippedCount"`
	TotalInterest  decimal.Decimal  `json:"totalInterest"`
	Errors         []AccrualError   `json:"errors"`
	Outcomes       []AccrualOutcome `json:"outcomes"`
	Cancelled      bool             `json:"cancelled"`
	StartedAt      time.Time        `json:"startedAt"`
	FinishedAt     time.Time        `json:"finishedAt"`
}

// LedgerResult is returned by every ledger mutation: the account after the change and the
// entries written for it.
type LedgerResult struct {
	Account       LedgerAccount         `json:"account"`
	Entries       []TransactionLogEntry `json:"entries"`
	AppliedAmount decimal.Decimal       `json:"appliedAmount"`
	PurchaseOrder *PurchaseOrder        `json:"purchaseOrder,omitempty"`
	Payment       *Payment              `json:"payment,omitempty"`
}
