package services

import (
	"context"

	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
)

// AccrualSvc runs interest accrual over eligible accounts
type AccrualSvc interface {
	// Run charges one period of interest to every due account of the requested frequency.
	// A failing account is recorded in the summary and the run continues. Cancelling ctx stops
	// the run between accounts.
	Run(ctx context.Context, req domain.AccrualRequest) (*domain.AccrualSummary, error)
}

// RunLocker prevents two runs of the same frequency from overlapping.
type RunLocker interface {
	// Acquire returns a release func, or ErrAccrualInProgress when another run holds the lock.
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}
