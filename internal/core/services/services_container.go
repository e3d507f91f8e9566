package services

import (
	portsrepo "github.com/SscSPs/trade_credit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trade_credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/trade_credit_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// locker may be nil, in which case accrual runs are not serialized across instances.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, locker portssvc.RunLocker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ledger = NewLedgerService(
		repos.TxManager,
		repos.LedgerAccountRepo,
		repos.TransactionLogRepo,
		repos.PurchaseOrderRepo,
		repos.PaymentRepo,
		WithRiskTierLookup(repos.RiskTierRepo),
	)

	container.Rate = NewRateService(
		repos.TxManager,
		repos.RateSettingsRepo,
		repos.RateHistoryRepo,
		repos.RiskTierRepo,
		repos.LedgerAccountRepo,
	)

	// Accrual applies interest through the ledger service so every charge takes the same locked path.
	accrualOpts := []AccrualServiceOption{WithAccrualConcurrency(cfg.AccrualConcurrency)}
	if locker != nil {
		accrualOpts = append(accrualOpts, WithRunLocker(locker))
	}
	container.Accrual = NewAccrualService(
		container.Ledger,
		repos.LedgerAccountRepo,
		container.Rate,
		accrualOpts...,
	)

	return container
}
