package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager          TransactionManager
	LedgerAccountRepo  LedgerAccountRepositoryFacade
	TransactionLogRepo TransactionLogRepository
	PurchaseOrderRepo  PurchaseOrderRepository
	PaymentRepo        PaymentRepository
	RateSettingsRepo   RateSettingsRepository
	RateHistoryRepo    RateHistoryRepository
	RiskTierRepo       RiskTierRepository
}
