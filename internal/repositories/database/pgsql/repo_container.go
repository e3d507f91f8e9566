package pgsql

import (
	portsrepo "github.com/SscSPs/trade_credit_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:          &BaseRepository{Pool: dbPool},
		LedgerAccountRepo:  newPgxLedgerAccountRepository(dbPool),
		TransactionLogRepo: newPgxTransactionLogRepository(dbPool),
		PurchaseOrderRepo:  newPgxPurchaseOrderRepository(dbPool),
		PaymentRepo:        newPgxPaymentRepository(dbPool),
		RateSettingsRepo:   newPgxRateSettingsRepository(dbPool),
		RateHistoryRepo:    newPgxRateHistoryRepository(dbPool),
		RiskTierRepo:       newPgxRiskTierRepository(dbPool),
	}
}
