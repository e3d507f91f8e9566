package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLogEntry is a row of ledger_transaction_log. Rows are insert-only.
type TransactionLogEntry struct {
	EntryID       string          `db:"entry_id"`
	AccountID     string          `db:"account_id"`
	BalanceField  string          `db:"balance_field"`
	Direction     string          `db:"direction"`
	Amount        decimal.Decimal `db:"amount"`
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	ReferenceKind string          `db:"reference_kind"`
	ReferenceID   string          `db:"reference_id"`
	Description   string          `db:"description"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}
