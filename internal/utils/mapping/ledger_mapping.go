package mapping

import (
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/SscSPs/trade_credit_ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelLedgerAccount converts a domain LedgerAccount to a model LedgerAccount
func ToModelLedgerAccount(d domain.LedgerAccount) models.LedgerAccount {
	m := models.LedgerAccount{
		AccountID:             d.AccountID,
		BusinessName:          d.BusinessName,
		AssignedCredit:        d.AssignedCredit,
		AvailableBalance:      d.AvailableBalance,
		OutstandingDebt:       d.OutstandingDebt,
		CreditLimit:           d.CreditLimit,
		TreasuryBalance:       d.TreasuryBalance,
		LastInterestAppliedAt: d.LastInterestAppliedAt,
		RiskTierID:            d.RiskTierID,
		IsActive:              d.IsActive,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
	if d.CustomRate != nil {
		m.CustomRate = decimal.NewNullDecimal(*d.CustomRate)
	}
	if d.CustomFrequency != nil {
		f := d.CustomFrequency.String()
		m.CustomFrequency = &f
	}
	return m
}

// ToDomainLedgerAccount converts a model LedgerAccount to a domain LedgerAccount
func ToDomainLedgerAccount(m models.LedgerAccount) domain.LedgerAccount {
	d := domain.LedgerAccount{
		AccountID:             m.AccountID,
		BusinessName:          m.BusinessName,
		AssignedCredit:        m.AssignedCredit,
		AvailableBalance:      m.AvailableBalance,
		OutstandingDebt:       m.OutstandingDebt,
		CreditLimit:           m.CreditLimit,
		TreasuryBalance:       m.TreasuryBalance,
		LastInterestAppliedAt: m.LastInterestAppliedAt,
		RiskTierID:            m.RiskTierID,
		IsActive:              m.IsActive,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
	if m.CustomRate.Valid {
		rate := m.CustomRate.Decimal
		d.CustomRate = &rate
	}
	if m.CustomFrequency != nil {
		f := domain.Frequency(*m.CustomFrequency)
		d.CustomFrequency = &f
	}
	return d
}

// ToDomainLedgerAccountSlice converts a slice of model accounts to domain accounts
func ToDomainLedgerAccountSlice(ms []models.LedgerAccount) []domain.LedgerAccount {
	ds := make([]domain.LedgerAccount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerAccount(m)
	}
	return ds
}

// ToModelTransactionLogEntry converts a domain log entry to a model log entry
func ToModelTransactionLogEntry(d domain.TransactionLogEntry) models.TransactionLogEntry {
	return models.TransactionLogEntry{
		EntryID:       d.EntryID,
		AccountID:     d.AccountID,
		BalanceField:  string(d.BalanceField),
		Direction:     string(d.Direction),
		Amount:        d.Amount,
		BalanceBefore: d.BalanceBefore,
		BalanceAfter:  d.BalanceAfter,
		ReferenceKind: string(d.ReferenceKind),
		ReferenceID:   d.ReferenceID,
		Description:   d.Description,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainTransactionLogEntry converts a model log entry to a domain log entry
func ToDomainTransactionLogEntry(m models.TransactionLogEntry) domain.TransactionLogEntry {
	return domain.TransactionLogEntry{
		EntryID:       m.EntryID,
		AccountID:     m.AccountID,
		BalanceField:  domain.BalanceField(m.BalanceField),
		Direction:     domain.Direction(m.Direction),
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		ReferenceKind: domain.ReferenceKind(m.ReferenceKind),
		ReferenceID:   m.ReferenceID,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}
