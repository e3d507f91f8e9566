package repositories

import (
	"context"

	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// RateSettingsRepository stores versioned rate configuration snapshots
type RateSettingsRepository interface {
	// FindCurrentSettings returns the highest version. Returns ErrNotFound before the first save.
	FindCurrentSettings(ctx context.Context) (*domain.RateSettings, error)

	// SaveSettingsSnapshotInTx inserts a new version. A version that already exists returns ErrDuplicate.
	SaveSettingsSnapshotInTx(ctx context.Context, tx pgx.Tx, settings domain.RateSettings) error
}

// RateHistoryRepository stores the append-only rate change audit
type RateHistoryRepository interface {
	AppendRateHistoryInTx(ctx context.Context, tx pgx.Tx, entry domain.RateHistoryEntry) error

	// ListRateHistory returns newest changes first, optionally for one account.
	ListRateHistory(ctx context.Context, accountID *string, limit int, nextToken *string) ([]domain.RateHistoryEntry, *string, error)
}

// RiskTierRepository persists risk tiers
type RiskTierRepository interface {
	FindRiskTierByID(ctx context.Context, tierID string) (*domain.RiskTier, error)
	ListRiskTiers(ctx context.Context) ([]domain.RiskTier, error)
	SaveRiskTier(ctx context.Context, tier domain.RiskTier) error
	UpdateRiskTier(ctx context.Context, tier domain.RiskTier) error
}
