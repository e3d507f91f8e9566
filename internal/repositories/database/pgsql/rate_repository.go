package pgsql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trade_credit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/trade_credit_ledger/internal/models"
	"github.com/SscSPs/trade_credit_ledger/internal/utils/mapping"
	"github.com/SscSPs/trade_credit_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRateSettingsRepository struct {
	BaseRepository
}

func newPgxRateSettingsRepository(pool *pgxpool.Pool) portsrepo.RateSettingsRepository {
	return &PgxRateSettingsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RateSettingsRepository = (*PgxRateSettingsRepository)(nil)

// FindCurrentSettings returns the highest stored version.
func (r *PgxRateSettingsRepository) FindCurrentSettings(ctx context.Context) (*domain.RateSettings, error) {
	query := `
		SELECT version, calculation_method, rates, created_at, created_by
		FROM rate_settings ORDER BY version DESC LIMIT 1;`
	var m models.RateSettings
	err := r.Pool.QueryRow(ctx, query).Scan(&m.Version, &m.CalculationMethod, &m.Rates, &m.CreatedAt, &m.CreatedBy)
	if err != nil {
		return nil, notFoundOr(err, "rate settings", "find current rate settings")
	}
	settings, err := mapping.ToDomainRateSettings(m)
	if err != nil {
		return nil, apperrors.Persistence("decode rate settings", err)
	}
	return &settings, nil
}

// SaveSettingsSnapshotInTx inserts a new version. The version column is the primary key, so
// two writers racing from the same base version cannot both succeed.
func (r *PgxRateSettingsRepository) SaveSettingsSnapshotInTx(ctx context.Context, tx pgx.Tx, settings domain.RateSettings) error {
	m, err := mapping.ToModelRateSettings(settings)
	if err != nil {
		return apperrors.Persistence("encode rate settings", err)
	}
	query := `
		INSERT INTO rate_settings (version, calculation_method, rates, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5);`
	if _, err := tx.Exec(ctx, query, m.Version, m.CalculationMethod, m.Rates, m.CreatedAt, m.CreatedBy); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: rate settings version %d", apperrors.ErrDuplicate, m.Version)
		}
		return apperrors.Persistence("save rate settings version "+strconv.Itoa(m.Version), err)
	}
	return nil
}

type PgxRateHistoryRepository struct {
	BaseRepository
}

func newPgxRateHistoryRepository(pool *pgxpool.Pool) portsrepo.RateHistoryRepository {
	return &PgxRateHistoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RateHistoryRepository = (*PgxRateHistoryRepository)(nil)

// AppendRateHistoryInTx records one rate change.
func (r *PgxRateHistoryRepository) AppendRateHistoryInTx(ctx context.Context, tx pgx.Tx, entry domain.RateHistoryEntry) error {
	m := mapping.ToModelRateHistory(entry)
	query := `
		INSERT INTO rate_history (history_id, scope, rate_key, account_id, old_rate, new_rate,
			old_frequency, new_frequency, reason, settings_version, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := tx.Exec(ctx, query,
		m.HistoryID, m.Scope, m.RateKey, m.AccountID, m.OldRate, m.NewRate,
		m.OldFrequency, m.NewFrequency, m.Reason, m.SettingsVersion, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return apperrors.Persistence("append rate history "+m.HistoryID, err)
	}
	return nil
}

// ListRateHistory returns newest changes first, optionally for one account.
func (r *PgxRateHistoryRepository) ListRateHistory(ctx context.Context, accountID *string, limit int, nextToken *string) ([]domain.RateHistoryEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT history_id, scope, rate_key, account_id, old_rate, new_rate, old_frequency,
		       new_frequency, reason, settings_version, created_at, created_by
		FROM rate_history
		WHERE ($1::text IS NULL OR account_id = $1)`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeKeysetToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, history_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}
	query += ` ORDER BY created_at DESC, history_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.Persistence("list rate history", err)
	}
	history, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RateHistory, error) {
		var m models.RateHistory
		err := row.Scan(
			&m.HistoryID, &m.Scope, &m.RateKey, &m.AccountID, &m.OldRate, &m.NewRate,
			&m.OldFrequency, &m.NewFrequency, &m.Reason, &m.SettingsVersion, &m.CreatedAt, &m.CreatedBy,
		)
		return m, err
	})
	if err != nil {
		return nil, nil, apperrors.Persistence("scan rate history", err)
	}

	var next *string
	if len(history) > limit {
		last := history[limit-1]
		token := pagination.EncodeKeysetToken(last.CreatedAt, last.HistoryID)
		next = &token
		history = history[:limit]
	}

	result := make([]domain.RateHistoryEntry, len(history))
	for i, m := range history {
		result[i] = mapping.ToDomainRateHistory(m)
	}
	return result, next, nil
}

const riskTierColumns = `tier_id, name, rate, frequency, credit_multiplier, eligibility_criteria,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRiskTierRepository struct {
	BaseRepository
}

func newPgxRiskTierRepository(pool *pgxpool.Pool) portsrepo.RiskTierRepository {
	return &PgxRiskTierRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RiskTierRepository = (*PgxRiskTierRepository)(nil)

func scanRiskTier(row pgx.Row) (models.RiskTier, error) {
	var m models.RiskTier
	err := row.Scan(
		&m.TierID, &m.Name, &m.Rate, &m.Frequency, &m.CreditMultiplier, &m.EligibilityCriteria,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxRiskTierRepository) FindRiskTierByID(ctx context.Context, tierID string) (*domain.RiskTier, error) {
	query := `SELECT ` + riskTierColumns + ` FROM risk_tiers WHERE tier_id = $1;`
	m, err := scanRiskTier(r.Pool.QueryRow(ctx, query, tierID))
	if err != nil {
		return nil, notFoundOr(err, "risk tier "+tierID, "find risk tier "+tierID)
	}
	tier, err := mapping.ToDomainRiskTier(m)
	if err != nil {
		return nil, apperrors.Persistence("decode risk tier "+tierID, err)
	}
	return &tier, nil
}

func (r *PgxRiskTierRepository) ListRiskTiers(ctx context.Context) ([]domain.RiskTier, error) {
	query := `SELECT ` + riskTierColumns + ` FROM risk_tiers ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Persistence("list risk tiers", err)
	}
	tiers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RiskTier, error) {
		return scanRiskTier(row)
	})
	if err != nil {
		return nil, apperrors.Persistence("scan risk tiers", err)
	}

	result := make([]domain.RiskTier, 0, len(tiers))
	for _, m := range tiers {
		tier, err := mapping.ToDomainRiskTier(m)
		if err != nil {
			return nil, apperrors.Persistence("decode risk tier "+m.TierID, err)
		}
		result = append(result, tier)
	}
	return result, nil
}

func (r *PgxRiskTierRepository) SaveRiskTier(ctx context.Context, tier domain.RiskTier) error {
	m, err := mapping.ToModelRiskTier(tier)
	if err != nil {
		return apperrors.Persistence("encode risk tier "+tier.TierID, err)
	}
	query := `INSERT INTO risk_tiers (` + riskTierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err = r.Pool.Exec(ctx, query,
		m.TierID, m.Name, m.Rate, m.Frequency, m.CreditMultiplier, m.EligibilityCriteria,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: risk tier %q", apperrors.ErrDuplicate, m.Name)
		}
		return apperrors.Persistence("save risk tier "+m.TierID, err)
	}
	return nil
}

func (r *PgxRiskTierRepository) UpdateRiskTier(ctx context.Context, tier domain.RiskTier) error {
	m, err := mapping.ToModelRiskTier(tier)
	if err != nil {
		return apperrors.Persistence("encode risk tier "+tier.TierID, err)
	}
	query := `
		UPDATE risk_tiers SET name = $2, rate = $3, frequency = $4, credit_multiplier = $5,
			eligibility_criteria = $6, last_updated_at = $7, last_updated_by = $8
		WHERE tier_id = $1;`
	tag, err := r.Pool.Exec(ctx, query,
		m.TierID, m.Name, m.Rate, m.Frequency, m.CreditMultiplier, m.EligibilityCriteria,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: risk tier %q", apperrors.ErrDuplicate, m.Name)
		}
		return apperrors.Persistence("update risk tier "+m.TierID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: risk tier %s", apperrors.ErrNotFound, m.TierID)
	}
	return nil
}
