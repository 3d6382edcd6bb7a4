package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// SignalRepository implements contracts.SignalStore
type SignalRepository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewSignalRepository creates a new signal repository
func NewSignalRepository(pool *pgxpool.Pool, log *logger.Logger) *SignalRepository {
	return &SignalRepository{pool: pool, logger: log}
}

// SaveBatch stores signals best-effort. A failed insert is logged and
// skipped so one bad row never drops the rest of the batch.
func (r *SignalRepository) SaveBatch(ctx context.Context, signals []*contracts.SignalEvent) (int, error) {
	saved := 0
	for _, sig := range signals {
		if err := r.save(ctx, sig); err != nil {
			r.logger.WithError(err).WithFields(map[string]interface{}{
				"domain":      sig.CompanyDomain,
				"signal_type": string(sig.Type),
			}).Warn("Failed to save signal, skipping")
			continue
		}
		saved++
	}
	return saved, nil
}

func (r *SignalRepository) save(ctx context.Context, sig *contracts.SignalEvent) error {
	data, err := json.Marshal(sig.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal signal data: %w", err)
	}

	id := sig.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO signal_events (
			id, lead_id, company_domain, signal_type, category,
			data, score_impact, confidence, source, source_url,
			signal_date, detected_at, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.pool.Exec(ctx, query,
		id, sig.LeadID, sig.CompanyDomain, string(sig.Type), string(sig.Category),
		data, sig.ScoreImpact, sig.Confidence, sig.Source, sig.SourceURL,
		nullableTime(sig.SignalDate), sig.DetectedAt, nullableTime(sig.ExpiresAt),
	)
	return err
}

// GetActiveByLead returns unexpired signals attached to a lead
func (r *SignalRepository) GetActiveByLead(ctx context.Context, leadID uuid.UUID) ([]*contracts.SignalEvent, error) {
	query := activeSignalQuery + ` AND lead_id = $1 ORDER BY detected_at DESC`
	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSignals(rows)
}

// GetActiveByDomain returns unexpired signals for a company domain
func (r *SignalRepository) GetActiveByDomain(ctx context.Context, domain string) ([]*contracts.SignalEvent, error) {
	query := activeSignalQuery + ` AND company_domain = $1 ORDER BY detected_at DESC`
	rows, err := r.pool.Query(ctx, query, domain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSignals(rows)
}

const activeSignalQuery = `
	SELECT id, lead_id, company_domain, signal_type, category,
	       data, score_impact, confidence, source, source_url,
	       signal_date, detected_at, expires_at
	FROM signal_events
	WHERE (expires_at IS NULL OR expires_at > now())
`

// PurgeExpired deletes expired signals and returns how many were removed
func (r *SignalRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM signal_events WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSignals(rows pgx.Rows) ([]*contracts.SignalEvent, error) {
	var signals []*contracts.SignalEvent
	for rows.Next() {
		var s contracts.SignalEvent
		var sigType, category string
		var data []byte
		var signalDate, expiresAt *time.Time
		if err := rows.Scan(
			&s.ID, &s.LeadID, &s.CompanyDomain, &sigType, &category,
			&data, &s.ScoreImpact, &s.Confidence, &s.Source, &s.SourceURL,
			&signalDate, &s.DetectedAt, &expiresAt,
		); err != nil {
			return nil, err
		}
		s.Type = contracts.SignalType(sigType)
		s.Category = contracts.SignalCategory(category)
		s.SignalDate = fromNullableTime(signalDate)
		s.ExpiresAt = fromNullableTime(expiresAt)
		if len(data) > 0 {
			if err := json.Unmarshal(data, &s.Data); err != nil {
				return nil, fmt.Errorf("failed to unmarshal signal data: %w", err)
			}
		}
		signals = append(signals, &s)
	}
	return signals, rows.Err()
}
