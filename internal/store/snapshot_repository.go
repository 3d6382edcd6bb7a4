package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hekax/outreach-intel/internal/contracts"
)

// SnapshotRepository implements contracts.SnapshotStore.
// Snapshots are stored as append-only JSONB rows so the detector can
// diff consecutive observations of the same domain.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// GetLatestByDomain returns the newest snapshot for a domain, or nil
// when the domain has never been enriched
func (r *SnapshotRepository) GetLatestByDomain(ctx context.Context, domain string) (*contracts.CompanySnapshot, error) {
	query := `
		SELECT snapshot
		FROM company_snapshots
		WHERE domain = $1
		ORDER BY enriched_at DESC
		LIMIT 1
	`

	var data []byte
	err := r.pool.QueryRow(ctx, query, domain).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot contracts.CompanySnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save inserts a new snapshot row
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *contracts.CompanySnapshot) error {
	if snapshot.EnrichedAt.IsZero() {
		snapshot.EnrichedAt = time.Now().UTC()
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO company_snapshots (id, domain, snapshot, enriched_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = r.pool.Exec(ctx, query, uuid.New(), snapshot.Domain, data, snapshot.EnrichedAt)
	return err
}
