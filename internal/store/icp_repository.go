package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hekax/outreach-intel/internal/contracts"
)

// ICPRepository implements contracts.ICPStore
type ICPRepository struct {
	pool *pgxpool.Pool
}

// NewICPRepository creates a new ICP repository
func NewICPRepository(pool *pgxpool.Pool) *ICPRepository {
	return &ICPRepository{pool: pool}
}

const icpColumns = `id, user_id, name, is_default, filters, weights, created_at, updated_at`

// GetByID returns the profile, or nil when it does not exist or belongs
// to another user
func (r *ICPRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*contracts.ICPProfile, error) {
	query := `SELECT ` + icpColumns + ` FROM icp_profiles WHERE id = $1 AND user_id = $2`
	return r.queryOne(ctx, query, id, userID)
}

// GetDefaultForUser returns the user's default profile, or nil
func (r *ICPRepository) GetDefaultForUser(ctx context.Context, userID uuid.UUID) (*contracts.ICPProfile, error) {
	query := `
		SELECT ` + icpColumns + `
		FROM icp_profiles
		WHERE user_id = $1 AND is_default = true
		ORDER BY updated_at DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, userID)
}

func (r *ICPRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*contracts.ICPProfile, error) {
	var p contracts.ICPProfile
	var filters, weights []byte

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.UserID, &p.Name, &p.IsDefault,
		&filters, &weights, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(filters) > 0 {
		if err := json.Unmarshal(filters, &p.Filters); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ICP filters: %w", err)
		}
	}
	if len(weights) > 0 {
		if err := json.Unmarshal(weights, &p.Weights); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ICP weights: %w", err)
		}
	}

	return &p, nil
}
