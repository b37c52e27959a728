package events

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists pending transfers so a restarted process keeps
// adjusting balances for operations submitted before the restart.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed pending-transfer store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS pending_transfers (
        id UUID PRIMARY KEY,
        asset_id TEXT NOT NULL,
        amount DOUBLE PRECISION NOT NULL,
        fee_asset_id TEXT NOT NULL,
        fee DOUBLE PRECISION NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`)
	if err != nil {
		return fmt.Errorf("ensure pending_transfers table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, transfer Transfer) error {
	_, err := s.db.Exec(ctx, `INSERT INTO pending_transfers (id, asset_id, amount, fee_asset_id, fee, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO NOTHING`,
		transfer.ID, transfer.AssetID, transfer.Amount, transfer.FeeAssetID, transfer.Fee, transfer.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pending transfer: %w", err)
	}
	return nil
}

func (s *PostgresStore) Resolve(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM pending_transfers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pending transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Pending(ctx context.Context) ([]Transfer, error) {
	rows, err := s.db.Query(ctx, `SELECT id, asset_id, amount, fee_asset_id, fee, created_at
        FROM pending_transfers
        ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query pending transfers: %w", err)
	}
	defer rows.Close()

	var out []Transfer
	for rows.Next() {
		var t Transfer
		if err := rows.Scan(&t.ID, &t.AssetID, &t.Amount, &t.FeeAssetID, &t.Fee, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
