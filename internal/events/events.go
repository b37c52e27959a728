package events

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the referenced pending transfer does not exist,
// usually because it was already resolved.
var ErrNotFound = errors.New("pending transfer not found")

// Transfer is a locally submitted, not yet confirmed balance-affecting
// operation. Amount and Fee are in display units of their respective assets.
type Transfer struct {
	ID         string
	AssetID    string
	Amount     float64
	FeeAssetID string
	Fee        float64
	CreatedAt  time.Time
}

// BalanceDifference returns how much this pending transfer reduces the
// spendable balance of the given asset. An asset used both for the amount
// and the fee accumulates both parts.
func (t Transfer) BalanceDifference(assetID string) float64 {
	var diff float64
	if assetID == t.AssetID {
		diff += t.Amount
	}
	if assetID == t.FeeAssetID {
		diff += t.Fee
	}
	return diff
}

// Store tracks pending transfers between submission and confirmation.
type Store interface {
	Add(ctx context.Context, transfer Transfer) error
	Resolve(ctx context.Context, id string) error
	Pending(ctx context.Context) ([]Transfer, error)
}
