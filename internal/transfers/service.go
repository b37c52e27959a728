package transfers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quayside-wallet/quayside/internal/assets"
	"github.com/quayside-wallet/quayside/internal/events"
	"github.com/quayside-wallet/quayside/internal/notification"
)

// Service records locally submitted transfers so balances reflect them
// before the network confirms. A submitted transfer stays pending until it
// is resolved, either by confirmation or by being discarded.
type Service struct {
	store    events.Store
	assets   *assets.Service
	notifier notification.Notifier
	now      func() time.Time
}

// NewService constructs a transfer service.
func NewService(store events.Store, assetService *assets.Service, notifier notification.Notifier) *Service {
	return &Service{
		store:    store,
		assets:   assetService,
		notifier: notifier,
		now:      time.Now,
	}
}

// SubmitInput captures a transfer about to leave the wallet.
type SubmitInput struct {
	Recipient string
	AssetID   string
	Amount    float64
}

// SubmitResult describes the pending transfer that was recorded.
type SubmitResult struct {
	ID         string    `json:"id"`
	AssetID    string    `json:"assetId"`
	Amount     float64   `json:"amount"`
	FeeAssetID string    `json:"feeAssetId"`
	Fee        float64   `json:"fee"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ErrInvalidAmount indicates a non-positive transfer amount.
var ErrInvalidAmount = errors.New("transfer amount must be positive")

// ErrMissingRecipient indicates the transfer has no destination address.
var ErrMissingRecipient = errors.New("transfer recipient is required")

// Submit records a transfer as a pending event. The flat send fee is added
// on top of the amount and reduces the fee asset's balance alongside it.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (SubmitResult, error) {
	if input.Amount <= 0 {
		return SubmitResult{}, ErrInvalidAmount
	}
	if input.Recipient == "" {
		return SubmitResult{}, ErrMissingRecipient
	}
	if input.AssetID == "" {
		input.AssetID = assets.BaseAssetID
	}

	fee := s.assets.FeeSend()
	transfer := events.Transfer{
		ID:         uuid.NewString(),
		AssetID:    input.AssetID,
		Amount:     input.Amount,
		FeeAssetID: fee.AssetID,
		Fee:        fee.Fee,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.store.Add(ctx, transfer); err != nil {
		return SubmitResult{}, fmt.Errorf("record pending transfer: %w", err)
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferSubmitted,
			Destination: input.Recipient,
			Body:        fmt.Sprintf("Transfer of %v %s submitted", input.Amount, input.AssetID),
		})
	}

	return SubmitResult{
		ID:         transfer.ID,
		AssetID:    transfer.AssetID,
		Amount:     transfer.Amount,
		FeeAssetID: transfer.FeeAssetID,
		Fee:        transfer.Fee,
		CreatedAt:  transfer.CreatedAt,
	}, nil
}

// Resolve drops a pending transfer once the network has confirmed it.
func (s *Service) Resolve(ctx context.Context, id string) error {
	if err := s.store.Resolve(ctx, id); err != nil {
		return err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind: notification.KindTransferConfirmed,
			Body: fmt.Sprintf("Transfer %s confirmed", id),
		})
	}
	return nil
}

// Pending lists the transfers still awaiting confirmation.
func (s *Service) Pending(ctx context.Context) ([]events.Transfer, error) {
	return s.store.Pending(ctx)
}
