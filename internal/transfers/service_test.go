package transfers

import (
	"context"
	"errors"
	"testing"

	"github.com/quayside-wallet/quayside/internal/assets"
	"github.com/quayside-wallet/quayside/internal/events"
	"github.com/quayside-wallet/quayside/internal/logging"
	"github.com/quayside-wallet/quayside/internal/notification"
)

type testNotifier struct {
	last notification.Message
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.last = msg
	return nil
}

func newTestService(notifier notification.Notifier) (*Service, events.Store) {
	store := events.NewInMemory()
	assetSvc := assets.NewService(nil, nil, nil, store, "wallet-address", logging.Discard())
	return NewService(store, assetSvc, notifier), store
}

func TestSubmitRecordsPendingTransferWithFee(t *testing.T) {
	notifier := &testNotifier{}
	svc, store := newTestService(notifier)
	ctx := context.Background()

	res, err := svc.Submit(ctx, SubmitInput{Recipient: "3PJaDy...", AssetID: "asset-x", Amount: 2.5})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if res.ID == "" {
		t.Fatal("expected a generated transfer id")
	}
	if res.FeeAssetID != assets.BaseAssetID || res.Fee != 0.001 {
		t.Fatalf("unexpected fee quote: %+v", res)
	}

	pending, err := store.Pending(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != res.ID {
		t.Fatalf("expected the transfer to be pending, got %+v", pending)
	}
	if diff := pending[0].BalanceDifference("asset-x"); diff != 2.5 {
		t.Fatalf("expected balance difference 2.5, got %v", diff)
	}

	if notifier.last.Kind != notification.KindTransferSubmitted {
		t.Fatalf("expected a submission notification, got %+v", notifier.last)
	}
}

func TestSubmitDefaultsToBaseAsset(t *testing.T) {
	svc, _ := newTestService(nil)

	res, err := svc.Submit(context.Background(), SubmitInput{Recipient: "addr", Amount: 1})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if res.AssetID != assets.BaseAssetID {
		t.Fatalf("expected base asset, got %s", res.AssetID)
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, SubmitInput{Recipient: "addr", Amount: 0}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.Submit(ctx, SubmitInput{Amount: 1}); !errors.Is(err, ErrMissingRecipient) {
		t.Fatalf("expected ErrMissingRecipient, got %v", err)
	}
}

func TestResolveDropsPendingTransfer(t *testing.T) {
	notifier := &testNotifier{}
	svc, store := newTestService(notifier)
	ctx := context.Background()

	res, err := svc.Submit(ctx, SubmitInput{Recipient: "addr", Amount: 1})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := svc.Resolve(ctx, res.ID); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if notifier.last.Kind != notification.KindTransferConfirmed {
		t.Fatalf("expected a confirmation notification, got %+v", notifier.last)
	}

	pending, err := store.Pending(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending transfers, got %+v", pending)
	}

	if err := svc.Resolve(ctx, res.ID); !errors.Is(err, events.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on a second resolve, got %v", err)
	}
}
