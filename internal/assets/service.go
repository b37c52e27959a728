package assets

import (
	"context"
	"log/slog"
	"time"

	"github.com/quayside-wallet/quayside/internal/memo"
)

// Cache windows per operation. Asset metadata is immutable once issued and
// is kept without expiry; everything else reflects live market or ledger
// state and goes stale quickly.
const (
	balanceTTL   = 2 * time.Second
	orderbookTTL = 2 * time.Second
	historyTTL   = 20 * time.Second
	rateTTL      = 60 * time.Second
	changeTTL    = 60 * time.Second
)

const (
	sendFee            = 0.001
	tradeWindowMinutes = 5
	dayIntervalMinutes = 1440
)

// Service resolves asset metadata, balances and exchange rates for one
// wallet address. All remote reads go through the memoizing cache so that
// concurrent identical requests share a single fetch.
type Service struct {
	node    Node
	market  MarketData
	session Session
	events  EventSource
	address string
	cache   *memo.Cache
	logger  *slog.Logger
}

// NewService builds an asset service for the given wallet address.
func NewService(node Node, market MarketData, session Session, eventSource EventSource, address string, logger *slog.Logger) *Service {
	return &Service{
		node:    node,
		market:  market,
		session: session,
		events:  eventSource,
		address: address,
		cache:   memo.New(),
		logger:  logger,
	}
}

// GetAssetInfo resolves asset metadata. The base asset is answered from its
// genesis constants without touching the network; everything else is fetched
// once and cached for the process lifetime.
func (s *Service) GetAssetInfo(ctx context.Context, assetID string) (AssetInfo, error) {
	return memo.Do(ctx, s.cache, memo.Key("asset-info", assetID), 0, func(ctx context.Context) (AssetInfo, error) {
		if err := s.session.Await(ctx); err != nil {
			return AssetInfo{}, err
		}

		if assetID == BaseAssetID {
			return baseAssetInfo(), nil
		}

		details, err := s.node.AssetDetails(ctx, assetID)
		if err != nil {
			return AssetInfo{}, err
		}

		name := details.Name
		if override, ok := assetNameOverrides[details.ID]; ok {
			name = override
		}

		return AssetInfo{
			ID:          details.ID,
			Name:        name,
			Description: details.Description,
			Precision:   details.Decimals,
			Reissuable:  details.Reissuable,
			Quantity:    details.Quantity,
			Timestamp:   details.Timestamp,
			Sender:      details.Sender,
		}, nil
	})
}

// FeeSend quotes the flat fee for a send operation, always denominated in
// the base asset.
func (s *Service) FeeSend() FeeQuote {
	return FeeQuote{AssetID: BaseAssetID, Fee: sendFee}
}
