package assets

import (
	"context"
	"time"

	"github.com/quayside-wallet/quayside/internal/events"
)

// AssetDetails is the node's view of an issued asset.
type AssetDetails struct {
	ID          string
	Name        string
	Description string
	Decimals    int
	Reissuable  bool
	Quantity    float64
	Timestamp   time.Time
	Sender      string
}

// BalanceQuery narrows an address-balances request. A nil AssetIDs slice
// requests the full list; Limit and Offset of zero mean unset.
type BalanceQuery struct {
	AssetIDs []string
	Limit    int
	Offset   int
}

// AddressBalance is one entry of an address balance listing, already
// converted to display units.
type AddressBalance struct {
	AssetID string
	Tokens  float64
}

// Node queries the ledger node.
type Node interface {
	AssetDetails(ctx context.Context, assetID string) (AssetDetails, error)
	AddressBalances(ctx context.Context, address string, query BalanceQuery) ([]AddressBalance, error)
	// AssetBalance returns the raw balance, not divided by precision.
	AssetBalance(ctx context.Context, address, assetID string) (int64, error)
}

// Pair is a canonically ordered trading pair.
type Pair struct {
	AmountAsset string
	PriceAsset  string
}

// Key is the pair identifier used by the market-data endpoints.
func (p Pair) Key() string {
	return p.AmountAsset + "/" + p.PriceAsset
}

// Candle is aggregated open/close price data for one time bucket.
type Candle struct {
	Timestamp time.Time
	Open      float64
	Close     float64
}

// Trade is a single executed trade; only the price matters here.
type Trade struct {
	Price float64
}

// PriceLevel is one level of an order book side.
type PriceLevel struct {
	Price float64
}

// Orderbook holds the live buy and sell sides for a pair, prices in the
// pair's token convention.
type Orderbook struct {
	Bids []PriceLevel
	Asks []PriceLevel
}

// MarketData fetches trading pairs, candles, trades and order books.
type MarketData interface {
	ResolvePair(ctx context.Context, assetA, assetB string) (Pair, error)
	Candles(ctx context.Context, pair Pair, intervalMinutes, count int) ([]Candle, error)
	Trades(ctx context.Context, pair Pair, windowMinutes int) ([]Trade, error)
	Orderbook(ctx context.Context, amountAsset, priceAsset string) (Orderbook, error)
}

// Session gates network calls on an established user session.
type Session interface {
	Await(ctx context.Context) error
}

// EventSource reports the pending local operations that are not yet
// reflected by the node.
type EventSource interface {
	Pending(ctx context.Context) ([]events.Transfer, error)
}
