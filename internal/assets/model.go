package assets

import "time"

// The base asset is the reference currency every indirect pair is priced
// through. Its metadata is fixed at genesis and never fetched.
const (
	BaseAssetID        = "WAVES"
	BaseAssetPrecision = 8

	baseAssetQuantity = 100_000_000
)

// baseAssetIssuedAt is the genesis timestamp of the base asset.
var baseAssetIssuedAt = time.UnixMilli(1460408400000)

// Mainnet identifiers of the pegged assets whose node-reported names are
// replaced with display names.
const (
	BitcoinAssetID  = "8LQW8f7P5d5PZM7GtZEBgaqRPGSzS3DfPuiXrURJ4AJS"
	EthereumAssetID = "474jTeYx2r2Va35794tCScAXWJG9hU2HcgxzMowaZUnu"
	EuroAssetID     = "Gtb1WRznfchDnTh37ezoDTJ4wcoKaRsKqKjJjy7nm2zU"
	UsdAssetID      = "Ft8X1v1LTa1ABafufpaCWyVj8KkaxUWE6xBhW6sNFJck"
)

var assetNameOverrides = map[string]string{
	BitcoinAssetID:  "Bitcoin",
	EthereumAssetID: "Ethereum",
	EuroAssetID:     "Euro",
	UsdAssetID:      "Usd",
}

// AssetInfo is the immutable metadata of an issued asset.
type AssetInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Precision   int       `json:"precision"`
	Reissuable  bool      `json:"reissuable"`
	Quantity    float64   `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
	Sender      string    `json:"sender"`
}

// AssetWithBalance pairs asset metadata with the current spendable balance
// in display units. The balance part is recomputed on every request.
type AssetWithBalance struct {
	AssetInfo
	Balance float64 `json:"balance"`
}

// RateHistoryPoint is one bucket of a historical rate series.
type RateHistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Rate      float64   `json:"rate"`
}

// BidAsk carries the best prices of the two sides of an order book, zero
// when the respective side is empty.
type BidAsk struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

// FeeQuote describes the flat fee charged for a send operation.
type FeeQuote struct {
	AssetID string  `json:"assetId"`
	Fee     float64 `json:"fee"`
}

func baseAssetInfo() AssetInfo {
	return AssetInfo{
		ID:         BaseAssetID,
		Name:       "Waves",
		Precision:  BaseAssetPrecision,
		Reissuable: false,
		Quantity:   baseAssetQuantity,
		Timestamp:  baseAssetIssuedAt,
		Sender:     BaseAssetID,
	}
}
