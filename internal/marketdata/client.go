package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/quayside-wallet/quayside/internal/assets"
)

// defaultPriceAssets is the matcher's pair convention: when both assets of a
// pair appear here, or only one does, the earlier entry becomes the price
// asset. Pairs of two unlisted assets order deterministically by id.
var defaultPriceAssets = []string{
	assets.BaseAssetID,
	assets.BitcoinAssetID,
	assets.UsdAssetID,
	assets.EuroAssetID,
	assets.EthereumAssetID,
}

// Client fetches trading pairs, candles, trades and order books from the
// matcher and the market-data service.
type Client struct {
	matcherURL  string
	dataURL     string
	http        *http.Client
	priceAssets []string
}

// NewClient builds a market-data client against the given matcher and
// market-data base URLs.
func NewClient(matcherURL, dataURL string) *Client {
	return &Client{
		matcherURL:  strings.TrimSuffix(matcherURL, "/"),
		dataURL:     strings.TrimSuffix(dataURL, "/"),
		http:        &http.Client{Timeout: 15 * time.Second},
		priceAssets: defaultPriceAssets,
	}
}

// ResolvePair orders two assets into their canonical trading pair.
func (c *Client) ResolvePair(_ context.Context, assetA, assetB string) (assets.Pair, error) {
	if assetA == assetB {
		return assets.Pair{}, fmt.Errorf("pair of identical assets: %s", assetA)
	}

	rankA, rankB := c.rank(assetA), c.rank(assetB)
	switch {
	case rankA < rankB:
		return assets.Pair{AmountAsset: assetB, PriceAsset: assetA}, nil
	case rankB < rankA:
		return assets.Pair{AmountAsset: assetA, PriceAsset: assetB}, nil
	case assetA < assetB:
		return assets.Pair{AmountAsset: assetB, PriceAsset: assetA}, nil
	default:
		return assets.Pair{AmountAsset: assetA, PriceAsset: assetB}, nil
	}
}

func (c *Client) rank(assetID string) int {
	for i, id := range c.priceAssets {
		if id == assetID {
			return i
		}
	}
	return len(c.priceAssets)
}

type candleResponse struct {
	Timestamp int64       `json:"timestamp"`
	Open      json.Number `json:"open"`
	Close     json.Number `json:"close"`
}

// Candles fetches count buckets of intervalMinutes each for the pair.
func (c *Client) Candles(ctx context.Context, pair assets.Pair, intervalMinutes, count int) ([]assets.Candle, error) {
	path := fmt.Sprintf("%s/candles/%s/%d/%d", c.dataURL, pair.Key(), intervalMinutes, count)

	var body []candleResponse
	if err := c.getJSON(ctx, path, &body); err != nil {
		return nil, err
	}

	out := make([]assets.Candle, 0, len(body))
	for _, candle := range body {
		open, _ := candle.Open.Float64()
		closing, _ := candle.Close.Float64()
		out = append(out, assets.Candle{
			Timestamp: time.UnixMilli(candle.Timestamp),
			Open:      open,
			Close:     closing,
		})
	}
	return out, nil
}

type tradeResponse struct {
	Price json.Number `json:"price"`
}

// Trades fetches the trades executed for the pair within the recent window.
func (c *Client) Trades(ctx context.Context, pair assets.Pair, windowMinutes int) ([]assets.Trade, error) {
	path := fmt.Sprintf("%s/trades/%s/%d", c.dataURL, pair.Key(), windowMinutes)

	var body []tradeResponse
	if err := c.getJSON(ctx, path, &body); err != nil {
		return nil, err
	}

	out := make([]assets.Trade, 0, len(body))
	for _, trade := range body {
		price, _ := trade.Price.Float64()
		out = append(out, assets.Trade{Price: price})
	}
	return out, nil
}

type orderbookResponse struct {
	Bids []struct {
		Price float64 `json:"price"`
	} `json:"bids"`
	Asks []struct {
		Price float64 `json:"price"`
	} `json:"asks"`
}

// Orderbook fetches the live order book for the pair from the matcher.
func (c *Client) Orderbook(ctx context.Context, amountAsset, priceAsset string) (assets.Orderbook, error) {
	path := fmt.Sprintf("%s/matcher/orderbook/%s/%s", c.matcherURL, amountAsset, priceAsset)

	var body orderbookResponse
	if err := c.getJSON(ctx, path, &body); err != nil {
		return assets.Orderbook{}, err
	}

	book := assets.Orderbook{
		Bids: make([]assets.PriceLevel, 0, len(body.Bids)),
		Asks: make([]assets.PriceLevel, 0, len(body.Asks)),
	}
	for _, level := range body.Bids {
		book.Bids = append(book.Bids, assets.PriceLevel{Price: level.Price})
	}
	for _, level := range body.Asks {
		book.Asks = append(book.Asks, assets.PriceLevel{Price: level.Price})
	}
	return book, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build market-data request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("market-data request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("market-data request %s: unexpected status %s", url, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode market-data response %s: %w", url, err)
	}
	return nil
}
