package assets

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/quayside-wallet/quayside/internal/memo"
)

// ErrNoCandles indicates an empty candle series where at least one bucket is
// required to derive a history point.
var ErrNoCandles = errors.New("no candles for pair")

// GetRate returns the spot exchange rate between two assets, expressed as
// units of `to` per unit of `from`. Pairs that do not trade directly are
// composed through the base asset.
func (s *Service) GetRate(ctx context.Context, from, to string) (Rate, error) {
	value, err := memo.Do(ctx, s.cache, memo.Key("rate", from, to), rateTTL, func(ctx context.Context) (float64, error) {
		return s.rate(ctx, from, to)
	})
	if err != nil {
		return Rate{}, err
	}
	return NewRate(value), nil
}

func (s *Service) rate(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}
	if err := s.session.Await(ctx); err != nil {
		return 0, err
	}
	if from != BaseAssetID && to != BaseAssetID {
		return s.throughBase(ctx, from, to, s.directRate)
	}
	return s.directRate(ctx, from, to)
}

// directRate averages the trade prices of the recent window and orients the
// result to the caller's perspective: when `from` is the pair's price asset
// the averaged rate is inverted, with a zero rate mapping to zero.
func (s *Service) directRate(ctx context.Context, from, to string) (float64, error) {
	pair, err := s.market.ResolvePair(ctx, from, to)
	if err != nil {
		return 0, err
	}
	trades, err := s.market.Trades(ctx, pair, tradeWindowMinutes)
	if err != nil {
		return 0, err
	}

	rate := averagePrice(trades)
	if from != pair.PriceAsset {
		return rate, nil
	}
	if rate == 0 {
		return 0, nil
	}
	return 1 / rate, nil
}

// GetChange returns the daily rate of change between two assets: close/open
// for an increase, -open/close for a decrease, zero when the reference value
// is zero.
func (s *Service) GetChange(ctx context.Context, from, to string) (float64, error) {
	return memo.Do(ctx, s.cache, memo.Key("change", from, to), changeTTL, func(ctx context.Context) (float64, error) {
		if from == to {
			return 1, nil
		}
		if err := s.session.Await(ctx); err != nil {
			return 0, err
		}
		if from != BaseAssetID && to != BaseAssetID {
			return s.throughBase(ctx, from, to, s.directChange)
		}
		return s.directChange(ctx, from, to)
	})
}

func (s *Service) directChange(ctx context.Context, from, to string) (float64, error) {
	pair, err := s.market.ResolvePair(ctx, from, to)
	if err != nil {
		return 0, err
	}
	candles, err := s.market.Candles(ctx, pair, dayIntervalMinutes, 1)
	if err != nil {
		return 0, err
	}
	if len(candles) == 0 {
		return 0, nil
	}

	open, closing := candles[0].Open, candles[0].Close
	if open > closing {
		if closing == 0 {
			return 0, nil
		}
		return -open / closing, nil
	}
	if open == 0 {
		return 0, nil
	}
	return closing / open, nil
}

// throughBase composes a value for from→to out of the two base-asset legs,
// fetched in parallel. A zero denominator leg makes the whole result zero by
// convention rather than an error.
func (s *Service) throughBase(ctx context.Context, from, to string, leg func(context.Context, string, string) (float64, error)) (float64, error) {
	var fromLeg, toLeg float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fromLeg, err = leg(gctx, from, BaseAssetID)
		return err
	})
	g.Go(func() error {
		var err error
		toLeg, err = leg(gctx, to, BaseAssetID)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if toLeg == 0 {
		return 0, nil
	}
	return fromLeg / toLeg, nil
}

// GetRateHistory returns a rate series of count buckets of intervalMinutes
// each. Indirect pairs join their two base-asset legs by exact timestamp;
// buckets present in only one leg are dropped.
func (s *Service) GetRateHistory(ctx context.Context, from, to string, intervalMinutes, count int) ([]RateHistoryPoint, error) {
	key := memo.Key("rate-history", from, to, intervalMinutes, count)
	return memo.Do(ctx, s.cache, key, historyTTL, func(ctx context.Context) ([]RateHistoryPoint, error) {
		if err := s.session.Await(ctx); err != nil {
			return nil, err
		}

		if from != BaseAssetID && to != BaseAssetID {
			var fromLeg, toLeg []RateHistoryPoint
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				fromLeg, err = s.directHistory(gctx, from, BaseAssetID, intervalMinutes, count)
				return err
			})
			g.Go(func() error {
				var err error
				toLeg, err = s.directHistory(gctx, to, BaseAssetID, intervalMinutes, count)
				return err
			})
			if err := g.Wait(); err != nil {
				return nil, err
			}
			return joinByTimestamp(fromLeg, toLeg), nil
		}

		return s.directHistory(ctx, from, to, intervalMinutes, count)
	})
}

func (s *Service) directHistory(ctx context.Context, from, to string, intervalMinutes, count int) ([]RateHistoryPoint, error) {
	pair, err := s.market.ResolvePair(ctx, from, to)
	if err != nil {
		return nil, err
	}
	candles, err := s.market.Candles(ctx, pair, intervalMinutes, count)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCandles, pair.Key())
	}

	invert := from == pair.PriceAsset
	points := make([]RateHistoryPoint, 0, len(candles))
	for _, candle := range candles {
		if candle.Close == 0 {
			continue
		}
		rate := candle.Close
		if invert {
			rate = 1 / candle.Close
		}
		points = append(points, RateHistoryPoint{Timestamp: candle.Timestamp, Rate: rate})
	}
	return points, nil
}

// joinByTimestamp inner-joins the two legs on exact timestamps and divides
// the from-leg rate by the to-leg rate per matched bucket.
func joinByTimestamp(fromLeg, toLeg []RateHistoryPoint) []RateHistoryPoint {
	byTime := make(map[int64]float64, len(toLeg))
	for _, point := range toLeg {
		byTime[point.Timestamp.UnixMilli()] = point.Rate
	}

	joined := make([]RateHistoryPoint, 0, len(fromLeg))
	for _, point := range fromLeg {
		toRate, ok := byTime[point.Timestamp.UnixMilli()]
		if !ok {
			continue
		}
		joined = append(joined, RateHistoryPoint{
			Timestamp: point.Timestamp,
			Rate:      point.Rate / toRate,
		})
	}
	return joined
}

// GetBidAsk returns the best bid and ask of the live order book for the
// pair, zero for an empty side.
func (s *Service) GetBidAsk(ctx context.Context, assetID1, assetID2 string) (BidAsk, error) {
	return memo.Do(ctx, s.cache, memo.Key("bid-ask", assetID1, assetID2), orderbookTTL, func(ctx context.Context) (BidAsk, error) {
		if err := s.session.Await(ctx); err != nil {
			return BidAsk{}, err
		}
		book, err := s.market.Orderbook(ctx, assetID1, assetID2)
		if err != nil {
			return BidAsk{}, err
		}

		var quote BidAsk
		if len(book.Bids) > 0 {
			quote.Bid = book.Bids[0].Price
		}
		if len(book.Asks) > 0 {
			quote.Ask = book.Asks[0].Price
		}
		return quote, nil
	})
}

func averagePrice(trades []Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	var sum float64
	for _, trade := range trades {
		sum += trade.Price
	}
	return sum / float64(len(trades))
}
