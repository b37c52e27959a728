package assets

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/quayside-wallet/quayside/internal/events"
	"github.com/quayside-wallet/quayside/internal/memo"
)

// ListOptions paginates a balance listing. Zero values mean unset; they are
// normalized into the cache key so callers that omit them and callers that
// pass explicit zeros share one entry.
type ListOptions struct {
	Limit  int
	Offset int
}

// GetBalance returns the asset's metadata together with its spendable
// balance: the node-reported raw balance converted to display units, minus
// every pending local operation touching the asset.
func (s *Service) GetBalance(ctx context.Context, assetID string) (AssetWithBalance, error) {
	info, err := s.GetAssetInfo(ctx, assetID)
	if err != nil {
		return AssetWithBalance{}, err
	}

	var (
		raw     int64
		pending []events.Transfer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = s.rawBalance(gctx, info.ID)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.events.Pending(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return AssetWithBalance{}, err
	}

	balance := float64(raw) / math.Pow10(info.Precision)
	return AssetWithBalance{
		AssetInfo: info,
		Balance:   adjustBalance(info.ID, balance, pending),
	}, nil
}

// GetBalanceList returns balances for the requested assets, or the full
// paginated listing when assetIDs is empty. Both modes fold the pending
// local operations in once, across the whole event set.
func (s *Service) GetBalanceList(ctx context.Context, assetIDs []string, opts ListOptions) ([]AssetWithBalance, error) {
	if err := s.session.Await(ctx); err != nil {
		return nil, err
	}
	if len(assetIDs) > 0 {
		return s.balancesForAssets(ctx, assetIDs, opts)
	}
	return s.allBalances(ctx, opts)
}

// balancesForAssets fans out metadata lookups and runs one batched balance
// query restricted to the requested ids. Assets absent from the batch result
// are reported with a zero balance.
func (s *Service) balancesForAssets(ctx context.Context, assetIDs []string, opts ListOptions) ([]AssetWithBalance, error) {
	infos := make([]AssetInfo, len(assetIDs))
	var (
		balances []AddressBalance
		pending  []events.Transfer
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, assetID := range assetIDs {
		i, assetID := i, assetID
		g.Go(func() error {
			info, err := s.GetAssetInfo(gctx, assetID)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	g.Go(func() error {
		var err error
		balances, err = s.balanceList(gctx, assetIDs, opts)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.events.Pending(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byAsset := make(map[string]float64, len(balances))
	for _, b := range balances {
		byAsset[b.AssetID] = b.Tokens
	}

	out := make([]AssetWithBalance, len(infos))
	for i, info := range infos {
		out[i] = AssetWithBalance{
			AssetInfo: info,
			Balance:   adjustBalance(info.ID, byAsset[info.ID], pending),
		}
	}
	return out, nil
}

// allBalances fetches the full listing and resolves metadata for every
// returned asset. Zero-balance entries are dropped unless they belong to the
// base asset; the node is known to report spurious empty balances.
func (s *Service) allBalances(ctx context.Context, opts ListOptions) ([]AssetWithBalance, error) {
	var (
		balances []AddressBalance
		pending  []events.Transfer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balances, err = s.balanceList(gctx, nil, opts)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.events.Pending(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	infos := make([]AssetInfo, len(balances))
	g, gctx = errgroup.WithContext(ctx)
	for i, b := range balances {
		i, assetID := i, b.AssetID
		g.Go(func() error {
			info, err := s.GetAssetInfo(gctx, assetID)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]AssetWithBalance, 0, len(infos))
	for i, info := range infos {
		balance := adjustBalance(info.ID, balances[i].Tokens, pending)
		if info.ID != BaseAssetID && balance == 0 {
			continue
		}
		out = append(out, AssetWithBalance{AssetInfo: info, Balance: balance})
	}
	return out, nil
}

func (s *Service) rawBalance(ctx context.Context, assetID string) (int64, error) {
	return memo.Do(ctx, s.cache, memo.Key("asset-balance", assetID), balanceTTL, func(ctx context.Context) (int64, error) {
		if err := s.session.Await(ctx); err != nil {
			return 0, err
		}
		return s.node.AssetBalance(ctx, s.address, assetID)
	})
}

func (s *Service) balanceList(ctx context.Context, assetIDs []string, opts ListOptions) ([]AddressBalance, error) {
	key := memo.Key("address-balances", assetIDs, opts.Limit, opts.Offset)
	return memo.Do(ctx, s.cache, key, balanceTTL, func(ctx context.Context) ([]AddressBalance, error) {
		if err := s.session.Await(ctx); err != nil {
			return nil, err
		}
		return s.node.AddressBalances(ctx, s.address, BalanceQuery{
			AssetIDs: assetIDs,
			Limit:    opts.Limit,
			Offset:   opts.Offset,
		})
	})
}

func adjustBalance(assetID string, balance float64, pending []events.Transfer) float64 {
	for _, transfer := range pending {
		balance -= transfer.BalanceDifference(assetID)
	}
	return balance
}
