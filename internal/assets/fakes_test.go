package assets

import (
	"context"
	"fmt"
	"sync"

	"github.com/quayside-wallet/quayside/internal/events"
	"github.com/quayside-wallet/quayside/internal/logging"
)

const walletAddress = "3PMj3yGPBEa1Sx9X4TSBFeJCMMaE3wvKR4N"

type openSession struct{}

func (openSession) Await(context.Context) error { return nil }

type stubEvents struct {
	mu      sync.Mutex
	pending []events.Transfer
	err     error
	calls   int
}

func (s *stubEvents) Pending(context.Context) ([]events.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.pending, s.err
}

type fakeNode struct {
	mu           sync.Mutex
	details      map[string]AssetDetails
	rawBalances  map[string]int64
	listBalances []AddressBalance
	detailCalls  map[string]int
	balanceCalls int
	listCalls    int
	lastQuery    BalanceQuery
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		details:     make(map[string]AssetDetails),
		rawBalances: make(map[string]int64),
		detailCalls: make(map[string]int),
	}
}

func (n *fakeNode) AssetDetails(_ context.Context, assetID string) (AssetDetails, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.detailCalls[assetID]++
	details, ok := n.details[assetID]
	if !ok {
		return AssetDetails{}, fmt.Errorf("asset %s not found", assetID)
	}
	return details, nil
}

func (n *fakeNode) AddressBalances(_ context.Context, _ string, query BalanceQuery) ([]AddressBalance, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listCalls++
	n.lastQuery = query
	if query.AssetIDs == nil {
		return n.listBalances, nil
	}
	requested := make(map[string]bool, len(query.AssetIDs))
	for _, id := range query.AssetIDs {
		requested[id] = true
	}
	var out []AddressBalance
	for _, b := range n.listBalances {
		if requested[b.AssetID] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (n *fakeNode) AssetBalance(_ context.Context, _, assetID string) (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.balanceCalls++
	return n.rawBalances[assetID], nil
}

type fakeMarket struct {
	mu          sync.Mutex
	priceAssets []string
	trades      map[string][]Trade
	candles     map[string][]Candle
	books       map[string]Orderbook
	tradeCalls  map[string]int
	candleCalls map[string]int
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		priceAssets: []string{BaseAssetID, BitcoinAssetID, UsdAssetID, EuroAssetID, EthereumAssetID},
		trades:      make(map[string][]Trade),
		candles:     make(map[string][]Candle),
		books:       make(map[string]Orderbook),
		tradeCalls:  make(map[string]int),
		candleCalls: make(map[string]int),
	}
}

func (m *fakeMarket) rank(assetID string) int {
	for i, id := range m.priceAssets {
		if id == assetID {
			return i
		}
	}
	return len(m.priceAssets)
}

func (m *fakeMarket) ResolvePair(_ context.Context, assetA, assetB string) (Pair, error) {
	rankA, rankB := m.rank(assetA), m.rank(assetB)
	switch {
	case rankA < rankB:
		return Pair{AmountAsset: assetB, PriceAsset: assetA}, nil
	case rankB < rankA:
		return Pair{AmountAsset: assetA, PriceAsset: assetB}, nil
	case assetA < assetB:
		return Pair{AmountAsset: assetB, PriceAsset: assetA}, nil
	default:
		return Pair{AmountAsset: assetA, PriceAsset: assetB}, nil
	}
}

func (m *fakeMarket) Trades(_ context.Context, pair Pair, _ int) ([]Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tradeCalls[pair.Key()]++
	return m.trades[pair.Key()], nil
}

func (m *fakeMarket) Candles(_ context.Context, pair Pair, _, _ int) ([]Candle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candleCalls[pair.Key()]++
	return m.candles[pair.Key()], nil
}

func (m *fakeMarket) Orderbook(_ context.Context, amountAsset, priceAsset string) (Orderbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.books[amountAsset+"/"+priceAsset], nil
}

func newTestService(node *fakeNode, market *fakeMarket, source *stubEvents) *Service {
	if node == nil {
		node = newFakeNode()
	}
	if market == nil {
		market = newFakeMarket()
	}
	if source == nil {
		source = &stubEvents{}
	}
	return NewService(node, market, openSession{}, source, walletAddress, logging.Discard())
}
