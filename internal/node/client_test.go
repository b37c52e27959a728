package node

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quayside-wallet/quayside/internal/assets"
)

const testAddress = "3PMj3yGPBEa1Sx9X4TSBFeJCMMaE3wvKR4N"

// newTestNode serves the node's split balance surface: issued assets under
// /assets/balance, the base currency under /addresses/balance.
func newTestNode(t *testing.T) (*Client, func()) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/addresses/balance/"+testAddress, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address": "` + testAddress + `", "balance": 250000000}`))
	})
	mux.HandleFunc("/assets/balance/"+testAddress, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"balances": [
            {"assetId": "asset-x", "balance": 500, "issueTransaction": {"decimals": 2}},
            {"assetId": "asset-y", "balance": 3000, "issueTransaction": {"decimals": 3}}
        ]}`))
	})
	mux.HandleFunc("/assets/balance/"+testAddress+"/asset-x", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"assetId": "asset-x", "balance": 500}`))
	})
	mux.HandleFunc("/assets/details/asset-x", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
            "assetId": "asset-x",
            "issueTimestamp": 1500000000000,
            "issuer": "issuer-address",
            "name": "Asset X",
            "description": "test asset",
            "decimals": 2,
            "reissuable": true,
            "quantity": 1000000
        }`))
	})

	srv := httptest.NewServer(mux)
	return NewClient(srv.URL), srv.Close
}

func TestAssetDetails(t *testing.T) {
	client, cleanup := newTestNode(t)
	defer cleanup()

	details, err := client.AssetDetails(context.Background(), "asset-x")
	if err != nil {
		t.Fatalf("AssetDetails: %v", err)
	}
	if details.ID != "asset-x" || details.Name != "Asset X" || details.Decimals != 2 {
		t.Fatalf("unexpected details: %+v", details)
	}
	if details.Timestamp.UnixMilli() != 1500000000000 || details.Sender != "issuer-address" {
		t.Fatalf("issue metadata not mapped: %+v", details)
	}
}

func TestAddressBalancesIncludesBaseCurrency(t *testing.T) {
	client, cleanup := newTestNode(t)
	defer cleanup()

	balances, err := client.AddressBalances(context.Background(), testAddress, assets.BalanceQuery{})
	if err != nil {
		t.Fatalf("AddressBalances: %v", err)
	}
	if len(balances) != 3 {
		t.Fatalf("expected base currency plus two issued assets, got %+v", balances)
	}
	if balances[0].AssetID != assets.BaseAssetID || balances[0].Tokens != 2.5 {
		t.Fatalf("base currency must lead the listing at 2.5 tokens, got %+v", balances[0])
	}
	if balances[1].Tokens != 5 || balances[2].Tokens != 3 {
		t.Fatalf("issued balances not converted by their decimals: %+v", balances[1:])
	}
}

func TestAddressBalancesFiltersRequestedIDs(t *testing.T) {
	client, cleanup := newTestNode(t)
	defer cleanup()
	ctx := context.Background()

	balances, err := client.AddressBalances(ctx, testAddress, assets.BalanceQuery{AssetIDs: []string{"asset-y"}})
	if err != nil {
		t.Fatalf("AddressBalances: %v", err)
	}
	if len(balances) != 1 || balances[0].AssetID != "asset-y" {
		t.Fatalf("base currency must be excluded when not requested: %+v", balances)
	}

	balances, err = client.AddressBalances(ctx, testAddress, assets.BalanceQuery{AssetIDs: []string{assets.BaseAssetID, "asset-x"}})
	if err != nil {
		t.Fatalf("AddressBalances: %v", err)
	}
	if len(balances) != 2 || balances[0].AssetID != assets.BaseAssetID || balances[1].AssetID != "asset-x" {
		t.Fatalf("requested base currency must be served: %+v", balances)
	}
}

func TestAddressBalancesPaginates(t *testing.T) {
	client, cleanup := newTestNode(t)
	defer cleanup()

	balances, err := client.AddressBalances(context.Background(), testAddress, assets.BalanceQuery{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("AddressBalances: %v", err)
	}
	if len(balances) != 1 || balances[0].AssetID != "asset-x" {
		t.Fatalf("expected the second entry only, got %+v", balances)
	}

	balances, err = client.AddressBalances(context.Background(), testAddress, assets.BalanceQuery{Offset: 10})
	if err != nil {
		t.Fatalf("AddressBalances: %v", err)
	}
	if len(balances) != 0 {
		t.Fatalf("offset past the end must yield nothing, got %+v", balances)
	}
}

func TestAssetBalanceRoutesBaseCurrencyToAddressEndpoint(t *testing.T) {
	client, cleanup := newTestNode(t)
	defer cleanup()
	ctx := context.Background()

	raw, err := client.AssetBalance(ctx, testAddress, assets.BaseAssetID)
	if err != nil {
		t.Fatalf("AssetBalance base: %v", err)
	}
	if raw != 250000000 {
		t.Fatalf("expected the address balance, got %d", raw)
	}

	raw, err = client.AssetBalance(ctx, testAddress, "asset-x")
	if err != nil {
		t.Fatalf("AssetBalance asset: %v", err)
	}
	if raw != 500 {
		t.Fatalf("expected the issued-asset balance, got %d", raw)
	}
}

func TestNodeErrorsPropagate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.AssetDetails(context.Background(), "asset-x"); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
	if _, err := client.AddressBalances(context.Background(), testAddress, assets.BalanceQuery{}); err == nil {
		t.Fatal("expected an error when a balance leg fails")
	}
}
