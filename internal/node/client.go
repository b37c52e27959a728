package node

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quayside-wallet/quayside/internal/assets"
)

// Client is a thin REST client for the ledger node. The node splits its
// balance surface in two: issued assets live under /assets/balance, while
// the base currency has its own /addresses/balance endpoint and never shows
// up in the issued-asset listing. The client folds both back into one view.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a node client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type assetDetailsResponse struct {
	AssetID        string  `json:"assetId"`
	IssueTimestamp int64   `json:"issueTimestamp"`
	Issuer         string  `json:"issuer"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Decimals       int     `json:"decimals"`
	Reissuable     bool    `json:"reissuable"`
	Quantity       float64 `json:"quantity"`
}

// AssetDetails fetches the issue metadata of an asset.
func (c *Client) AssetDetails(ctx context.Context, assetID string) (assets.AssetDetails, error) {
	var body assetDetailsResponse
	if err := c.getJSON(ctx, "/assets/details/"+assetID, &body); err != nil {
		return assets.AssetDetails{}, err
	}
	return assets.AssetDetails{
		ID:          body.AssetID,
		Name:        body.Name,
		Description: body.Description,
		Decimals:    body.Decimals,
		Reissuable:  body.Reissuable,
		Quantity:    body.Quantity,
		Timestamp:   time.UnixMilli(body.IssueTimestamp),
		Sender:      body.Issuer,
	}, nil
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

// AssetBalance fetches the raw balance of one asset, not divided by its
// precision. The base asset is routed to the address-balance endpoint; asset
// routes reject its id.
func (c *Client) AssetBalance(ctx context.Context, address, assetID string) (int64, error) {
	path := "/assets/balance/" + address + "/" + assetID
	if assetID == assets.BaseAssetID {
		path = "/addresses/balance/" + address
	}

	var body balanceResponse
	if err := c.getJSON(ctx, path, &body); err != nil {
		return 0, err
	}
	return body.Balance, nil
}

type addressBalancesResponse struct {
	Balances []struct {
		AssetID          string `json:"assetId"`
		Balance          int64  `json:"balance"`
		IssueTransaction struct {
			Decimals int `json:"decimals"`
		} `json:"issueTransaction"`
	} `json:"balances"`
}

// AddressBalances lists the address's asset balances in display units,
// optionally restricted to a set of ids and paginated. The base-currency
// balance leads the listing, fetched from its own endpoint since the
// issued-asset route omits it.
func (c *Client) AddressBalances(ctx context.Context, address string, query assets.BalanceQuery) ([]assets.AddressBalance, error) {
	var requested map[string]bool
	if query.AssetIDs != nil {
		requested = make(map[string]bool, len(query.AssetIDs))
		for _, id := range query.AssetIDs {
			requested[id] = true
		}
	}

	wantBase := requested == nil || requested[assets.BaseAssetID]

	var (
		base   balanceResponse
		issued addressBalancesResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	if wantBase {
		g.Go(func() error {
			return c.getJSON(gctx, "/addresses/balance/"+address, &base)
		})
	}
	g.Go(func() error {
		return c.getJSON(gctx, "/assets/balance/"+address, &issued)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]assets.AddressBalance, 0, len(issued.Balances)+1)
	if wantBase {
		out = append(out, assets.AddressBalance{
			AssetID: assets.BaseAssetID,
			Tokens:  float64(base.Balance) / math.Pow10(assets.BaseAssetPrecision),
		})
	}
	for _, entry := range issued.Balances {
		if requested != nil && !requested[entry.AssetID] {
			continue
		}
		out = append(out, assets.AddressBalance{
			AssetID: entry.AssetID,
			Tokens:  float64(entry.Balance) / math.Pow10(entry.IssueTransaction.Decimals),
		})
	}

	return paginate(out, query.Limit, query.Offset), nil
}

func paginate(list []assets.AddressBalance, limit, offset int) []assets.AddressBalance {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build node request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("node request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node request %s: unexpected status %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode node response %s: %w", path, err)
	}
	return nil
}
