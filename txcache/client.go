package txcache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/init4tech/signet-node/bundle"
	"github.com/init4tech/signet-node/signing"
)

const (
	transactionsPath = "transactions"
	bundlesPath      = "bundles"
	ordersPath       = "orders"
)

// Client forwards transactions, bundles, and signed orders to a shared
// transaction cache service, and reads back whatever is currently
// pending there. It is the Go counterpart of the node's own HTTP API: a
// thin, typed layer over net/http, since no third-party HTTP client
// appears anywhere in the example pack for this to reuse — a REST POST
// of a JSON body and a GET of a JSON array has no domain-specific
// library to reach for beyond the standard one.
//
// Grounded on original_source/crates/tx-cache/src/client.rs's TxCache.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New returns a Client targeting baseURL, using http.DefaultClient.
func New(baseURL string) (*Client, error) {
	return NewWithHTTPClient(baseURL, http.DefaultClient)
}

// NewWithHTTPClient returns a Client targeting baseURL using an
// explicit *http.Client, for callers that need custom timeouts,
// transports, or TLS configuration.
func NewWithHTTPClient(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("txcache: invalid base URL: %w", err)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: u, http: hc}, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

// postJSON POSTs obj as a JSON body to path and, if out is non-nil,
// decodes the JSON response body into it.
func (c *Client) postJSON(ctx context.Context, path string, obj, out any) error {
	body, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("txcache: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("txcache: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("txcache: request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return errorForStatus(resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return fmt.Errorf("txcache: building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("txcache: request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return errorForStatus(resp.StatusCode, string(respBody))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// transactionsResponse is the wire shape of a GET /transactions
// response.
type transactionsResponse struct {
	Transactions []*gethtypes.Transaction `json:"transactions"`
}

// ordersResponse is the wire shape of a GET /orders response, cursor
// pagination included.
type ordersResponse struct {
	Orders     []*signing.SignedOrder `json:"orders"`
	NextCursor *string                `json:"nextCursor,omitempty"`
}

// BundleReceipt is the response to a successfully forwarded bundle.
type BundleReceipt struct {
	BundleHash string `json:"bundleHash"`
}

// SubmitTransaction forwards a signed rollup transaction to the cache.
func (c *Client) SubmitTransaction(ctx context.Context, tx *gethtypes.Transaction) error {
	return c.postJSON(ctx, transactionsPath, tx, nil)
}

// SubmitBundle forwards a SignetEthBundle to the cache, returning the
// bundle hash it was accepted under.
func (c *Client) SubmitBundle(ctx context.Context, b *bundle.SignetEthBundle) (*BundleReceipt, error) {
	var receipt BundleReceipt
	if err := c.postJSON(ctx, bundlesPath, b, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// SubmitOrder forwards a signed order to the cache. Implements
// signing.OrderSubmitter, so an OrderSender can submit directly through
// a Client.
func (c *Client) SubmitOrder(ctx context.Context, order *signing.SignedOrder) error {
	return c.postJSON(ctx, ordersPath, order, nil)
}

// GetTransactions returns every rollup transaction currently pending in
// the cache.
func (c *Client) GetTransactions(ctx context.Context) ([]*gethtypes.Transaction, error) {
	var resp transactionsResponse
	if err := c.getJSON(ctx, transactionsPath, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// GetOrders returns one page of signed orders pending in the cache,
// plus a cursor for the next page (empty once there is nothing left).
func (c *Client) GetOrders(ctx context.Context, cursor string) ([]*signing.SignedOrder, string, error) {
	path := ordersPath
	if cursor != "" {
		path = fmt.Sprintf("%s?cursor=%s", ordersPath, url.QueryEscape(cursor))
	}
	var resp ordersResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, "", err
	}
	next := ""
	if resp.NextCursor != nil {
		next = *resp.NextCursor
	}
	return resp.Orders, next, nil
}

// AllOrders drains every page of pending signed orders starting from an
// empty cursor, the Go equivalent of the original's
// stream::unfold-based OrderSource::get_orders.
func (c *Client) AllOrders(ctx context.Context) ([]*signing.SignedOrder, error) {
	var all []*signing.SignedOrder
	cursor := ""
	for {
		page, next, err := c.GetOrders(ctx, cursor)
		if err != nil {
			return all, err
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}
