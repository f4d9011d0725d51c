package pricefeed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/domain/config"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// DefaultBaseURL is the public CoinGecko API
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	// DefaultTimeout bounds a single price request
	DefaultTimeout = 10 * time.Second

	apiKeyHeader = "x-cg-demo-api-key"
)

// CoinGeckoClient implements PriceSource against the CoinGecko simple price API
type CoinGeckoClient struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	now     func() time.Time
	log     *slog.Logger
}

// NewCoinGeckoClient creates a new CoinGeckoClient
func NewCoinGeckoClient(cfg *config.RuntimeConfig, log *slog.Logger) *CoinGeckoClient {
	baseURL := cfg.Oracle.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Oracle.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CoinGeckoClient{
		client:  &fasthttp.Client{Name: "actions-deploy"},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.Oracle.APIKey,
		timeout: timeout,
		now:     time.Now,
		log:     log.With("component", "coingecko"),
	}
}

// Quote fetches the current price of assetID in currency. Quotes are never cached.
func (c *CoinGeckoClient) Quote(ctx context.Context, assetID, currency string) (*domain.PriceQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPriceUnavailable, err)
	}

	req := fasthttp.AcquireRequest()
	req.SetRequestURI(c.baseURL + "/simple/price")
	req.URI().QueryArgs().Add("ids", assetID)
	req.URI().QueryArgs().Add("vs_currencies", currency)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	deadline := c.now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	c.log.Debug("requesting price", "asset", assetID, "currency", currency, "url", c.baseURL+"/simple/price")

	status, body, err := c.do(ctx, req, deadline)
	if err != nil {
		c.log.Warn("price request failed", "asset", assetID, "error", err)
		return nil, fmt.Errorf("%w: request failed: %w", domain.ErrPriceUnavailable, err)
	}

	if status < 200 || status > 299 {
		c.log.Warn("price API returned an error", "asset", assetID, "status", status, "body", truncate(body, 256))
		return nil, fmt.Errorf("%w: price API returned status %d", domain.ErrPriceUnavailable, status)
	}

	price, err := decodePrice(body, assetID, currency)
	if err != nil {
		return nil, err
	}

	return &domain.PriceQuote{
		AssetID:   assetID,
		Currency:  currency,
		Price:     price,
		FetchedAt: c.now(),
	}, nil
}

// do runs req until deadline or until ctx is done, whichever comes first.
// DoDeadline ignores ctx, so an abandoned request keeps running in the
// background and releases req and its response when it ends.
func (c *CoinGeckoClient) do(ctx context.Context, req *fasthttp.Request, deadline time.Time) (int, []byte, error) {
	resp := fasthttp.AcquireResponse()
	done := make(chan error, 1)
	go func() {
		done <- c.client.DoDeadline(req, resp, deadline)
	}()

	select {
	case err := <-done:
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)
		if err != nil {
			return 0, nil, err
		}
		return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
	case <-ctx.Done():
		go func() {
			<-done
			fasthttp.ReleaseRequest(req)
			fasthttp.ReleaseResponse(resp)
		}()
		return 0, nil, ctx.Err()
	}
}

// decodePrice extracts body[assetID][currency] as an exact decimal
func decodePrice(body []byte, assetID, currency string) (decimal.Decimal, error) {
	var prices map[string]map[string]jsoniter.RawMessage
	if err := json.Unmarshal(body, &prices); err != nil {
		return decimal.Zero, fmt.Errorf("%w: cannot decode response: %v", domain.ErrMalformedQuote, err)
	}

	byCurrency, ok := prices[assetID]
	if !ok || byCurrency == nil {
		return decimal.Zero, fmt.Errorf("%w: response has no entry for %s", domain.ErrMalformedQuote, assetID)
	}
	raw, ok := byCurrency[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: response has no %s price for %s", domain.ErrMalformedQuote, currency, assetID)
	}

	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, fmt.Errorf("%w: %s %s price is null", domain.ErrMalformedQuote, assetID, currency)
	}

	var price decimal.Decimal
	if err := price.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %s price %s is not numeric", domain.ErrMalformedQuote, assetID, currency, raw)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s %s price is %s", domain.ErrInvalidPrice, assetID, currency, price)
	}
	return price, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// Ensure CoinGeckoClient implements PriceSource
var _ usecase.PriceSource = (*CoinGeckoClient)(nil)
