package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// DefaultRetryInterval paces retried price requests
const DefaultRetryInterval = 2 * time.Second

// Retrying retries a PriceSource when the source is unavailable. Malformed
// or invalid quotes are returned immediately.
type Retrying struct {
	next    usecase.PriceSource
	retries int
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewRetrying wraps next with up to retries extra attempts spaced by interval
func NewRetrying(next usecase.PriceSource, retries int, interval time.Duration, log *slog.Logger) *Retrying {
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	return &Retrying{
		next:    next,
		retries: max(retries, 0),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		log:     log,
	}
}

// Quote implements PriceSource
func (r *Retrying) Quote(ctx context.Context, assetID, currency string) (*domain.PriceQuote, error) {
	for attempt := 0; ; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPriceUnavailable, err)
		}

		quote, err := r.next.Quote(ctx, assetID, currency)
		if err == nil {
			return quote, nil
		}
		if !errors.Is(err, domain.ErrPriceUnavailable) || attempt >= r.retries || ctx.Err() != nil {
			return nil, err
		}
		r.log.Warn("price source unavailable, retrying", "asset", assetID, "attempt", attempt+1, "of", r.retries, "error", err)
	}
}

// Ensure Retrying implements PriceSource
var _ usecase.PriceSource = (*Retrying)(nil)
