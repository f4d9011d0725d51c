package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/domain/config"
)

// nativeDisplayPrecision bounds the fractional digits kept in
// FundingAmount.Native for market quotes. Units are computed exactly.
const nativeDisplayPrecision = 36

// ResolveFunding turns a funding configuration into a constructor amount
type ResolveFunding struct {
	prices PriceSource
	log    *slog.Logger
}

// NewResolveFunding creates a new ResolveFunding use case
func NewResolveFunding(prices PriceSource, log *slog.Logger) *ResolveFunding {
	return &ResolveFunding{
		prices: prices,
		log:    log,
	}
}

// Run resolves the funding amount for chainID. Every failure is an
// *domain.OracleError.
func (uc *ResolveFunding) Run(ctx context.Context, chainID domain.ChainID, funding config.FundingConfig) (*domain.FundingAmount, error) {
	switch funding.Mode {
	case domain.FundingModeFixed:
		return uc.resolveFixed(chainID, funding)
	case domain.FundingModeMarket:
		return uc.resolveMarket(ctx, chainID, funding)
	default:
		return nil, &domain.OracleError{
			ChainID: chainID,
			Kind:    domain.ErrInvalidAmount,
			Err:     fmt.Errorf("unknown funding mode %q", funding.Mode),
		}
	}
}

func (uc *ResolveFunding) resolveFixed(chainID domain.ChainID, funding config.FundingConfig) (*domain.FundingAmount, error) {
	native, err := domain.ParseNativeAmount(strings.TrimSpace(funding.Amount))
	if err != nil {
		return nil, oracleError(chainID, err)
	}

	units, err := domain.ExactUnits(native, domain.NativeDecimals)
	if err != nil {
		return nil, oracleError(chainID, err)
	}

	uc.log.Debug("resolved fixed funding", "chain_id", chainID, "native", native.String(), "units", units.String())

	return &domain.FundingAmount{
		Mode:     domain.FundingModeFixed,
		Native:   native,
		Units:    units,
		Decimals: domain.NativeDecimals,
		Rounding: domain.RoundTruncate,
	}, nil
}

func (uc *ResolveFunding) resolveMarket(ctx context.Context, chainID domain.ChainID, funding config.FundingConfig) (*domain.FundingAmount, error) {
	asset, err := domain.LookupNativeAsset(chainID)
	if err != nil {
		return nil, oracleError(chainID, err)
	}

	target, err := domain.ParseNativeAmount(strings.TrimSpace(funding.TargetValue))
	if err != nil {
		return nil, oracleError(chainID, err)
	}
	if target.IsZero() {
		return nil, oracleError(chainID, fmt.Errorf("%w: target value must be positive", domain.ErrInvalidAmount))
	}

	currency := strings.ToLower(strings.TrimSpace(funding.Currency))
	if currency == "" {
		return nil, oracleError(chainID, fmt.Errorf("%w: no fiat currency configured", domain.ErrInvalidAmount))
	}

	policy, err := domain.ParseRoundingPolicy(string(funding.Rounding))
	if err != nil {
		return nil, oracleError(chainID, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err))
	}

	quote, err := uc.prices.Quote(ctx, asset.ID, currency)
	if err != nil {
		return nil, oracleError(chainID, err)
	}
	if quote == nil || !quote.Price.IsPositive() {
		price := "missing"
		if quote != nil {
			price = quote.Price.String()
		}
		return nil, oracleError(chainID, fmt.Errorf("%w: %s %s price is %s", domain.ErrInvalidPrice, asset.ID, currency, price))
	}

	units, err := domain.DivideToUnits(target, quote.Price, domain.NativeDecimals, policy)
	if err != nil {
		return nil, oracleError(chainID, err)
	}

	native := target.DivRound(quote.Price, nativeDisplayPrecision)
	uc.log.Info("resolved market funding",
		"chain_id", chainID,
		"asset", asset.ID,
		"target", target.String()+" "+currency,
		"price", quote.Price.String(),
		"native", native.String(),
		"units", units.String(),
		"rounding", policy)

	return &domain.FundingAmount{
		Mode:     domain.FundingModeMarket,
		Native:   native,
		Units:    units,
		Decimals: domain.NativeDecimals,
		Rounding: policy,
		Quote:    quote,
	}, nil
}

// oracleError classifies err by the first oracle kind found in its chain.
func oracleError(chainID domain.ChainID, err error) error {
	var already *domain.OracleError
	if errors.As(err, &already) {
		return err
	}

	kinds := []error{
		domain.ErrUnsupportedChain,
		domain.ErrPriceUnavailable,
		domain.ErrMalformedQuote,
		domain.ErrInvalidPrice,
		domain.ErrInvalidAmount,
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return &domain.OracleError{ChainID: chainID, Kind: kind, Err: err}
		}
	}
	return &domain.OracleError{ChainID: chainID, Kind: domain.ErrPriceUnavailable, Err: err}
}
