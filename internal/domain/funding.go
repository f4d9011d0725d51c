package domain

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// FundingMode selects how the constructor amount is obtained
type FundingMode string

const (
	FundingModeFixed  FundingMode = "fixed"
	FundingModeMarket FundingMode = "market"
)

// RoundingPolicy decides how a native amount is mapped onto whole smallest
// units when it is not exactly representable.
type RoundingPolicy string

const (
	// RoundTruncate drops the remainder. The result is at most one unit
	// below the exact value and never over-funds.
	RoundTruncate RoundingPolicy = "truncate"
	// RoundCeil adds one unit whenever there is a remainder.
	RoundCeil RoundingPolicy = "ceil"
	// RoundNearest rounds half to even.
	RoundNearest RoundingPolicy = "nearest"
)

// ParseRoundingPolicy accepts the configured policy name; empty means truncate.
func ParseRoundingPolicy(s string) (RoundingPolicy, error) {
	switch RoundingPolicy(s) {
	case "", RoundTruncate:
		return RoundTruncate, nil
	case RoundCeil, RoundNearest:
		return RoundingPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown rounding policy %q (want truncate, ceil or nearest)", s)
	}
}

// PriceQuote is a fiat price for a native asset, valid only when fetched.
type PriceQuote struct {
	AssetID   string
	Currency  string
	Price     decimal.Decimal
	FetchedAt time.Time
}

// FundingAmount is the resolved constructor argument.
type FundingAmount struct {
	Mode     FundingMode
	Native   decimal.Decimal
	Units    *big.Int
	Decimals int32
	Rounding RoundingPolicy
	Quote    *PriceQuote
}

// ParseNativeAmount parses a non-negative decimal literal such as "0.00003".
func ParseNativeAmount(literal string) (decimal.Decimal, error) {
	if literal == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, literal)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, literal)
	}
	return d, nil
}

// ExactUnits converts a native amount to smallest units, failing if any
// precision would be lost.
func ExactUnits(native decimal.Decimal, decimals int32) (*big.Int, error) {
	scaled := native.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("%w: %s has more than %d fractional digits", ErrInvalidAmount, native, decimals)
	}
	return scaled.BigInt(), nil
}

// DivideToUnits computes value/price expressed in smallest units, applying
// the rounding policy to the exact integer remainder.
func DivideToUnits(value, price decimal.Decimal, decimals int32, policy RoundingPolicy) (*big.Int, error) {
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	if value.IsNegative() {
		return nil, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, value)
	}

	q, r := value.Shift(decimals).QuoRem(price, 0)
	units := q.BigInt()
	if r.IsZero() {
		return units, nil
	}

	switch policy {
	case RoundTruncate, "":
	case RoundCeil:
		units.Add(units, big.NewInt(1))
	case RoundNearest:
		switch r.Mul(decimal.NewFromInt(2)).Cmp(price) {
		case 1:
			units.Add(units, big.NewInt(1))
		case 0:
			if units.Bit(0) == 1 {
				units.Add(units, big.NewInt(1))
			}
		}
	default:
		return nil, fmt.Errorf("unknown rounding policy %q", policy)
	}
	return units, nil
}
