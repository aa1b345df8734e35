package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RatePrecision is the number of decimal places an edge rate is rounded to on construction.
const RatePrecision int32 = 6

// CurrencyPair identifies a directed edge regardless of its rate.
type CurrencyPair struct {
	From CurrencyCode
	To   CurrencyCode
}

func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s->%s", p.From, p.To)
}

// ExchangeEdge is a directed, rated connection between two currencies.
// Edges are immutable; use Equal for structural comparison since decimal
// values do not compare with ==.
type ExchangeEdge struct {
	from CurrencyCode
	to   CurrencyCode
	rate decimal.Decimal
}

// NewExchangeEdge validates the endpoints and rounds rate to RatePrecision.
// It fails with InvalidArgument when an endpoint is unset, from equals to, or
// the rounded rate is not positive.
func NewExchangeEdge(from, to CurrencyCode, rate decimal.Decimal) (ExchangeEdge, error) {
	if from.IsZero() || to.IsZero() {
		return ExchangeEdge{}, NewServiceError(ErrorTypeInvalidArgument, "exchange endpoints must be set", nil)
	}
	if from == to {
		return ExchangeEdge{}, NewServiceError(ErrorTypeInvalidArgument,
			fmt.Sprintf("exchange cannot connect %s to itself", from), nil)
	}
	rounded := rate.Round(RatePrecision)
	if !rounded.IsPositive() {
		return ExchangeEdge{}, NewServiceError(ErrorTypeInvalidArgument,
			fmt.Sprintf("exchange rate %s for %s->%s must be positive", rate, from, to), nil)
	}
	return ExchangeEdge{from: from, to: to, rate: rounded}, nil
}

// ParseExchangeEdge builds an edge from raw, not yet normalized currency codes.
func ParseExchangeEdge(from, to string, rate decimal.Decimal) (ExchangeEdge, error) {
	fromCode, err := NewCurrencyCode(from)
	if err != nil {
		return ExchangeEdge{}, err
	}
	toCode, err := NewCurrencyCode(to)
	if err != nil {
		return ExchangeEdge{}, err
	}
	return NewExchangeEdge(fromCode, toCode, rate)
}

// MustExchangeEdge is ParseExchangeEdge for fixtures. It panics on invalid input.
func MustExchangeEdge(from, to, rate string) ExchangeEdge {
	edge, err := ParseExchangeEdge(from, to, decimal.RequireFromString(rate))
	if err != nil {
		panic(err)
	}
	return edge
}

func (e ExchangeEdge) From() CurrencyCode    { return e.from }
func (e ExchangeEdge) To() CurrencyCode      { return e.to }
func (e ExchangeEdge) Rate() decimal.Decimal { return e.rate }

func (e ExchangeEdge) Pair() CurrencyPair {
	return CurrencyPair{From: e.from, To: e.to}
}

// Equal reports structural equality on (From, To, Rate).
func (e ExchangeEdge) Equal(other ExchangeEdge) bool {
	return e.from == other.from && e.to == other.to && e.rate.Equal(other.rate)
}

// Inverse synthesizes (To, From, 1/Rate).
func (e ExchangeEdge) Inverse() (ExchangeEdge, error) {
	inverted := decimal.NewFromInt(1).DivRound(e.rate, RatePrecision+2)
	return NewExchangeEdge(e.to, e.from, inverted)
}

func (e ExchangeEdge) String() string {
	return fmt.Sprintf("%s->%s@%s", e.from, e.to, e.rate)
}

// ConversionStep is one hop of a resolved conversion chain: Value is the
// running amount after converting into To.
type ConversionStep struct {
	From  CurrencyCode
	To    CurrencyCode
	Value decimal.Decimal
}
