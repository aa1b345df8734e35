package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurrencyCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "already normalized", input: "USD", expected: "USD"},
		{name: "lower case", input: "eur", expected: "EUR"},
		{name: "surrounding whitespace", input: "  gbp\t", expected: "GBP"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := NewCurrencyCode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				assert.True(t, code.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, code.String())
		})
	}
}

func TestCurrencyCode_NormalizeIsIdempotent(t *testing.T) {
	for _, raw := range []string{"usd", " Eur ", "GbP", "rub\n"} {
		once := MustCurrencyCode(raw)
		twice := MustCurrencyCode(once.String())
		assert.Equal(t, once, twice, "normalizing %q twice changed the code", raw)
	}
}

func TestCurrencyCode_Equality(t *testing.T) {
	assert.Equal(t, MustCurrencyCode("usd"), MustCurrencyCode(" USD "))
	assert.NotEqual(t, MustCurrencyCode("USD"), MustCurrencyCode("EUR"))
}

func TestCurrencyCode_JSON(t *testing.T) {
	var code CurrencyCode
	require.NoError(t, json.Unmarshal([]byte(`" jpy "`), &code))
	assert.Equal(t, "JPY", code.String())

	data, err := json.Marshal(code)
	require.NoError(t, err)
	assert.JSONEq(t, `"JPY"`, string(data))

	err = json.Unmarshal([]byte(`"  "`), &code)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewExchangeEdge(t *testing.T) {
	usd := MustCurrencyCode("USD")
	eur := MustCurrencyCode("EUR")

	tests := []struct {
		name    string
		from    CurrencyCode
		to      CurrencyCode
		rate    string
		want    string
		wantErr bool
	}{
		{name: "valid", from: usd, to: eur, rate: "0.85", want: "0.85"},
		{name: "rounded to precision", from: usd, to: eur, rate: "0.12345678", want: "0.123457"},
		{name: "zero rate", from: usd, to: eur, rate: "0", wantErr: true},
		{name: "negative rate", from: usd, to: eur, rate: "-1.5", wantErr: true},
		{name: "rounds to zero", from: usd, to: eur, rate: "0.0000001", wantErr: true},
		{name: "self loop", from: usd, to: usd, rate: "1", wantErr: true},
		{name: "zero endpoint", from: CurrencyCode{}, to: eur, rate: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edge, err := NewExchangeEdge(tt.from, tt.to, decimal.RequireFromString(tt.rate))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				assert.Equal(t, ErrorTypeInvalidArgument, ErrorTypeOf(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, edge.Rate().Equal(decimal.RequireFromString(tt.want)), "rate = %s", edge.Rate())
			assert.Equal(t, tt.from, edge.From())
			assert.Equal(t, tt.to, edge.To())
		})
	}
}

func TestNewExchangeEdge_NonPositiveRatesAlwaysFail(t *testing.T) {
	for _, rate := range []int64{0, -1, -100, -999999} {
		t.Run(fmt.Sprint(rate), func(t *testing.T) {
			_, err := ParseExchangeEdge("USD", "EUR", decimal.NewFromInt(rate))
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestExchangeEdge_Equal(t *testing.T) {
	a := MustExchangeEdge("USD", "EUR", "0.85")
	b := MustExchangeEdge("usd", "eur", "0.850")
	c := MustExchangeEdge("USD", "EUR", "0.86")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, a.Pair(), c.Pair())
}

func TestExchangeEdge_Inverse(t *testing.T) {
	edge := MustExchangeEdge("USD", "RUB", "1.2")

	inverse, err := edge.Inverse()
	require.NoError(t, err)

	assert.Equal(t, "RUB", inverse.From().String())
	assert.Equal(t, "USD", inverse.To().String())
	assert.True(t, inverse.Rate().Equal(decimal.RequireFromString("0.833333")), "rate = %s", inverse.Rate())
}

func TestDistinctCurrencies(t *testing.T) {
	edges := []ExchangeEdge{
		MustExchangeEdge("USD", "EUR", "0.85"),
		MustExchangeEdge("EUR", "GBP", "0.9"),
		MustExchangeEdge("GBP", "USD", "1.3"),
	}

	currencies := DistinctCurrencies(edges)

	assert.Equal(t, []CurrencyCode{
		MustCurrencyCode("USD"),
		MustCurrencyCode("EUR"),
		MustCurrencyCode("GBP"),
	}, currencies)
	assert.Empty(t, DistinctCurrencies(nil))
}

func TestServiceError(t *testing.T) {
	cause := errors.New("disk on fire")
	err := fmt.Errorf("loading: %w", NewServiceError(ErrorTypeNotFound, "exchange store missing", cause))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrNoPathFound)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorTypeNotFound, ErrorTypeOf(err))
	assert.Equal(t, ErrorTypeUnknown, ErrorTypeOf(cause))
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Equal(t, "not_found", ErrorTypeNotFound.String())
}

func TestToEdges(t *testing.T) {
	edges, err := ToEdges([]ExchangeRequest{
		{From: "usd", To: "eur", Rate: decimal.RequireFromString("0.85")},
	})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Equal(MustExchangeEdge("USD", "EUR", "0.85")))

	_, err = ToEdges([]ExchangeRequest{{From: "usd", To: "usd", Rate: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestResponseMapping(t *testing.T) {
	steps := []ConversionStep{{
		From:  MustCurrencyCode("USD"),
		To:    MustCurrencyCode("EUR"),
		Value: decimal.RequireFromString("85"),
	}}

	data, err := json.Marshal(NewConversionStepResponses(steps))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"from":"USD","to":"EUR","value":"85"}]`, string(data))

	exchanges := NewExchangeResponses([]ExchangeEdge{MustExchangeEdge("USD", "EUR", "0.85")})
	assert.Equal(t, "USD", exchanges[0].From)
	assert.Equal(t, []CurrencyResponse{{Currency: "USD"}}, NewCurrencyResponses([]CurrencyCode{MustCurrencyCode("usd")}))
}
