package models

import (
	"encoding/json"
	"strings"
)

// CurrencyCode is a normalized (trimmed, upper-cased) currency identifier.
// The zero value is not a valid code; build codes with NewCurrencyCode.
type CurrencyCode struct {
	code string
}

// NewCurrencyCode normalizes raw and rejects empty or whitespace-only input.
func NewCurrencyCode(raw string) (CurrencyCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return CurrencyCode{}, NewServiceError(ErrorTypeInvalidArgument, "currency code cannot be empty", nil)
	}
	return CurrencyCode{code: normalized}, nil
}

// MustCurrencyCode is NewCurrencyCode for literals known to be valid. It panics otherwise.
func MustCurrencyCode(raw string) CurrencyCode {
	code, err := NewCurrencyCode(raw)
	if err != nil {
		panic(err)
	}
	return code
}

func (c CurrencyCode) String() string {
	return c.code
}

func (c CurrencyCode) IsZero() bool {
	return c.code == ""
}

func (c CurrencyCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.code)
}

func (c *CurrencyCode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return NewServiceError(ErrorTypeInvalidArgument, "currency code must be a string", err)
	}
	code, err := NewCurrencyCode(raw)
	if err != nil {
		return err
	}
	*c = code
	return nil
}

// DistinctCurrencies returns every code appearing as either endpoint of an edge,
// in first-seen order.
func DistinctCurrencies(edges []ExchangeEdge) []CurrencyCode {
	seen := make(map[CurrencyCode]struct{}, len(edges))
	currencies := make([]CurrencyCode, 0, len(edges))
	for _, edge := range edges {
		for _, code := range [2]CurrencyCode{edge.From(), edge.To()} {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			currencies = append(currencies, code)
		}
	}
	return currencies
}
