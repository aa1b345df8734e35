package validation

import (
	"fmt"
	"strings"

	"github.com/dalfonso89/node-currency-converter/internal/models"
)

// Policy selects how proposed edges are filtered against the existing set.
type Policy int

const (
	// DirectOnly drops proposed edges structurally equal to an existing one.
	DirectOnly Policy = iota
	// WithInverses adds the reciprocal of every proposed edge and drops any
	// candidate whose currency pair already exists, whatever its rate.
	WithInverses
)

func (p Policy) String() string {
	switch p {
	case DirectOnly:
		return "direct-only"
	case WithInverses:
		return "with-inverses"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(raw string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "direct-only":
		return DirectOnly, nil
	case "with-inverses":
		return WithInverses, nil
	default:
		return DirectOnly, models.NewServiceError(models.ErrorTypeInvalidArgument,
			fmt.Sprintf("unknown validation policy %q", raw), nil)
	}
}

// Validator filters proposed exchange edges so that only genuinely new
// connections reach the repository.
type Validator struct {
	policy Policy
}

func NewValidator(policy Policy) *Validator {
	return &Validator{policy: policy}
}

func (v *Validator) Policy() Policy {
	return v.policy
}

// Validate returns the edges from incoming that should be appended to
// existing. It fails with NoNewConnections when none remain.
func (v *Validator) Validate(incoming, existing []models.ExchangeEdge) ([]models.ExchangeEdge, error) {
	var accepted []models.ExchangeEdge
	var err error

	switch v.policy {
	case WithInverses:
		accepted, err = withInverses(incoming, existing)
	default:
		accepted = directOnly(incoming, existing)
	}
	if err != nil {
		return nil, err
	}

	if len(accepted) == 0 {
		return nil, models.ErrNoNewConnections
	}
	return accepted, nil
}

func directOnly(incoming, existing []models.ExchangeEdge) []models.ExchangeEdge {
	accepted := make([]models.ExchangeEdge, 0, len(incoming))
	for _, candidate := range incoming {
		if containsEqual(existing, candidate) || containsEqual(accepted, candidate) {
			continue
		}
		accepted = append(accepted, candidate)
	}
	return accepted
}

func withInverses(incoming, existing []models.ExchangeEdge) ([]models.ExchangeEdge, error) {
	candidates := make([]models.ExchangeEdge, 0, 2*len(incoming))
	candidates = append(candidates, incoming...)
	for _, edge := range incoming {
		inverse, err := edge.Inverse()
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, inverse)
	}

	known := make(map[models.CurrencyPair]struct{}, len(existing)+len(candidates))
	for _, edge := range existing {
		known[edge.Pair()] = struct{}{}
	}

	accepted := make([]models.ExchangeEdge, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := known[candidate.Pair()]; ok {
			continue
		}
		known[candidate.Pair()] = struct{}{}
		accepted = append(accepted, candidate)
	}
	return accepted, nil
}

func containsEqual(edges []models.ExchangeEdge, target models.ExchangeEdge) bool {
	for _, edge := range edges {
		if edge.Equal(target) {
			return true
		}
	}
	return false
}
