package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalfonso89/node-currency-converter/internal/models"
)

func existingEdges() []models.ExchangeEdge {
	return []models.ExchangeEdge{
		models.MustExchangeEdge("USD", "EUR", "0.85"),
		models.MustExchangeEdge("EUR", "GBP", "0.9"),
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		raw      string
		expected Policy
		wantErr  bool
	}{
		{"direct-only", DirectOnly, false},
		{" With-Inverses ", WithInverses, false},
		{"both", DirectOnly, true},
		{"", DirectOnly, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			policy, err := ParsePolicy(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, policy)
			assert.Equal(t, tt.expected, NewValidator(policy).Policy())
		})
	}
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "direct-only", DirectOnly.String())
	assert.Equal(t, "with-inverses", WithInverses.String())
}

func TestDirectOnly(t *testing.T) {
	validator := NewValidator(DirectOnly)

	t.Run("accepts a new edge", func(t *testing.T) {
		accepted, err := validator.Validate([]models.ExchangeEdge{
			models.MustExchangeEdge("USD", "RUB", "1.2"),
		}, existingEdges())

		require.NoError(t, err)
		require.Len(t, accepted, 1)
		assert.True(t, accepted[0].Equal(models.MustExchangeEdge("USD", "RUB", "1.2")))
	})

	t.Run("drops structurally equal edges", func(t *testing.T) {
		accepted, err := validator.Validate([]models.ExchangeEdge{
			models.MustExchangeEdge("USD", "EUR", "0.85"),
			models.MustExchangeEdge("USD", "RUB", "1.2"),
		}, existingEdges())

		require.NoError(t, err)
		require.Len(t, accepted, 1)
		assert.Equal(t, "RUB", accepted[0].To().String())
	})

	t.Run("keeps an existing pair with a different rate", func(t *testing.T) {
		accepted, err := validator.Validate([]models.ExchangeEdge{
			models.MustExchangeEdge("USD", "EUR", "0.86"),
		}, existingEdges())

		require.NoError(t, err)
		assert.Len(t, accepted, 1)
	})

	t.Run("collapses duplicates within the request", func(t *testing.T) {
		accepted, err := validator.Validate([]models.ExchangeEdge{
			models.MustExchangeEdge("USD", "RUB", "1.2"),
			models.MustExchangeEdge("USD", "RUB", "1.20"),
		}, existingEdges())

		require.NoError(t, err)
		assert.Len(t, accepted, 1)
	})

	t.Run("fails when nothing is new", func(t *testing.T) {
		accepted, err := validator.Validate([]models.ExchangeEdge{
			models.MustExchangeEdge("USD", "EUR", "0.85"),
		}, existingEdges())

		assert.Nil(t, accepted)
		assert.ErrorIs(t, err, models.ErrNoNewConnections)
	})

	t.Run("fails on empty input", func(t *testing.T) {
		_, err := validator.Validate(nil, existingEdges())
		assert.ErrorIs(t, err, models.ErrNoNewConnections)
	})
}

func TestWithInverses(t *testing.T) {
	validator := NewValidator(WithInverses)

	t.Run("adds inverse after originals", func(t *testing.T) {
		accepted, err := validator.Validate([]models.ExchangeEdge{
			models.MustExchangeEdge("USD", "RUB", "1.2"),
		}, existingEdges())

		require.NoError(t, err)
		require.Len(t, accepted, 2)
		assert.True(t, accepted[0].Equal(models.MustExchangeEdge("USD", "RUB", "1.2")))
		assert.Equal(t, "RUB", accepted[1].From().String())
		assert.Equal(t, "USD", accepted[1].To().String())
		assert.Equal(t, "0.833333", accepted[1].Rate().String())
	})

	t.Run("drops pairs that exist regardless of rate", func(t *testing.T) {
		accepted, err := validator.Validate([]models.ExchangeEdge{
			models.MustExchangeEdge("USD", "EUR", "0.5"),
		}, existingEdges())

		require.NoError(t, err)
		require.Len(t, accepted, 1)
		assert.Equal(t, "EUR", accepted[0].From().String())
		assert.Equal(t, "USD", accepted[0].To().String())
	})

	t.Run("keeps the first candidate per pair", func(t *testing.T) {
		accepted, err := validator.Validate([]models.ExchangeEdge{
			models.MustExchangeEdge("USD", "RUB", "1.2"),
			models.MustExchangeEdge("RUB", "USD", "0.9"),
		}, existingEdges())

		require.NoError(t, err)
		require.Len(t, accepted, 2)
		assert.True(t, accepted[0].Equal(models.MustExchangeEdge("USD", "RUB", "1.2")))
		assert.True(t, accepted[1].Equal(models.MustExchangeEdge("RUB", "USD", "0.9")))
	})

	t.Run("fails when every pair exists", func(t *testing.T) {
		_, err := validator.Validate([]models.ExchangeEdge{
			models.MustExchangeEdge("USD", "EUR", "0.85"),
			models.MustExchangeEdge("EUR", "USD", "1.17"),
		}, []models.ExchangeEdge{
			models.MustExchangeEdge("USD", "EUR", "0.85"),
			models.MustExchangeEdge("EUR", "USD", "1.17"),
		})

		assert.ErrorIs(t, err, models.ErrNoNewConnections)
	})

	t.Run("does not mutate inputs", func(t *testing.T) {
		incoming := []models.ExchangeEdge{models.MustExchangeEdge("USD", "RUB", "1.2")}
		existing := existingEdges()

		_, err := validator.Validate(incoming, existing)

		require.NoError(t, err)
		assert.Len(t, incoming, 1)
		assert.Len(t, existing, 2)
	})
}
