// Package graph holds the pure steps of path resolution: building an
// adjacency map from an edge snapshot, breadth-first search over it, and
// composing the converted amount along a found path.
package graph

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dalfonso89/node-currency-converter/internal/models"
)

// Neighbor is one outgoing connection of a node.
type Neighbor struct {
	To   models.CurrencyCode
	Rate decimal.Decimal
}

// Graph maps each source currency to its outgoing connections, in the order
// the edges appear in the snapshot it was built from.
type Graph map[models.CurrencyCode][]Neighbor

// Build creates a fresh adjacency map from edges. The result is never shared
// between requests.
func Build(edges []models.ExchangeEdge) Graph {
	g := make(Graph)
	for _, edge := range edges {
		g[edge.From()] = append(g[edge.From()], Neighbor{To: edge.To(), Rate: edge.Rate()})
	}
	return g
}

// Neighbors returns the destinations reachable in one hop from code,
// duplicates included.
func (g Graph) Neighbors(code models.CurrencyCode) []models.CurrencyCode {
	adjacent := g[code]
	codes := make([]models.CurrencyCode, 0, len(adjacent))
	for _, neighbor := range adjacent {
		codes = append(codes, neighbor.To)
	}
	return codes
}

// FindShortestPath runs an unweighted breadth-first search and returns the
// first path that reaches to, which has the fewest hops. Ties are broken by
// edge order at each node. It reports false when from equals to or when to is
// unreachable.
func FindShortestPath(g Graph, from, to models.CurrencyCode) ([]models.CurrencyCode, bool) {
	if from == to {
		return nil, false
	}

	queue := [][]models.CurrencyCode{{from}}
	visited := make(map[models.CurrencyCode]struct{})

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		last := path[len(path)-1]
		if last == to {
			return path, len(path) >= 2
		}
		if _, seen := visited[last]; seen {
			continue
		}
		visited[last] = struct{}{}

		for _, neighbor := range g[last] {
			if _, seen := visited[neighbor.To]; seen {
				continue
			}
			next := make([]models.CurrencyCode, len(path), len(path)+1)
			copy(next, path)
			queue = append(queue, append(next, neighbor.To))
		}
	}

	return nil, false
}

// ComposeConversion walks path pair by pair, multiplying amount by the rate
// of the first edge in edges matching each hop. The running value keeps full
// precision; each emitted step is rounded to precision decimal places.
func ComposeConversion(path []models.CurrencyCode, amount decimal.Decimal, edges []models.ExchangeEdge, precision int32) ([]models.ConversionStep, error) {
	if len(path) < 2 {
		return nil, models.NewServiceError(models.ErrorTypeNoPathFound,
			"a conversion path needs at least two currencies", nil)
	}

	rates := firstRates(edges)
	steps := make([]models.ConversionStep, 0, len(path)-1)
	value := amount

	for i := 0; i < len(path)-1; i++ {
		pair := models.CurrencyPair{From: path[i], To: path[i+1]}
		rate, ok := rates[pair]
		if !ok {
			return nil, models.NewServiceError(models.ErrorTypeInternalInconsistency,
				fmt.Sprintf("no exchange for hop %s", pair), nil)
		}
		value = value.Mul(rate)
		steps = append(steps, models.ConversionStep{
			From:  pair.From,
			To:    pair.To,
			Value: value.Round(precision),
		})
	}

	return steps, nil
}

// firstRates indexes edges by pair, keeping the first rate seen for each.
func firstRates(edges []models.ExchangeEdge) map[models.CurrencyPair]decimal.Decimal {
	rates := make(map[models.CurrencyPair]decimal.Decimal, len(edges))
	for _, edge := range edges {
		if _, ok := rates[edge.Pair()]; !ok {
			rates[edge.Pair()] = edge.Rate()
		}
	}
	return rates
}
