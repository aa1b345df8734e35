// Package repository persists the exchange edge list. Every backend loads the
// list in full and replaces it in full; writes are serialized and
// all-or-nothing.
package repository

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dalfonso89/node-currency-converter/internal/models"
)

// record is the stored shape of one edge.
type record struct {
	From  string      `json:"From"`
	To    string      `json:"To"`
	Value json.Number `json:"Value"`
}

func decodeEdges(data []byte) ([]models.ExchangeEdge, error) {
	if len(data) == 0 {
		return []models.ExchangeEdge{}, nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, models.NewServiceError(models.ErrorTypeInternalInconsistency, "decode exchange records", err)
	}

	edges := make([]models.ExchangeEdge, 0, len(records))
	for i, r := range records {
		rate, err := decimal.NewFromString(r.Value.String())
		if err != nil {
			return nil, models.NewServiceError(models.ErrorTypeInternalInconsistency,
				fmt.Sprintf("record %d has invalid rate %q", i, r.Value), err)
		}
		edge, err := models.ParseExchangeEdge(r.From, r.To, rate)
		if err != nil {
			return nil, models.NewServiceError(models.ErrorTypeInternalInconsistency,
				fmt.Sprintf("record %d is not a valid exchange", i), err)
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

func encodeEdges(edges []models.ExchangeEdge) ([]byte, error) {
	records := make([]record, 0, len(edges))
	for _, edge := range edges {
		records = append(records, record{
			From:  edge.From().String(),
			To:    edge.To().String(),
			Value: json.Number(edge.Rate().String()),
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode exchange records: %w", err)
	}
	return data, nil
}
