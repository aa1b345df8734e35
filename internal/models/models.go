package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CurrencyResponse struct {
	Currency string `json:"currency"`
}

type ExchangeRequest struct {
	From string          `json:"from" binding:"required,currency"`
	To   string          `json:"to" binding:"required,currency"`
	Rate decimal.Decimal `json:"rate"`
}

type CreateExchangesRequest struct {
	Exchanges []ExchangeRequest `json:"exchanges" binding:"required,min=1,dive"`
}

type ExchangeResponse struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

type ShortestPathRequest struct {
	From   string          `json:"from" binding:"required,currency"`
	To     string          `json:"to" binding:"required,currency"`
	Amount decimal.Decimal `json:"amount"`
}

type ConversionStepResponse struct {
	From  string          `json:"from"`
	To    string          `json:"to"`
	Value decimal.Decimal `json:"value"`
}

type HealthCheck struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func NewCurrencyResponses(codes []CurrencyCode) []CurrencyResponse {
	responses := make([]CurrencyResponse, 0, len(codes))
	for _, code := range codes {
		responses = append(responses, CurrencyResponse{Currency: code.String()})
	}
	return responses
}

func NewExchangeResponses(edges []ExchangeEdge) []ExchangeResponse {
	responses := make([]ExchangeResponse, 0, len(edges))
	for _, edge := range edges {
		responses = append(responses, ExchangeResponse{
			From: edge.From().String(),
			To:   edge.To().String(),
			Rate: edge.Rate(),
		})
	}
	return responses
}

func NewConversionStepResponses(steps []ConversionStep) []ConversionStepResponse {
	responses := make([]ConversionStepResponse, 0, len(steps))
	for _, step := range steps {
		responses = append(responses, ConversionStepResponse{
			From:  step.From.String(),
			To:    step.To.String(),
			Value: step.Value,
		})
	}
	return responses
}

// ToEdges converts request bodies into validated edges, failing on the first invalid one.
func ToEdges(requests []ExchangeRequest) ([]ExchangeEdge, error) {
	edges := make([]ExchangeEdge, 0, len(requests))
	for _, request := range requests {
		edge, err := ParseExchangeEdge(request.From, request.To, request.Rate)
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, nil
}
