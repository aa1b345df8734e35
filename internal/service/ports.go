package service

import (
	"context"

	"github.com/dalfonso89/node-currency-converter/internal/models"
)

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

// ExchangeRepository is the durable edge list. LoadAll fails with NotFound
// when the backing store does not exist yet; ReplaceAll overwrites it
// completely and must be all-or-nothing.
type ExchangeRepository interface {
	LoadAll(ctx context.Context) ([]models.ExchangeEdge, error)
	ReplaceAll(ctx context.Context, edges []models.ExchangeEdge) error
}

// ConnectionValidator filters proposed edges down to the ones that are new.
type ConnectionValidator interface {
	Validate(incoming, existing []models.ExchangeEdge) ([]models.ExchangeEdge, error)
}
