package testutils

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/dalfonso89/node-currency-converter/internal/config"
	"github.com/dalfonso89/node-currency-converter/internal/logger"
	"github.com/dalfonso89/node-currency-converter/internal/models"
)

// MockLogger creates a logger that discards its output
func MockLogger() *logger.Logger {
	return logger.NewWithOutput("debug", "json", io.Discard)
}

// MockConfig creates a mock configuration for testing
func MockConfig() *config.Config {
	return &config.Config{
		Port:      "8081",
		LogLevel:  "debug",
		LogFormat: "json",

		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 5 * time.Second,

		RepositoryBackend: config.BackendJSON,
		ExchangesFilePath: "exchanges.json",

		ExchangesCacheTTL:  60 * time.Second,
		CurrenciesCacheTTL: 30 * time.Second,
		ValidationPolicy:   config.PolicyWithInverses,
		AmountPrecision:    2,

		RateLimitEnabled:  true,
		RateLimitRequests: 100,
		RateLimitWindow:   60 * time.Second,
		RateLimitBurst:    10,

		CORSAllowedOrigins: []string{"*"},
	}
}

// MockExchanges returns a small connected edge list:
// USD->EUR->GBP, USD->JPY and their reverse directions for EUR.
func MockExchanges() []models.ExchangeEdge {
	return []models.ExchangeEdge{
		models.MustExchangeEdge("USD", "EUR", "0.85"),
		models.MustExchangeEdge("EUR", "GBP", "0.9"),
		models.MustExchangeEdge("USD", "JPY", "150"),
		models.MustExchangeEdge("EUR", "USD", "1.176471"),
	}
}

// CancelledContext returns a context that is already cancelled.
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// MemoryRepository is an in-memory exchange store that counts its calls.
// A nil edge list means the store does not exist yet.
type MemoryRepository struct {
	mutex      sync.Mutex
	edges      []models.ExchangeEdge
	loadErr    error
	loadCalls  int
	writeCalls int
}

func NewMemoryRepository(edges []models.ExchangeEdge) *MemoryRepository {
	if edges == nil {
		return &MemoryRepository{}
	}
	stored := make([]models.ExchangeEdge, len(edges))
	copy(stored, edges)
	return &MemoryRepository{edges: stored}
}

func (r *MemoryRepository) LoadAll(ctx context.Context) ([]models.ExchangeEdge, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.loadCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.edges == nil {
		return nil, models.NewServiceError(models.ErrorTypeNotFound, "store not found", nil)
	}
	snapshot := make([]models.ExchangeEdge, len(r.edges))
	copy(snapshot, r.edges)
	return snapshot, nil
}

func (r *MemoryRepository) ReplaceAll(ctx context.Context, edges []models.ExchangeEdge) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.writeCalls++
	if err := ctx.Err(); err != nil {
		return err
	}
	r.edges = make([]models.ExchangeEdge, len(edges))
	copy(r.edges, edges)
	return nil
}

// FailLoads makes every following LoadAll return err.
func (r *MemoryRepository) FailLoads(err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.loadErr = err
}

func (r *MemoryRepository) Edges() []models.ExchangeEdge {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	snapshot := make([]models.ExchangeEdge, len(r.edges))
	copy(snapshot, r.edges)
	return snapshot
}

func (r *MemoryRepository) LoadCalls() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.loadCalls
}

func (r *MemoryRepository) WriteCalls() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.writeCalls
}
