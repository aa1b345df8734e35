package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dalfonso89/node-currency-converter/internal/cache"
	"github.com/dalfonso89/node-currency-converter/internal/config"
	"github.com/dalfonso89/node-currency-converter/internal/graph"
	"github.com/dalfonso89/node-currency-converter/internal/logger"
	"github.com/dalfonso89/node-currency-converter/internal/metrics"
	"github.com/dalfonso89/node-currency-converter/internal/models"
)

const (
	ExchangesCacheKey  = "currencyExchange"
	CurrenciesCacheKey = "currency"
)

// ExchangeService resolves conversions over the stored exchange graph and
// accepts new connections.
type ExchangeService struct {
	configuration *config.Config
	repository    ExchangeRepository
	validator     ConnectionValidator
	cache         *cache.Store
	metrics       *metrics.Metrics
	logger        *logrus.Entry

	// writeMutex serializes the load-validate-replace cycle of CreateConnections.
	writeMutex sync.Mutex
}

func NewExchangeService(
	configuration *config.Config,
	repository ExchangeRepository,
	validator ConnectionValidator,
	store *cache.Store,
	serviceMetrics *metrics.Metrics,
	log *logger.Logger,
) *ExchangeService {
	return &ExchangeService{
		configuration: configuration,
		repository:    repository,
		validator:     validator,
		cache:         store,
		metrics:       serviceMetrics,
		logger:        log.Component("exchange_service"),
	}
}

// ListExchanges returns the full edge list, served from cache when possible.
func (exchangeService *ExchangeService) ListExchanges(requestContext context.Context) ([]models.ExchangeEdge, error) {
	return cache.GetOrCompute(requestContext, exchangeService.cache, ExchangesCacheKey,
		exchangeService.configuration.ExchangesCacheTTL, exchangeService.repository.LoadAll)
}

// ListCurrencies returns every currency appearing in an edge. The set is
// cached separately with its own shorter TTL.
func (exchangeService *ExchangeService) ListCurrencies(requestContext context.Context) ([]models.CurrencyCode, error) {
	return cache.GetOrCompute(requestContext, exchangeService.cache, CurrenciesCacheKey,
		exchangeService.configuration.CurrenciesCacheTTL,
		func(ctx context.Context) ([]models.CurrencyCode, error) {
			edges, err := exchangeService.ListExchanges(ctx)
			if err != nil {
				return nil, err
			}
			return models.DistinctCurrencies(edges), nil
		})
}

// Neighbors lists the destination of every edge leaving code, in edge order.
func (exchangeService *ExchangeService) Neighbors(requestContext context.Context, code models.CurrencyCode) ([]models.CurrencyCode, error) {
	edges, err := exchangeService.ListExchanges(requestContext)
	if err != nil {
		return nil, err
	}
	return graph.Build(edges).Neighbors(code), nil
}

// ShortestPath finds the fewest-hop chain from one currency to another and
// the converted amount after each hop. amount is expected to be non-negative.
func (exchangeService *ExchangeService) ShortestPath(requestContext context.Context, from, to models.CurrencyCode, amount decimal.Decimal) ([]models.ConversionStep, error) {
	log := exchangeService.logger.WithFields(logrus.Fields{
		"from":   from.String(),
		"to":     to.String(),
		"amount": amount.String(),
	})

	if from == to {
		exchangeService.metrics.PathResolved(metrics.OutcomeNoPath, 0)
		return nil, models.NewServiceError(models.ErrorTypeNoPathFound,
			fmt.Sprintf("no conversion path from %s to itself", from), nil)
	}

	edges, err := exchangeService.ListExchanges(requestContext)
	if err != nil {
		exchangeService.metrics.PathResolved(metrics.OutcomeFailure, 0)
		log.WithError(err).Error("Failed to load exchanges")
		return nil, err
	}

	path, found := graph.FindShortestPath(graph.Build(edges), from, to)
	if !found {
		exchangeService.metrics.PathResolved(metrics.OutcomeNoPath, 0)
		log.Debug("No conversion path")
		return nil, models.NewServiceError(models.ErrorTypeNoPathFound,
			fmt.Sprintf("no conversion path from %s to %s", from, to), nil)
	}

	steps, err := graph.ComposeConversion(path, amount, edges, exchangeService.configuration.AmountPrecision)
	if err != nil {
		exchangeService.metrics.PathResolved(metrics.OutcomeFailure, 0)
		log.WithError(err).Error("Failed to compose conversion")
		return nil, err
	}

	exchangeService.metrics.PathResolved(metrics.OutcomeFound, len(steps))
	log.WithField("hops", len(steps)).Debug("Resolved conversion path")
	return steps, nil
}

// CreateConnections validates proposed against the stored edges, appends the
// accepted ones and persists the whole list. It returns the accepted edges.
// A missing store is treated as empty so the first write creates it.
func (exchangeService *ExchangeService) CreateConnections(requestContext context.Context, proposed []models.ExchangeEdge) ([]models.ExchangeEdge, error) {
	exchangeService.writeMutex.Lock()
	defer exchangeService.writeMutex.Unlock()

	existing, err := exchangeService.repository.LoadAll(requestContext)
	if errors.Is(err, models.ErrNotFound) {
		exchangeService.logger.Warn("Exchange store not found, creating it")
		existing = nil
	} else if err != nil {
		return nil, err
	}

	accepted, err := exchangeService.validator.Validate(proposed, existing)
	if err != nil {
		return nil, err
	}

	updated := make([]models.ExchangeEdge, 0, len(existing)+len(accepted))
	updated = append(updated, existing...)
	updated = append(updated, accepted...)

	if err := exchangeService.repository.ReplaceAll(requestContext, updated); err != nil {
		exchangeService.logger.WithError(err).Error("Failed to persist exchanges")
		return nil, err
	}

	exchangeService.cache.Set(ExchangesCacheKey, updated, exchangeService.configuration.ExchangesCacheTTL)
	exchangeService.cache.Delete(CurrenciesCacheKey)
	exchangeService.metrics.ConnectionsAdded(len(accepted))

	exchangeService.logger.WithFields(logrus.Fields{
		"accepted": len(accepted),
		"total":    len(updated),
	}).Info("Created connections")
	return accepted, nil
}

// InvalidateCache drops both cached views so the next read goes to the repository.
func (exchangeService *ExchangeService) InvalidateCache() {
	exchangeService.cache.Delete(ExchangesCacheKey)
	exchangeService.cache.Delete(CurrenciesCacheKey)
	exchangeService.logger.Info("Cache invalidated")
}
