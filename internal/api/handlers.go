package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dalfonso89/node-currency-converter/internal/config"
	"github.com/dalfonso89/node-currency-converter/internal/logger"
	"github.com/dalfonso89/node-currency-converter/internal/metrics"
	"github.com/dalfonso89/node-currency-converter/internal/middleware"
	"github.com/dalfonso89/node-currency-converter/internal/models"
	"github.com/dalfonso89/node-currency-converter/internal/ratelimit"
)

const Version = "1.0.0"

// ExchangeResolver is the service surface the handlers depend on
type ExchangeResolver interface {
	ListCurrencies(ctx context.Context) ([]models.CurrencyCode, error)
	ListExchanges(ctx context.Context) ([]models.ExchangeEdge, error)
	Neighbors(ctx context.Context, code models.CurrencyCode) ([]models.CurrencyCode, error)
	ShortestPath(ctx context.Context, from, to models.CurrencyCode, amount decimal.Decimal) ([]models.ConversionStep, error)
	CreateConnections(ctx context.Context, proposed []models.ExchangeEdge) ([]models.ExchangeEdge, error)
}

// HandlerConfig holds the dependencies of Handlers. RateLimiter and Metrics are optional.
type HandlerConfig struct {
	Configuration   *config.Config
	Logger          *logger.Logger
	ExchangeService ExchangeResolver
	RateLimiter     *ratelimit.Limiter
	Metrics         *metrics.Metrics
}

// Handlers contains all HTTP handlers
type Handlers struct {
	configuration   *config.Config
	logger          *logger.Logger
	startTime       time.Time
	exchangeService ExchangeResolver
	rateLimiter     *ratelimit.Limiter
	metrics         *metrics.Metrics
}

// NewHandlers creates a new handlers instance
func NewHandlers(handlerConfig HandlerConfig) *Handlers {
	registerValidators()

	return &Handlers{
		configuration:   handlerConfig.Configuration,
		logger:          handlerConfig.Logger,
		startTime:       time.Now(),
		exchangeService: handlerConfig.ExchangeService,
		rateLimiter:     handlerConfig.RateLimiter,
		metrics:         handlerConfig.Metrics,
	}
}

var registerOnce sync.Once

// registerValidators adds the "currency" binding tag to gin's validator
func registerValidators() {
	registerOnce.Do(func() {
		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = engine.RegisterValidation("currency", func(fieldLevel validator.FieldLevel) bool {
				_, err := models.NewCurrencyCode(fieldLevel.Field().String())
				return err == nil
			})
		}
	})
}

// SetupRoutes configures all the routes using Gin
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger(handlers.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestID())

	allowedOrigins := []string{"*"}
	if handlers.configuration != nil && len(handlers.configuration.CORSAllowedOrigins) > 0 {
		allowedOrigins = handlers.configuration.CORSAllowedOrigins
	}
	router.Use(middleware.CORS(allowedOrigins))

	if handlers.metrics != nil {
		router.Use(middleware.Metrics(handlers.metrics))
		router.GET("/metrics", gin.WrapH(handlers.metrics.Handler()))
	}

	router.GET("/health", handlers.HealthCheck)

	apiV1 := router.Group("/api/v1")
	if handlers.rateLimiter != nil {
		apiV1.Use(handlers.rateLimiter.Middleware())
	}
	{
		apiV1.GET("/currencies", handlers.ListCurrencies)
		apiV1.GET("/currencies/:code/neighbors", handlers.ListNeighbors)
		apiV1.GET("/exchanges", handlers.ListExchanges)
		apiV1.POST("/exchanges", handlers.CreateExchanges)
		apiV1.POST("/conversions/shortest-path", handlers.ShortestPath)
	}

	return router
}

// HealthCheck handles health check requests
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	context.JSON(http.StatusOK, models.HealthCheck{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(handlers.startTime).String(),
	})
}

// ListCurrencies returns every currency present in the exchange graph
func (handlers *Handlers) ListCurrencies(context *gin.Context) {
	currencies, err := handlers.exchangeService.ListCurrencies(context.Request.Context())
	if err != nil {
		handlers.writeServiceError(context, "failed to list currencies", err)
		return
	}

	context.JSON(http.StatusOK, models.NewCurrencyResponses(currencies))
}

// ListNeighbors returns the currencies directly reachable from :code
func (handlers *Handlers) ListNeighbors(context *gin.Context) {
	code, err := models.NewCurrencyCode(context.Param("code"))
	if err != nil {
		handlers.writeServiceError(context, "invalid currency", err)
		return
	}

	neighbors, err := handlers.exchangeService.Neighbors(context.Request.Context(), code)
	if err != nil {
		handlers.writeServiceError(context, "failed to list neighbors", err)
		return
	}

	context.JSON(http.StatusOK, models.NewCurrencyResponses(neighbors))
}

// ListExchanges returns the edge list with an ETag so clients can poll cheaply
func (handlers *Handlers) ListExchanges(context *gin.Context) {
	edges, err := handlers.exchangeService.ListExchanges(context.Request.Context())
	if err != nil {
		handlers.writeServiceError(context, "failed to list exchanges", err)
		return
	}

	body, err := json.Marshal(models.NewExchangeResponses(edges))
	if err != nil {
		handlers.writeServiceError(context, "failed to encode exchanges", err)
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
	context.Header("ETag", etag)
	if context.GetHeader("If-None-Match") == etag {
		context.Status(http.StatusNotModified)
		return
	}

	context.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// CreateExchanges validates and stores new exchange connections
func (handlers *Handlers) CreateExchanges(context *gin.Context) {
	var request models.CreateExchangesRequest
	if err := context.ShouldBindJSON(&request); err != nil {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	proposed, err := models.ToEdges(request.Exchanges)
	if err != nil {
		handlers.writeServiceError(context, "invalid exchange", err)
		return
	}

	accepted, err := handlers.exchangeService.CreateConnections(context.Request.Context(), proposed)
	if err != nil {
		handlers.writeServiceError(context, "failed to create exchanges", err)
		return
	}

	context.JSON(http.StatusCreated, models.NewExchangeResponses(accepted))
}

// ShortestPath resolves the fewest-hop conversion chain for an amount
func (handlers *Handlers) ShortestPath(context *gin.Context) {
	var request models.ShortestPathRequest
	if err := context.ShouldBindJSON(&request); err != nil {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	from, err := models.NewCurrencyCode(request.From)
	if err != nil {
		handlers.writeServiceError(context, "invalid currency", err)
		return
	}
	to, err := models.NewCurrencyCode(request.To)
	if err != nil {
		handlers.writeServiceError(context, "invalid currency", err)
		return
	}

	steps, err := handlers.exchangeService.ShortestPath(context.Request.Context(), from, to, request.Amount.Abs())
	if err != nil {
		handlers.writeServiceError(context, "failed to resolve conversion", err)
		return
	}

	context.JSON(http.StatusOK, models.NewConversionStepResponses(steps))
}

// statusForError maps service error types to HTTP status codes
func statusForError(err error) int {
	switch models.ErrorTypeOf(err) {
	case models.ErrorTypeInvalidArgument:
		return http.StatusBadRequest
	case models.ErrorTypeNoPathFound:
		return http.StatusNotFound
	case models.ErrorTypeNoNewConnections:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (handlers *Handlers) writeServiceError(context *gin.Context, errorMessage string, err error) {
	statusCode := statusForError(err)

	entry := handlers.logger.WithError(err).WithField("path", context.FullPath())
	if requestID, ok := context.Get(middleware.RequestIDKey); ok {
		entry = entry.WithField(middleware.RequestIDKey, requestID)
	}
	if statusCode >= http.StatusInternalServerError {
		entry.Error(errorMessage)
	} else {
		entry.Debug(errorMessage)
	}

	message := err.Error()
	var serviceError *models.ServiceError
	if errors.As(err, &serviceError) {
		message = serviceError.Message
	}
	handlers.writeErrorResponse(context, statusCode, errorMessage, message)
}

// writeErrorResponse writes an error response using Gin context
func (handlers *Handlers) writeErrorResponse(context *gin.Context, statusCode int, errorMessage, errorDetails string) {
	errorResponse := models.ErrorResponse{
		Error:   errorMessage,
		Message: errorDetails,
		Code:    statusCode,
	}

	context.JSON(statusCode, errorResponse)
}
