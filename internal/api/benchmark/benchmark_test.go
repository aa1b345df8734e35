package benchmark

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dalfonso89/node-currency-converter/internal/api"
	"github.com/dalfonso89/node-currency-converter/internal/cache"
	"github.com/dalfonso89/node-currency-converter/internal/graph"
	"github.com/dalfonso89/node-currency-converter/internal/models"
	"github.com/dalfonso89/node-currency-converter/internal/service"
	"github.com/dalfonso89/node-currency-converter/internal/testutils"
	"github.com/dalfonso89/node-currency-converter/internal/validation"
)

// chainEdges builds C000 -> C001 -> ... -> C{n-1} plus a few side branches per node
func chainEdges(n int) []models.ExchangeEdge {
	edges := make([]models.ExchangeEdge, 0, 3*n)
	for i := 0; i < n-1; i++ {
		from := fmt.Sprintf("C%03d", i)
		edges = append(edges,
			models.MustExchangeEdge(from, fmt.Sprintf("S%03dA", i), "1.5"),
			models.MustExchangeEdge(from, fmt.Sprintf("S%03dB", i), "0.5"),
			models.MustExchangeEdge(from, fmt.Sprintf("C%03d", i+1), "1.01"),
		)
	}
	return edges
}

func newExchangeService(edges []models.ExchangeEdge) *service.ExchangeService {
	cfg := testutils.MockConfig()
	return service.NewExchangeService(
		cfg,
		testutils.NewMemoryRepository(edges),
		validation.NewValidator(validation.WithInverses),
		cache.New(),
		nil,
		testutils.MockLogger(),
	)
}

func BenchmarkFindShortestPath(b *testing.B) {
	edges := chainEdges(200)
	g := graph.Build(edges)
	from := models.MustCurrencyCode("C000")
	to := models.MustCurrencyCode("C199")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, found := graph.FindShortestPath(g, from, to); !found {
			b.Fatal("expected a path")
		}
	}
}

func BenchmarkServiceShortestPath(b *testing.B) {
	exchangeService := newExchangeService(chainEdges(50))
	from := models.MustCurrencyCode("C000")
	to := models.MustCurrencyCode("C049")
	amount := decimal.NewFromInt(100)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := exchangeService.ShortestPath(context.Background(), from, to, amount); err != nil {
				b.Error(err)
			}
		}
	})
}

func BenchmarkShortestPathEndpoint(b *testing.B) {
	gin.SetMode(gin.TestMode)
	cfg := testutils.MockConfig()
	cfg.RateLimitEnabled = false
	handlers := api.NewHandlers(api.HandlerConfig{
		Configuration:   cfg,
		Logger:          testutils.MockLogger(),
		ExchangeService: newExchangeService(chainEdges(20)),
	})
	router := handlers.SetupRoutes()
	body := `{"from":"C000","to":"C019","amount":100}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		request := httptest.NewRequest(http.MethodPost, "/api/v1/conversions/shortest-path", strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		if recorder.Code != http.StatusOK {
			b.Fatalf("status = %d", recorder.Code)
		}
	}
}
