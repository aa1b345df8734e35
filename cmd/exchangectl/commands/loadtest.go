package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dalfonso89/node-currency-converter/internal/models"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	URL             string
	From            string
	To              string
	Amount          float64
	ConcurrentUsers int
	RequestsPerUser int
	Timeout         time.Duration
	TestDuration    time.Duration
	RampUpDuration  time.Duration
	ThinkTime       time.Duration
}

// LoadTestResult holds the result of a single request
type LoadTestResult struct {
	UserID     int
	RequestID  int
	StatusCode int
	Duration   time.Duration
	Success    bool
	Error      error
}

// LoadTestSummary holds the summary of load test results
type LoadTestSummary struct {
	TotalRequests       int
	SuccessfulRequests  int
	FailedRequests      int
	TransportErrors     int
	StatusCodes         map[int]int
	TotalDuration       time.Duration
	AverageResponseTime time.Duration
	MinResponseTime     time.Duration
	MaxResponseTime     time.Duration
	RequestsPerSecond   float64
	ErrorRate           float64
	ResponseTime95th    time.Duration
	ResponseTime99th    time.Duration
}

func (c *CLI) newLoadTestCmd() *cobra.Command {
	var config LoadTestConfig

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Drive concurrent shortest-path requests against a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if config.ConcurrentUsers <= 0 || config.RequestsPerUser <= 0 {
				return fmt.Errorf("--users and --requests must be positive")
			}
			body, err := shortestPathBody(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(c.out, "Starting load test against %s (%d users x %d requests)\n\n",
				config.URL, config.ConcurrentUsers, config.RequestsPerUser)

			summary := runLoadTest(cmd.Context(), config, body)
			printSummary(c.out, summary)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&config.URL, "url", "http://localhost:8081/api/v1/conversions/shortest-path", "Shortest-path endpoint to test")
	flags.StringVar(&config.From, "from", "USD", "Source currency")
	flags.StringVar(&config.To, "to", "GBP", "Target currency")
	flags.Float64Var(&config.Amount, "amount", 100, "Amount to convert")
	flags.IntVar(&config.ConcurrentUsers, "users", 10, "Number of concurrent users")
	flags.IntVar(&config.RequestsPerUser, "requests", 100, "Number of requests per user")
	flags.DurationVar(&config.Timeout, "timeout", 30*time.Second, "Request timeout")
	flags.DurationVar(&config.TestDuration, "duration", 0, "Test duration (0 = run until all requests complete)")
	flags.DurationVar(&config.RampUpDuration, "rampup", 5*time.Second, "Ramp-up duration")
	flags.DurationVar(&config.ThinkTime, "think", 100*time.Millisecond, "Think time between requests")

	return cmd
}

func shortestPathBody(config LoadTestConfig) ([]byte, error) {
	return json.Marshal(models.ShortestPathRequest{
		From:   config.From,
		To:     config.To,
		Amount: decimal.NewFromFloat(config.Amount),
	})
}

func runLoadTest(parent context.Context, config LoadTestConfig, body []byte) LoadTestSummary {
	results := make(chan LoadTestResult, config.ConcurrentUsers*config.RequestsPerUser)
	client := &http.Client{Timeout: config.Timeout}
	startTime := time.Now()

	var ctx context.Context
	var cancel context.CancelFunc
	if config.TestDuration > 0 {
		ctx, cancel = context.WithTimeout(parent, config.TestDuration)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	defer cancel()

	var wg sync.WaitGroup
	rampUpDelay := config.RampUpDuration / time.Duration(config.ConcurrentUsers)

	for userID := 0; userID < config.ConcurrentUsers; userID++ {
		wg.Add(1)
		go func(uid int) {
			defer wg.Done()

			if !sleepContext(ctx, time.Duration(uid)*rampUpDelay) {
				return
			}

			for reqID := 0; reqID < config.RequestsPerUser; reqID++ {
				if ctx.Err() != nil {
					return
				}
				results <- makeRequest(ctx, client, config.URL, body, uid, reqID)

				if !sleepContext(ctx, config.ThinkTime) {
					return
				}
			}
		}(userID)
	}

	wg.Wait()
	close(results)

	return processResults(results, time.Since(startTime))
}

// sleepContext waits for d and reports false if ctx ended first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func makeRequest(ctx context.Context, client *http.Client, url string, body []byte, userID, requestID int) LoadTestResult {
	result := LoadTestResult{UserID: userID, RequestID: requestID}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		result.Error = err
		return result
	}
	request.Header.Set("Content-Type", "application/json")

	start := time.Now()
	response, err := client.Do(request)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		return result
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	result.StatusCode = response.StatusCode
	result.Success = response.StatusCode >= 200 && response.StatusCode < 300
	return result
}

func processResults(results <-chan LoadTestResult, totalDuration time.Duration) LoadTestSummary {
	summary := LoadTestSummary{
		TotalDuration: totalDuration,
		StatusCodes:   make(map[int]int),
	}
	var responseTimes []time.Duration

	for result := range results {
		summary.TotalRequests++
		responseTimes = append(responseTimes, result.Duration)
		if result.Error != nil {
			summary.TransportErrors++
		} else {
			summary.StatusCodes[result.StatusCode]++
		}

		if result.Success {
			summary.SuccessfulRequests++
		} else {
			summary.FailedRequests++
		}
	}

	if summary.TotalRequests == 0 {
		return summary
	}

	summary.ErrorRate = float64(summary.FailedRequests) / float64(summary.TotalRequests) * 100
	if totalDuration > 0 {
		summary.RequestsPerSecond = float64(summary.TotalRequests) / totalDuration.Seconds()
	}

	sort.Slice(responseTimes, func(i, j int) bool { return responseTimes[i] < responseTimes[j] })

	var totalResponseTime time.Duration
	for _, rt := range responseTimes {
		totalResponseTime += rt
	}
	summary.MinResponseTime = responseTimes[0]
	summary.MaxResponseTime = responseTimes[len(responseTimes)-1]
	summary.AverageResponseTime = totalResponseTime / time.Duration(len(responseTimes))
	summary.ResponseTime95th = percentile(responseTimes, 95)
	summary.ResponseTime99th = percentile(responseTimes, 99)

	return summary
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	index := len(sorted) * p / 100
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

func printSummary(out io.Writer, summary LoadTestSummary) {
	_, _ = fmt.Fprintln(out, "=== Load Test Results ===")
	if summary.TotalRequests == 0 {
		_, _ = fmt.Fprintln(out, "No requests completed")
		return
	}

	codes := make([]int, 0, len(summary.StatusCodes))
	for code := range summary.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	_, _ = fmt.Fprintf(out, "Total Requests: %d\n", summary.TotalRequests)
	_, _ = fmt.Fprintf(out, "Successful Requests: %d (%.2f%%)\n", summary.SuccessfulRequests,
		float64(summary.SuccessfulRequests)/float64(summary.TotalRequests)*100)
	_, _ = fmt.Fprintf(out, "Failed Requests: %d (%.2f%%)\n", summary.FailedRequests, summary.ErrorRate)
	_, _ = fmt.Fprintf(out, "Transport Errors: %d\n", summary.TransportErrors)
	for _, code := range codes {
		_, _ = fmt.Fprintf(out, "  status %d: %d\n", code, summary.StatusCodes[code])
	}
	_, _ = fmt.Fprintf(out, "Total Duration: %v\n", summary.TotalDuration)
	_, _ = fmt.Fprintf(out, "Requests per Second: %.2f\n", summary.RequestsPerSecond)
	_, _ = fmt.Fprintf(out, "Average Response Time: %v\n", summary.AverageResponseTime)
	_, _ = fmt.Fprintf(out, "Min Response Time: %v\n", summary.MinResponseTime)
	_, _ = fmt.Fprintf(out, "Max Response Time: %v\n", summary.MaxResponseTime)
	_, _ = fmt.Fprintf(out, "95th Percentile Response Time: %v\n", summary.ResponseTime95th)
	_, _ = fmt.Fprintf(out, "99th Percentile Response Time: %v\n", summary.ResponseTime99th)
}
