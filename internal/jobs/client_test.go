package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abgdnv/gocrm/pkg/config"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// newTestClient starts a server answering every request with handler and returns a client for it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *GraphQLClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.GraphQLClientConfig{Endpoint: srv.URL, Timeout: 2 * time.Second}
	cbCfg := config.CircuitBreakerConfig{ConsecutiveFailures: 2, ErrorRatePercent: 100, OpenTimeout: time.Minute, MaxHalfOpenRequests: 1}
	return NewGraphQLClient(cfg, cbCfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func respond(t *testing.T, body string, check func(req graphQLRequest)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if check != nil {
			check(req)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func Test_GraphQLClient_Hello(t *testing.T) {
	client := newTestClient(t, respond(t, `{"data":{"hello":"Hello, GraphQL!"}}`, func(req graphQLRequest) {
		assert.Contains(t, req.Query, "hello")
	}))

	hello, err := client.Hello(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Hello, GraphQL!", hello)
}

func Test_GraphQLClient_UpdateLowStockProducts(t *testing.T) {
	body := `{"data":{"updateLowStockProducts":{"success":true,"message":"Restocked 1 product(s).",
		"updatedProducts":[{"name":"Laptop Pro","stock":13}]}}}`
	client := newTestClient(t, respond(t, body, func(req graphQLRequest) {
		assert.Contains(t, req.Query, "updateLowStockProducts")
	}))

	report, err := client.UpdateLowStockProducts(context.Background())

	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, []RestockedProduct{{Name: "Laptop Pro", Stock: 13}}, report.Products)
}

func Test_GraphQLClient_RecentOrders(t *testing.T) {
	since := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	body := `{"data":{"orders":[{"id":"o-1","customer":{"email":"john@example.com"}}]}}`
	client := newTestClient(t, respond(t, body, func(req graphQLRequest) {
		assert.Contains(t, req.Query, "orderDate_Gte")
		assert.Equal(t, "2025-03-07T09:00:00Z", req.Variables["since"])
		assert.Equal(t, float64(1000), req.Variables["first"])
		assert.Equal(t, float64(0), req.Variables["offset"])
	}))

	orders, err := client.RecentOrders(context.Background(), since)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o-1", orders[0].ID)
	assert.Equal(t, "john@example.com", orders[0].Customer.Email)
}

func Test_GraphQLClient_RecentOrders_Paging(t *testing.T) {
	// given
	pages := []string{
		`{"data":{"orders":[{"id":"o-1","customer":{"email":"a@example.com"}},{"id":"o-2","customer":{"email":"b@example.com"}}]}}`,
		`{"data":{"orders":[{"id":"o-3","customer":{"email":"c@example.com"}},{"id":"o-4","customer":{"email":"d@example.com"}}]}}`,
		`{"data":{"orders":[{"id":"o-5","customer":{"email":"e@example.com"}}]}}`,
	}
	var offsets []float64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		offset, _ := req.Variables["offset"].(float64)
		offsets = append(offsets, offset)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pages[int(offset)/2]))
	})
	client.pageSize = 2

	// when
	orders, err := client.RecentOrders(context.Background(), time.Now())

	// then
	require.NoError(t, err)
	require.Len(t, orders, 5)
	assert.Equal(t, "o-5", orders[4].ID)
	assert.Equal(t, []float64{0, 2, 4}, offsets)
}

func Test_GraphQLClient_Report(t *testing.T) {
	client := newTestClient(t, respond(t, `{"data":{"totalCustomers":2,"totalOrders":1,"totalRevenue":"1225.50"}}`, nil))

	report, err := client.Report(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &Report{TotalCustomers: 2, TotalOrders: 1, TotalRevenue: "1225.50"}, report)
}

func Test_GraphQLClient_GraphQLError(t *testing.T) {
	client := newTestClient(t, respond(t, `{"data":null,"errors":[{"message":"Internal server error."}]}`, nil))

	_, err := client.Report(context.Background())

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Internal server error."))
}

func Test_GraphQLClient_CircuitBreakerOpens(t *testing.T) {
	// given
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	// when
	_, err1 := client.Hello(context.Background())
	_, err2 := client.Hello(context.Background())
	_, err3 := client.Hello(context.Background())

	// then
	require.Error(t, err1)
	require.Error(t, err2)
	require.True(t, errors.Is(err3, gobreaker.ErrOpenState), "expected open breaker, got %v", err3)
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach the server")
}
