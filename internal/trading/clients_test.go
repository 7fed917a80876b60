package trading

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trade-station/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestClient() *Client {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 2
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	cfg.RateLimit = 1000
	return NewClient(cfg, testLogger())
}

func sampleTrade() models.SyntheticTrade {
	return models.SyntheticTrade{
		MarketID:     "mkt-12345",
		MarketTitle:  "Will the S&P 500 close higher this week?",
		Platform:     models.MarketKalshi,
		Side:         models.TradeSideYes,
		Contracts:    12,
		PriceCents:   47,
		StrategyID:   uuid.New(),
		StrategyName: "Momentum Alpha",
	}
}

func TestPaperSubmitTrade(t *testing.T) {
	trade := sampleTrade()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/trade", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, trade.MarketTitle, payload["marketTitle"])
		assert.Equal(t, "yes", payload["position"])
		assert.Equal(t, float64(47), payload["price"])
		assert.Equal(t, trade.StrategyID.String(), payload["strategyId"])

		json.NewEncoder(w).Encode(paperTradeResponse{Success: true})
	}))
	defer server.Close()

	client := NewPaperClient(newTestClient(), server.URL, testLogger())
	assert.NoError(t, client.SubmitTrade(context.Background(), trade))
}

func TestPaperSubmitTradeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(paperTradeResponse{Success: false, Error: "insufficient virtual balance"})
	}))
	defer server.Close()

	client := NewPaperClient(newTestClient(), server.URL, testLogger())
	err := client.SubmitTrade(context.Background(), sampleTrade())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient virtual balance")
}

func TestPaperBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/portfolio", r.URL.Path)
		fmt.Fprint(w, `{"balance": "1234.56"}`)
	}))
	defer server.Close()

	client := NewPaperClient(newTestClient(), server.URL, testLogger())
	balance, err := client.Balance(context.Background())
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("1234.56")))
}

func TestKalshiResolveTickerCachesResult(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		require.Equal(t, "/resolve-ticker", r.URL.Path)
		json.NewEncoder(w).Encode(resolveTickerResponse{
			Success: true,
			Ticker:  "INXD-25SEP05-T6500",
			Title:   "S&P 500 above 6500",
			YesAsk:  45,
			NoAsk:   57,
		})
	}))
	defer server.Close()

	client := NewKalshiClient(newTestClient(), server.URL, time.Minute, testLogger())

	first, err := client.ResolveTicker(context.Background(), "S&P 500 above 6500")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "INXD-25SEP05-T6500", first.Ticker)
	assert.Equal(t, 45, first.BestAsk(models.TradeSideYes))
	assert.Equal(t, 57, first.BestAsk(models.TradeSideNo))

	second, err := client.ResolveTicker(context.Background(), "S&P 500 above 6500")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestKalshiResolveTickerMissReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(resolveTickerResponse{Success: false})
	}))
	defer server.Close()

	client := NewKalshiClient(newTestClient(), server.URL, time.Minute, testLogger())
	market, err := client.ResolveTicker(context.Background(), "obscure market nobody lists")
	require.NoError(t, err)
	assert.Nil(t, market)
}

func TestKalshiPlaceOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/order", r.URL.Path)

		var order OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
		assert.Equal(t, "buy", order.Action)
		assert.Equal(t, "limit", order.Type)
		assert.Equal(t, 10, order.Count)

		json.NewEncoder(w).Encode(orderResponse{Success: true})
	}))
	defer server.Close()

	client := NewKalshiClient(newTestClient(), server.URL, time.Minute, testLogger())
	err := client.PlaceOrder(context.Background(), OrderRequest{
		Ticker:     "INXD-25SEP05-T6500",
		Action:     "buy",
		Side:       models.TradeSideYes,
		Count:      10,
		Type:       "limit",
		PriceCents: 45,
		StrategyID: uuid.New().String(),
	})
	assert.NoError(t, err)
}

func TestKalshiPlaceOrderRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(orderResponse{Success: false, Error: "market closed"})
	}))
	defer server.Close()

	client := NewKalshiClient(newTestClient(), server.URL, time.Minute, testLogger())
	err := client.PlaceOrder(context.Background(), OrderRequest{Ticker: "X", Count: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "market closed")
}

func TestKalshiBalanceSumsAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/balances", r.URL.Path)
		fmt.Fprint(w, `{"accounts": [{"account": "main", "balance": "100.50"}, {"account": "reserve", "balance": "49.50"}]}`)
	}))
	defer server.Close()

	client := NewKalshiClient(newTestClient(), server.URL, time.Minute, testLogger())
	balance, err := client.Balance(context.Background())
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(150)))
}

func TestBackendFetchDeployed(t *testing.T) {
	id := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/deployed", r.URL.Path)
		json.NewEncoder(w).Encode(deployedListResponse{
			Strategies: []*models.DeployedStrategy{
				{ID: id, Name: "Momentum Alpha", Status: models.StrategyStatusRunning},
			},
		})
	}))
	defer server.Close()

	client := NewBackendClient(newTestClient(), server.URL, testLogger())
	strategies, err := client.FetchDeployed(context.Background())
	require.NoError(t, err)
	require.Len(t, strategies, 1)
	assert.Equal(t, id, strategies[0].ID)
}

func TestBackendLifecycleEndpoints(t *testing.T) {
	id := uuid.New()
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewBackendClient(newTestClient(), server.URL, testLogger())
	ctx := context.Background()

	require.NoError(t, client.Deploy(ctx, &models.DeployedStrategy{ID: id}))
	require.NoError(t, client.Stop(ctx, id))
	require.NoError(t, client.Resume(ctx, id))
	require.NoError(t, client.Remove(ctx, id))

	assert.Equal(t, []string{
		"POST /deploy",
		fmt.Sprintf("POST /deployed/%s/stop", id),
		fmt.Sprintf("POST /deployed/%s/resume", id),
		fmt.Sprintf("DELETE /deployed/%s", id),
	}, calls)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"balance": "10"}`)
	}))
	defer server.Close()

	client := NewPaperClient(newTestClient(), server.URL, testLogger())
	balance, err := client.Balance(context.Background())
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(3), atomic.LoadInt64(&hits))
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewPaperClient(newTestClient(), server.URL, testLogger())
	_, err := client.Balance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestClientSetsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"balance": "1"}`)
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.BearerToken = "test-api-key"
	cfg.RateLimit = 1000
	client := NewPaperClient(NewClient(cfg, testLogger()), server.URL, testLogger())

	_, err := client.Balance(context.Background())
	require.NoError(t, err)
}

func TestBalancesRoutesByMode(t *testing.T) {
	paperServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"balance": "200"}`)
	}))
	defer paperServer.Close()

	liveServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"accounts": [{"account": "main", "balance": "75"}]}`)
	}))
	defer liveServer.Close()

	balances := NewBalances(
		NewPaperClient(newTestClient(), paperServer.URL, testLogger()),
		NewKalshiClient(newTestClient(), liveServer.URL, time.Minute, testLogger()),
	)
	ctx := context.Background()

	paper, err := balances.AvailableBalance(ctx, models.TradingModePaper)
	require.NoError(t, err)
	assert.True(t, paper.Equal(decimal.NewFromInt(200)))

	live, err := balances.AvailableBalance(ctx, models.TradingModeLive)
	require.NoError(t, err)
	assert.True(t, live.Equal(decimal.NewFromInt(75)))

	_, err = balances.AvailableBalance(ctx, models.TradingMode("margin"))
	assert.Error(t, err)
}
