package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grupo16/tutoring-center-api/pkg/config"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
)

type memoryTokenCache struct {
	mu    sync.Mutex
	token string
	ttl   time.Duration
}

func (c *memoryTokenCache) Get(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, nil
}

func (c *memoryTokenCache) Set(ctx context.Context, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.ttl = ttl
	return nil
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *memoryTokenCache, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cache := &memoryTokenCache{}
	client := NewClient(config.GatewayConfig{
		BaseURL:        server.URL,
		TokenService:   "svc-token",
		TokenSecret:    "svc-secret",
		RequestTimeout: 5 * time.Second,
		TokenSafety:    5 * time.Minute,
	}, cache, zap.NewNop())
	return client, cache, server
}

func writeEnvelope(w http.ResponseWriter, errCode, status int, message string, values interface{}) {
	raw, _ := json.Marshal(values)
	_ = json.NewEncoder(w).Encode(envelope{Error: errCode, Status: status, Message: message, Values: raw})
}

func TestGenerateQRSuccess(t *testing.T) {
	var loginCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		loginCalls++
		assert.Equal(t, "svc-token", r.Header.Get("tcTokenService"))
		assert.Equal(t, "svc-secret", r.Header.Get("tcTokenSecret"))
		writeEnvelope(w, 0, 1, "ok", loginValues{AccessToken: "tok-123", ExpiresInMinutes: 60})
	})
	mux.HandleFunc("/generate-qr", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		var req QRRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 150.0, req.Amount)
		writeEnvelope(w, 0, 2007, "qr generated", QRResponse{QRImage: "base64-img", TransactionID: "pf-999"})
	})

	client, cache, _ := newTestClient(t, mux)

	qr, err := client.GenerateQR(context.Background(), QRRequest{Amount: 150.0})
	require.NoError(t, err)
	assert.Equal(t, "base64-img", qr.QRImage)
	assert.Equal(t, "pf-999", qr.TransactionID)

	assert.Equal(t, 1, loginCalls)
	assert.Equal(t, "tok-123", cache.token)
	assert.Equal(t, 55*time.Minute, cache.ttl)
}

func TestGenerateQRUsesCachedToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		t.Error("login should not be called when the token is cached")
	})
	mux.HandleFunc("/generate-qr", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer cached-tok", r.Header.Get("Authorization"))
		writeEnvelope(w, 0, 2007, "ok", QRResponse{QRImage: "img", TransactionID: "pf-1"})
	})

	client, cache, _ := newTestClient(t, mux)
	cache.token = "cached-tok"

	_, err := client.GenerateQR(context.Background(), QRRequest{})
	require.NoError(t, err)
}

func TestGenerateQRGatewayRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, 1, "ok", loginValues{AccessToken: "tok", ExpiresInMinutes: 60})
	})
	mux.HandleFunc("/generate-qr", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 1, 400, "invalid amount", nil)
	})

	client, _, _ := newTestClient(t, mux)

	_, err := client.GenerateQR(context.Background(), QRRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrExternalService.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "invalid amount")
}

func TestLoginFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 1, 0, "bad credentials", nil)
	})

	client, cache, _ := newTestClient(t, mux)

	_, err := client.GenerateQR(context.Background(), QRRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrExternalService.Code, appErr.Code)
	assert.Empty(t, cache.token)
}

func TestQueryTransactionPaid(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, 1, "ok", loginValues{AccessToken: "tok", ExpiresInMinutes: 60})
	})
	mux.HandleFunc("/query-transaction", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pf-7", body["pagofacilTransactionId"])
		assert.Equal(t, "grupo16sa-00042", body["companyTransactionId"])
		writeEnvelope(w, 0, 1, "ok", TransactionStatus{PaymentStatus: 2})
	})

	client, _, _ := newTestClient(t, mux)

	status, err := client.QueryTransaction(context.Background(), "pf-7", "grupo16sa-00042")
	require.NoError(t, err)
	assert.True(t, status.Paid())
}

func TestQueryTransactionNotPaid(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, 1, "ok", loginValues{AccessToken: "tok", ExpiresInMinutes: 60})
	})
	mux.HandleFunc("/query-transaction", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, 1, "ok", TransactionStatus{PaymentStatus: 1})
	})

	client, _, _ := newTestClient(t, mux)

	status, err := client.QueryTransaction(context.Background(), "pf-7", "grupo16sa-00001")
	require.NoError(t, err)
	assert.False(t, status.Paid())
}

func TestGatewayUnreachable(t *testing.T) {
	client := NewClient(config.GatewayConfig{
		BaseURL:        "http://127.0.0.1:1",
		RequestTimeout: 500 * time.Millisecond,
	}, &memoryTokenCache{}, zap.NewNop())

	_, err := client.GenerateQR(context.Background(), QRRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrExternalService.Code, appErr.Code)
}
