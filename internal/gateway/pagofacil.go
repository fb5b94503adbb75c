package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/grupo16/tutoring-center-api/pkg/config"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
)

const (
	statusOK          = 1
	statusQRGenerated = 2007

	// paymentStatus value the gateway reports once the QR has been paid.
	PaymentStatusCompleted = 2
)

// TokenCache stores the gateway access token between requests. A miss is
// reported as an empty token, not an error.
type TokenCache interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string, ttl time.Duration) error
}

// envelope is the response wrapper every gateway endpoint uses.
type envelope struct {
	Error   int             `json:"error"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Values  json.RawMessage `json:"values"`
}

// QRRequest is the payload for QR generation.
type QRRequest struct {
	PaymentMethod int           `json:"paymentMethod"`
	ClientName    string        `json:"clientName"`
	DocumentType  int           `json:"documentType"`
	DocumentID    string        `json:"documentId"`
	PhoneNumber   string        `json:"phoneNumber"`
	Email         string        `json:"email"`
	PaymentNumber string        `json:"paymentNumber"`
	Amount        float64       `json:"amount"`
	Currency      int           `json:"currency"`
	ClientCode    string        `json:"clientCode"`
	CallbackURL   string        `json:"callbackUrl"`
	OrderDetail   []OrderDetail `json:"orderDetail"`
}

// OrderDetail is a line item in the QR order.
type OrderDetail struct {
	Serial   int     `json:"serial"`
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// QRResponse carries the generated QR image and the gateway transaction id.
type QRResponse struct {
	QRImage        string  `json:"qrImage"`
	TransactionID  string  `json:"transactionId"`
	ExpirationDate *string `json:"expirationDate"`
}

// TransactionStatus is the result of a transaction status query.
type TransactionStatus struct {
	PaymentStatus int    `json:"paymentStatus"`
	Message       string `json:"message"`
}

// Paid reports whether the gateway considers the transaction settled.
func (s TransactionStatus) Paid() bool {
	return s.PaymentStatus == PaymentStatusCompleted
}

type loginValues struct {
	AccessToken      string `json:"accessToken"`
	ExpiresInMinutes int    `json:"expiresInMinutes"`
}

// Client talks to the PagoFacil QR gateway. Access tokens are cached until
// shortly before their expiry so concurrent QR generations share one login.
type Client struct {
	cfg    config.GatewayConfig
	http   *http.Client
	cache  TokenCache
	logger *zap.Logger
}

// NewClient constructs a gateway client.
func NewClient(cfg config.GatewayConfig, cache TokenCache, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.RequestTimeout},
		cache:  cache,
		logger: logger,
	}
}

// GenerateQR requests a payment QR for the given order.
func (c *Client) GenerateQR(ctx context.Context, req QRRequest) (*QRResponse, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	env, err := c.post(ctx, "/generate-qr", token, req)
	if err != nil {
		return nil, err
	}
	if env.Error != 0 || env.Status != statusQRGenerated {
		c.logger.Warn("gateway rejected qr generation",
			zap.Int("gateway_status", env.Status),
			zap.String("gateway_message", env.Message))
		return nil, appErrors.Clone(appErrors.ErrExternalService, gatewayMessage(env))
	}

	var qr QRResponse
	if err := json.Unmarshal(env.Values, &qr); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExternalService.Code,
			appErrors.ErrExternalService.Status, "payment gateway returned a malformed QR payload")
	}
	return &qr, nil
}

// QueryTransaction asks the gateway for the current state of a transaction.
func (c *Client) QueryTransaction(ctx context.Context, gatewayTxnID, companyTxnID string) (*TransactionStatus, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]string{
		"pagofacilTransactionId": gatewayTxnID,
		"companyTransactionId":   companyTxnID,
	}
	env, err := c.post(ctx, "/query-transaction", token, body)
	if err != nil {
		return nil, err
	}
	if env.Error != 0 {
		return nil, appErrors.Clone(appErrors.ErrExternalService, gatewayMessage(env))
	}

	var status TransactionStatus
	if err := json.Unmarshal(env.Values, &status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExternalService.Code,
			appErrors.ErrExternalService.Status, "payment gateway returned a malformed status payload")
	}
	return &status, nil
}

// token returns a cached access token or logs in for a fresh one.
func (c *Client) token(ctx context.Context) (string, error) {
	if cached, err := c.cache.Get(ctx); err != nil {
		c.logger.Warn("gateway token cache unavailable", zap.Error(err))
	} else if cached != "" {
		return cached, nil
	}
	return c.login(ctx)
}

func (c *Client) login(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/login", http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("tcTokenService", c.cfg.TokenService)
	req.Header.Set("tcTokenSecret", c.cfg.TokenSecret)

	env, err := c.do(req)
	if err != nil {
		return "", err
	}
	if env.Error != 0 || env.Status != statusOK {
		return "", appErrors.Clone(appErrors.ErrExternalService, gatewayMessage(env))
	}

	var values loginValues
	if err := json.Unmarshal(env.Values, &values); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrExternalService.Code,
			appErrors.ErrExternalService.Status, "payment gateway returned a malformed login payload")
	}
	if values.AccessToken == "" {
		return "", appErrors.Clone(appErrors.ErrExternalService, "payment gateway returned an empty access token")
	}

	ttl := time.Duration(values.ExpiresInMinutes)*time.Minute - c.cfg.TokenSafety
	if ttl > 0 {
		if err := c.cache.Set(ctx, values.AccessToken, ttl); err != nil {
			c.logger.Warn("failed to cache gateway token", zap.Error(err))
		}
	}
	return values.AccessToken, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload interface{}) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExternalService.Code,
			appErrors.ErrExternalService.Status, "payment gateway is unreachable")
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExternalService.Code,
			appErrors.ErrExternalService.Status, "payment gateway returned a malformed response")
	}
	return &env, nil
}

func gatewayMessage(env *envelope) string {
	if env.Message != "" {
		return "payment gateway error: " + env.Message
	}
	return fmt.Sprintf("payment gateway error (status %d)", env.Status)
}
