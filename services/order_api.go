package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/tailoring-orders-portal/models"
)

// ErrMissingToken is returned when a call is made without a bearer token
var ErrMissingToken = errors.New("missing bearer token")

// APIError is a failure reported by the order service itself
type APIError struct {
	StatusCode int
	Message    string // server message, may be empty
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("order service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("order service returned status %d: %s", e.StatusCode, e.Message)
}

// TransportError means no response was received from the order service
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("order service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// OrderAPI defines the order service operations used by the portal
type OrderAPI interface {
	ListMyOrders(ctx context.Context, token string) ([]models.Order, error)
	DeleteOrder(ctx context.Context, token, orderID string) error
	UpdateOrder(ctx context.Context, token string, update models.OrderUpdate) (*models.Order, error)
}

// HTTPOrderAPI implements OrderAPI over the order service REST endpoints
type HTTPOrderAPI struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// envelope mirrors the {success, message, ...} body of every response
type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Orders  []models.Order `json:"orders"`
	Order   *models.Order  `json:"order"`
}

// NewHTTPOrderAPI creates an order service client. A zero timeout disables it.
func NewHTTPOrderAPI(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPOrderAPI, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse order api url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("order api url must be absolute")
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &HTTPOrderAPI{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// ListMyOrders fetches the orders of the user identified by token
func (c *HTTPOrderAPI) ListMyOrders(ctx context.Context, token string) ([]models.Order, error) {
	env, err := c.do(ctx, http.MethodGet, token, nil, "api", "orders", "my-orders")
	if err != nil {
		return nil, err
	}
	if env.Orders == nil {
		return []models.Order{}, nil
	}
	return env.Orders, nil
}

// DeleteOrder deletes one order
func (c *HTTPOrderAPI) DeleteOrder(ctx context.Context, token, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("delete order: empty order id")
	}
	_, err := c.do(ctx, http.MethodDelete, token, nil, "api", "orders", orderID)
	return err
}

// UpdateOrder replaces the editable fields of an order and returns the
// order as stored by the service
func (c *HTTPOrderAPI) UpdateOrder(ctx context.Context, token string, update models.OrderUpdate) (*models.Order, error) {
	if update.ID == "" {
		return nil, fmt.Errorf("update order: empty order id")
	}
	body, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("encode order update: %w", err)
	}
	env, err := c.do(ctx, http.MethodPut, token, body, "api", "orders", update.ID)
	if err != nil {
		return nil, err
	}
	if env.Order == nil {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "response did not include the updated order"}
	}
	return env.Order, nil
}

func (c *HTTPOrderAPI) do(ctx context.Context, method, token string, body []byte, segments ...string) (*envelope, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	endpoint := c.baseURL.JoinPath(escaped...)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With(
		slog.String("method", method),
		slog.String("path", endpoint.Path),
		slog.String("request_id", requestID),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("order service request failed", slog.String("error", err.Error()))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("order service rejected request", slog.Int("status", resp.StatusCode), slog.String("message", env.Message))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		log.Error("order service returned an unreadable body", slog.Int("status", resp.StatusCode), slog.String("error", decodeErr.Error()))
		return nil, &APIError{StatusCode: resp.StatusCode}
	}
	if !env.Success {
		log.Warn("order service reported failure", slog.Int("status", resp.StatusCode), slog.String("message", env.Message))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	log.Debug("order service request succeeded", slog.Int("status", resp.StatusCode))
	return &env, nil
}
