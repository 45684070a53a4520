// Package predict posts prediction requests to the recommendation endpoint and
// classifies the outcome: a decoded response, a *ServerRejectedError, or a
// *TransportError. It performs exactly one exchange per call and never retries.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/goliatone/go-fertform/pkg/contract"
	"github.com/goliatone/go-fertform/pkg/model"
)

const (
	// DefaultEndpoint matches the development server of the prediction service.
	DefaultEndpoint = "http://127.0.0.1:5000/predict"
	// DefaultTimeout bounds a single exchange.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// Predictor performs a single prediction exchange.
type Predictor interface {
	Predict(ctx context.Context, req model.PredictionRequest) (model.PredictionResponse, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(ctx context.Context, req model.PredictionRequest) (model.PredictionResponse, error)

// Predict calls fn.
func (fn PredictorFunc) Predict(ctx context.Context, req model.PredictionRequest) (model.PredictionResponse, error) {
	return fn(ctx, req)
}

// Client is the HTTP Predictor.
type Client struct {
	endpoint    string
	http        *http.Client
	timeout     time.Duration
	contract    *contract.Contract
	contractSet bool
	breaker     *gobreaker.CircuitBreaker
	logger      *zap.Logger
	newID       func() string
}

var _ Predictor = (*Client)(nil)

// New constructs a client for the given endpoint URL. Unless WithContract says
// otherwise, payloads are validated against the embedded contract.
func New(endpoint string, options ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("predict: parse endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("predict: endpoint %q must be an http(s) URL", endpoint)
	}

	c := &Client{
		endpoint: parsed.String(),
		timeout:  DefaultTimeout,
		logger:   zap.NewNop(),
		newID:    uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if !c.contractSet {
		ct, err := contract.Default()
		if err != nil {
			return nil, fmt.Errorf("predict: load contract: %w", err)
		}
		c.contract = ct
	}
	return c, nil
}

// Endpoint reports the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Predict posts req as JSON and decodes the outcome.
func (c *Client) Predict(ctx context.Context, req model.PredictionRequest) (model.PredictionResponse, error) {
	if c.breaker == nil {
		return c.exchange(ctx, req)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.exchange(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("prediction skipped", zap.String("breaker", c.breaker.Name()), zap.Error(err))
			return model.PredictionResponse{}, &TransportError{Op: "breaker", Err: err}
		}
		return model.PredictionResponse{}, err
	}
	return out.(model.PredictionResponse), nil
}

func (c *Client) exchange(ctx context.Context, req model.PredictionRequest) (model.PredictionResponse, error) {
	requestID, ok := RequestIDFromContext(ctx)
	if !ok {
		requestID = c.newID()
	}
	logger := c.logger.With(zap.String("request_id", requestID))

	if err := req.Validate(); err != nil {
		return model.PredictionResponse{}, &TransportError{Op: "encode", RequestID: requestID, Err: err}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return model.PredictionResponse{}, &TransportError{Op: "encode", RequestID: requestID, Err: err}
	}
	if c.contract != nil {
		if err := c.contract.ValidateRequest(body); err != nil {
			return model.PredictionResponse{}, &TransportError{Op: "encode", RequestID: requestID, Err: err}
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.PredictionResponse{}, &TransportError{Op: "request", RequestID: requestID, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		logger.Debug("prediction request failed", zap.Error(err))
		return model.PredictionResponse{}, &TransportError{Op: "send", RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.PredictionResponse{}, &TransportError{Op: "read", RequestID: requestID, Err: err}
	}
	logger.Debug("prediction response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.PredictionResponse{}, rejection(resp.StatusCode, requestID, data)
	}

	if c.contract != nil {
		if err := c.contract.ValidateResponse(resp.StatusCode, data); err != nil {
			return model.PredictionResponse{}, &TransportError{Op: "decode", RequestID: requestID, Err: err}
		}
	}
	var out model.PredictionResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return model.PredictionResponse{}, &TransportError{Op: "decode", RequestID: requestID, Err: err}
	}
	return out, nil
}

// rejection turns a non-2xx body into a ServerRejectedError. A body that is not
// a JSON value cannot be read as an error payload and counts as a transport
// failure.
func rejection(status int, requestID string, data []byte) error {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return &TransportError{Op: "decode", RequestID: requestID, Err: fmt.Errorf("status %d: %w", status, err)}
	}
	if payload == nil {
		return &TransportError{Op: "decode", RequestID: requestID, Err: fmt.Errorf("status %d: null error body", status)}
	}

	rejected := &ServerRejectedError{StatusCode: status, RequestID: requestID}
	if obj, ok := payload.(map[string]any); ok {
		if msg, ok := obj["error"].(string); ok {
			rejected.Message = msg
		}
	}
	return rejected
}
