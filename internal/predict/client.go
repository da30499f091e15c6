package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	predictPath = "/predict"
	healthPath  = "/health"
)

// Predictor returns the model's prediction for a single input value.
type Predictor interface {
	Predict(ctx context.Context, x float64) (float64, error)
}

// HealthChecker reports the fitted model served by the prediction service.
type HealthChecker interface {
	Health(ctx context.Context) (*ModelInfo, error)
}

// ModelInfo is the fitted line y = Coefficient*x + Intercept.
type ModelInfo struct {
	Coefficient float64 `json:"coefficient"`
	Intercept   float64 `json:"intercept"`
}

type predictRequest struct {
	XTest []float64 `json:"X_test"`
}

type predictResponse struct {
	Predictions []float64  `json:"predictions"`
	ModelInfo   *ModelInfo `json:"model_info,omitempty"`
}

type healthResponse struct {
	Status    string     `json:"status"`
	ModelInfo *ModelInfo `json:"model_info"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Client struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

type ClientConfig struct {
	// BaseURL is the service root; the client appends /predict and /health.
	BaseURL string
	// Timeout bounds each request. Zero leaves it to the transport.
	Timeout   time.Duration
	UserAgent string
	Logger    *zap.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		client:  newHTTPClient(cfg),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// Endpoint is the URL predictions are posted to.
func (c *Client) Endpoint() string {
	return c.baseURL + predictPath
}

// Predict posts x as a one-element batch and returns the first prediction.
func (c *Client) Predict(ctx context.Context, x float64) (float64, error) {
	body, err := json.Marshal(predictRequest{XTest: []float64{x}})
	if err != nil {
		return 0, &RequestError{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return 0, &RequestError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting prediction", zap.String("url", c.Endpoint()), zap.Float64("x", x))

	var resp predictResponse
	if err := c.do(req, &resp); err != nil {
		return 0, err
	}

	if len(resp.Predictions) == 0 {
		return 0, &RequestError{StatusCode: http.StatusOK, Message: "response contained no predictions"}
	}

	c.logger.Debug("received prediction",
		zap.Float64("x", x),
		zap.Float64("prediction", resp.Predictions[0]),
		zap.Int("count", len(resp.Predictions)),
	)

	return resp.Predictions[0], nil
}

// Health fetches the service status and the fitted model parameters.
func (c *Client) Health(ctx context.Context) (*ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	var resp healthResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if resp.ModelInfo == nil {
		return nil, &RequestError{StatusCode: http.StatusOK, Message: "health response missing model_info"}
	}

	return resp.ModelInfo, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &RequestError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{StatusCode: resp.StatusCode}
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			reqErr.Message = errResp.Error
		}
		c.logger.Warn("prediction service returned an error",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.String("message", reqErr.Message),
		)
		return reqErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &RequestError{StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid response body: %w", err)}
	}

	return nil
}

// IsRequestError reports whether err came from the network call rather than
// from input validation.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}
