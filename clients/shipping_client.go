// Package clients holds HTTP clients for the checkout API, used by
// checkout sessions running outside the server process.
package clients

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

	"checkout-service/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// ShippingClient requests estimates from POST /api/shipping/estimate and
// validates every response before handing it to the caller.
type ShippingClient struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewShippingClient creates a client for the API at baseURL. The
// aggregator applies its own per-request deadline; timeout is a backstop.
func NewShippingClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ShippingClient {
	return &ShippingClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		validate: validator.New(),
		logger:   logger,
	}
}

// Estimate implements checkout.Quoter. Errors are always *ShippingError.
func (c *ShippingClient) Estimate(ctx context.Context, req models.EstimateRequest) (*models.ShippingEstimate, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ShippingError{Kind: KindInvalid, Message: "encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/shipping/estimate", bytes.NewReader(body))
	if err != nil {
		return nil, &ShippingError{Kind: KindNetwork, Message: "create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ShippingError{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ShippingError{Kind: KindNetwork, StatusCode: resp.StatusCode, Message: "read response", Err: err}
	}

	c.logger.Debug("Shipping estimate response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	var envelope models.EstimateResponse
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		return nil, &ShippingError{Kind: KindHTTPStatus, StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &ShippingError{Kind: KindDecode, StatusCode: resp.StatusCode, Message: "malformed response body", Err: decodeErr}
	}

	return c.checkEnvelope(resp.StatusCode, envelope)
}

func (c *ShippingClient) checkEnvelope(status int, envelope models.EstimateResponse) (*models.ShippingEstimate, error) {
	if !envelope.OK {
		msg := envelope.Error
		if msg == "" {
			msg = "estimate rejected"
		}
		return nil, &ShippingError{Kind: KindRejected, StatusCode: status, Message: msg}
	}
	if envelope.Shipping == nil {
		return nil, &ShippingError{Kind: KindInvalid, StatusCode: status, Message: "response has no shipping estimate"}
	}
	if err := c.validate.Struct(envelope.Shipping); err != nil {
		var verrs validator.ValidationErrors
		msg := err.Error()
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msg = fmt.Sprintf("field %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return nil, &ShippingError{Kind: KindInvalid, StatusCode: status, Message: msg, Err: err}
	}
	return envelope.Shipping, nil
}
