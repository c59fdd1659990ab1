package serviceclients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"foodorder/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
)

const (
	paymentRetryInterval = 1 * time.Second
	paymentMaxAttempts   = 3
)

// HTTPPaymentClient implements ports.PaymentClient against the payment
// service API. Transient failures are retried at a fixed interval; a
// rejected payment (4xx) is not retried, the payment service has already
// made its decision.
type HTTPPaymentClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPPaymentClient creates a payment service client for the given base URL.
func NewHTTPPaymentClient(baseURL string) *HTTPPaymentClient {
	return &HTTPPaymentClient{
		client: &http.Client{
			Timeout: clientTimeout,
		},
		baseURL: baseURL,
	}
}

type paymentRequestBody struct {
	OrderID int64  `json:"orderId"`
	Amount  string `json:"amount"`
	Method  string `json:"paymentMethod"`
	PayerID int64  `json:"payerId"`
}

type paymentResponseBody struct {
	PaymentID int64  `json:"paymentId"`
	Status    string `json:"status"`
}

// ProcessPayment charges the payer for the order.
//
// POST /api/v1/payments
func (c *HTTPPaymentClient) ProcessPayment(
	ctx context.Context,
	req ports.PaymentRequest,
) (*ports.PaymentResult, error) {
	endpoint, err := url.JoinPath(c.baseURL, "api", "v1", "payments")
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(paymentRequestBody{
		OrderID: req.OrderID,
		Amount:  req.Amount.String(),
		Method:  req.Method,
		PayerID: req.PayerID,
	})
	if err != nil {
		return nil, err
	}

	var result *ports.PaymentResult
	attempt := func() error {
		httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if reqErr != nil {
			return backoff.Permanent(reqErr)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, doErr := c.client.Do(httpReq)
		if resp != nil {
			defer resp.Body.Close()
		}
		if doErr != nil {
			return doErr
		}

		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
			var body paymentResponseBody
			if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr != nil {
				return backoff.Permanent(decodeErr)
			}
			result = &ports.PaymentResult{PaymentID: body.PaymentID, Status: body.Status}
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return backoff.Permanent(fmt.Errorf("payment rejected with status %d", resp.StatusCode))
		default:
			return fmt.Errorf("payment service returned status %d", resp.StatusCode)
		}
	}

	// The policy is stateless across calls: each placement gets a fresh
	// three-attempt budget.
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(paymentRetryInterval), paymentMaxAttempts-1),
		ctx,
	)
	if err = backoff.Retry(attempt, policy); err != nil {
		return nil, err
	}

	return result, nil
}
