package serviceclients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"foodorder/internal/core/ports"
)

// HTTPDeliveryClient implements ports.DeliveryClient against the delivery
// service API.
type HTTPDeliveryClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPDeliveryClient creates a delivery service client for the given base URL.
func NewHTTPDeliveryClient(baseURL string) *HTTPDeliveryClient {
	return &HTTPDeliveryClient{
		client: &http.Client{
			Timeout: clientTimeout,
		},
		baseURL: baseURL,
	}
}

type assignAgentRequestBody struct {
	OrderID         int64  `json:"orderId"`
	RestaurantID    int64  `json:"restaurantId"`
	DeliveryAddress string `json:"deliveryAddress"`
}

type assignAgentResponseBody struct {
	AgentID    int64 `json:"agentId"`
	DeliveryID int64 `json:"deliveryId"`
}

// AssignAgent requests a delivery agent for an order going out for delivery.
//
// POST /api/v1/deliveries
func (c *HTTPDeliveryClient) AssignAgent(
	ctx context.Context,
	assignment ports.AgentAssignment,
) (*ports.AgentAssignmentResult, error) {
	endpoint, err := url.JoinPath(c.baseURL, "api", "v1", "deliveries")
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(assignAgentRequestBody{
		OrderID:         assignment.OrderID,
		RestaurantID:    assignment.RestaurantID,
		DeliveryAddress: assignment.DeliveryAddress,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("delivery service returned status %d", resp.StatusCode)
	}

	var body assignAgentResponseBody
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	return &ports.AgentAssignmentResult{
		AgentID:    body.AgentID,
		DeliveryID: body.DeliveryID,
	}, nil
}

type notifyDeliveredRequestBody struct {
	DeliveredAt time.Time `json:"deliveredAt"`
}

// NotifyDelivered tells the delivery service a delivery finished.
//
// POST /api/v1/deliveries/{deliveryId}/complete
func (c *HTTPDeliveryClient) NotifyDelivered(ctx context.Context, deliveryID int64, deliveredAt time.Time) error {
	endpoint, err := url.JoinPath(c.baseURL, "api", "v1", "deliveries",
		strconv.FormatInt(deliveryID, 10), "complete")
	if err != nil {
		return err
	}

	payload, err := json.Marshal(notifyDeliveredRequestBody{DeliveredAt: deliveredAt})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delivery service returned status %d", resp.StatusCode)
	}

	return nil
}
