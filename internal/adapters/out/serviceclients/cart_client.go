// Package serviceclients provides HTTP implementations of the collaborator
// ports: the cart, payment, and delivery services the ordering flow talks to.
// Each client owns its http.Client with a conservative timeout and decodes
// responses into the port types; transport details never leak past this package.
package serviceclients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"foodorder/internal/core/ports"

	"github.com/shopspring/decimal"
)

const clientTimeout = 5 * time.Second

// HTTPCartClient implements ports.CartClient against the cart service API.
type HTTPCartClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPCartClient creates a cart service client for the given base URL.
func NewHTTPCartClient(baseURL string) *HTTPCartClient {
	return &HTTPCartClient{
		client: &http.Client{
			Timeout: clientTimeout,
		},
		baseURL: baseURL,
	}
}

type cartResponse struct {
	UserID       int64              `json:"userId"`
	RestaurantID int64              `json:"restaurantId"`
	Items        []cartItemResponse `json:"items"`
}

type cartItemResponse struct {
	MenuItemID int64  `json:"menuItemId"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"price"`
}

// GetOrCreateCart returns the user's current cart, creating an empty one on
// the cart service if none exists.
//
// GET /api/v1/carts/{userId}
func (c *HTTPCartClient) GetOrCreateCart(ctx context.Context, userID int64) (*ports.CartSnapshot, error) {
	endpoint, err := url.JoinPath(c.baseURL, "api", "v1", "carts", strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cart service returned status %d", resp.StatusCode)
	}

	var body cartResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	items := make([]ports.CartItem, 0, len(body.Items))
	for _, item := range body.Items {
		price, priceErr := decimal.NewFromString(item.Price)
		if priceErr != nil {
			return nil, fmt.Errorf("cart item %d has malformed price %q: %w", item.MenuItemID, item.Price, priceErr)
		}
		items = append(items, ports.CartItem{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Price:      price,
		})
	}

	return &ports.CartSnapshot{
		UserID:       body.UserID,
		RestaurantID: body.RestaurantID,
		Items:        items,
	}, nil
}

// ClearCart empties the user's cart after a successful placement.
//
// DELETE /api/v1/carts/{userId}/items
func (c *HTTPCartClient) ClearCart(ctx context.Context, userID int64) error {
	endpoint, err := url.JoinPath(c.baseURL, "api", "v1", "carts", strconv.FormatInt(userID, 10), "items")
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("cart service returned status %d", resp.StatusCode)
	}

	return nil
}
