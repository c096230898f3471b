// Package catalog resolves product snapshots from the external catalog service.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// Client implements ports.Catalog over the catalog's REST interface:
// GET {base}/tenants/{tenant_id}/products/{product_id}.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.Catalog = (*Client)(nil)

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

type productResponse struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	ImageURL  string      `json:"image_url"`
}

// Resolve fetches one product. A 404 maps to ObjectNotFoundError.
func (c *Client) Resolve(ctx context.Context, tenantID, productID string) (order.Product, error) {
	endpoint, err := url.JoinPath(c.baseURL, "tenants", tenantID, "products", productID)
	if err != nil {
		return order.Product{}, fmt.Errorf("catalog url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return order.Product{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return order.Product{}, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return order.Product{}, errs.NewObjectNotFoundError("product", productID)
	case resp.StatusCode != http.StatusOK:
		return order.Product{}, fmt.Errorf("catalog returned %d for product %s", resp.StatusCode, productID)
	}

	var body productResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return order.Product{}, fmt.Errorf("decode catalog product %s: %w", productID, err)
	}
	if body.ProductID == "" {
		body.ProductID = productID
	}

	return order.NewProduct(tenantID, body.ProductID, body.Name, body.Price.String(), body.ImageURL)
}
