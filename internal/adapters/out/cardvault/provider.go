// Package cardvault resolves the masked PAN of a card order from the card
// issuing service. Full card data never crosses into this system; the vault
// only ever returns the mask.
package cardvault

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

const requestTimeout = 5 * time.Second

// Client implements the card data provider port over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a card vault client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// MaskedPAN returns the masked card number of the order.
func (c *Client) MaskedPAN(ctx context.Context, orderID kernel.UUID) (string, error) {
	if err := orderID.Validate(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/orders/%s/card-mask", c.baseURL, orderID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", errs.NewObjectNotFoundError("card mask", orderID.String())
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("card vault returned status %d", resp.StatusCode)
	}

	var body struct {
		CardMask string `json:"card_mask"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	return body.CardMask, nil
}
