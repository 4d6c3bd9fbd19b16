package chaindata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nileshk/optionpulse-go/internal/config"
	"github.com/nileshk/optionpulse-go/internal/models"
)

// Client fetches option chain snapshots from the external chain-data
// service over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a chain-data client from configuration.
func NewClient(cfg config.ChainDataConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.ServiceURL, "/"),
	}
}

// FetchChain retrieves the current snapshot for a symbol.
func (c *Client) FetchChain(ctx context.Context, symbol string) (*models.OptionChainSnapshot, error) {
	endpoint := fmt.Sprintf("%s/api/v1/chain/%s", c.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chain request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chain request for %s failed: %w", symbol, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chain service returned %d for %s: %s", resp.StatusCode, symbol, strings.TrimSpace(string(body)))
	}

	var snapshot models.OptionChainSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode chain response for %s: %w", symbol, err)
	}

	return &snapshot, nil
}
