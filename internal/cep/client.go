// Package cep resolves Brazilian postal codes (CEP) to address fields via
// the public ViaCep API. Responses for a given code never change, so they
// are cached with a generous TTL when a cache is wired in.
package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jcmexdev/backoffice/internal/apperr"
	"github.com/jcmexdev/backoffice/internal/customer"
	"github.com/jcmexdev/backoffice/internal/pkg/cache"
)

const (
	// DefaultBaseURL is the public ViaCep endpoint.
	DefaultBaseURL = "https://viacep.com.br"

	cacheTTL = 24 * time.Hour
)

// response is the ViaCep wire format. "erro" is true when the code does not
// exist; the provider still answers 200 in that case.
type response struct {
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	Region       string `json:"uf"`
	Error        bool   `json:"erro"`
}

var _ customer.AddressLookup = (*Client)(nil)

// Client implements customer.AddressLookup over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      cache.Cache // nil-safe: caching skipped if nil
}

// NewClient builds a lookup client. c may be nil to disable caching.
func NewClient(baseURL string, c cache.Cache) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		cache:      c,
	}
}

// Lookup resolves a postal code. Codes the provider rejects come back as a
// BusinessError; transport failures are returned as-is so the caller's
// retry policy can act on them.
func (c *Client) Lookup(ctx context.Context, postalCode string) (*customer.LookedUpAddress, error) {
	code := strings.ReplaceAll(strings.TrimSpace(postalCode), "-", "")
	if code == "" {
		return nil, apperr.Business("postal code is required")
	}

	if cached := c.fromCache(ctx, code); cached != nil {
		return cached, nil
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("cep: build request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cep: lookup %s: %w", code, err)
	}
	defer res.Body.Close()

	// ViaCep answers 400 for malformed codes and 200+erro for unknown ones.
	if res.StatusCode == http.StatusBadRequest {
		return nil, apperr.Business("invalid postal code")
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cep: lookup %s: unexpected status %d", code, res.StatusCode)
	}

	var body response
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("cep: decode response for %s: %w", code, err)
	}
	if body.Error {
		return nil, apperr.Business("invalid postal code")
	}

	addr := &customer.LookedUpAddress{
		Street:       body.Street,
		Neighborhood: body.Neighborhood,
		City:         body.City,
		Region:       body.Region,
	}
	c.toCache(ctx, code, addr)
	return addr, nil
}

func (c *Client) fromCache(ctx context.Context, code string) *customer.LookedUpAddress {
	if c.cache == nil {
		return nil
	}
	raw, err := c.cache.Get(ctx, c.cache.GenerateKey("lookup", code))
	if err != nil || raw == "" {
		return nil
	}
	var addr customer.LookedUpAddress
	if err := json.Unmarshal([]byte(raw), &addr); err != nil {
		return nil
	}
	return &addr
}

func (c *Client) toCache(ctx context.Context, code string, addr *customer.LookedUpAddress) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(addr)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, c.cache.GenerateKey("lookup", code), string(raw), cacheTTL); err != nil {
		slog.DebugContext(ctx, "cep cache write failed", "code", code, "error", err)
	}
}
