// Package monetization reads the in-skill product catalog and the caller's
// entitlements from the platform's monetization service.
package monetization

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"golang.org/x/text/language"

	"greeting-sender/internal/domain"
)

const (
	defaultLocale   = "en-US"
	productsPath    = "/v1/users/~current/skills/~current/inSkillProducts"
	entitledValue   = "ENTITLED"
	purchasableFlag = "PURCHASABLE"
	maxPages        = 10
)

// inSkillProductsResponse is the response shape of the products endpoint.
type inSkillProductsResponse struct {
	InSkillProducts []inSkillProduct `json:"inSkillProducts"`
	NextToken       *string          `json:"nextToken"`
}

type inSkillProduct struct {
	ProductID              string        `json:"productId"`
	ReferenceName          string        `json:"referenceName"`
	Name                   string        `json:"name"`
	Type                   string        `json:"type"`
	Summary                string        `json:"summary"`
	Entitled               string        `json:"entitled"`
	Purchasable            string        `json:"purchasable"`
	ActiveEntitlementCount int           `json:"activeEntitlementCount"`
	PurchaseMode           string        `json:"purchaseMode"`
	Price                  *productPrice `json:"price,omitempty"`
}

type productPrice struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("monetization: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Credentials are the per-request endpoint and token issued by the platform.
type Credentials struct {
	APIEndpoint    string
	APIAccessToken string
}

// Client is a focused client for the in-skill products endpoint.
type Client struct {
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 3 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 3 * time.Second}
}

func productsURL(endpoint string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if base == "" {
		return "", errors.New("monetization: api endpoint must not be empty")
	}
	return base + productsPath, nil
}

// NormalizeLocale returns a BCP 47 tag for the products request, falling back
// to en-US for empty or malformed locales.
func NormalizeLocale(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || tag == language.Und {
		return defaultLocale
	}
	return tag.String()
}

// GetCatalog returns every in-skill product with the caller's entitlement state.
func (c *Client) GetCatalog(ctx context.Context, creds Credentials, locale string) (domain.Catalog, error) {
	if strings.TrimSpace(creds.APIAccessToken) == "" {
		return nil, errors.New("monetization: api access token must not be empty")
	}
	url, err := productsURL(creds.APIEndpoint)
	if err != nil {
		return nil, err
	}

	catalog := make(domain.Catalog, 0)
	next := ""
	for page := 0; page < maxPages; page++ {
		payload, err := c.fetchPage(ctx, creds.APIAccessToken, locale, pageURL(url, next))
		if err != nil {
			return nil, err
		}
		for _, p := range payload.InSkillProducts {
			catalog = append(catalog, toProduct(p))
		}
		if payload.NextToken == nil || *payload.NextToken == "" {
			return catalog, nil
		}
		next = *payload.NextToken
	}
	return nil, fmt.Errorf("monetization: more than %d pages of products", maxPages)
}

func pageURL(base, nextToken string) string {
	if nextToken == "" {
		return base
	}
	return base + "?nextToken=" + neturl.QueryEscape(nextToken)
}

func (c *Client) fetchPage(ctx context.Context, token, locale, url string) (inSkillProductsResponse, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if reqErr != nil {
		return inSkillProductsResponse{}, fmt.Errorf("monetization: create request: %w", reqErr)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", NormalizeLocale(locale))
	req.Header.Set("Authorization", "Bearer "+token)

	raw, err := c.doJSONRequest(req, url)
	if err != nil {
		return inSkillProductsResponse{}, fmt.Errorf("monetization: request failed: %w", err)
	}

	var payload inSkillProductsResponse
	if decErr := json.Unmarshal(raw, &payload); decErr != nil {
		return inSkillProductsResponse{}, fmt.Errorf("monetization: decode response: %w", decErr)
	}
	return payload, nil
}

func toProduct(p inSkillProduct) domain.Product {
	out := domain.Product{
		ProductID:              p.ProductID,
		ReferenceName:          p.ReferenceName,
		Name:                   p.Name,
		Summary:                p.Summary,
		Purchasable:            p.Purchasable == purchasableFlag,
		Entitled:               p.Entitled == entitledValue,
		ActiveEntitlementCount: p.ActiveEntitlementCount,
	}
	if p.Price != nil {
		out.Price = &domain.Price{Amount: p.Price.Amount, Currency: p.Price.CurrencyCode}
	}
	return out
}

func (c *Client) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return nil, doErr
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}
