// Package apollo provides a client for the Apollo organization enrichment and
// people search APIs.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://api.apollo.io/v1"
	defaultTimeout = 15 * time.Second
)

// Client defines the Apollo operations used by the pipeline.
type Client interface {
	EnrichOrganization(ctx context.Context, req EnrichRequest) (*EnrichResponse, error)
	SearchPeople(ctx context.Context, req PeopleSearchRequest) (*PeopleSearchResponse, error)
}

// EnrichRequest is the body for POST /organizations/enrich.
type EnrichRequest struct {
	OrganizationName string  `json:"organization_name"`
	Domain           *string `json:"domain"`
}

// EnrichResponse is the response from POST /organizations/enrich. A nil
// Organization means Apollo found no match.
type EnrichResponse struct {
	Organization *Organization `json:"organization"`
}

// Organization is the firmographic record Apollo returns.
type Organization struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	WebsiteURL            string   `json:"website_url"`
	PrimaryDomain         string   `json:"primary_domain"`
	LinkedInURL           string   `json:"linkedin_url"`
	Industry              string   `json:"industry"`
	EstimatedNumEmployees *int     `json:"estimated_num_employees"`
	AnnualRevenue         *float64 `json:"annual_revenue"`
	City                  string   `json:"city"`
	State                 string   `json:"state"`
	Country               string   `json:"country"`
	FoundedYear           *int     `json:"founded_year"`
}

// PeopleSearchRequest is the body for POST /people/search.
type PeopleSearchRequest struct {
	OrganizationName string `json:"organization_name"`
	QKeywords        string `json:"q_keywords"`
	Page             int    `json:"page"`
	PerPage          int    `json:"per_page"`
}

// PeopleSearchResponse is the response from POST /people/search.
type PeopleSearchResponse struct {
	People     []Person    `json:"people"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Person is a single people-search match. Apollo omits or nulls any field it
// does not know.
type Person struct {
	ID           string              `json:"id"`
	Name         *string             `json:"name"`
	Email        *string             `json:"email"`
	Title        *string             `json:"title"`
	Organization *PersonOrganization `json:"organization"`
}

// PersonOrganization is the employer embedded in a Person.
type PersonOrganization struct {
	Name *string `json:"name"`
}

// Pagination describes the page window of a search response.
type Pagination struct {
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
	TotalEntries int `json:"total_entries"`
	TotalPages   int `json:"total_pages"`
}

// APIError is returned when Apollo responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apollo: HTTP %d: %s", e.StatusCode, e.Body)
}

// Reason condenses err into the short reason recorded in result files:
// "HTTP <code>" for non-2xx responses, the error text otherwise.
func Reason(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("HTTP %d", apiErr.StatusCode)
	}
	return err.Error()
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Apollo client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) EnrichOrganization(ctx context.Context, req EnrichRequest) (*EnrichResponse, error) {
	var resp EnrichResponse
	if err := c.post(ctx, "/organizations/enrich", req, &resp); err != nil {
		return nil, eris.Wrapf(err, "apollo: enrich %s", req.OrganizationName)
	}
	return &resp, nil
}

func (c *httpClient) SearchPeople(ctx context.Context, req PeopleSearchRequest) (*PeopleSearchResponse, error) {
	var resp PeopleSearchResponse
	if err := c.post(ctx, "/people/search", req, &resp); err != nil {
		return nil, eris.Wrapf(err, "apollo: search people %s | %s", req.OrganizationName, req.QKeywords)
	}
	return &resp, nil
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return eris.Wrap(json.Unmarshal(data, out), "decode response")
}
