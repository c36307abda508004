package apollo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc, opts ...Option) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-api-key", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
}

func TestEnrichOrganization(t *testing.T) {
	domain := "acme.com"
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/organizations/enrich", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Acme Printing", req["organization_name"])
		assert.Equal(t, "acme.com", req["domain"])

		w.Write([]byte(`{"organization": {
			"id": "org-1",
			"name": "Acme Printing Co",
			"website_url": "http://www.acme.com",
			"estimated_num_employees": 120,
			"annual_revenue": 2500000.5,
			"city": "Dayton",
			"country": "United States"
		}}`)) //nolint:errcheck
	})

	resp, err := c.EnrichOrganization(context.Background(), EnrichRequest{OrganizationName: "Acme Printing", Domain: &domain})
	require.NoError(t, err)
	require.NotNil(t, resp.Organization)
	assert.Equal(t, "Acme Printing Co", resp.Organization.Name)
	require.NotNil(t, resp.Organization.EstimatedNumEmployees)
	assert.Equal(t, 120, *resp.Organization.EstimatedNumEmployees)
	require.NotNil(t, resp.Organization.AnnualRevenue)
	assert.InDelta(t, 2500000.5, *resp.Organization.AnnualRevenue, 0.001)
	assert.Equal(t, "Dayton", resp.Organization.City)
}

func TestEnrichOrganization_NullDomainAndNoMatch(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		v, ok := req["domain"]
		assert.True(t, ok, "domain key is always sent")
		assert.Nil(t, v)

		w.Write([]byte(`{}`)) //nolint:errcheck
	})

	resp, err := c.EnrichOrganization(context.Background(), EnrichRequest{OrganizationName: "Globex"})
	require.NoError(t, err)
	assert.Nil(t, resp.Organization)
}

func TestEnrichOrganization_HTTPError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"invalid"}`)) //nolint:errcheck
	})

	_, err := c.EnrichOrganization(context.Background(), EnrichRequest{OrganizationName: "Globex"})
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid")
}

func TestSearchPeople(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/people/search", r.URL.Path)

		var req PeopleSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, PeopleSearchRequest{
			OrganizationName: "Acme Printing",
			QKeywords:        "Marketing Director",
			Page:             1,
			PerPage:          3,
		}, req)

		w.Write([]byte(`{"people": [
			{"id": "p1", "name": "Jo Smith", "email": "jo@acme.com", "title": "Marketing Director", "organization": {"name": "Acme Printing Co"}},
			{"id": "p2", "name": "Al Jones", "email": null, "title": "Director"}
		], "pagination": {"page": 1, "per_page": 3, "total_entries": 2, "total_pages": 1}}`)) //nolint:errcheck
	})

	resp, err := c.SearchPeople(context.Background(), PeopleSearchRequest{
		OrganizationName: "Acme Printing",
		QKeywords:        "Marketing Director",
		Page:             1,
		PerPage:          3,
	})
	require.NoError(t, err)
	require.Len(t, resp.People, 2)
	assert.Equal(t, "Jo Smith", *resp.People[0].Name)
	assert.Equal(t, "Acme Printing Co", *resp.People[0].Organization.Name)
	assert.Nil(t, resp.People[1].Email)
	assert.Nil(t, resp.People[1].Organization)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, 2, resp.Pagination.TotalEntries)
}

func TestSearchPeople_Timeout(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{"people": []}`)) //nolint:errcheck
	}, WithTimeout(10*time.Millisecond))

	_, err := c.SearchPeople(context.Background(), PeopleSearchRequest{OrganizationName: "Acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute request")
}

func TestReason(t *testing.T) {
	wrapped := fmt.Errorf("apollo: search: %w", &APIError{StatusCode: 422, Body: "bad"})
	assert.Equal(t, "HTTP 422", Reason(wrapped))
	assert.Equal(t, "HTTP 500", Reason(&APIError{StatusCode: 500}))
	assert.Equal(t, "context deadline exceeded", Reason(errors.New("context deadline exceeded")))
}
