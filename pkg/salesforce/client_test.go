package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestSFClient creates an sfClient backed by an httptest server.
func newTestSFClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	sf, err := gosf.Init(gosf.Creds{
		AccessToken: "test-token",
		Domain:      ts.URL,
	},
		gosf.WithValidateAuthentication(false),
		gosf.WithRoundTripper(http.DefaultTransport),
	)
	require.NoError(t, err)

	return NewClient(sf, WithRateLimit(100))
}

func TestSFClient_InsertCollection(t *testing.T) {
	client := newTestSFClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/composite/sobjects")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "00Q1", "success": true, "errors": []any{}},
			{"id": "00Q2", "success": true, "errors": []any{}},
		})
	}))

	results, err := client.InsertCollection(context.Background(), "Lead", []map[string]any{
		{"LastName": "Smith", "Company": "Acme"},
		{"LastName": "Jones", "Company": "Acme"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, "00Q1", results[0].ID)
	assert.Equal(t, "00Q2", results[1].ID)
	assert.Empty(t, results[1].Errors)
}

func TestSFClient_InsertCollection_Error(t *testing.T) {
	client := newTestSFClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode([]map[string]any{{"message": "bad request"}})
	}))

	_, err := client.InsertCollection(context.Background(), "Lead", []map[string]any{{"LastName": "X", "Company": "Y"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sf: insert collection Lead")
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) InsertCollection(ctx context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error) {
	args := m.Called(ctx, sObjectName, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CollectionResult), args.Error(1)
}

func TestBulkCreateLeads_Batches(t *testing.T) {
	leads := make([]Lead, 450)
	for i := range leads {
		leads[i] = Lead{LastName: "L", Company: "C"}
	}

	m := &mockClient{}
	m.On("InsertCollection", mock.Anything, "Lead", mock.MatchedBy(func(r []map[string]any) bool { return len(r) == 200 })).
		Return(make([]CollectionResult, 200), nil).Twice()
	m.On("InsertCollection", mock.Anything, "Lead", mock.MatchedBy(func(r []map[string]any) bool { return len(r) == 50 })).
		Return(make([]CollectionResult, 50), nil).Once()

	results, err := BulkCreateLeads(context.Background(), m, leads)
	require.NoError(t, err)
	assert.Len(t, results, 450)
	m.AssertExpectations(t)
}

func TestBulkCreateLeads_Empty(t *testing.T) {
	m := &mockClient{}
	results, err := BulkCreateLeads(context.Background(), m, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	m.AssertNotCalled(t, "InsertCollection", mock.Anything, mock.Anything, mock.Anything)
}

func TestLead_RecordOmitsEmptyOptionalFields(t *testing.T) {
	rec := Lead{LastName: "Smith", Company: "Acme", Email: "jo@acme.com"}.record()
	assert.Equal(t, map[string]any{
		"LastName": "Smith",
		"Company":  "Acme",
		"Email":    "jo@acme.com",
	}, rec)
}
