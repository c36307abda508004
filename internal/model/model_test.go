package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatusValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status RunStatus
		want   string
	}{
		{RunStatusQueued, "queued"},
		{RunStatusCrawling, "crawling"},
		{RunStatusExtracting, "extracting"},
		{RunStatusResolving, "resolving"},
		{RunStatusEnriching, "enriching"},
		{RunStatusSearching, "searching"},
		{RunStatusRendering, "rendering"},
		{RunStatusComplete, "complete"},
		{RunStatusFailed, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.status))
		})
	}
}

func TestResolvedURLs_Count(t *testing.T) {
	r := ResolvedURLs{
		"Acme":    Str("acme.com"),
		"Globex":  nil,
		"Initech": Str("initech.com"),
	}
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, 0, ResolvedURLs{}.Count())
}

func TestEnrichmentResult_ErrorShape(t *testing.T) {
	res := EnrichmentResult{Name: "Globex", Error: EnrichmentNotFound}
	assert.False(t, res.OK())

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Globex","error":"Not found"}`, string(data))
}

func TestContact_NullFields(t *testing.T) {
	var c Contact
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Jo","email":null,"company":"X"}`), &c))

	assert.Equal(t, "Jo", Deref(c.Name, ""))
	assert.Nil(t, c.Email)
	assert.Nil(t, c.Title)
	assert.Equal(t, "none", Deref(c.Email, "none"))
}
