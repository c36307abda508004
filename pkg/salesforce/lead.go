package salesforce

import (
	"context"

	"github.com/rotisserie/eris"
)

// Lead holds the Lead fields written by the exporter. LastName and Company
// are required by Salesforce.
type Lead struct {
	FirstName  string
	LastName   string
	Email      string
	Company    string
	Title      string
	LeadSource string
}

func (l Lead) record() map[string]any {
	rec := map[string]any{
		"LastName": l.LastName,
		"Company":  l.Company,
	}
	if l.FirstName != "" {
		rec["FirstName"] = l.FirstName
	}
	if l.Email != "" {
		rec["Email"] = l.Email
	}
	if l.Title != "" {
		rec["Title"] = l.Title
	}
	if l.LeadSource != "" {
		rec["LeadSource"] = l.LeadSource
	}
	return rec
}

// BulkCreateLeads inserts leads in batches of 200. Results are returned in
// input order; a batch error stops the export and returns what succeeded.
func BulkCreateLeads(ctx context.Context, c Client, leads []Lead) ([]CollectionResult, error) {
	var all []CollectionResult
	for start := 0; start < len(leads); start += maxBatchSize {
		end := min(start+maxBatchSize, len(leads))

		records := make([]map[string]any, 0, end-start)
		for _, l := range leads[start:end] {
			records = append(records, l.record())
		}

		results, err := c.InsertCollection(ctx, "Lead", records)
		if err != nil {
			return all, eris.Wrapf(err, "sf: bulk create leads batch %d-%d", start, end)
		}
		all = append(all, results...)
	}
	return all, nil
}
