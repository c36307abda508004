package export

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/salesforce"
)

// unknown fills Lead fields Salesforce requires but the contact lacks.
const unknown = "Unknown"

// LeadReport summarizes a lead push.
type LeadReport struct {
	Attempted int `json:"attempted"`
	Created   int `json:"created"`
	Rejected  int `json:"rejected"`
}

// Leads maps contacts to Salesforce Leads. The last word of the name becomes
// LastName and the rest FirstName.
func Leads(contacts []model.Contact, source string) []salesforce.Lead {
	leads := make([]salesforce.Lead, 0, len(contacts))
	for _, c := range contacts {
		first, last := splitName(model.Deref(c.Name, ""))
		company := strings.TrimSpace(model.Deref(c.Company, ""))
		if company == "" {
			company = unknown
		}
		leads = append(leads, salesforce.Lead{
			FirstName:  first,
			LastName:   last,
			Email:      strings.TrimSpace(model.Deref(c.Email, "")),
			Company:    company,
			Title:      strings.TrimSpace(model.Deref(c.Title, "")),
			LeadSource: source,
		})
	}
	return leads
}

// PushLeads inserts contacts as Leads and tallies per-record outcomes.
func PushLeads(ctx context.Context, client salesforce.Client, contacts []model.Contact, source string) (LeadReport, error) {
	leads := Leads(contacts, source)
	report := LeadReport{Attempted: len(leads)}
	if len(leads) == 0 {
		return report, nil
	}

	results, err := salesforce.BulkCreateLeads(ctx, client, leads)
	for i, r := range results {
		if r.Success {
			report.Created++
			continue
		}
		report.Rejected++
		zap.L().Warn("export: lead rejected",
			zap.String("last_name", leads[i].LastName),
			zap.String("company", leads[i].Company),
			zap.Strings("errors", r.Errors),
		)
	}
	if err != nil {
		return report, eris.Wrap(err, "export: push leads")
	}

	zap.L().Info("export: leads pushed",
		zap.Int("attempted", report.Attempted),
		zap.Int("created", report.Created),
		zap.Int("rejected", report.Rejected),
	)
	return report, nil
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", unknown
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// LeadExporter pushes contacts to Salesforce with a fixed lead source.
type LeadExporter struct {
	client salesforce.Client
	source string
}

// NewLeadExporter creates a LeadExporter.
func NewLeadExporter(client salesforce.Client, source string) *LeadExporter {
	return &LeadExporter{client: client, source: source}
}

// Push inserts contacts as Leads.
func (e *LeadExporter) Push(ctx context.Context, contacts []model.Contact) (LeadReport, error) {
	return PushLeads(ctx, e.client, contacts, e.source)
}
