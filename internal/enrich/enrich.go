// Package enrich fetches firmographic metadata for extracted organizations.
// Every outcome, including failures, is returned as data.
package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/apollo"
)

// Enricher wraps the enrichment API.
type Enricher struct {
	client apollo.Client
}

// New creates an Enricher.
func New(client apollo.Client) *Enricher {
	return &Enricher{client: client}
}

// Enrich looks up one organization. domain may be nil when the name did not
// resolve. The result carries either the company or an error string; the
// call is never retried.
func (e *Enricher) Enrich(ctx context.Context, name string, domain *string) model.EnrichmentResult {
	log := zap.L().With(zap.String("company", name))
	if domain != nil {
		log = log.With(zap.String("domain", *domain))
	}

	resp, err := e.client.EnrichOrganization(ctx, apollo.EnrichRequest{
		OrganizationName: name,
		Domain:           domain,
	})
	if err != nil {
		reason := apollo.Reason(err)
		log.Warn("enrich: request failed", zap.String("reason", reason), zap.Error(err))
		return model.EnrichmentResult{Name: name, Error: reason}
	}

	if resp.Organization == nil {
		log.Info("enrich: no match")
		return model.EnrichmentResult{Name: name, Error: model.EnrichmentNotFound}
	}

	log.Info("enrich: found")
	return model.EnrichmentResult{Name: name, Company: toCompany(resp.Organization)}
}

// EnrichAll enriches names sequentially, in order, using urls for domains.
func (e *Enricher) EnrichAll(ctx context.Context, names []string, urls model.ResolvedURLs) []model.EnrichmentResult {
	results := make([]model.EnrichmentResult, 0, len(names))
	for _, name := range names {
		results = append(results, e.Enrich(ctx, name, urls[name]))
	}
	return results
}

// LogSummary writes one log line per result with the headline firmographics.
func LogSummary(results []model.EnrichmentResult) {
	for _, r := range results {
		if !r.OK() {
			zap.L().Info("enriched company",
				zap.String("company", r.Name),
				zap.String("error", r.Error),
			)
			continue
		}
		c := r.Company
		fields := []zap.Field{
			zap.String("company", c.Name),
			zap.String("domain", c.WebsiteURL),
			zap.String("city", c.City),
			zap.String("country", c.Country),
		}
		if c.EstimatedNumEmployees != nil {
			fields = append(fields, zap.Int("employees", *c.EstimatedNumEmployees))
		}
		if c.AnnualRevenue != nil {
			fields = append(fields, zap.Float64("revenue", *c.AnnualRevenue))
		}
		zap.L().Info("enriched company", fields...)
	}
}

func toCompany(o *apollo.Organization) *model.EnrichedCompany {
	return &model.EnrichedCompany{
		ID:                    o.ID,
		Name:                  o.Name,
		WebsiteURL:            o.WebsiteURL,
		PrimaryDomain:         o.PrimaryDomain,
		LinkedInURL:           o.LinkedInURL,
		Industry:              o.Industry,
		EstimatedNumEmployees: o.EstimatedNumEmployees,
		AnnualRevenue:         o.AnnualRevenue,
		City:                  o.City,
		State:                 o.State,
		Country:               o.Country,
		FoundedYear:           o.FoundedYear,
	}
}
