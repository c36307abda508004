package model

// ReferenceEntry is a canonical organization record used to resolve
// extracted names to URLs. URL is nil when the dataset has no URL for it.
type ReferenceEntry struct {
	Name string  `json:"name" yaml:"name"`
	URL  *string `json:"url" yaml:"url"`
}

// ResolvedURLs maps each extracted organization name to its resolved URL.
// A nil value is the absence marker.
type ResolvedURLs map[string]*string

// Count returns the number of names that resolved to a URL.
func (r ResolvedURLs) Count() int {
	n := 0
	for _, u := range r {
		if u != nil {
			n++
		}
	}
	return n
}

// EnrichedCompany is the firmographic record returned by the enrichment API.
type EnrichedCompany struct {
	ID                    string   `json:"id,omitempty"`
	Name                  string   `json:"name"`
	WebsiteURL            string   `json:"website_url,omitempty"`
	PrimaryDomain         string   `json:"primary_domain,omitempty"`
	LinkedInURL           string   `json:"linkedin_url,omitempty"`
	Industry              string   `json:"industry,omitempty"`
	EstimatedNumEmployees *int     `json:"estimated_num_employees,omitempty"`
	AnnualRevenue         *float64 `json:"annual_revenue,omitempty"`
	City                  string   `json:"city,omitempty"`
	State                 string   `json:"state,omitempty"`
	Country               string   `json:"country,omitempty"`
	FoundedYear           *int     `json:"founded_year,omitempty"`
}

// EnrichmentNotFound is the error text recorded when the service finds no match.
const EnrichmentNotFound = "Not found"

// EnrichmentResult is the outcome of enriching one organization. Exactly one
// of Company and Error is set.
type EnrichmentResult struct {
	Name    string           `json:"name"`
	Company *EnrichedCompany `json:"organization,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// OK reports whether the enrichment call produced a company record.
func (r EnrichmentResult) OK() bool {
	return r.Company != nil && r.Error == ""
}
