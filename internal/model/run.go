package model

import "time"

// RunStatus represents the current state of a pipeline run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusCrawling   RunStatus = "crawling"
	RunStatusExtracting RunStatus = "extracting"
	RunStatusResolving  RunStatus = "resolving"
	RunStatusEnriching  RunStatus = "enriching"
	RunStatusSearching  RunStatus = "searching"
	RunStatusRendering  RunStatus = "rendering"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// Run represents a single pipeline run over a set of seed URLs.
type Run struct {
	ID        string     `json:"id"`
	SeedURLs  []string   `json:"seed_urls"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final outcome of a run.
type RunResult struct {
	CrawledChars     int      `json:"crawled_chars"`
	NamesExtracted   int      `json:"names_extracted"`
	Companies        []string `json:"companies"`
	URLsResolved     int      `json:"urls_resolved"`
	Enriched         int      `json:"enriched"`
	EnrichFailures   int      `json:"enrich_failures"`
	ContactsFound    int      `json:"contacts_found"`
	ContactsUnique   int      `json:"contacts_unique"`
	SearchFailures   int      `json:"search_failures"`
	EmailsRendered   int      `json:"emails_rendered"`
	LeadsPushed      int      `json:"leads_pushed"`
	InputTokens      int64    `json:"input_tokens"`
	OutputTokens     int64    `json:"output_tokens"`
	EstimatedCostUSD float64  `json:"estimated_cost_usd"`
	Error            string   `json:"error,omitempty"`
}

// PhaseStatus represents the state of one pipeline stage within a run.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// RunPhase is one stage execution recorded against a run.
type RunPhase struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Name      string       `json:"name"`
	Status    PhaseStatus  `json:"status"`
	Result    *PhaseResult `json:"result,omitempty"`
	StartedAt time.Time    `json:"started_at"`
}

// PhaseResult holds the outcome of a stage.
type PhaseResult struct {
	Name     string         `json:"name"`
	Status   PhaseStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
