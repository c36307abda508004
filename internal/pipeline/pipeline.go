// Package pipeline runs the lead-generation stages end to end: crawl,
// extract, resolve, enrich, search, dedupe, render and, optionally, export.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/artifact"
	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/dedupe"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/export"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

// Phase names recorded in the run ledger.
const (
	PhaseCrawl   = "crawl"
	PhaseExtract = "extract"
	PhaseResolve = "resolve"
	PhaseEnrich  = "enrich"
	PhaseSearch  = "search"
	PhaseDedupe  = "dedupe"
	PhaseRender  = "render"
	PhaseExport  = "export"
)

// sampleSize is how many raw contacts are logged after search.
const sampleSize = 5

// Crawler loads the text of the seed pages.
type Crawler interface {
	Crawl(ctx context.Context, seedURLs []string) (string, error)
}

// Extractor pulls organization names out of crawled text.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
	LastUsage() anthropic.TokenUsage
}

// Resolver maps organization names to reference URLs.
type Resolver interface {
	ResolveAll(names []string) model.ResolvedURLs
}

// Enricher fetches firmographics for organizations.
type Enricher interface {
	EnrichAll(ctx context.Context, names []string, urls model.ResolvedURLs) []model.EnrichmentResult
}

// Searcher finds contacts per (company, title) pair.
type Searcher interface {
	SearchAll(ctx context.Context, companies, titles []string) ([]model.Contact, []model.SearchFailure, error)
}

// Renderer writes outreach drafts.
type Renderer interface {
	WriteAll(fs afero.Fs, dir string, contacts []model.Contact) (int, error)
}

// LeadPusher exports contacts to a CRM.
type LeadPusher interface {
	Push(ctx context.Context, contacts []model.Contact) (export.LeadReport, error)
}

// Deps are the stage implementations. Leads may be nil.
type Deps struct {
	Crawler   Crawler
	Extractor Extractor
	Resolver  Resolver
	Enricher  Enricher
	Searcher  Searcher
	Renderer  Renderer
	Leads     LeadPusher
	Store     store.Store
	FS        afero.Fs
}

// CompaniesArtifact is the content of companies.json.
type CompaniesArtifact struct {
	Extracted []string           `json:"extracted"`
	Selected  []string           `json:"selected"`
	URLs      model.ResolvedURLs `json:"urls"`
}

// Result is everything a run produced.
type Result struct {
	RunID      string                   `json:"run_id"`
	Companies  []string                 `json:"companies"`
	URLs       model.ResolvedURLs       `json:"urls"`
	Enrichment []model.EnrichmentResult `json:"enrichment"`
	Contacts   []model.Contact          `json:"contacts"`
	Failures   []model.SearchFailure    `json:"failures"`
	Removed    int                      `json:"removed"`
	Emails     int                      `json:"emails"`
	Leads      *export.LeadReport       `json:"leads,omitempty"`
	Phases     []model.PhaseResult      `json:"phases"`
}

// Pipeline orchestrates the stages. Stages run strictly one after another.
type Pipeline struct {
	cfg    *config.Config
	titles []string
	deps   Deps
}

// New creates a Pipeline searching for titles.
func New(cfg *config.Config, titles []string, deps Deps) *Pipeline {
	if deps.FS == nil {
		deps.FS = afero.NewOsFs()
	}
	return &Pipeline{cfg: cfg, titles: titles, deps: deps}
}

// Run executes the pipeline over seedURLs. Crawl, extraction and artifact
// writes are fatal; enrichment and search failures are recorded as data.
func (p *Pipeline) Run(ctx context.Context, seedURLs []string) (*Result, error) {
	log := zap.L().With(zap.Strings("seed_urls", seedURLs))
	log.Info("pipeline: starting run")

	run, err := p.deps.Store.CreateRun(ctx, seedURLs)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	log = log.With(zap.String("run_id", run.ID))

	result := &Result{RunID: run.ID}
	summary := &model.RunResult{}

	setStatus := func(status model.RunStatus) {
		if statusErr := p.deps.Store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}

	trackPhase := func(name string, fn func() (map[string]any, error)) error {
		phase, phaseErr := p.deps.Store.CreatePhase(ctx, run.ID, name)
		if phaseErr != nil {
			log.Warn("pipeline: failed to create phase", zap.String("phase", name), zap.Error(phaseErr))
		}

		start := time.Now()
		meta, fnErr := fn()
		pr := model.PhaseResult{
			Name:     name,
			Status:   model.PhaseStatusComplete,
			Duration: time.Since(start).Milliseconds(),
			Metadata: meta,
		}
		if fnErr != nil {
			pr.Status = model.PhaseStatusFailed
			pr.Error = fnErr.Error()
			log.Error("pipeline: phase failed", zap.String("phase", name), zap.Int64("duration_ms", pr.Duration), zap.Error(fnErr))
		} else {
			log.Info("pipeline: phase complete", zap.String("phase", name), zap.Int64("duration_ms", pr.Duration))
		}

		if phase != nil {
			if err := p.deps.Store.CompletePhase(ctx, phase.ID, &pr); err != nil {
				log.Warn("pipeline: failed to complete phase", zap.String("phase", name), zap.Error(err))
			}
		}
		result.Phases = append(result.Phases, pr)
		return fnErr
	}

	fail := func(err error) (*Result, error) {
		summary.Error = err.Error()
		if updErr := p.deps.Store.UpdateRunResult(ctx, run.ID, summary); updErr != nil {
			log.Warn("pipeline: failed to record run result", zap.Error(updErr))
		}
		return result, err
	}

	outDir := p.cfg.Pipeline.OutputDir

	// Crawl
	setStatus(model.RunStatusCrawling)
	var text string
	if err := trackPhase(PhaseCrawl, func() (map[string]any, error) {
		var crawlErr error
		text, crawlErr = p.deps.Crawler.Crawl(ctx, seedURLs)
		summary.CrawledChars = len(text)
		return map[string]any{"chars": len(text)}, crawlErr
	}); err != nil {
		return fail(eris.Wrap(err, "pipeline: crawl"))
	}

	// Extract
	setStatus(model.RunStatusExtracting)
	var extracted []string
	if err := trackPhase(PhaseExtract, func() (map[string]any, error) {
		var extractErr error
		extracted, extractErr = p.deps.Extractor.Extract(ctx, text)
		usage := p.deps.Extractor.LastUsage()
		summary.InputTokens = usage.InputTokens
		summary.OutputTokens = usage.OutputTokens
		summary.EstimatedCostUSD = usage.EstimateCost(p.cfg.Anthropic.Model)
		return map[string]any{"names": len(extracted)}, extractErr
	}); err != nil {
		return fail(eris.Wrap(err, "pipeline: extract"))
	}
	summary.NamesExtracted = len(extracted)
	for _, name := range extracted {
		log.Debug("pipeline: extracted name", zap.String("name", name))
	}

	companies := limit(extracted, p.cfg.Pipeline.CompanyLimit)
	result.Companies = companies
	summary.Companies = companies
	log.Info("pipeline: working with first companies",
		zap.Int("extracted", len(extracted)),
		zap.Strings("selected", companies),
	)

	// Resolve
	setStatus(model.RunStatusResolving)
	if err := trackPhase(PhaseResolve, func() (map[string]any, error) {
		result.URLs = p.deps.Resolver.ResolveAll(companies)
		summary.URLsResolved = result.URLs.Count()
		return map[string]any{"resolved": summary.URLsResolved}, artifact.WriteJSON(p.deps.FS,
			filepath.Join(outDir, artifact.CompaniesFile),
			CompaniesArtifact{Extracted: extracted, Selected: companies, URLs: result.URLs},
		)
	}); err != nil {
		return fail(eris.Wrap(err, "pipeline: resolve"))
	}

	// Enrich (informational only)
	setStatus(model.RunStatusEnriching)
	if err := trackPhase(PhaseEnrich, func() (map[string]any, error) {
		result.Enrichment = p.deps.Enricher.EnrichAll(ctx, companies, result.URLs)
		for _, r := range result.Enrichment {
			if r.OK() {
				summary.Enriched++
			} else {
				summary.EnrichFailures++
			}
		}
		enrich.LogSummary(result.Enrichment)
		return map[string]any{"enriched": summary.Enriched, "failures": summary.EnrichFailures},
			artifact.WriteJSON(p.deps.FS, filepath.Join(outDir, artifact.EnrichmentFile), result.Enrichment)
	}); err != nil {
		return fail(eris.Wrap(err, "pipeline: enrich"))
	}

	// Search
	setStatus(model.RunStatusSearching)
	var raw []model.Contact
	if err := trackPhase(PhaseSearch, func() (map[string]any, error) {
		var searchErr error
		raw, result.Failures, searchErr = p.deps.Searcher.SearchAll(ctx, companies, p.titles)
		if searchErr != nil {
			return nil, searchErr
		}
		summary.ContactsFound = len(raw)
		summary.SearchFailures = len(result.Failures)
		logSample(log, raw)
		if err := artifact.WriteJSON(p.deps.FS, filepath.Join(outDir, artifact.RawContactsFile), raw); err != nil {
			return nil, err
		}
		return map[string]any{"contacts": len(raw), "failures": len(result.Failures)},
			artifact.WriteJSON(p.deps.FS, filepath.Join(outDir, artifact.SearchFailuresFile), result.Failures)
	}); err != nil {
		return fail(eris.Wrap(err, "pipeline: search"))
	}

	// Dedupe
	if err := trackPhase(PhaseDedupe, func() (map[string]any, error) {
		result.Contacts, result.Removed = dedupe.Contacts(raw)
		summary.ContactsUnique = len(result.Contacts)
		log.Info("pipeline: removed duplicates", zap.Int("removed", result.Removed))
		if err := artifact.WriteJSON(p.deps.FS, filepath.Join(outDir, artifact.CleanContactsFile), result.Contacts); err != nil {
			return nil, err
		}
		return map[string]any{"unique": len(result.Contacts), "removed": result.Removed},
			export.WriteXLSX(p.deps.FS, filepath.Join(outDir, artifact.ContactsSheetFile), result.Contacts)
	}); err != nil {
		return fail(eris.Wrap(err, "pipeline: dedupe"))
	}

	// Render
	setStatus(model.RunStatusRendering)
	if err := trackPhase(PhaseRender, func() (map[string]any, error) {
		n, renderErr := p.deps.Renderer.WriteAll(p.deps.FS, p.cfg.Email.Dir, result.Contacts)
		result.Emails = n
		summary.EmailsRendered = n
		return map[string]any{"emails": n}, renderErr
	}); err != nil {
		return fail(eris.Wrap(err, "pipeline: render"))
	}

	// Export: failures are logged, never fatal.
	if p.cfg.Pipeline.PushLeads && p.deps.Leads != nil {
		_ = trackPhase(PhaseExport, func() (map[string]any, error) {
			report, pushErr := p.deps.Leads.Push(ctx, result.Contacts)
			result.Leads = &report
			summary.LeadsPushed = report.Created
			return map[string]any{"created": report.Created, "rejected": report.Rejected}, pushErr
		})
	}

	if err := p.deps.Store.UpdateRunResult(ctx, run.ID, summary); err != nil {
		log.Warn("pipeline: failed to record run result", zap.Error(err))
	}

	log.Info("pipeline: run complete",
		zap.Int("companies", len(companies)),
		zap.Int("urls_resolved", summary.URLsResolved),
		zap.Int("contacts", len(result.Contacts)),
		zap.Int("emails", result.Emails),
		zap.Float64("estimated_cost_usd", summary.EstimatedCostUSD),
	)
	return result, nil
}

// limit returns the first n names; n <= 0 keeps all.
func limit(names []string, n int) []string {
	if n <= 0 || n >= len(names) {
		return names
	}
	return names[:n]
}

func logSample(log *zap.Logger, contacts []model.Contact) {
	for _, c := range contacts[:min(sampleSize, len(contacts))] {
		log.Info("pipeline: sample contact",
			zap.String("name", model.Deref(c.Name, "")),
			zap.String("email", model.Deref(c.Email, "")),
			zap.String("company", model.Deref(c.Company, "")),
			zap.String("title", model.Deref(c.Title, "")),
		)
	}
}
