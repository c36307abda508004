package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/crawl"
	"github.com/sells-group/leadgen-cli/internal/email"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/export"
	"github.com/sells-group/leadgen-cli/internal/extract"
	"github.com/sells-group/leadgen-cli/internal/people"
	"github.com/sells-group/leadgen-cli/internal/persona"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/resolve"
	anthropicpkg "github.com/sells-group/leadgen-cli/pkg/anthropic"
	"github.com/sells-group/leadgen-cli/pkg/apollo"
	"github.com/sells-group/leadgen-cli/pkg/firecrawl"
)

var (
	runSeedURLs []string
	runLimit    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full lead-generation pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if len(runSeedURLs) > 0 {
			cfg.Pipeline.SeedURLs = runSeedURLs
		}
		if cmd.Flags().Changed("limit") {
			cfg.Pipeline.CompanyLimit = runLimit
		}
		if err := cfg.ValidateRun(); err != nil {
			return err
		}

		// Init store
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		// Static inputs
		resolver, err := resolve.Load(appFs, cfg.Pipeline.ReferencePath)
		if err != nil {
			return err
		}
		personas, err := persona.Load(appFs, cfg.Pipeline.PersonasPath)
		if err != nil {
			return err
		}
		renderer, err := email.LoadRenderer(appFs, cfg.Email.TemplatePath, email.Sender{
			Name: cfg.Email.SenderName,
			Team: cfg.Email.SenderTeam,
		})
		if err != nil {
			return err
		}

		// Init clients
		firecrawlClient := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
		anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
		apolloClient := apollo.NewClient(cfg.Apollo.Key,
			apollo.WithBaseURL(cfg.Apollo.BaseURL),
			apollo.WithTimeout(secs(cfg.Apollo.TimeoutSecs)),
		)

		deps := pipeline.Deps{
			Crawler: crawl.New(firecrawlClient, crawl.Options{
				MaxDepth:    cfg.Firecrawl.MaxDepth,
				MaxPages:    cfg.Firecrawl.MaxPages,
				PollTimeout: secs(cfg.Firecrawl.PollTimeoutSecs),
			}),
			Extractor: extract.NewExtractor(anthropicClient, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens),
			Resolver:  resolver,
			Enricher:  enrich.New(apolloClient),
			Searcher:  people.New(apolloClient, cfg.Pipeline.SearchDelay, cfg.Pipeline.PerPage),
			Renderer:  renderer,
			Store:     st,
			FS:        appFs,
		}

		if cfg.Pipeline.PushLeads {
			sfClient, err := initSalesforce()
			if err != nil {
				zap.L().Warn("salesforce init failed, skipping lead export", zap.Error(err))
			} else {
				deps.Leads = export.NewLeadExporter(sfClient, cfg.Salesforce.LeadSource)
			}
		}

		p := pipeline.New(cfg, persona.Titles(personas), deps)

		result, err := p.Run(ctx, cfg.Pipeline.SeedURLs)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("lead generation complete",
			zap.String("run_id", result.RunID),
			zap.Int("companies", len(result.Companies)),
			zap.Int("contacts", len(result.Contacts)),
			zap.Int("emails", result.Emails),
		)

		// Print result JSON to stdout
		return writeJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&runSeedURLs, "seed-url", nil, "seed URL to crawl (repeatable; overrides pipeline.seed_urls)")
	runCmd.Flags().IntVar(&runLimit, "limit", 3, "number of extracted companies to process (0 = all)")
	rootCmd.AddCommand(runCmd)
}
