// Package crawl fetches the page text of exhibitor-listing seed URLs.
package crawl

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/pkg/firecrawl"
)

// Options configures crawl jobs.
type Options struct {
	MaxDepth    int
	MaxPages    int
	PollTimeout time.Duration
	PollOptions []firecrawl.PollOption
}

// Crawler runs one Firecrawl crawl job per seed URL.
type Crawler struct {
	client firecrawl.Client
	opts   Options
}

// New creates a Crawler.
func New(client firecrawl.Client, opts Options) *Crawler {
	return &Crawler{client: client, opts: opts}
}

// Crawl crawls every seed URL in order and returns the concatenated text of
// all pages. Overlapping pages are not deduplicated. Any failure aborts.
func (c *Crawler) Crawl(ctx context.Context, seedURLs []string) (string, error) {
	if len(seedURLs) == 0 {
		return "", eris.New("crawl: no seed urls")
	}

	var b strings.Builder
	for _, seed := range seedURLs {
		text, err := c.crawlOne(ctx, seed)
		if err != nil {
			return "", err
		}
		if b.Len() > 0 && text != "" {
			b.WriteString(" ")
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func (c *Crawler) crawlOne(ctx context.Context, seed string) (string, error) {
	job, err := c.client.Crawl(ctx, firecrawl.CrawlRequest{
		URL:      seed,
		MaxDepth: c.opts.MaxDepth,
		Limit:    c.opts.MaxPages,
		ScrapeOptions: &firecrawl.ScrapeOptions{
			Formats:         []string{"markdown"},
			OnlyMainContent: true,
		},
	})
	if err != nil {
		return "", eris.Wrapf(err, "crawl: start %s", seed)
	}

	pollOpts := append([]firecrawl.PollOption{firecrawl.WithPollTimeout(c.opts.PollTimeout)}, c.opts.PollOptions...)
	status, err := firecrawl.PollCrawl(ctx, c.client, job.ID, pollOpts...)
	if err != nil {
		return "", eris.Wrapf(err, "crawl: wait %s", seed)
	}

	pages := make([]string, 0, len(status.Data))
	for _, page := range status.Data {
		pages = append(pages, page.Markdown)
	}
	text := strings.Join(pages, " ")

	zap.L().Info("crawl: loaded",
		zap.String("url", seed),
		zap.Int("pages", len(status.Data)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}
