// Package people finds contacts holding target titles at target companies.
package people

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/apollo"
)

const defaultPerPage = 3

// Searcher runs paced person searches.
type Searcher struct {
	client  apollo.Client
	limiter *rate.Limiter
	perPage int
}

// New creates a Searcher that issues at most one call per delay. A
// non-positive delay disables pacing.
func New(client apollo.Client, delay time.Duration, perPage int) *Searcher {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &Searcher{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		perPage: perPage,
	}
}

// Search returns the contacts matching title at company. A failed call is
// returned as a SearchFailure, never as an error.
func (s *Searcher) Search(ctx context.Context, company, title string) ([]model.Contact, *model.SearchFailure) {
	resp, err := s.client.SearchPeople(ctx, apollo.PeopleSearchRequest{
		OrganizationName: company,
		QKeywords:        title,
		Page:             1,
		PerPage:          s.perPage,
	})
	if err != nil {
		reason := apollo.Reason(err)
		zap.L().Warn("people: search failed",
			zap.String("company", company),
			zap.String("title", title),
			zap.String("reason", reason),
		)
		return nil, &model.SearchFailure{Company: company, Title: title, Error: reason}
	}

	contacts := make([]model.Contact, 0, len(resp.People))
	for _, p := range resp.People {
		contacts = append(contacts, toContact(p))
	}
	return contacts, nil
}

// SearchAll searches every (company, title) pair, companies outer and titles
// inner, and accumulates contacts in call order. Only context cancellation
// stops the loop early.
func (s *Searcher) SearchAll(ctx context.Context, companies, titles []string) ([]model.Contact, []model.SearchFailure, error) {
	contacts := []model.Contact{}
	failures := []model.SearchFailure{}

	for _, company := range companies {
		for _, title := range titles {
			if err := s.limiter.Wait(ctx); err != nil {
				return contacts, failures, eris.Wrap(err, "people: wait for rate limiter")
			}

			found, failure := s.Search(ctx, company, title)
			if failure != nil {
				failures = append(failures, *failure)
				continue
			}
			zap.L().Debug("people: search done",
				zap.String("company", company),
				zap.String("title", title),
				zap.Int("found", len(found)),
			)
			contacts = append(contacts, found...)
		}
	}

	zap.L().Info("people: search complete",
		zap.Int("calls", len(companies)*len(titles)),
		zap.Int("contacts", len(contacts)),
		zap.Int("failures", len(failures)),
	)
	return contacts, failures, nil
}

func toContact(p apollo.Person) model.Contact {
	c := model.Contact{
		Name:  p.Name,
		Email: p.Email,
		Title: p.Title,
	}
	if p.Organization != nil {
		c.Company = p.Organization.Name
	}
	return c
}
