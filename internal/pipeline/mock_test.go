package pipeline

import (
	"context"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadgen-cli/internal/export"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

// --- Crawler Mock ---

type mockCrawler struct {
	mock.Mock
}

func (m *mockCrawler) Crawl(ctx context.Context, seedURLs []string) (string, error) {
	args := m.Called(ctx, seedURLs)
	return args.String(0), args.Error(1)
}

// --- Extractor Mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockExtractor) LastUsage() anthropic.TokenUsage {
	return anthropic.TokenUsage{InputTokens: 1_000_000, OutputTokens: 0}
}

// --- Enricher Mock ---

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) EnrichAll(ctx context.Context, names []string, urls model.ResolvedURLs) []model.EnrichmentResult {
	args := m.Called(ctx, names, urls)
	return args.Get(0).([]model.EnrichmentResult)
}

// --- Searcher Mock ---

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) SearchAll(ctx context.Context, companies, titles []string) ([]model.Contact, []model.SearchFailure, error) {
	args := m.Called(ctx, companies, titles)
	var contacts []model.Contact
	if v := args.Get(0); v != nil {
		contacts = v.([]model.Contact)
	}
	var failures []model.SearchFailure
	if v := args.Get(1); v != nil {
		failures = v.([]model.SearchFailure)
	}
	return contacts, failures, args.Error(2)
}

// --- Renderer Mock ---

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) WriteAll(fs afero.Fs, dir string, contacts []model.Contact) (int, error) {
	args := m.Called(fs, dir, contacts)
	return args.Int(0), args.Error(1)
}

// --- LeadPusher Mock ---

type mockLeads struct {
	mock.Mock
}

func (m *mockLeads) Push(ctx context.Context, contacts []model.Contact) (export.LeadReport, error) {
	args := m.Called(ctx, contacts)
	return args.Get(0).(export.LeadReport), args.Error(1)
}
