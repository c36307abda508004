package firecrawl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Crawl(ctx context.Context, req CrawlRequest) (*CrawlResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CrawlResponse), args.Error(1)
}

func (m *mockClient) GetCrawlStatus(ctx context.Context, id string) (*CrawlStatusResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CrawlStatusResponse), args.Error(1)
}

func fastPoll() []PollOption {
	return []PollOption{WithPollInterval(time.Millisecond), WithPollCap(2 * time.Millisecond)}
}

func TestPollCrawl_CompletesAfterScraping(t *testing.T) {
	m := &mockClient{}
	m.On("GetCrawlStatus", mock.Anything, "job-1").
		Return(&CrawlStatusResponse{Status: StatusScraping}, nil).Twice()
	m.On("GetCrawlStatus", mock.Anything, "job-1").
		Return(&CrawlStatusResponse{Status: StatusCompleted, Data: []PageData{{Markdown: "page"}}}, nil).Once()

	status, err := PollCrawl(context.Background(), m, "job-1", fastPoll()...)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status.Status)
	assert.Len(t, status.Data, 1)
	m.AssertNumberOfCalls(t, "GetCrawlStatus", 3)
}

func TestPollCrawl_Failed(t *testing.T) {
	m := &mockClient{}
	m.On("GetCrawlStatus", mock.Anything, "job-2").
		Return(&CrawlStatusResponse{Status: StatusFailed}, nil)

	_, err := PollCrawl(context.Background(), m, "job-2", fastPoll()...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crawl job-2 failed")
}

func TestPollCrawl_StatusError(t *testing.T) {
	m := &mockClient{}
	m.On("GetCrawlStatus", mock.Anything, "job-3").
		Return(nil, &APIError{StatusCode: 404, Body: "not found"})

	_, err := PollCrawl(context.Background(), m, "job-3", fastPoll()...)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestPollCrawl_Timeout(t *testing.T) {
	m := &mockClient{}
	m.On("GetCrawlStatus", mock.Anything, "job-4").
		Return(&CrawlStatusResponse{Status: StatusScraping}, nil)

	opts := append(fastPoll(), WithPollTimeout(20*time.Millisecond))
	_, err := PollCrawl(context.Background(), m, "job-4", opts...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
