package state

import (
	"context"
	"sync"

	"github.com/mxm07/sample-server/internal/api"
)

// SearchResultLimit caps how many matches one search request asks for.
const SearchResultLimit = 200

// ListingLoader fetches directory listings asynchronously.
type ListingLoader interface {
	Start(req ListingRequest)
	Cancel(token int)
}

// ListingRequest describes one listing fetch. Path "" is the library root.
type ListingRequest struct {
	Token    int
	Path     string
	Callback func(ListingResultAction)
}

// Searcher runs server-side searches asynchronously. There is no Cancel:
// stale responses are dropped by ID in the reducer.
type Searcher interface {
	Search(req SearchRequest)
}

// SearchRequest describes one search round-trip.
type SearchRequest struct {
	ID       int
	Query    string
	Limit    int
	Callback func(SearchResultsAction)
}

// listingClient is the part of api.Client the loader needs.
type listingClient interface {
	List(ctx context.Context, path string) (*api.ListResult, error)
	Search(ctx context.Context, query string, limit int) (*api.SearchResult, error)
}

// NewAsyncListingLoader constructs the default goroutine-based loader.
func NewAsyncListingLoader(client listingClient) ListingLoader {
	return &asyncListingLoader{
		client: client,
		jobs:   make(map[int]context.CancelFunc),
	}
}

type asyncListingLoader struct {
	client listingClient
	mu     sync.Mutex
	jobs   map[int]context.CancelFunc
}

func (l *asyncListingLoader) Start(req ListingRequest) {
	if req.Token == 0 || req.Callback == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.mu.Lock()
	l.jobs[req.Token] = cancel
	l.mu.Unlock()

	go func() {
		defer func() {
			l.mu.Lock()
			delete(l.jobs, req.Token)
			l.mu.Unlock()
		}()

		result, err := l.client.List(ctx, req.Path)

		select {
		case <-ctx.Done():
			return
		default:
		}

		action := ListingResultAction{Token: req.Token, Path: req.Path, Err: err}
		if result != nil {
			action.Path = result.Path
			action.Entries = result.Entries
		}
		req.Callback(action)
	}()
}

func (l *asyncListingLoader) Cancel(token int) {
	l.mu.Lock()
	if cancel, ok := l.jobs[token]; ok {
		cancel()
		delete(l.jobs, token)
	}
	l.mu.Unlock()
}

// NewAsyncSearcher constructs the default goroutine-based searcher.
func NewAsyncSearcher(client listingClient) Searcher {
	return &asyncSearcher{client: client}
}

type asyncSearcher struct {
	client listingClient
}

func (s *asyncSearcher) Search(req SearchRequest) {
	if req.Callback == nil {
		return
	}

	go func() {
		result, err := s.client.Search(context.Background(), req.Query, req.Limit)

		action := SearchResultsAction{ID: req.ID, Err: err}
		if result != nil {
			action.Results = result.Results
		}
		req.Callback(action)
	}()
}
