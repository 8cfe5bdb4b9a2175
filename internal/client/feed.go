package client

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/arnold/devgrowth-api/internal/linker"
	"github.com/arnold/devgrowth-api/internal/models"
)

type FeedState int

const (
	FeedIdle FeedState = iota
	FeedLoading
	FeedLoaded
	FeedLoadingMore
	FeedErrored
)

func (s FeedState) String() string {
	switch s {
	case FeedIdle:
		return "idle"
	case FeedLoading:
		return "loading"
	case FeedLoaded:
		return "loaded"
	case FeedLoadingMore:
		return "loading_more"
	case FeedErrored:
		return "errored"
	}
	return "unknown"
}

// Fetcher loads one page of logs. *Client implements it.
type Fetcher interface {
	ListLogs(ctx context.Context, p ListParams) (*models.DailyLogsResponse, error)
}

// FeedSnapshot is a copy of the feed state safe to hand to a renderer.
type FeedSnapshot struct {
	State   FeedState
	Logs    []models.DailyLog
	Filters []string
	Page    int
	Total   int64
	HasMore bool
	Err     error
	Message string
}

const feedErrorMessage = "Could not load entries, please try again"

// LogFeed is the paginated, tag-filtered list of a user's logs.
//
// HasMore is true when the last page came back full. When the total is an
// exact multiple of the page size this reports one extra, empty page.
type LogFeed struct {
	fetcher  Fetcher
	limit    int
	onChange func(FeedSnapshot)

	mu      sync.Mutex
	state   FeedState
	logs    []models.DailyLog
	filters []string
	page    int
	total   int64
	hasMore bool
	err     error
	gen     uint64
}

type FeedOption func(*LogFeed)

// WithPageSize sets the page size sent to the server. Zero leaves it to the
// server default.
func WithPageSize(limit int) FeedOption {
	return func(f *LogFeed) { f.limit = limit }
}

// WithOnChange registers a callback run after every state transition. It is
// called with the feed locked and must not call back into the feed.
func WithOnChange(fn func(FeedSnapshot)) FeedOption {
	return func(f *LogFeed) { f.onChange = fn }
}

func NewLogFeed(fetcher Fetcher, opts ...FeedOption) *LogFeed {
	f := &LogFeed{fetcher: fetcher, limit: 10, filters: []string{}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *LogFeed) Snapshot() FeedSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *LogFeed) snapshotLocked() FeedSnapshot {
	snap := FeedSnapshot{
		State:   f.state,
		Logs:    slices.Clone(f.logs),
		Filters: slices.Clone(f.filters),
		Page:    f.page,
		Total:   f.total,
		HasMore: f.hasMore,
		Err:     f.err,
	}
	if f.state == FeedErrored {
		snap.Message = feedErrorMessage
	}
	return snap
}

// Refresh reloads page 1 with the current filters.
func (f *LogFeed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	return f.reloadLocked(ctx)
}

// SetFilters replaces the tag filter and reloads from page 1. Results for the
// previous filter are dropped.
func (f *LogFeed) SetFilters(ctx context.Context, tags []string) error {
	f.mu.Lock()
	f.filters = linker.NormalizeTags(tags)
	return f.reloadLocked(ctx)
}

// ToggleFilter adds tag to the filter, or removes it when already present.
// A blank tag changes nothing and keeps the loaded pages.
func (f *LogFeed) ToggleFilter(ctx context.Context, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil
	}
	f.mu.Lock()
	if lo.Contains(f.filters, tag) {
		f.filters = lo.Without(f.filters, tag)
	} else {
		f.filters = linker.NormalizeTags(append(slices.Clone(f.filters), tag))
	}
	return f.reloadLocked(ctx)
}

func (f *LogFeed) ClearFilters(ctx context.Context) error {
	f.mu.Lock()
	f.filters = []string{}
	return f.reloadLocked(ctx)
}

// reloadLocked enters Loading for page 1 and fetches. It is entered with mu
// held and releases it.
func (f *LogFeed) reloadLocked(ctx context.Context) error {
	f.gen++
	gen := f.gen
	f.state = FeedLoading
	f.logs = nil
	f.page = 0
	f.total = 0
	f.hasMore = false
	f.err = nil
	params := ListParams{Page: 1, Limit: f.limit, Tags: slices.Clone(f.filters)}
	f.notifyLocked()
	f.mu.Unlock()

	res, err := f.fetcher.ListLogs(ctx, params)
	return f.apply(gen, 1, res, err)
}

// LoadMore fetches the next page and appends it. It does nothing unless the
// feed is Loaded with more pages to fetch.
func (f *LogFeed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.state != FeedLoaded || !f.hasMore {
		f.mu.Unlock()
		return nil
	}
	f.gen++
	gen := f.gen
	next := f.page + 1
	f.state = FeedLoadingMore
	params := ListParams{Page: next, Limit: f.limit, Tags: slices.Clone(f.filters)}
	f.notifyLocked()
	f.mu.Unlock()

	res, err := f.fetcher.ListLogs(ctx, params)
	return f.apply(gen, next, res, err)
}

// apply records a finished fetch unless a newer one was started since.
func (f *LogFeed) apply(gen uint64, page int, res *models.DailyLogsResponse, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return nil
	}
	if err != nil {
		f.state = FeedErrored
		f.err = err
		f.notifyLocked()
		return err
	}

	limit := res.Limit
	if limit < 1 {
		limit = f.limit
	}
	if page == 1 {
		f.logs = slices.Clone(res.Logs)
	} else {
		f.logs = append(f.logs, res.Logs...)
	}
	f.page = page
	f.total = res.Total
	f.hasMore = len(res.Logs) == limit
	f.state = FeedLoaded
	f.notifyLocked()
	return nil
}

func (f *LogFeed) notifyLocked() {
	if f.onChange != nil {
		f.onChange(f.snapshotLocked())
	}
}
