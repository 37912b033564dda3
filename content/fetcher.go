// Package content retrieves raw blob content for selected tree leaves under
// a bounded concurrency window.
package content

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hayeah/repobundle/repotree"
)

// ErrEmptySelection is returned when a fetch is attempted with no selected
// leaves.
var ErrEmptySelection = errors.New("no files selected")

// DefaultLimit is the fetch concurrency ceiling used when none is set.
const DefaultLimit = 5

// Client retrieves a single blob's bytes. Implementations live in the
// github and localrepo packages.
type Client interface {
	// FetchContent returns the blob's raw bytes plus a content-type hint.
	FetchContent(ctx context.Context, ref repotree.ContentRef) ([]byte, string, error)
}

// Record is one fetched file. Text records carry the decoded text; binary
// records carry a base64 payload and its MIME type, so they can be embedded
// in a text-oriented bundle.
type Record struct {
	Path     string
	Text     string
	Data     string
	MimeType string
	Binary   bool
}

// Result tags each requested path with either its record or the failure
// that prevented it. Failed items never abort the batch; they are reported
// here instead of being dropped.
type Result struct {
	Path   string
	Record *Record
	Err    error
}

// Fetcher retrieves content for selected leaves. Limit caps the number of
// in-flight requests; leaves are processed in windows of at most Limit
// items, and a window completes only once every item in it has settled.
type Fetcher struct {
	Client Client
	Limit  int
	Logger *slog.Logger
}

// NewFetcher constructs a Fetcher with the default concurrency limit.
func NewFetcher(client Client, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		Client: client,
		Limit:  DefaultLimit,
		Logger: logger,
	}
}

// FetchAll retrieves content for every leaf, in input order. It fails fast
// on an empty leaf set; per-item failures are isolated to their Result.
// Windows run strictly sequentially; items within a window run
// concurrently, each writing to its own result slot.
func (f *Fetcher) FetchAll(ctx context.Context, leaves []*repotree.Node) ([]Result, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptySelection
	}

	limit := f.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	results := make([]Result, len(leaves))
	for start := 0; start < len(leaves); start += limit {
		end := start + limit
		if end > len(leaves) {
			end = len(leaves)
		}

		var wg sync.WaitGroup
		for i, leaf := range leaves[start:end] {
			wg.Add(1)
			go func(slot int, leaf *repotree.Node) {
				defer wg.Done()
				results[slot] = f.fetchOne(ctx, leaf)
			}(start+i, leaf)
		}
		wg.Wait()
	}

	if f.Logger != nil {
		var failed int
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		f.Logger.Debug("fetch complete", "total", len(results), "failed", failed)
	}

	return results, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, leaf *repotree.Node) Result {
	data, contentType, err := f.Client.FetchContent(ctx, leaf.Ref)
	if err != nil {
		if f.Logger != nil {
			f.Logger.Warn("fetch failed", "path", leaf.Path, "error", err)
		}
		return Result{Path: leaf.Path, Err: fmt.Errorf("fetch %s: %w", leaf.Path, err)}
	}

	record := &Record{Path: leaf.Path}
	if IsImagePath(leaf.Path) {
		record.Binary = true
		record.Data = base64.StdEncoding.EncodeToString(data)
		record.MimeType = MimeType(leaf.Path, contentType)
	} else {
		record.Text = string(data)
	}

	return Result{Path: leaf.Path, Record: record}
}

// Records returns the successful records from results, in order.
func Records(results []Result) []Record {
	records := make([]Record, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Record != nil {
			records = append(records, *r.Record)
		}
	}
	return records
}

// Failures returns the failed results, in order.
func Failures(results []Result) []Result {
	var failures []Result
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, r)
		}
	}
	return failures
}
