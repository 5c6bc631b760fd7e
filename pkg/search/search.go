// Package search fans a term out to the configured search sources.
package search

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

// Source names, in the order their results are concatenated.
const (
	Primary   = "primary"
	Secondary = "secondary"
	Tertiary  = "tertiary"
	Social    = "social"
	Forums    = "forums"
	Archives  = "archives"
)

// SourceNames lists every source the aggregator queries, in order.
var SourceNames = []string{Primary, Secondary, Tertiary, Social, Forums, Archives}

// Source returns candidate results for a term.
type Source interface {
	Name() string
	Search(ctx context.Context, term string) ([]*result.SearchResult, error)
}

// Stub is a source that never finds anything.
type Stub struct {
	name string
}

// NewStub returns an empty source called name.
func NewStub(name string) *Stub { return &Stub{name: name} }

// Name returns the source name.
func (s *Stub) Name() string { return s.name }

// Search returns an empty list.
func (*Stub) Search(context.Context, string) ([]*result.SearchResult, error) {
	return []*result.SearchResult{}, nil
}

// Func adapts a function to a Source.
type Func struct {
	SourceName string
	Fn         func(ctx context.Context, term string) ([]*result.SearchResult, error)
}

// Name returns the source name.
func (f Func) Name() string { return f.SourceName }

// Search calls Fn.
func (f Func) Search(ctx context.Context, term string) ([]*result.SearchResult, error) {
	return f.Fn(ctx, term)
}

// Aggregator queries a fixed set of sources.
type Aggregator struct {
	logger  *slog.Logger
	sources map[string]Source
}

// Option configures an Aggregator.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	sources map[string]Source
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithSource replaces the source registered under src.Name(). Names outside
// SourceNames are ignored.
func WithSource(src Source) Option {
	return func(c *config) {
		if slices.Contains(SourceNames, src.Name()) {
			c.sources[src.Name()] = src
		}
	}
}

// NewAggregator creates an Aggregator. Sources not supplied are stubs.
func NewAggregator(opts ...Option) *Aggregator {
	cfg := &config{logger: slog.Default(), sources: map[string]Source{}}
	for _, name := range SourceNames {
		cfg.sources[name] = NewStub(name)
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Aggregator{logger: cfg.logger, sources: cfg.sources}
}

// All queries every source concurrently and concatenates their results in
// source order. A failing source is logged and contributes nothing.
func (a *Aggregator) All(ctx context.Context, term string) []*result.SearchResult {
	lists := make([][]*result.SearchResult, len(SourceNames))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range SourceNames {
		g.Go(func() error {
			lists[i] = a.query(ctx, name, term)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines never return errors

	var out []*result.SearchResult
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// Primary queries only the primary source.
func (a *Aggregator) Primary(ctx context.Context, term string) []*result.SearchResult {
	return a.query(ctx, Primary, term)
}

func (a *Aggregator) query(ctx context.Context, name, term string) []*result.SearchResult {
	src := a.sources[name]
	results, err := src.Search(ctx, term)
	if err != nil {
		a.logger.WarnContext(ctx, "search source failed", "source", name, "term", term, "error", err)
		return nil
	}
	out := make([]*result.SearchResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	a.logger.DebugContext(ctx, "search source done", "source", name, "term", term, "results", len(out))
	return out
}
