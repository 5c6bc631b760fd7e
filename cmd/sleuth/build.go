package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/codeGROOVE-dev/sleuth/pkg/account"
	"github.com/codeGROOVE-dev/sleuth/pkg/agent"
	"github.com/codeGROOVE-dev/sleuth/pkg/auth"
	"github.com/codeGROOVE-dev/sleuth/pkg/casestore"
	"github.com/codeGROOVE-dev/sleuth/pkg/fuzzy"
	"github.com/codeGROOVE-dev/sleuth/pkg/httpcache"
	"github.com/codeGROOVE-dev/sleuth/pkg/scanner"
	"github.com/codeGROOVE-dev/sleuth/pkg/search"
)

// app holds the collaborators built from configuration. close releases them.
type app struct {
	scanner *scanner.Scanner
	matcher *fuzzy.Matcher
	cache   *httpcache.Cache
}

func (a *app) close() {
	st := httpcache.CacheStats()
	logger.Debug("fetch stats", "hits", st.Hits, "misses", st.Misses, "errors", st.Errors, "bytes", st.Bytes)
	if a.cache == nil {
		return
	}
	if err := a.cache.Close(); err != nil {
		logger.Warn("failed to close cache", "error", err)
	}
}

func newApp(ctx context.Context) (*app, error) {
	a := &app{}

	fetchOpts := []httpcache.Option{
		httpcache.WithLogger(logger),
		httpcache.WithTimeout(viper.GetDuration("fetch_timeout")),
	}
	if !viper.GetBool("cache.disabled") {
		c, err := newCache()
		if err != nil {
			logger.Warn("failed to initialize disk cache, caching in memory only", "error", err)
			c = httpcache.NewNull()
		}
		a.cache = c
		fetchOpts = append(fetchOpts, httpcache.WithHTTPCache(c))
		logger.Debug("page cache initialized", "ttl", c.TTL())
	}

	jar, err := auth.Jar(ctx, logger, cookieSources()...)
	if err != nil {
		logger.Warn("failed to load session cookies", "error", err)
	} else if jar != nil {
		fetchOpts = append(fetchOpts, httpcache.WithCookieJar(jar))
	}

	a.matcher = fuzzy.New(fuzzy.WithLogger(logger), fuzzy.WithMinScore(viper.GetInt("min_score")))

	var ag agent.Agent = agent.Null{}
	if !viper.GetBool("agent.disabled") {
		ag = agent.NewOllama(ctx,
			agent.WithBaseURL(viper.GetString("agent.url")),
			agent.WithModel(viper.GetString("agent.model")),
			agent.WithMaxConcurrent(viper.GetInt("agent.max_concurrent")),
			agent.WithLogger(logger),
		)
	}

	a.scanner = scanner.New(
		scanner.WithLogger(logger),
		scanner.WithFetcher(httpcache.NewFetcher(fetchOpts...)),
		scanner.WithAggregator(search.NewAggregator(search.WithLogger(logger))),
		scanner.WithAgent(ag),
		scanner.WithAccountExtractor(account.New(
			account.WithLogger(logger),
			account.WithPhoneRegion(viper.GetString("phone_region")),
		)),
		scanner.WithMatcher(a.matcher),
		scanner.WithConcurrency(viper.GetInt("concurrency")),
		scanner.WithDuplicateThreshold(viper.GetFloat64("duplicate_threshold")),
	)
	return a, nil
}

func newCache() (*httpcache.Cache, error) {
	ttl := viper.GetDuration("cache.ttl")
	if dir := viper.GetString("cache.dir"); dir != "" {
		return httpcache.NewWithPath(ttl, dir)
	}
	return httpcache.New(ttl)
}

// cookieSources lists cookie sources in priority order: config file,
// environment, then local browsers.
func cookieSources() []auth.Source {
	var sources []auth.Source
	var static map[string]map[string]string
	if err := viper.UnmarshalKey("cookies", &static); err != nil {
		logger.Warn("ignoring malformed cookies setting", "error", err)
	} else if len(static) > 0 {
		sources = append(sources, auth.NewStaticSource(static))
	}
	sources = append(sources, auth.EnvSource{})
	if !viper.GetBool("browser_cookies.disabled") {
		sources = append(sources, auth.NewBrowserSource(logger))
	}
	return sources
}

func openStore() (*casestore.Store, error) {
	path := viper.GetString("db")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	return casestore.Open(path, casestore.WithLogger(logger))
}
