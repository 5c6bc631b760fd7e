// Package auth provides session cookies so that profile pages which hide
// content from anonymous visitors can be fetched as a logged-in user.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
)

// platformDomains maps platform names to their cookie domains, current
// domain first.
var platformDomains = map[string][]string{
	"facebook":  {"facebook.com"},
	"github":    {"github.com"},
	"instagram": {"instagram.com"},
	"linkedin":  {"linkedin.com"},
	"reddit":    {"reddit.com"},
	"tiktok":    {"tiktok.com"},
	"twitter":   {"x.com", "twitter.com"},
}

// Platforms returns the names of platforms that accept session cookies, sorted.
func Platforms() []string {
	names := make([]string, 0, len(platformDomains))
	for name := range platformDomains {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Source represents a source of authentication cookies.
type Source interface {
	// Cookies returns cookies for the given platform, or nil if unavailable.
	Cookies(ctx context.Context, platform string) (map[string]string, error)
}

// ChainSources returns cookies from the first source that provides them.
func ChainSources(ctx context.Context, platform string, sources ...Source) (map[string]string, error) {
	for _, src := range sources {
		cookies, err := src.Cookies(ctx, platform)
		if err != nil {
			return nil, err
		}
		if len(cookies) > 0 {
			return cookies, nil
		}
	}
	return nil, nil //nolint:nilnil // no source had cookies, but this is not an error
}

// NewCookieJar creates an http.CookieJar populated with the given cookies for a domain.
func NewCookieJar(domain string, cookies map[string]string) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if err := addCookies(jar, domain, cookies); err != nil {
		return nil, err
	}
	return jar, nil
}

// Jar builds one cookie jar holding the cookies every source can supply for
// every known platform. Platforms without cookies are skipped. It returns
// nil when no platform had cookies.
func Jar(ctx context.Context, logger *slog.Logger, sources ...Source) (*cookiejar.Jar, error) {
	if logger == nil {
		logger = slog.Default()
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	var loaded []string
	for _, platform := range Platforms() {
		cookies, err := ChainSources(ctx, platform, sources...)
		if err != nil {
			return nil, fmt.Errorf("cookies for %s: %w", platform, err)
		}
		if len(cookies) == 0 {
			continue
		}
		for _, domain := range platformDomains[platform] {
			if err := addCookies(jar, domain, cookies); err != nil {
				return nil, fmt.Errorf("cookies for %s: %w", platform, err)
			}
		}
		loaded = append(loaded, platform)
	}
	if len(loaded) == 0 {
		return nil, nil //nolint:nilnil // no cookies anywhere is not an error
	}
	logger.InfoContext(ctx, "session cookies loaded", "platforms", loaded)
	return jar, nil
}

func addCookies(jar *cookiejar.Jar, domain string, cookies map[string]string) error {
	u, err := url.Parse("https://" + domain)
	if err != nil {
		return err
	}

	var httpCookies []*http.Cookie
	for name, value := range cookies {
		if value != "" {
			httpCookies = append(httpCookies, &http.Cookie{
				Name:   name,
				Value:  value,
				Domain: "." + domain,
				Path:   "/",
			})
		}
	}

	jar.SetCookies(u, httpCookies)
	return nil
}
