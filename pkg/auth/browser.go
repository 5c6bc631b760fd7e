package auth

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all" // Import all browser cookie stores
	"github.com/browserutils/kooky/browser/firefox"
)

// platformSessionCookies lists the cookies that carry a logged-in session.
var platformSessionCookies = map[string][]string{
	"facebook":  {"c_user", "xs"},
	"github":    {"user_session", "logged_in"},
	"instagram": {"sessionid", "csrftoken"},
	"linkedin":  {"li_at", "JSESSIONID"},
	"reddit":    {"reddit_session", "token_v2"},
	"tiktok":    {"sessionid"},
	"twitter":   {"auth_token", "ct0"},
}

// BrowserSource reads cookies from locally installed browsers.
type BrowserSource struct {
	logger *slog.Logger
	home   string
}

// NewBrowserSource creates a new browser cookie source.
func NewBrowserSource(logger *slog.Logger) *BrowserSource {
	if logger == nil {
		logger = slog.Default()
	}
	home, _ := os.UserHomeDir() //nolint:errcheck // empty home only disables profile globbing
	return &BrowserSource{logger: logger, home: home}
}

// Cookies returns session cookies for platform. Firefox-family profiles are
// read directly since kooky does not discover all of them; everything else
// goes through kooky's browser detection. Read failures are not errors.
func (s *BrowserSource) Cookies(ctx context.Context, platform string) (map[string]string, error) {
	domains, ok := platformDomains[platform]
	if !ok {
		return nil, nil //nolint:nilnil // no cookies for unknown platform is not an error
	}
	for _, domain := range domains {
		if cookies := s.domainCookies(ctx, platform, domain); len(cookies) > 0 {
			return cookies, nil
		}
	}
	return nil, nil //nolint:nilnil // no browser cookies is not an error
}

func (s *BrowserSource) domainCookies(ctx context.Context, platform, domain string) map[string]string {
	s.logger.DebugContext(ctx, "reading browser cookies", "platform", platform, "domain", domain)

	for _, f := range s.firefoxProfiles() {
		kookies, err := firefox.ReadCookies(ctx, f, kooky.Valid, kooky.DomainHasSuffix(domain))
		if err != nil {
			s.logger.Debug("failed to read Firefox cookies", "profile", filepath.Base(filepath.Dir(f)), "platform", platform, "error", err)
			continue
		}
		if cookies := s.sessionCookies(kookies, platform); len(cookies) > 0 {
			return cookies
		}
	}

	kookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix(domain))
	if err != nil {
		s.logger.Debug("failed to read browser cookies", "platform", platform, "error", err)
		return nil
	}
	return s.sessionCookies(kookies, platform)
}

// firefoxProfiles returns cookie databases of Firefox and Firefox-based browsers.
func (s *BrowserSource) firefoxProfiles() []string {
	if s.home == "" {
		return nil
	}
	var roots []string
	switch runtime.GOOS {
	case "darwin":
		support := filepath.Join(s.home, "Library", "Application Support")
		roots = []string{filepath.Join(support, "Firefox", "Profiles"), filepath.Join(support, "zen", "Profiles")}
	case "windows":
		appData := os.Getenv("APPDATA")
		roots = []string{filepath.Join(appData, "Mozilla", "Firefox", "Profiles"), filepath.Join(appData, "zen", "Profiles")}
	default:
		roots = []string{filepath.Join(s.home, ".mozilla", "firefox"), filepath.Join(s.home, ".zen")}
	}

	var out []string
	for _, root := range roots {
		matches, err := filepath.Glob(filepath.Join(root, "*", "cookies.sqlite"))
		if err != nil {
			continue
		}
		out = append(out, matches...)
	}
	return out
}

// sessionCookies keeps only the session cookies for platform.
func (s *BrowserSource) sessionCookies(kookies []*kooky.Cookie, platform string) map[string]string {
	want := map[string]bool{}
	for _, name := range platformSessionCookies[platform] {
		want[name] = true
	}

	cookies := make(map[string]string)
	for _, c := range kookies {
		if want[c.Name] {
			cookies[c.Name] = c.Value
		}
	}
	if len(cookies) > 0 {
		s.logger.Info("browser cookies found", "platform", platform, "count", len(cookies))
	}
	return cookies
}
