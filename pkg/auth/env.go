package auth

import (
	"context"
	"os"
	"strings"
)

// EnvPrefix starts every cookie environment variable. The full name is
// EnvPrefix + PLATFORM + "_" + COOKIE, for example SLEUTH_COOKIE_LINKEDIN_LI_AT.
const EnvPrefix = "SLEUTH_COOKIE_"

// EnvSource reads session cookies from environment variables.
type EnvSource struct{}

// Cookies returns the session cookies for platform that are set in the environment.
func (EnvSource) Cookies(_ context.Context, platform string) (map[string]string, error) {
	cookies := make(map[string]string)
	for _, name := range platformSessionCookies[platform] {
		if v := os.Getenv(envVar(platform, name)); v != "" {
			cookies[name] = v
		}
	}
	if len(cookies) == 0 {
		return nil, nil //nolint:nilnil // nothing set is not an error
	}
	return cookies, nil
}

// EnvVarsForPlatform lists the variables EnvSource reads for platform, in
// the order its session cookies are listed.
func EnvVarsForPlatform(platform string) []string {
	names := platformSessionCookies[platform]
	if len(names) == 0 {
		return nil
	}
	vars := make([]string, len(names))
	for i, name := range names {
		vars[i] = envVar(platform, name)
	}
	return vars
}

func envVar(platform, cookie string) string {
	return EnvPrefix + strings.ToUpper(platform) + "_" + strings.ToUpper(cookie)
}
