package auth

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewCookieJar(t *testing.T) {
	jar, err := NewCookieJar("example.com", map[string]string{"session": "abc123", "empty": ""})
	if err != nil {
		t.Fatalf("NewCookieJar failed: %v", err)
	}

	u, _ := url.Parse("https://www.example.com/profile") //nolint:errcheck // constant URL
	got := jar.Cookies(u)
	if len(got) != 1 || got[0].Name != "session" || got[0].Value != "abc123" {
		t.Errorf("jar.Cookies() = %v, want session=abc123 only", got)
	}
}

func TestEnvSource(t *testing.T) {
	t.Setenv("SLEUTH_COOKIE_LINKEDIN_LI_AT", "test-li-at")
	t.Setenv("SLEUTH_COOKIE_LINKEDIN_JSESSIONID", "test-jsessionid")

	src := EnvSource{}
	cookies, err := src.Cookies(context.Background(), "linkedin")
	if err != nil {
		t.Fatalf("Cookies failed: %v", err)
	}
	want := map[string]string{"li_at": "test-li-at", "JSESSIONID": "test-jsessionid"}
	if diff := cmp.Diff(want, cookies); diff != "" {
		t.Errorf("Cookies() mismatch (-want +got):\n%s", diff)
	}

	cookies, err = src.Cookies(context.Background(), "unknown-platform")
	if err != nil || cookies != nil {
		t.Errorf("Cookies(unknown) = %v, %v; want nil, nil", cookies, err)
	}
}

func TestEnvVarsForPlatform(t *testing.T) {
	want := []string{"SLEUTH_COOKIE_TWITTER_AUTH_TOKEN", "SLEUTH_COOKIE_TWITTER_CT0"}
	if diff := cmp.Diff(want, EnvVarsForPlatform("twitter")); diff != "" {
		t.Errorf("EnvVarsForPlatform mismatch (-want +got):\n%s", diff)
	}
	if got := EnvVarsForPlatform("myspace"); got != nil {
		t.Errorf("EnvVarsForPlatform(myspace) = %v, want nil", got)
	}
}

func TestStaticSourceReturnsCopy(t *testing.T) {
	src := NewStaticSource(map[string]map[string]string{"github": {"user_session": "s"}})
	c, err := src.Cookies(context.Background(), "github")
	if err != nil {
		t.Fatal(err)
	}
	c["user_session"] = "changed"

	again, _ := src.Cookies(context.Background(), "github") //nolint:errcheck // static source never fails
	if again["user_session"] != "s" {
		t.Errorf("static source was mutated: %v", again)
	}
	if c, _ := src.Cookies(context.Background(), "reddit"); c != nil { //nolint:errcheck // static source never fails
		t.Errorf("Cookies(reddit) = %v, want nil", c)
	}
}

type errSource struct{}

func (errSource) Cookies(context.Context, string) (map[string]string, error) {
	return nil, errors.New("boom")
}

func TestChainSources(t *testing.T) {
	ctx := context.Background()
	first := NewStaticSource(map[string]map[string]string{"github": {"user_session": "first"}})
	second := NewStaticSource(map[string]map[string]string{
		"github": {"user_session": "second"},
		"reddit": {"reddit_session": "r"},
	})

	got, err := ChainSources(ctx, "github", first, second)
	if err != nil || got["user_session"] != "first" {
		t.Errorf("ChainSources(github) = %v, %v; want first", got, err)
	}
	got, err = ChainSources(ctx, "reddit", first, second)
	if err != nil || got["reddit_session"] != "r" {
		t.Errorf("ChainSources(reddit) = %v, %v; want r", got, err)
	}
	if _, err := ChainSources(ctx, "github", errSource{}, first); err == nil {
		t.Error("ChainSources() with failing source succeeded, want error")
	}
}

func TestJar(t *testing.T) {
	ctx := context.Background()

	jar, err := Jar(ctx, nil, NewStaticSource(nil))
	if err != nil || jar != nil {
		t.Fatalf("Jar(empty) = %v, %v; want nil, nil", jar, err)
	}

	src := NewStaticSource(map[string]map[string]string{
		"twitter":  {"auth_token": "tok"},
		"facebook": {"c_user": "42"},
	})
	jar, err = Jar(ctx, nil, src)
	if err != nil || jar == nil {
		t.Fatalf("Jar() = %v, %v; want jar", jar, err)
	}
	for host, name := range map[string]string{"x.com": "auth_token", "twitter.com": "auth_token", "mobile.twitter.com": "auth_token", "www.facebook.com": "c_user"} {
		u := &url.URL{Scheme: "https", Host: host, Path: "/"}
		cookies := jar.Cookies(u)
		if len(cookies) != 1 || cookies[0].Name != name {
			t.Errorf("jar.Cookies(%s) = %v, want %s", host, cookies, name)
		}
	}
	if got := jar.Cookies(&url.URL{Scheme: "https", Host: "github.com", Path: "/"}); len(got) != 0 {
		t.Errorf("jar.Cookies(github.com) = %v, want none", got)
	}

	if _, err := Jar(ctx, nil, errSource{}); err == nil {
		t.Error("Jar() with failing source succeeded, want error")
	}
}

func TestPlatforms(t *testing.T) {
	want := []string{"facebook", "github", "instagram", "linkedin", "reddit", "tiktok", "twitter"}
	if diff := cmp.Diff(want, Platforms()); diff != "" {
		t.Errorf("Platforms() mismatch (-want +got):\n%s", diff)
	}
}
