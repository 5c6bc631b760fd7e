package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

// Defaults for a local Ollama install.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama2"

	maxPromptContent = 2000
	probeTimeout     = 5 * time.Second
	generateTimeout  = 60 * time.Second
)

var _ Agent = (*Ollama)(nil)

// Ollama talks to an Ollama server. Availability is probed once by
// NewOllama; when the probe fails every method behaves like Null.
type Ollama struct {
	client    *http.Client
	logger    *slog.Logger
	sem       chan struct{}
	baseURL   string
	model     string
	available bool
}

// Option configures an Ollama agent.
type Option func(*config)

type config struct {
	client        *http.Client
	logger        *slog.Logger
	baseURL       string
	model         string
	maxConcurrent int
}

// WithBaseURL sets the Ollama server URL.
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = u }
}

// WithModel sets the model used for generation.
func WithModel(m string) Option {
	return func(c *config) { c.model = m }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.client = client }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMaxConcurrent limits in-flight generate calls.
func WithMaxConcurrent(n int) Option {
	return func(c *config) { c.maxConcurrent = n }
}

// NewOllama creates an agent and probes the server's model list.
func NewOllama(ctx context.Context, opts ...Option) *Ollama {
	cfg := &config{
		logger:        slog.Default(),
		baseURL:       DefaultBaseURL,
		model:         DefaultModel,
		maxConcurrent: 3,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{Timeout: generateTimeout}
	}
	if cfg.maxConcurrent < 1 {
		cfg.maxConcurrent = 1
	}

	o := &Ollama{
		client:  cfg.client,
		logger:  cfg.logger,
		sem:     make(chan struct{}, cfg.maxConcurrent),
		baseURL: strings.TrimRight(cfg.baseURL, "/"),
		model:   cfg.model,
	}
	o.available = o.probe(ctx)
	o.logger.InfoContext(ctx, "language model agent", "url", o.baseURL, "model", o.model, "available", o.available)
	return o
}

// Available reports the cached probe result.
func (o *Ollama) Available() bool { return o.available }

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (o *Ollama) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return false
	}
	resp, err := o.client.Do(req)
	if err != nil {
		o.logger.DebugContext(ctx, "ollama probe failed", "error", err)
		return false
	}
	defer resp.Body.Close() //nolint:errcheck // intentional
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return false
	}
	return len(tags.Models) > 0
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Format string `json:"format,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// statusError is a non-200 answer from the server.
type statusError struct{ code int }

func (e *statusError) Error() string { return fmt.Sprintf("ollama returned HTTP %d", e.code) }

func (o *Ollama) acquire(ctx context.Context) error {
	select {
	case o.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Ollama) release() { <-o.sem }

// generate sends prompt and returns the model's response text.
func (o *Ollama) generate(ctx context.Context, prompt string) (string, error) {
	if err := o.acquire(ctx); err != nil {
		return "", err
	}
	defer o.release()

	body, err := json.Marshal(generateRequest{Model: o.model, Prompt: prompt, Format: "json"})
	if err != nil {
		return "", err
	}

	return retry.DoWithData(
		func() (string, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
			if err != nil {
				return "", err
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := o.client.Do(req)
			if err != nil {
				return "", err
			}
			defer resp.Body.Close() //nolint:errcheck // intentional

			if resp.StatusCode != http.StatusOK {
				io.Copy(io.Discard, resp.Body) //nolint:errcheck,gosec // draining only
				return "", &statusError{code: resp.StatusCode}
			}
			var gr generateResponse
			if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
				return "", fmt.Errorf("decode response: %w", err)
			}
			return gr.Response, nil
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(300*time.Millisecond),
		retry.MaxJitter(100*time.Millisecond),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			o.logger.Debug("retrying ollama request", "attempt", n+1, "error", err)
		}),
	)
}

// isRetryable treats server-side failures and transport errors as transient.
func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// decodeJSON parses the first JSON object embedded in s into v.
func decodeJSON(s string, v any) error {
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return errors.New("no JSON object in model response")
	}
	return json.Unmarshal([]byte(s[start:end+1]), v)
}

type accountJSON struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
}

// ExtractAccountData asks the model for profile fields in content.
func (o *Ollama) ExtractAccountData(ctx context.Context, markup, url string) (*result.AccountData, error) {
	if !o.available {
		return nil, nil //nolint:nilnil // nothing extracted is not an error
	}
	prompt := "Extract the account owner's profile from this web page. " +
		`Answer with JSON {"username":"","display_name":"","email":"","bio":"","location":""}; ` +
		"leave unknown fields empty.\n\nURL: " + url + "\n\n" + truncate(markup, maxPromptContent)

	out, err := o.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extract account: %w", err)
	}
	var a accountJSON
	if err := decodeJSON(out, &a); err != nil {
		o.logger.DebugContext(ctx, "unparseable account answer", "url", url, "error", err)
		return nil, nil //nolint:nilnil // unparseable answer means nothing extracted
	}
	data := &result.AccountData{
		ProfileURL:  url,
		Username:    strings.TrimSpace(a.Username),
		DisplayName: strings.TrimSpace(a.DisplayName),
		Email:       strings.TrimSpace(a.Email),
		Bio:         strings.TrimSpace(a.Bio),
		Location:    strings.TrimSpace(a.Location),
	}
	if data.Empty() && data.Location == "" {
		return nil, nil //nolint:nilnil // nothing extracted is not an error
	}
	return data, nil
}

type misuseJSON struct {
	Reason string `json:"reason"`
	Misuse bool   `json:"misuse"`
}

// DetectIdentityMisuse asks whether account impersonates or misrepresents query.
func (o *Ollama) DetectIdentityMisuse(ctx context.Context, query string, account *result.AccountData, pageContext string) (bool, string, error) {
	if !o.available || account == nil {
		return false, NotAvailable, nil
	}
	acct, err := json.Marshal(account)
	if err != nil {
		return false, "", err
	}
	prompt := "Does this account impersonate or misrepresent the person " + query + "? " +
		`Answer with JSON {"misuse":true|false,"reason":""}.` +
		"\n\nAccount: " + string(acct) + "\n\nContext: " + truncate(pageContext, maxPromptContent)

	out, err := o.generate(ctx, prompt)
	if err != nil {
		return false, "", fmt.Errorf("detect misuse: %w", err)
	}
	var m misuseJSON
	if err := decodeJSON(out, &m); err != nil {
		return false, "", fmt.Errorf("detect misuse: %w", err)
	}
	return m.Misuse, strings.TrimSpace(m.Reason), nil
}

// GenerateSearchVariations asks for alternative spellings of term. The term
// itself always comes first.
func (o *Ollama) GenerateSearchVariations(ctx context.Context, term string) ([]string, error) {
	if !o.available {
		return []string{term}, nil
	}
	prompt := "List alternative spellings, nicknames and usernames someone called " + term +
		` might use online. Answer with JSON {"variations":[""]}.`

	out, err := o.generate(ctx, prompt)
	if err != nil {
		return []string{term}, fmt.Errorf("generate variations: %w", err)
	}
	var v struct {
		Variations []string `json:"variations"`
	}
	if err := decodeJSON(out, &v); err != nil {
		return []string{term}, nil
	}
	vars := []string{term}
	seen := map[string]bool{term: true}
	for _, s := range v.Variations {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			vars = append(vars, s)
		}
	}
	return vars, nil
}

// AnalyzeContentContext returns a short description of what the page is about.
func (o *Ollama) AnalyzeContentContext(ctx context.Context, title, snippet, text string) (string, error) {
	if !o.available {
		return NotAvailable, nil
	}
	prompt := "Summarize in at most three sentences what this page says about its subject. " +
		`Answer with JSON {"analysis":""}.` +
		"\n\nTitle: " + title + "\nSnippet: " + snippet + "\n\n" + truncate(text, maxPromptContent)

	out, err := o.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("analyze content: %w", err)
	}
	var a struct {
		Analysis string `json:"analysis"`
	}
	if err := decodeJSON(out, &a); err != nil || strings.TrimSpace(a.Analysis) == "" {
		return strings.TrimSpace(out), nil
	}
	return strings.TrimSpace(a.Analysis), nil
}
