// Package agent wraps an optional local language model that can refine
// account extraction, spot identity misuse and suggest search variations.
//
// The model is never required: callers check Available and fall back to the
// rule-based pipeline when it returns false.
package agent

import (
	"context"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

// NotAvailable is the analysis text reported when no model is reachable.
const NotAvailable = "N/A"

// Agent is a language-model collaborator.
type Agent interface {
	// Available reports whether the model answered the startup probe.
	Available() bool
	ExtractAccountData(ctx context.Context, markup, url string) (*result.AccountData, error)
	DetectIdentityMisuse(ctx context.Context, query string, account *result.AccountData, context string) (bool, string, error)
	GenerateSearchVariations(ctx context.Context, term string) ([]string, error)
	AnalyzeContentContext(ctx context.Context, title, snippet, text string) (string, error)
}

// Null is an Agent that is never available.
type Null struct{}

// Available returns false.
func (Null) Available() bool { return false }

// ExtractAccountData returns nil.
func (Null) ExtractAccountData(context.Context, string, string) (*result.AccountData, error) {
	return nil, nil //nolint:nilnil // nothing extracted is not an error
}

// DetectIdentityMisuse reports no misuse.
func (Null) DetectIdentityMisuse(context.Context, string, *result.AccountData, string) (bool, string, error) {
	return false, NotAvailable, nil
}

// GenerateSearchVariations returns the term itself.
func (Null) GenerateSearchVariations(_ context.Context, term string) ([]string, error) {
	return []string{term}, nil
}

// AnalyzeContentContext returns NotAvailable.
func (Null) AnalyzeContentContext(context.Context, string, string, string) (string, error) {
	return NotAvailable, nil
}
