package snippets

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// Snippet is one piece of background context offered to the prompt assembler
type Snippet struct {
	Text        string  `json:"text"`
	SourceLabel string  `json:"source_label"`
	Score       float64 `json:"score"`
}

// Provider supplies background snippets relevant to a content description
type Provider interface {
	// Name returns the unique name of this provider
	Name() string

	// Type returns the provider type (rss, vector)
	Type() string

	// Retrieve returns snippets relevant to the query, best first
	Retrieve(ctx context.Context, query string, limit int) ([]Snippet, error)

	// HealthCheck verifies the provider is usable
	HealthCheck(ctx context.Context) error
}

// Fingerprint derives a stable ID for a snippet from its provider and text
func Fingerprint(providerType, text string) string {
	hash := sha256.Sum256([]byte(providerType + ":" + text))
	return fmt.Sprintf("%x", hash[:16])
}

// Manager fans a query out to every registered provider and merges the
// results. Provider failures degrade retrieval, they never fail a request.
type Manager struct {
	providers []Provider
}

// NewManager creates an empty provider manager
func NewManager() *Manager {
	return &Manager{providers: make([]Provider, 0)}
}

// Register adds a provider to the manager
func (m *Manager) Register(p Provider) {
	m.providers = append(m.providers, p)
}

// Providers returns all registered providers
func (m *Manager) Providers() []Provider {
	return m.providers
}

// Retrieve queries all providers concurrently and returns up to limit
// snippets ordered by score, plus any provider errors.
func (m *Manager) Retrieve(ctx context.Context, query string, limit int) ([]Snippet, []error) {
	type result struct {
		snippets []Snippet
		err      error
	}

	results := make(chan result, len(m.providers))
	for _, p := range m.providers {
		go func(p Provider) {
			s, err := p.Retrieve(ctx, query, limit)
			results <- result{snippets: s, err: err}
		}(p)
	}

	var all []Snippet
	var errs []error
	for range m.providers {
		r := <-results
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		all = append(all, r.snippets...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, errs
}

// Render formats snippets as a context block for the prompt assembler.
// Empty input renders to the empty string.
func Render(snippets []Snippet) string {
	if len(snippets) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, s := range snippets {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%s] %s", s.SourceLabel, s.Text)
	}
	return sb.String()
}
