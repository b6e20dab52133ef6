package rss

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/content-agent/internal/config"
	"github.com/content-agent/internal/snippets"
	"github.com/content-agent/pkg/logger"
	"github.com/content-agent/pkg/ratelimit"
)

const maxItemAge = 14 * 24 * time.Hour

// Provider retrieves background snippets from an RSS feed, ranked by term
// overlap with the query.
type Provider struct {
	name    string
	url     string
	parser  *gofeed.Parser
	limiter *ratelimit.MultiLimiter
	log     *logger.Logger
}

// New creates an RSS snippet provider for a single feed
func New(feed config.SnippetFeed, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Provider {
	return &Provider{
		name:    feed.Name,
		url:     feed.URL,
		parser:  gofeed.NewParser(),
		limiter: limiter,
		log:     log.WithProvider("rss", feed.Name),
	}
}

// NewMultiple creates providers for every configured feed
func NewMultiple(feeds []config.SnippetFeed, limiter *ratelimit.MultiLimiter, log *logger.Logger) []*Provider {
	providers := make([]*Provider, 0, len(feeds))
	for _, feed := range feeds {
		providers = append(providers, New(feed, limiter, log))
	}
	return providers
}

// Name returns the feed name
func (p *Provider) Name() string {
	return p.name
}

// Type returns "rss"
func (p *Provider) Type() string {
	return "rss"
}

// Retrieve fetches the feed and returns the items most relevant to the query
func (p *Provider) Retrieve(ctx context.Context, query string, limit int) ([]snippets.Snippet, error) {
	if err := p.limiter.Wait(ctx, ratelimit.LimiterRSS); err != nil {
		return nil, err
	}

	feed, err := p.parser.ParseURLWithContext(p.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", p.name, err)
	}

	queryTerms := terms(query)
	var out []snippets.Snippet

	for _, item := range feed.Items {
		if item.PublishedParsed != nil && time.Since(*item.PublishedParsed) > maxItemAge {
			continue
		}

		text := cleanText(item.Title)
		if d := cleanText(item.Description); d != "" {
			text += ": " + d
		}
		score := overlap(queryTerms, terms(text))
		if score == 0 {
			continue
		}

		out = append(out, snippets.Snippet{
			Text:        text,
			SourceLabel: p.name,
			Score:       score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	p.log.Debug().
		Int("count", len(out)).
		Str("feed", p.name).
		Msg("Retrieved feed snippets")
	return out, nil
}

// HealthCheck verifies the feed is accessible
func (p *Provider) HealthCheck(ctx context.Context) error {
	_, err := p.parser.ParseURLWithContext(p.url, ctx)
	return err
}

// overlap is the fraction of query terms present in the candidate text
func overlap(query, candidate map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	hits := 0
	for t := range query {
		if _, ok := candidate[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

func terms(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?:;\"'()")
		if len(w) < 4 {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// cleanText strips HTML tags and collapses whitespace
func cleanText(text string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			sb.WriteRune(' ')
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

var _ snippets.Provider = (*Provider)(nil)
