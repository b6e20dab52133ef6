package snippets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name     string
	snippets []Snippet
	err      error
}

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) Type() string { return "stub" }
func (s *stubProvider) Retrieve(ctx context.Context, query string, limit int) ([]Snippet, error) {
	return s.snippets, s.err
}
func (s *stubProvider) HealthCheck(ctx context.Context) error { return s.err }

func TestManagerRetrieve(t *testing.T) {
	t.Run("merges and sorts by score", func(t *testing.T) {
		m := NewManager()
		m.Register(&stubProvider{name: "a", snippets: []Snippet{
			{Text: "low", SourceLabel: "a", Score: 0.2},
			{Text: "high", SourceLabel: "a", Score: 0.9},
		}})
		m.Register(&stubProvider{name: "b", snippets: []Snippet{
			{Text: "mid", SourceLabel: "b", Score: 0.5},
		}})

		out, errs := m.Retrieve(context.Background(), "query", 2)
		assert.Empty(t, errs)
		require.Len(t, out, 2)
		assert.Equal(t, "high", out[0].Text)
		assert.Equal(t, "mid", out[1].Text)
	})

	t.Run("provider failure degrades not fails", func(t *testing.T) {
		m := NewManager()
		m.Register(&stubProvider{name: "broken", err: errors.New("feed down")})
		m.Register(&stubProvider{name: "ok", snippets: []Snippet{{Text: "still here", Score: 1}}})

		out, errs := m.Retrieve(context.Background(), "query", 5)
		require.Len(t, errs, 1)
		require.Len(t, out, 1)
		assert.Equal(t, "still here", out[0].Text)
	})
}

func TestRender(t *testing.T) {
	t.Run("empty renders empty", func(t *testing.T) {
		assert.Equal(t, "", Render(nil))
	})

	t.Run("labels each snippet", func(t *testing.T) {
		out := Render([]Snippet{
			{Text: "first fact", SourceLabel: "news"},
			{Text: "second fact", SourceLabel: "notes"},
		})
		assert.Equal(t, "[news] first fact\n\n[notes] second fact", out)
	})
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("rss", "same text")
	b := Fingerprint("rss", "same text")
	c := Fingerprint("vector", "same text")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}
