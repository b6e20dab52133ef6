package library

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content-agent/pkg/logger"
)

func testLib(t *testing.T) *Library {
	t.Helper()
	return Default(logger.Default())
}

func TestDefaultDocument(t *testing.T) {
	lib := testLib(t)

	t.Run("loads all platforms", func(t *testing.T) {
		assert.Len(t, lib.Platforms(), 21)
		assert.True(t, lib.HasPlatform("linkedin"))
		assert.True(t, lib.HasPlatform("stackoverflow"))
		assert.False(t, lib.HasPlatform("myspace"))
	})

	t.Run("exactly one cta exempt platform", func(t *testing.T) {
		exempt := 0
		for _, id := range lib.Platforms() {
			p, err := lib.Profile(id)
			require.NoError(t, err)
			if p.CTAExempt() {
				exempt++
				assert.Equal(t, "stackoverflow", id)
			}
		}
		assert.Equal(t, 1, exempt)
	})

	t.Run("surfaces word range drift as warning", func(t *testing.T) {
		warnings := lib.Warnings()
		require.NotEmpty(t, warnings)
		assert.Contains(t, warnings[0], "linkedin")
		assert.Contains(t, warnings[0], "280-320")
	})

	t.Run("profiles carry templates", func(t *testing.T) {
		for _, id := range lib.Platforms() {
			p, err := lib.Profile(id)
			require.NoError(t, err)
			assert.NotEmpty(t, p.PromptTemplate, "platform %s", id)
		}
	})
}

func TestProfileLookup(t *testing.T) {
	lib := testLib(t)

	t.Run("known platform", func(t *testing.T) {
		p, err := lib.Profile("linkedin")
		require.NoError(t, err)
		assert.Equal(t, "linkedin", p.ID)
		assert.Equal(t, 250, p.WordCount.Min)
		assert.Equal(t, 350, p.WordCount.Max)
	})

	t.Run("unknown platform lists known identifiers", func(t *testing.T) {
		_, err := lib.Profile("myspace")
		require.Error(t, err)

		var upErr *UnknownPlatformError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, "myspace", upErr.Platform)
		assert.Contains(t, err.Error(), "linkedin")
		assert.Contains(t, err.Error(), "dev_to")
	})
}

func TestValidateDocument(t *testing.T) {
	base := func() *Document {
		return &Document{
			Version: "t1",
			Globals: Globals{CTA: "Visit example.com"},
			SEO:     SEO{PrimaryKeywords: []string{"testing"}},
			Platforms: map[string]*PlatformProfile{
				"blog": {
					Voice:     VoicePersonal,
					Tone:      "educational",
					WordCount: WordCount{Min: 10, Max: 20},
					Keywords:  Bounds{Min: 1, Max: 2},
					Hashtags:  Bounds{Min: 1, Max: 3},
					Structure: Bounds{Min: 1, Max: 3},
					CTAStyle:  CTAStyleExplicit,
				},
				"answers": {
					Voice:     VoiceTechnical,
					Tone:      "technical",
					WordCount: WordCount{Min: 5, Max: 50},
					Keywords:  Bounds{Min: 1, Max: 2},
					Hashtags:  Bounds{Min: 0, Max: 1},
					Structure: Bounds{Min: 1, Max: 2},
					CTAStyle:  CTAStyleNone,
				},
			},
		}
	}

	t.Run("valid document", func(t *testing.T) {
		_, err := New(base(), false, logger.Default())
		require.NoError(t, err)
	})

	t.Run("missing cta", func(t *testing.T) {
		doc := base()
		doc.Globals.CTA = ""
		_, err := New(doc, false, logger.Default())
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "globals.cta", schemaErr.Field)
	})

	t.Run("inverted bounds", func(t *testing.T) {
		doc := base()
		doc.Platforms["blog"].Keywords = Bounds{Min: 5, Max: 2}
		_, err := New(doc, false, logger.Default())
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "blog", schemaErr.Platform)
	})

	t.Run("no cta exempt platform", func(t *testing.T) {
		doc := base()
		doc.Platforms["answers"].CTAStyle = CTAStyleSoft
		_, err := New(doc, false, logger.Default())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one")
	})

	t.Run("two cta exempt platforms", func(t *testing.T) {
		doc := base()
		doc.Platforms["blog"].CTAStyle = CTAStyleNone
		_, err := New(doc, false, logger.Default())
		require.Error(t, err)
	})

	t.Run("unknown template variable", func(t *testing.T) {
		doc := base()
		doc.Platforms["blog"].PromptTemplate = "Write about {description} in {wordcount_range}"
		_, err := New(doc, false, logger.Default())
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "prompt_template", schemaErr.Field)
		assert.Contains(t, schemaErr.Reason, "wordcount_range")
	})

	t.Run("strict requires templates", func(t *testing.T) {
		_, err := New(base(), true, logger.Default())
		require.Error(t, err)
	})
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.json")

	write := func(doc *Document) {
		data, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0644))
	}

	doc := defaultDocument()
	write(doc)

	lib, err := LoadFile(path, logger.Default())
	require.NoError(t, err)
	assert.Equal(t, "3.2", lib.Version())

	t.Run("successful reload swaps table", func(t *testing.T) {
		doc.Version = "3.3"
		write(doc)
		require.NoError(t, lib.Reload())
		assert.Equal(t, "3.3", lib.Version())
	})

	t.Run("invalid reload keeps current table", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(`{"version":""}`), 0644))
		require.Error(t, lib.Reload())
		assert.Equal(t, "3.3", lib.Version())
		assert.Len(t, lib.Platforms(), 21)
	})
}

func TestPool(t *testing.T) {
	lib := testLib(t)

	t.Run("returns copies", func(t *testing.T) {
		pool := lib.Pool()
		require.NotEmpty(t, pool.Primary)
		pool.Primary[0] = "mutated"
		assert.NotEqual(t, "mutated", lib.Pool().Primary[0])
	})

	t.Run("update stamps refresh date", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, lib.UpdatePool([]string{"a", "b"}, []string{"c"}, now))

		pool := lib.Pool()
		assert.Equal(t, []string{"a", "b"}, pool.Primary)
		assert.Equal(t, []string{"c"}, pool.Secondary)
		assert.Equal(t, now.Format("2006-01-02"), pool.LastRefresh.Format("2006-01-02"))
	})

	t.Run("rejects empty primary list", func(t *testing.T) {
		assert.Error(t, lib.UpdatePool(nil, nil, time.Now()))
	})
}

func TestApplyTemplates(t *testing.T) {
	lib := testLib(t)

	t.Run("applies valid override", func(t *testing.T) {
		applied, err := lib.ApplyTemplates(map[string]string{
			"linkedin": "Write a post about {description} with {primary_keywords}",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, applied)

		p, err := lib.Profile("linkedin")
		require.NoError(t, err)
		assert.Contains(t, p.PromptTemplate, "{primary_keywords}")
	})

	t.Run("skips bad placeholder and unknown platform", func(t *testing.T) {
		before, _ := lib.Profile("twitter")
		applied, err := lib.ApplyTemplates(map[string]string{
			"twitter": "Thread on {topic}",
			"myspace": "Anything",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, applied)

		after, _ := lib.Profile("twitter")
		assert.Equal(t, before.PromptTemplate, after.PromptTemplate)
	})

	t.Run("profiles handed out before an overlay never mutate", func(t *testing.T) {
		lib := testLib(t)
		held, err := lib.Profile("medium")
		require.NoError(t, err)
		original := held.PromptTemplate

		applied, err := lib.ApplyTemplates(map[string]string{
			"medium": "Deep dive on {description} using {primary_keywords}",
		})
		require.NoError(t, err)
		require.Equal(t, 1, applied)

		assert.Equal(t, original, held.PromptTemplate)

		fresh, err := lib.Profile("medium")
		require.NoError(t, err)
		assert.Equal(t, "Deep dive on {description} using {primary_keywords}", fresh.PromptTemplate)
	})
}
