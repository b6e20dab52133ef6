package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content-agent/internal/keywords"
	"github.com/content-agent/internal/library"
	"github.com/content-agent/internal/metrics"
	"github.com/content-agent/internal/models"
	"github.com/content-agent/internal/prompt"
	"github.com/content-agent/internal/validate"
	"github.com/content-agent/pkg/logger"
)

type fakeGenerator struct {
	content string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, p string) (string, error) {
	f.prompts = append(f.prompts, p)
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func testEngine(t *testing.T, gen Generator) *Engine {
	t.Helper()
	log := logger.Default()
	lib := library.Default(log)
	return New(
		lib,
		keywords.New(lib, log),
		prompt.New(lib, log),
		validate.New(lib, metrics.New(log), log),
		nil,
		gen,
		0,
		log,
	)
}

func TestPreview(t *testing.T) {
	e := testEngine(t, nil)

	t.Run("assembles prompt without a generator", func(t *testing.T) {
		res, err := e.Preview(context.Background(), Request{
			Description: "How AI automation reshapes back office work",
			Platform:    "linkedin",
		})
		require.NoError(t, err)
		assert.True(t, res.Input.Valid)
		require.NotNil(t, res.Keywords)
		assert.NotEmpty(t, res.Keywords.Primary)
		assert.Contains(t, res.Prompt, "MANDATORY KEYWORD INCLUSION")
		assert.Contains(t, res.Prompt, res.Keywords.Primary[0])
		assert.Empty(t, res.Content)
	})

	t.Run("invalid input stops before keyword selection", func(t *testing.T) {
		res, err := e.Preview(context.Background(), Request{
			Description: "short",
			Platform:    "linkedin",
		})
		require.NoError(t, err)
		assert.False(t, res.Input.Valid)
		assert.Nil(t, res.Keywords)
		assert.Empty(t, res.Prompt)
	})

	t.Run("unknown platform is an input error not a panic", func(t *testing.T) {
		res, err := e.Preview(context.Background(), Request{
			Description: "a valid enough description",
			Platform:    "myspace",
		})
		require.NoError(t, err)
		assert.False(t, res.Input.Valid)
		assert.Contains(t, res.Input.Errors[0], "linkedin")
	})
}

func TestGenerate(t *testing.T) {
	t.Run("full pipeline produces a scored record", func(t *testing.T) {
		gen := &fakeGenerator{content: strings.TrimSpace(strings.Repeat("word ", 120))}
		e := testEngine(t, gen)

		res, err := e.Generate(context.Background(), Request{
			Description: "Why manual reporting quietly costs six figures a year",
			Platform:    "facebook",
		})
		require.NoError(t, err)
		require.Len(t, gen.prompts, 1)
		assert.Equal(t, res.Prompt, gen.prompts[0])
		assert.Equal(t, gen.content, res.Content)

		require.NotNil(t, res.Report)
		require.NotNil(t, res.Record)
		assert.Equal(t, gen.content, res.Record.Content)
		assert.Equal(t, res.Report.Valid, res.Record.Valid)
		assert.NotEmpty(t, res.Record.PrimaryKeywords)
		assert.NotNil(t, res.Report.Metrics.PlatformScores)

		// Filler content misses the keywords and the CTA, so it flags.
		assert.False(t, res.Report.Valid)
		assert.Equal(t, models.RecordStatusFlagged, res.Record.Status)
	})

	t.Run("generator failure yields a failed record and an error", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("model unavailable")}
		e := testEngine(t, gen)

		res, err := e.Generate(context.Background(), Request{
			Description: "Anything descriptive enough to pass input checks",
			Platform:    "facebook",
		})
		require.Error(t, err)
		require.NotNil(t, res)
		require.NotNil(t, res.Record)
		assert.Equal(t, models.RecordStatusFailed, res.Record.Status)
		assert.Contains(t, res.Record.ErrorMessage, "model unavailable")
		assert.Empty(t, res.Content)
	})

	t.Run("invalid input never calls the model", func(t *testing.T) {
		gen := &fakeGenerator{content: "never used"}
		e := testEngine(t, gen)

		res, err := e.Generate(context.Background(), Request{
			Description: "",
			Platform:    "facebook",
		})
		require.NoError(t, err)
		assert.False(t, res.Input.Valid)
		assert.Empty(t, gen.prompts)
		assert.Nil(t, res.Record)
	})

	t.Run("no generator configured", func(t *testing.T) {
		e := testEngine(t, nil)
		_, err := e.Generate(context.Background(), Request{
			Description: "a valid enough description",
			Platform:    "facebook",
		})
		require.Error(t, err)
	})
}

func TestCheck(t *testing.T) {
	e := testEngine(t, nil)

	report, err := e.Check("", "facebook", nil)
	require.NoError(t, err)
	assert.False(t, report.Valid)

	_, err = e.Check("some content", "myspace", nil)
	require.Error(t, err)
}
