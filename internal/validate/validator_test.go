package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content-agent/internal/library"
	"github.com/content-agent/internal/metrics"
	"github.com/content-agent/pkg/logger"
)

func testValidator(t *testing.T) *Validator {
	t.Helper()
	log := logger.Default()
	return New(library.Default(log), metrics.New(log), log)
}

// filler produces exactly n words of neutral text
func filler(n int) string {
	return strings.TrimSpace(strings.Repeat("filler ", n))
}

const cta = "Book a free automation audit at barrana.com" // 7 words

func TestValidateInput(t *testing.T) {
	v := testValidator(t)

	t.Run("valid input", func(t *testing.T) {
		res := v.ValidateInput("How AI automation saves small firms ten hours a week", "linkedin")
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
	})

	t.Run("empty description", func(t *testing.T) {
		res := v.ValidateInput("", "linkedin")
		assert.False(t, res.Valid)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "required")
	})

	t.Run("too short description", func(t *testing.T) {
		res := v.ValidateInput("too short", "linkedin")
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors[0], "at least 10")
	})

	t.Run("unknown platform lists known ones", func(t *testing.T) {
		res := v.ValidateInput("a perfectly reasonable description", "myspace")
		assert.False(t, res.Valid)
		require.NotEmpty(t, res.Errors)
		assert.Contains(t, res.Errors[0], "linkedin")
	})

	t.Run("repetitive description warns but stays valid", func(t *testing.T) {
		res := v.ValidateInput(strings.Repeat("automation ", 20), "linkedin")
		assert.True(t, res.Valid)
		require.NotEmpty(t, res.Warnings)
		assert.Contains(t, res.Warnings[0], "repetitive")
	})

	t.Run("very long description warns", func(t *testing.T) {
		res := v.ValidateInput("start "+filler(2600), "linkedin")
		assert.True(t, res.Valid)
		assert.NotEmpty(t, res.Warnings)
	})
}

func TestValidateOutputEmpty(t *testing.T) {
	v := testValidator(t)

	report, err := v.ValidateOutput("   \n  ", "linkedin", []string{"AI automation"})
	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "empty")
	assert.Nil(t, report.Metrics.PlatformScores)
}

func TestValidateOutputWordBounds(t *testing.T) {
	v := testValidator(t)

	// facebook requires 100-150 words; alpha occurs 3 times for density 0.03
	valid := filler(90) + " alpha alpha alpha " + cta

	t.Run("in bounds at the minimum", func(t *testing.T) {
		report, err := v.ValidateOutput(valid, "facebook", []string{"alpha"})
		require.NoError(t, err)
		assert.Equal(t, 100, report.Metrics.WordCount)
		assert.True(t, report.Valid, "issues: %v", report.Issues)
	})

	t.Run("one word under the minimum", func(t *testing.T) {
		short := filler(89) + " alpha alpha alpha " + cta
		report, err := v.ValidateOutput(short, "facebook", []string{"alpha"})
		require.NoError(t, err)
		assert.False(t, report.Valid)
		assert.Contains(t, report.Issues[0], "too short")
		require.NotEmpty(t, report.Suggestions)
		assert.Contains(t, report.Suggestions[0], "expand the content toward 100-150")
	})

	t.Run("one word over the maximum", func(t *testing.T) {
		long := filler(141) + " alpha alpha alpha " + cta
		report, err := v.ValidateOutput(long, "facebook", []string{"alpha"})
		require.NoError(t, err)
		assert.False(t, report.Valid)
		assert.Contains(t, report.Issues[0], "too long")
		require.NotEmpty(t, report.Suggestions)
		assert.Contains(t, report.Suggestions[0], "trim the content toward 100-150")
	})
}

func TestValidateOutputCTA(t *testing.T) {
	v := testValidator(t)

	t.Run("missing cta is an issue", func(t *testing.T) {
		content := filler(97) + " alpha alpha alpha"
		report, err := v.ValidateOutput(content, "facebook", []string{"alpha"})
		require.NoError(t, err)
		assert.False(t, report.Valid)
		assert.False(t, report.Metrics.CTAIncluded)

		found := false
		for _, issue := range report.Issues {
			if strings.Contains(issue, "call to action") {
				found = true
			}
		}
		assert.True(t, found)
		require.NotEmpty(t, report.Suggestions)
	})

	t.Run("cta match is case insensitive", func(t *testing.T) {
		content := filler(90) + " alpha alpha alpha " + strings.ToUpper(cta)
		report, err := v.ValidateOutput(content, "facebook", []string{"alpha"})
		require.NoError(t, err)
		assert.True(t, report.Metrics.CTAIncluded)
	})

	t.Run("exempt platform never requires the cta", func(t *testing.T) {
		content := filler(197) + " alpha alpha alpha"
		report, err := v.ValidateOutput(content, "stackoverflow", []string{"alpha"})
		require.NoError(t, err)
		for _, issue := range report.Issues {
			assert.NotContains(t, issue, "call to action")
		}
	})
}

func TestValidateOutputKeywords(t *testing.T) {
	v := testValidator(t)

	t.Run("missing keywords are listed", func(t *testing.T) {
		content := filler(93) + " " + cta
		report, err := v.ValidateOutput(content, "facebook", []string{"alpha", "beta"})
		require.NoError(t, err)
		assert.False(t, report.Valid)

		found := false
		for _, issue := range report.Issues {
			if strings.Contains(issue, "missing keywords") {
				assert.Contains(t, issue, "alpha")
				assert.Contains(t, issue, "beta")
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("keyword stuffing is an issue", func(t *testing.T) {
		content := filler(83) + strings.Repeat(" alpha", 10) + " " + cta
		report, err := v.ValidateOutput(content, "facebook", []string{"alpha"})
		require.NoError(t, err)

		found := false
		for _, issue := range report.Issues {
			if strings.Contains(issue, "keyword stuffing") {
				found = true
			}
		}
		assert.True(t, found, "density %.3f issues %v", report.Metrics.KeywordDensity, report.Issues)
	})

	t.Run("density is occurrences over words", func(t *testing.T) {
		content := filler(90) + " alpha alpha alpha " + cta
		report, err := v.ValidateOutput(content, "facebook", []string{"alpha"})
		require.NoError(t, err)
		assert.InDelta(t, 0.03, report.Metrics.KeywordDensity, 0.0001)
	})
}

func TestValidateOutputFAQ(t *testing.T) {
	v := testValidator(t)

	t.Run("long form content without faq", func(t *testing.T) {
		content := filler(1500) + " business process automation " + cta
		report, err := v.ValidateOutput(content, "company_blog", []string{"business process automation"})
		require.NoError(t, err)

		found := false
		for _, issue := range report.Issues {
			if strings.Contains(issue, "FAQ section is missing") {
				found = true
			}
		}
		assert.True(t, found)
		assert.False(t, report.Metrics.FAQFound)
	})

	t.Run("faq section below minimum words", func(t *testing.T) {
		content := filler(1500) + " business process automation " + cta + "\n\nFAQ\nQ: Why? A: Because."
		report, err := v.ValidateOutput(content, "company_blog", []string{"business process automation"})
		require.NoError(t, err)
		assert.True(t, report.Metrics.FAQFound)

		found := false
		for _, issue := range report.Issues {
			if strings.Contains(issue, "FAQ section too short") {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("short form platform skips faq check", func(t *testing.T) {
		content := filler(90) + " alpha alpha alpha " + cta
		report, err := v.ValidateOutput(content, "facebook", []string{"alpha"})
		require.NoError(t, err)
		for _, issue := range report.Issues {
			assert.NotContains(t, issue, "FAQ")
		}
	})
}

func TestValidateOutputHashtags(t *testing.T) {
	v := testValidator(t)

	t.Run("too few hashtags is a suggestion not an issue", func(t *testing.T) {
		content := filler(90) + " alpha alpha alpha " + cta
		report, err := v.ValidateOutput(content, "facebook", []string{"alpha"})
		require.NoError(t, err)
		assert.True(t, report.Valid)

		found := false
		for _, s := range report.Suggestions {
			if strings.Contains(s, "hashtags") {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("hashtags are collected", func(t *testing.T) {
		content := filler(88) + " alpha alpha alpha #AI #Automation " + cta
		report, err := v.ValidateOutput(content, "facebook", []string{"alpha"})
		require.NoError(t, err)
		assert.Equal(t, []string{"#AI", "#Automation"}, report.Metrics.HashtagsFound)
	})
}

func TestReadability(t *testing.T) {
	tests := []struct {
		avg  float64
		want float64
	}{
		{15, 1.0},
		{0, 0.0},
		{30, 0.0},
		{7.5, 0.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, readability(tt.avg), 0.0001)
	}
}
