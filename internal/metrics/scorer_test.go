package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content-agent/internal/library"
	"github.com/content-agent/pkg/logger"
)

func testProfile(t *testing.T, id string) *library.PlatformProfile {
	t.Helper()
	p, err := library.Default(logger.Default()).Profile(id)
	require.NoError(t, err)
	return p
}

func TestCountUnits(t *testing.T) {
	t.Run("plain words", func(t *testing.T) {
		p := testProfile(t, "facebook")
		assert.Equal(t, 5, CountUnits("one two three four five", p))
	})

	t.Run("tweets by marker", func(t *testing.T) {
		p := testProfile(t, "twitter")
		content := "Tweet 1: the hook\nTweet 2: the middle\nTweet 3: the close"
		assert.Equal(t, 3, CountUnits(content, p))
	})

	t.Run("tweets by numbered lines", func(t *testing.T) {
		p := testProfile(t, "twitter")
		content := "1/ the hook\n2/ the middle\n3/ the close"
		assert.Equal(t, 3, CountUnits(content, p))
	})

	t.Run("caption words only", func(t *testing.T) {
		p := testProfile(t, "instagram")
		content := "[carousel of before and after dashboards]\nCAPTION: five words in this caption"
		assert.Equal(t, 5, CountUnits(content, p))
	})

	t.Run("caption fallback counts everything", func(t *testing.T) {
		p := testProfile(t, "instagram")
		assert.Equal(t, 4, CountUnits("no labeled caption here", p))
	})
}

func TestBandScore(t *testing.T) {
	b := library.Bounds{Min: 100, Max: 150}
	tests := []struct {
		name string
		n    int
		want float64
	}{
		{"in range", 120, 1.0},
		{"at min", 100, 1.0},
		{"at max", 150, 1.0},
		{"close under", 85, 0.8},
		{"close over", 170, 0.8},
		{"far off", 10, 0.5},
		{"empty", 0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bandScore(tt.n, b))
		})
	}
}

func TestScoreKeywords(t *testing.T) {
	s := New(logger.Default())
	p := testProfile(t, "facebook")

	t.Run("found count in the platform range is full credit", func(t *testing.T) {
		scores := s.Score("ai automation paired with workflow optimization", p, []string{"AI automation", "workflow optimization"})
		assert.Equal(t, 1.0, scores.Keyword.Score)
		assert.Equal(t, 2, scores.Keyword.Actual)
	})

	t.Run("found count under the range gets band credit", func(t *testing.T) {
		// facebook wants 2-3 keywords; one found lands in the near-miss band
		scores := s.Score("we shipped ai automation last quarter", p, []string{"AI automation", "workflow optimization"})
		assert.InDelta(t, 0.8, scores.Keyword.Score, 0.0001)
		assert.Equal(t, []string{"AI automation"}, scores.Keyword.Found)
	})

	t.Run("nothing found scores zero", func(t *testing.T) {
		scores := s.Score("entirely unrelated copy", p, []string{"AI automation", "workflow optimization"})
		assert.Equal(t, 0.0, scores.Keyword.Score)
	})

	t.Run("no keywords is full credit", func(t *testing.T) {
		scores := s.Score("anything", p, nil)
		assert.Equal(t, 1.0, scores.Keyword.Score)
	})
}

func TestScoreTone(t *testing.T) {
	s := New(logger.Default())
	p := testProfile(t, "facebook")

	t.Run("three markers is full credit", func(t *testing.T) {
		scores := s.Score("honestly, here's what you missed.", p, nil)
		assert.Equal(t, 1.0, scores.Tone.Score)
	})

	t.Run("two markers is partial credit", func(t *testing.T) {
		scores := s.Score("honestly, here's the deal.", p, nil)
		assert.InDelta(t, 2.0/3.0, scores.Tone.Score, 0.0001)
	})

	t.Run("no markers is no credit", func(t *testing.T) {
		scores := s.Score("a plain statement.", p, nil)
		assert.Equal(t, 0.0, scores.Tone.Score)
	})
}

func TestScoreCTA(t *testing.T) {
	s := New(logger.Default())

	t.Run("exempt platform always passes", func(t *testing.T) {
		p := testProfile(t, "stackoverflow")
		scores := s.Score("use a closure and a timer, nothing else needed", p, nil)
		assert.Equal(t, 1.0, scores.CTA.Score)
	})

	t.Run("discussion style wants a question", func(t *testing.T) {
		p := testProfile(t, "reddit")
		with := s.Score("long story short, it worked. what do you think?", p, nil)
		assert.Equal(t, 1.0, with.CTA.Score)

		without := s.Score("long story short, it worked.", p, nil)
		assert.Less(t, without.CTA.Score, 0.7)
	})

	t.Run("soft style wants a nudge", func(t *testing.T) {
		p := testProfile(t, "facebook")
		scores := s.Score("worth a look if your team is drowning in admin.", p, nil)
		assert.Equal(t, 1.0, scores.CTA.Score)
	})

	t.Run("explicit style wants an action verb", func(t *testing.T) {
		p := testProfile(t, "medium")
		scores := s.Score("ready to move? book a call this week.", p, nil)
		assert.Equal(t, 1.0, scores.CTA.Score)
	})
}

func TestScoreSpecialRules(t *testing.T) {
	s := New(logger.Default())

	t.Run("links break the no_links rule", func(t *testing.T) {
		p := testProfile(t, "linkedin")
		scores := s.Score("read more at https://example.com/post", p, nil)
		assert.Equal(t, 0.0, scores.SpecialRules.Detail["no_links"])

		clean := s.Score("no links anywhere in this one", p, nil)
		assert.Equal(t, 1.0, clean.SpecialRules.Detail["no_links"])
	})

	t.Run("long tweet fails the 280 char rule", func(t *testing.T) {
		p := testProfile(t, "twitter")
		content := "Tweet 1: " + strings.Repeat("padding ", 50) + "\nTweet 2: short one"
		scores := s.Score(content, p, nil)
		assert.InDelta(t, 0.5, scores.SpecialRules.Detail["280_chars_per_tweet"], 0.0001)
	})

	t.Run("no special rules is full credit", func(t *testing.T) {
		p := testProfile(t, "medium")
		scores := s.Score("a body with no special rules to check", p, nil)
		assert.Equal(t, 1.0, scores.SpecialRules.Score)
	})
}

func TestScoreWordCountUsesScoringRange(t *testing.T) {
	s := New(logger.Default())
	p := testProfile(t, "linkedin")

	// linkedin's scoring range is 280-320, tighter than the 250-350 bounds
	content := strings.TrimSpace(strings.Repeat("word ", 300))
	scores := s.Score(content, p, nil)
	assert.Equal(t, 1.0, scores.WordCount.Score)
	assert.Equal(t, 300, scores.WordCount.Actual)

	at260 := s.Score(strings.TrimSpace(strings.Repeat("word ", 260)), p, nil)
	assert.Equal(t, 0.8, at260.WordCount.Score)
}

func TestOverallAggregate(t *testing.T) {
	s := New(logger.Default())
	p := testProfile(t, "facebook")

	scores := s.Score("here's what you should think about: honestly nothing.", p, nil)
	require.Equal(t, 9, scores.Overall.TotalMetrics)

	sum := scores.Voice.Score + scores.WordCount.Score + scores.Keyword.Score +
		scores.Hashtag.Score + scores.Structure.Score + scores.Tone.Score +
		scores.CTA.Score + scores.SpecialRules.Score + scores.UniqueFeatures.Score
	assert.InDelta(t, sum/9, scores.Overall.Score, 0.0001)

	passed := 0
	for _, c := range []float64{
		scores.Voice.Score, scores.WordCount.Score, scores.Keyword.Score,
		scores.Hashtag.Score, scores.Structure.Score, scores.Tone.Score,
		scores.CTA.Score, scores.SpecialRules.Score, scores.UniqueFeatures.Score,
	} {
		if c >= PassThreshold {
			passed++
		}
	}
	assert.Equal(t, passed, scores.Overall.PassedMetrics)
}

func TestScoreVoice(t *testing.T) {
	s := New(logger.Default())

	t.Run("flexible voice always passes", func(t *testing.T) {
		p := testProfile(t, "facebook")
		scores := s.Score("completely neutral text", p, nil)
		assert.Equal(t, 1.0, scores.Voice.Score)
	})

	t.Run("personal voice needs first person markers", func(t *testing.T) {
		p := testProfile(t, "linkedin")
		personal := s.Score("i built this myself. in my experience it pays off.", p, nil)
		assert.Equal(t, 1.0, personal.Voice.Score)

		neutral := s.Score("the product was built. it pays off.", p, nil)
		assert.Equal(t, 0.0, neutral.Voice.Score)
	})

	t.Run("one marker is half credit", func(t *testing.T) {
		p := testProfile(t, "linkedin")
		scores := s.Score("trust me on this one.", p, nil)
		assert.InDelta(t, 0.5, scores.Voice.Score, 0.0001)
	})
}
