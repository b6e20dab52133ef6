package validate

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/content-agent/internal/library"
	"github.com/content-agent/internal/metrics"
	"github.com/content-agent/internal/models"
	"github.com/content-agent/pkg/logger"
)

const (
	minDescriptionLen  = 10
	longDescriptionLen = 5000
	repetitionRatio    = 0.3
)

var (
	hashtagPattern  = regexp.MustCompile(`#\w+`)
	sentenceSplit   = regexp.MustCompile(`[.!?]+\s`)
	faqHeadPattern  = regexp.MustCompile(`(?im)^(?:#+\s*)?(?:faq|frequently asked questions)`)
	wordPattern     = regexp.MustCompile(`\S+`)
	wordOnlyPattern = regexp.MustCompile(`[a-zA-Z']+`)
)

// Validator runs pre-generation input checks and post-generation output
// checks. Output validation is never an error path: it always produces a
// report and lets the caller decide what to do with a failing piece.
type Validator struct {
	lib    *library.Library
	scorer *metrics.Scorer
	log    *logger.Logger
}

// New creates a validator backed by the rule library
func New(lib *library.Library, scorer *metrics.Scorer, log *logger.Logger) *Validator {
	return &Validator{
		lib:    lib,
		scorer: scorer,
		log:    log.WithComponent("validate"),
	}
}

// ValidateInput checks a generation request before any model call. Errors
// block generation; warnings do not.
func (v *Validator) ValidateInput(description, platform string) *models.InputValidation {
	res := &models.InputValidation{
		Valid:             true,
		Platform:          platform,
		DescriptionLength: len(description),
	}

	desc := strings.TrimSpace(description)
	if desc == "" {
		res.Errors = append(res.Errors, "description is required")
	} else if len(desc) < minDescriptionLen {
		res.Errors = append(res.Errors, fmt.Sprintf("description too short, need at least %d characters", minDescriptionLen))
	}
	if len(desc) > longDescriptionLen {
		res.Warnings = append(res.Warnings, fmt.Sprintf("description longer than %d characters, it will dominate the prompt", longDescriptionLen))
	}

	if !v.lib.HasPlatform(platform) {
		err := &library.UnknownPlatformError{Platform: platform, Known: v.lib.Platforms()}
		res.Errors = append(res.Errors, err.Error())
	}

	if ratio := topWordRatio(desc); ratio > repetitionRatio {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"description is repetitive, one word makes up %.0f%% of it", ratio*100))
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// ValidateOutput checks generated content against the platform's hard rules
// and attaches the measured metrics plus platform compliance scores. Empty
// content fails closed with a single issue.
func (v *Validator) ValidateOutput(content, platform string, keywords []string) (*models.ValidationReport, error) {
	profile, err := v.lib.Profile(platform)
	if err != nil {
		return nil, err
	}
	globals := v.lib.Globals()
	validators := v.lib.Guardrails().Validators

	report := &models.ValidationReport{
		Valid:   true,
		Metrics: models.ContentMetrics{Platform: platform},
	}

	if strings.TrimSpace(content) == "" {
		report.Valid = false
		report.Issues = append(report.Issues, "generated content is empty")
		return report, nil
	}

	m := &report.Metrics
	m.WordCount = metrics.CountUnits(content, profile)
	m.CharCount = len(content)
	lower := strings.ToLower(content)

	v.checkWordCount(report, profile)
	v.checkCTA(report, profile, globals, validators, lower)
	v.checkKeywordDensity(report, profile, validators, content, lower, keywords)
	v.checkFAQ(report, profile, validators, content)
	v.checkHashtags(report, profile, content)
	v.checkSentenceLength(report, validators, content)

	m.WordCountScore = scoreBand(m.WordCount, profile.WordCount.Bounds())
	m.ReadabilityScore = readability(m.AvgSentenceLength)
	m.ContentQualityScore = v.qualityScore(report, profile)

	m.PlatformScores = v.scorer.Score(content, profile, keywords)

	report.Valid = len(report.Issues) == 0
	v.log.Debug().
		Str("platform", platform).
		Bool("valid", report.Valid).
		Int("issues", len(report.Issues)).
		Msg("Validated content")
	return report, nil
}

func (v *Validator) checkWordCount(r *models.ValidationReport, p *library.PlatformProfile) {
	n := r.Metrics.WordCount
	b := p.WordCount.Bounds()
	unit := string(p.WordCount.Unit)
	if unit == "" {
		unit = "words"
	}
	switch {
	case n < b.Min:
		r.Issues = append(r.Issues, fmt.Sprintf("too short: %d %s, need %d-%d", n, unit, b.Min, b.Max))
		r.Suggestions = append(r.Suggestions, fmt.Sprintf("expand the content toward %d-%d %s", b.Min, b.Max, unit))
	case n > b.Max:
		r.Issues = append(r.Issues, fmt.Sprintf("too long: %d %s, need %d-%d", n, unit, b.Min, b.Max))
		r.Suggestions = append(r.Suggestions, fmt.Sprintf("trim the content toward %d-%d %s", b.Min, b.Max, unit))
	}
}

func (v *Validator) checkCTA(r *models.ValidationReport, p *library.PlatformProfile, g library.Globals, val library.Validators, lower string) {
	if p.CTAExempt() || !val.CTARequired {
		r.Metrics.CTAIncluded = p.CTAExempt()
		return
	}
	if strings.Contains(lower, strings.ToLower(g.CTA)) {
		r.Metrics.CTAIncluded = true
		return
	}
	r.Issues = append(r.Issues, "call to action is missing")
	r.Suggestions = append(r.Suggestions, fmt.Sprintf("append the call to action: %s", g.CTA))
}

// checkKeywordDensity computes total keyword occurrences over total words and
// checks the configured density band.
func (v *Validator) checkKeywordDensity(r *models.ValidationReport, p *library.PlatformProfile, val library.Validators, content, lower string, keywords []string) {
	if len(keywords) == 0 {
		return
	}
	total := len(wordPattern.FindAllString(content, -1))
	if total == 0 {
		return
	}

	occurrences := 0
	missing := []string{}
	for _, k := range keywords {
		c := strings.Count(lower, strings.ToLower(k))
		occurrences += c
		if c == 0 {
			missing = append(missing, k)
		}
	}

	density := float64(occurrences) / float64(total)
	r.Metrics.KeywordDensity = density
	r.Metrics.KeywordDensityScore = densityScore(density, val)

	if len(missing) > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("missing keywords: %s", strings.Join(missing, ", ")))
	}
	if val.KeywordDensityMax > 0 && density > val.KeywordDensityMax {
		r.Issues = append(r.Issues, fmt.Sprintf("keyword density %.3f exceeds %.3f, reads as keyword stuffing", density, val.KeywordDensityMax))
	} else if val.KeywordDensityMin > 0 && density < val.KeywordDensityMin {
		r.Suggestions = append(r.Suggestions, fmt.Sprintf("keyword density %.3f is below the %.3f target", density, val.KeywordDensityMin))
	}
}

// checkFAQ applies only to long-form platforms, gated on the same threshold
// the prompt assembler uses to demand the section.
func (v *Validator) checkFAQ(r *models.ValidationReport, p *library.PlatformProfile, val library.Validators, content string) {
	if val.FAQMinWords == 0 || val.FAQMinWordCountAt == 0 {
		return
	}
	if p.WordCount.Unit != library.UnitWords || p.WordCount.Min < val.FAQMinWordCountAt {
		return
	}

	loc := faqHeadPattern.FindStringIndex(content)
	if loc == nil {
		r.Issues = append(r.Issues, "FAQ section is missing")
		r.Suggestions = append(r.Suggestions, "add an FAQ section with 5-7 question-and-answer pairs")
		return
	}
	r.Metrics.FAQFound = true
	faqWords := len(wordPattern.FindAllString(content[loc[0]:], -1))
	r.Metrics.FAQWordCount = faqWords
	if faqWords < val.FAQMinWords {
		r.Issues = append(r.Issues, fmt.Sprintf("FAQ section too short: %d words, need at least %d", faqWords, val.FAQMinWords))
	}
}

func (v *Validator) checkHashtags(r *models.ValidationReport, p *library.PlatformProfile, content string) {
	tags := hashtagPattern.FindAllString(content, -1)
	r.Metrics.HashtagsFound = tags

	b := p.Hashtags
	if b.Max == 0 {
		if len(tags) > 0 {
			r.Suggestions = append(r.Suggestions, "remove hashtags, this platform does not use them")
		}
		return
	}
	switch {
	case len(tags) < b.Min:
		r.Suggestions = append(r.Suggestions, fmt.Sprintf("only %d hashtags found, aim for %d-%d", len(tags), b.Min, b.Max))
	case len(tags) > b.Max:
		r.Suggestions = append(r.Suggestions, fmt.Sprintf("%d hashtags found, trim to %d-%d", len(tags), b.Min, b.Max))
	}
}

func (v *Validator) checkSentenceLength(r *models.ValidationReport, val library.Validators, content string) {
	sentences := sentenceSplit.Split(content, -1)
	var total, count int
	for _, s := range sentences {
		n := len(wordPattern.FindAllString(s, -1))
		if n > 0 {
			total += n
			count++
		}
	}
	if count == 0 {
		return
	}
	avg := float64(total) / float64(count)
	r.Metrics.AvgSentenceLength = avg

	band := val.SentenceLengthBand
	if band.Max == 0 {
		return
	}
	if avg > float64(band.Max) {
		r.Suggestions = append(r.Suggestions, fmt.Sprintf("average sentence length %.1f words, break sentences up (target %d-%d)", avg, band.Min, band.Max))
	} else if avg < float64(band.Min) {
		r.Suggestions = append(r.Suggestions, fmt.Sprintf("average sentence length %.1f words is choppy (target %d-%d)", avg, band.Min, band.Max))
	}
}

// qualityScore is a reporting-only composite: word count 25%, CTA 20%,
// readability 20%, keyword density 20%, structure 15%.
func (v *Validator) qualityScore(r *models.ValidationReport, p *library.PlatformProfile) float64 {
	m := &r.Metrics

	cta := 0.0
	if m.CTAIncluded || p.CTAExempt() {
		cta = 1.0
	}

	// Structure credit reuses the hashtag and FAQ observations: content with
	// the expected extras in place scores full marks.
	structure := 1.0
	if p.Hashtags.Max > 0 && len(m.HashtagsFound) == 0 {
		structure = 0.5
	}
	if r.Metrics.FAQFound {
		structure = 1.0
	}

	score := 0.25*m.WordCountScore +
		0.20*cta +
		0.20*m.ReadabilityScore +
		0.20*m.KeywordDensityScore +
		0.15*structure
	return math.Round(score*100) / 100
}

func scoreBand(n int, b library.Bounds) float64 {
	switch {
	case b.Contains(n):
		return 1.0
	case n >= b.Min*8/10 && n <= b.Max*12/10:
		return 0.8
	case n > 0:
		return 0.5
	default:
		return 0.0
	}
}

func densityScore(density float64, val library.Validators) float64 {
	if val.KeywordDensityMax == 0 {
		return 1.0
	}
	if density >= val.KeywordDensityMin && density <= val.KeywordDensityMax {
		return 1.0
	}
	if density > 0 {
		return 0.6
	}
	return 0.0
}

// readability maps average sentence length onto [0,1], peaking at 15 words.
func readability(avg float64) float64 {
	if avg == 0 {
		return 0
	}
	score := 1 - math.Abs(avg-15)/15
	if score < 0 {
		return 0
	}
	return score
}

// topWordRatio returns the share of the most repeated word in the text.
func topWordRatio(text string) float64 {
	words := wordOnlyPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) < 10 {
		return 0
	}
	counts := make(map[string]int, len(words))
	max := 0
	for _, w := range words {
		counts[w]++
		if counts[w] > max {
			max = counts[w]
		}
	}
	return float64(max) / float64(len(words))
}
