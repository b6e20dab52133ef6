package models

// InputValidation is the result of checking a generation request before any
// model call is made.
type InputValidation struct {
	Valid             bool     `json:"valid"`
	Errors            []string `json:"errors"`
	Warnings          []string `json:"warnings"`
	Platform          string   `json:"platform"`
	DescriptionLength int      `json:"description_length"`
}

// ContentMetrics holds the measurements taken from a piece of generated text.
// Zero values mean the measurement was not applicable for the platform.
type ContentMetrics struct {
	WordCount         int      `json:"word_count"`
	CharCount         int      `json:"char_count"`
	Platform          string   `json:"platform"`
	CTAIncluded       bool     `json:"cta_included"`
	KeywordDensity    float64  `json:"keyword_density"`
	FAQFound          bool     `json:"faq_found"`
	FAQWordCount      int      `json:"faq_word_count"`
	HashtagsFound     []string `json:"hashtags_found"`
	AvgSentenceLength float64  `json:"avg_sentence_length"`

	// Derived composite scores, reporting only, never pass/fail.
	WordCountScore      float64 `json:"word_count_score"`
	KeywordDensityScore float64 `json:"keyword_density_score"`
	ReadabilityScore    float64 `json:"readability_score"`
	ContentQualityScore float64 `json:"content_quality_score"`

	// Independent platform-specific compliance sub-scores.
	PlatformScores *PlatformScores `json:"platform_scores,omitempty"`
}

// ValidationReport is produced fresh for every piece of generated text.
// It is always returned, never raised: callers decide whether to retry
// generation, accept with warnings, or surface issues to the end user.
type ValidationReport struct {
	Valid       bool           `json:"valid"`
	Issues      []string       `json:"issues"`
	Suggestions []string       `json:"suggestions"`
	Metrics     ContentMetrics `json:"metrics"`
}

// CheckResult is a single compliance dimension scored in [0,1].
type CheckResult struct {
	Score    float64            `json:"score"`
	Required string             `json:"required"`
	Actual   int                `json:"actual,omitempty"`
	Found    []string           `json:"found,omitempty"`
	Detail   map[string]float64 `json:"detail,omitempty"`
}

// Passed reports whether the dimension meets the pass threshold.
func (c CheckResult) Passed() bool {
	return c.Score >= 0.7
}

// OverallScore aggregates all computed sub-scores.
type OverallScore struct {
	Score         float64 `json:"score"`
	TotalMetrics  int     `json:"total_metrics"`
	PassedMetrics int     `json:"passed_metrics"`
}

// PlatformScores holds the per-dimension compliance scores computed against a
// platform's scoring spec. All scores are heuristic, not correctness oracles.
type PlatformScores struct {
	Voice          CheckResult  `json:"voice_compliance"`
	WordCount      CheckResult  `json:"word_count_compliance"`
	Keyword        CheckResult  `json:"keyword_compliance"`
	Hashtag        CheckResult  `json:"hashtag_compliance"`
	Structure      CheckResult  `json:"structure_compliance"`
	Tone           CheckResult  `json:"tone_compliance"`
	CTA            CheckResult  `json:"cta_compliance"`
	SpecialRules   CheckResult  `json:"special_rules_compliance"`
	UniqueFeatures CheckResult  `json:"unique_features_compliance"`
	Overall        OverallScore `json:"overall_platform_score"`
}
