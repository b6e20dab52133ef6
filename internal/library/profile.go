package library

import (
	"github.com/content-agent/internal/models"
)

// Voice is the grammatical person/brand posture required in generated text
type Voice string

const (
	VoicePersonal  Voice = "personal"
	VoiceCorporate Voice = "corporate"
	VoiceFlexible  Voice = "flexible"
	VoiceTechnical Voice = "technical"
)

// CTAStyle is the call-to-action posture a platform expects. CTAStyleNone
// marks a CTA-exempt platform; the validator never requires the CTA there.
type CTAStyle string

const (
	CTAStyleExplicit   CTAStyle = "explicit"
	CTAStyleSoft       CTAStyle = "soft"
	CTAStyleDiscussion CTAStyle = "discussion_invitation"
	CTAStyleQuestion   CTAStyle = "open_ended_question"
	CTAStyleNone       CTAStyle = "none"
)

// CountUnit names what the word-count bounds of a platform actually count
type CountUnit string

const (
	UnitWords        CountUnit = "words"
	UnitTweets       CountUnit = "tweets"
	UnitCaptionWords CountUnit = "caption_words"
)

// Bounds is a closed inclusive [Min, Max] range
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether n falls inside the closed range
func (b Bounds) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

// WordCount is the platform's size requirement in its counting unit
type WordCount struct {
	Min  int       `json:"min"`
	Max  int       `json:"max"`
	Unit CountUnit `json:"unit"`
}

// Bounds returns the word count as a plain range
func (w WordCount) Bounds() Bounds {
	return Bounds{Min: w.Min, Max: w.Max}
}

// ScoringSpec holds the soft, hand-tuned fields consumed only by the
// platform metrics scorer. WordRange may legitimately disagree with the hard
// word-count bounds; the loader surfaces that as a data-quality warning and
// keeps both.
type ScoringSpec struct {
	WordRange      *Bounds  `json:"word_range,omitempty"`
	UniqueFeatures []string `json:"unique_features,omitempty"`
}

// PlatformProfile is one platform's complete rule record: the hard bounds
// the validator enforces plus the soft scoring tags the metrics scorer reads.
type PlatformProfile struct {
	ID                string            `json:"-"`
	Voice             Voice             `json:"voice"`
	Tone              string            `json:"tone"`
	WordCount         WordCount         `json:"word_count"`
	Keywords          Bounds            `json:"keywords"`
	Hashtags          Bounds            `json:"hashtags"`
	Structure         Bounds            `json:"structure"`
	CTAStyle          CTAStyle          `json:"cta_style"`
	Style             string            `json:"style,omitempty"`
	StructureOutline  []string          `json:"structure_outline,omitempty"`
	VisualElements    []string          `json:"visual_elements,omitempty"`
	SEORequirements   map[string]string `json:"seo_requirements,omitempty"`
	SpecialRules      []string          `json:"special_rules,omitempty"`
	PlatformRules     map[string]string `json:"platform_rules,omitempty"`
	KeywordAdditions  []string          `json:"keyword_additions,omitempty"`
	SuggestedHashtags []string          `json:"suggested_hashtags,omitempty"`
	Family            string            `json:"family,omitempty"`
	PromptTemplate    string            `json:"prompt_template"`
	Scoring           ScoringSpec       `json:"scoring"`
}

// CTAExempt reports whether the platform never requires the global CTA
func (p *PlatformProfile) CTAExempt() bool {
	return p.CTAStyle == CTAStyleNone
}

// ScoringWordRange returns the range the metrics scorer should use: the
// hand-tuned scoring range when present, the hard bounds otherwise.
func (p *PlatformProfile) ScoringWordRange() Bounds {
	if p.Scoring.WordRange != nil {
		return *p.Scoring.WordRange
	}
	return p.WordCount.Bounds()
}

// Brand describes the business the content is written for
type Brand struct {
	Name    string   `json:"name"`
	URL     string   `json:"url"`
	Regions []string `json:"regions"`
}

// Globals holds the library-wide content settings
type Globals struct {
	CTA              string   `json:"cta"`
	Brand            Brand    `json:"brand"`
	Tone             string   `json:"tone"`
	ContentFramework []string `json:"content_framework"`
	EvidenceSources  []string `json:"evidence_sources"`
	Hashtags         []string `json:"hashtags"`
}

// RefreshPolicy controls keyword pool rotation cadence
type RefreshPolicy struct {
	Frequency   models.RefreshFrequency `json:"frequency"`
	LastRefresh string                  `json:"last_refresh"` // YYYY-MM-DD
}

// SEO holds the global keyword pool and placement rules
type SEO struct {
	PrimaryKeywords   []string      `json:"primary_keywords"`
	SecondaryKeywords []string      `json:"secondary_keywords"`
	KeywordDensity    DensityBand   `json:"keyword_density"`
	KeywordsPerPiece  Bounds        `json:"keywords_per_piece"`
	PlacementZones    []string      `json:"placement_zones"`
	RefreshPolicy     RefreshPolicy `json:"refresh_policy"`
}

// DensityBand is a closed keyword-density range expressed as ratios
type DensityBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validators are the global output-validation switches
type Validators struct {
	CTARequired        bool    `json:"cta_required"`
	KeywordDensityMin  float64 `json:"keyword_density_min"`
	KeywordDensityMax  float64 `json:"keyword_density_max"`
	FAQMinWords        int     `json:"faq_min_words"`
	FAQMinWordCountAt  int     `json:"faq_required_above_min_words"`
	MaxEmojiDefault    int     `json:"max_emoji_default"`
	SentenceLengthBand Bounds  `json:"sentence_length_band"`
}

// Guardrails holds the do/don't statement lists and validator switches
type Guardrails struct {
	Do         []string   `json:"do"`
	Dont       []string   `json:"dont"`
	Validators Validators `json:"validators"`
}

// Runtime holds hints for the surrounding application, passed through opaque
type Runtime struct {
	OutputSchema map[string]string `json:"output_schema,omitempty"`
}

// Document is the top-level library configuration document
type Document struct {
	Version    string                      `json:"version"`
	Globals    Globals                     `json:"globals"`
	SEO        SEO                         `json:"seo"`
	Platforms  map[string]*PlatformProfile `json:"platforms"`
	Guardrails Guardrails                  `json:"guardrails"`
	Runtime    Runtime                     `json:"runtime"`
}
