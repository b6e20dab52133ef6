package library

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/content-agent/internal/models"
	"github.com/content-agent/pkg/logger"
)

// TemplateVariables is the enumerated set of substitution variables a prompt
// template may reference. Any other placeholder fails schema validation at
// load time instead of surfacing as a render error per request.
var TemplateVariables = []string{
	"description",
	"primary_keywords",
	"secondary_keywords",
	"cta",
	"word_count_min",
	"word_count_max",
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// Library is the loaded platform rule table plus global content settings.
// All reads are lock-protected copies; Reload and UpdatePool swap or mutate
// state atomically so readers see either the old or the new table, never a
// partial one.
type Library struct {
	mu       sync.RWMutex
	doc      *Document
	path     string
	strict   bool
	warnings []string
	log      *logger.Logger
}

// New builds a library from an in-memory document. strict requires every
// platform to carry a prompt template.
func New(doc *Document, strict bool, log *logger.Logger) (*Library, error) {
	l := &Library{
		strict: strict,
		log:    log.WithComponent("library"),
	}
	if err := l.install(doc); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadFile loads and validates the library document from a JSON file.
// Loading fails fast: a schema error aborts startup, there is no partial load.
func LoadFile(path string, log *logger.Logger) (*Library, error) {
	l := &Library{
		path:   path,
		strict: true,
		log:    log.WithComponent("library"),
	}

	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if err := l.install(doc); err != nil {
		return nil, err
	}

	l.log.Info().
		Str("version", doc.Version).
		Int("platforms", len(doc.Platforms)).
		Msg("Loaded content library")
	return l, nil
}

// Default returns a library built from the compiled-in rule table.
func Default(log *logger.Logger) *Library {
	l, err := New(defaultDocument(), true, log)
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("built-in library invalid: %v", err))
	}
	return l
}

func readDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read library file: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON in library file %s: %w", path, err)
	}
	return &doc, nil
}

// install validates the document and swaps it in atomically.
func (l *Library) install(doc *Document) error {
	warnings, err := validateDocument(doc, l.strict)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.doc = doc
	l.warnings = warnings
	l.mu.Unlock()

	for _, w := range warnings {
		l.log.Warn().Msg(w)
	}
	return nil
}

// Reload re-reads the library from its source file and replaces the table
// atomically. A validation failure leaves the current table untouched.
func (l *Library) Reload() error {
	if l.path == "" {
		return fmt.Errorf("library was not loaded from a file, nothing to reload")
	}
	doc, err := readDocument(l.path)
	if err != nil {
		return err
	}
	if err := l.install(doc); err != nil {
		return fmt.Errorf("reload rejected: %w", err)
	}
	l.log.Info().Str("version", doc.Version).Msg("Reloaded content library")
	return nil
}

// Version returns the loaded document version.
func (l *Library) Version() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.doc.Version
}

// Warnings returns the data-quality warnings collected at load time.
func (l *Library) Warnings() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.warnings))
	copy(out, l.warnings)
	return out
}

// Platforms returns the sorted list of known platform identifiers.
func (l *Library) Platforms() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.doc.Platforms))
	for id := range l.doc.Platforms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasPlatform reports whether the platform exists in the rule table.
func (l *Library) HasPlatform(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.doc.Platforms[id]
	return ok
}

// Profile returns the rule record for a platform. Unknown identifiers return
// an UnknownPlatformError listing every valid identifier.
func (l *Library) Profile(id string) (*PlatformProfile, error) {
	l.mu.RLock()
	p, ok := l.doc.Platforms[id]
	l.mu.RUnlock()

	if !ok {
		return nil, &UnknownPlatformError{Platform: id, Known: l.Platforms()}
	}
	return p, nil
}

// Globals returns the library-wide content settings.
func (l *Library) Globals() Globals {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.doc.Globals
}

// Guardrails returns the do/don't lists and validator switches.
func (l *Library) Guardrails() Guardrails {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.doc.Guardrails
}

// SEO returns the global SEO settings.
func (l *Library) SEO() SEO {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.doc.SEO
}

// Pool returns a copy of the current keyword pool.
func (l *Library) Pool() models.KeywordPool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	last, _ := time.Parse("2006-01-02", l.doc.SEO.RefreshPolicy.LastRefresh)
	return models.KeywordPool{
		Primary:     append([]string(nil), l.doc.SEO.PrimaryKeywords...),
		Secondary:   append([]string(nil), l.doc.SEO.SecondaryKeywords...),
		Frequency:   l.doc.SEO.RefreshPolicy.Frequency,
		LastRefresh: last,
	}
}

// UpdatePool replaces the keyword pool and stamps the refresh date. This is
// the only mutation the library supports besides Reload.
func (l *Library) UpdatePool(primary, secondary []string, now time.Time) error {
	if len(primary) == 0 {
		return fmt.Errorf("primary keyword list cannot be empty")
	}

	l.mu.Lock()
	l.doc.SEO.PrimaryKeywords = append([]string(nil), primary...)
	l.doc.SEO.SecondaryKeywords = append([]string(nil), secondary...)
	l.doc.SEO.RefreshPolicy.LastRefresh = now.Format("2006-01-02")
	l.mu.Unlock()

	l.log.Info().
		Int("primary", len(primary)).
		Int("secondary", len(secondary)).
		Msg("Keyword pool updated")
	return nil
}

// validateDocument enforces the schema invariants. It returns data-quality
// warnings (non-fatal) alongside any fatal schema error.
func validateDocument(doc *Document, strict bool) ([]string, error) {
	if doc.Version == "" {
		return nil, &SchemaError{Field: "version", Reason: "missing"}
	}
	if doc.Globals.CTA == "" {
		return nil, &SchemaError{Field: "globals.cta", Reason: "missing"}
	}
	if len(doc.SEO.PrimaryKeywords) == 0 {
		return nil, &SchemaError{Field: "seo.primary_keywords", Reason: "missing or empty"}
	}
	if len(doc.Platforms) == 0 {
		return nil, &SchemaError{Field: "platforms", Reason: "no platforms defined"}
	}
	if doc.SEO.KeywordDensity.Min > doc.SEO.KeywordDensity.Max {
		return nil, &SchemaError{Field: "seo.keyword_density", Reason: "min exceeds max"}
	}

	var warnings []string
	ctaExempt := 0

	// Deterministic validation order so the first error is stable.
	ids := make([]string, 0, len(doc.Platforms))
	for id := range doc.Platforms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := doc.Platforms[id]
		if p == nil {
			return nil, &SchemaError{Platform: id, Field: "-", Reason: "empty profile"}
		}
		p.ID = id

		if err := validateProfile(id, p, strict); err != nil {
			return nil, err
		}
		if p.CTAExempt() {
			ctaExempt++
		}

		// The hard bounds and the hand-tuned scoring range drifted apart in
		// places. Surface the disagreement, never silently pick one.
		if p.Scoring.WordRange != nil && p.WordCount.Unit == UnitWords {
			hard := p.WordCount.Bounds()
			soft := *p.Scoring.WordRange
			if hard != soft {
				warnings = append(warnings, fmt.Sprintf(
					"platform %q: scoring word range %d-%d disagrees with word-count bounds %d-%d",
					id, soft.Min, soft.Max, hard.Min, hard.Max))
			}
		}
	}

	if ctaExempt != 1 {
		return nil, &SchemaError{
			Field:  "platforms",
			Reason: fmt.Sprintf("exactly one platform must be CTA-exempt, found %d", ctaExempt),
		}
	}

	return warnings, nil
}

func validateProfile(id string, p *PlatformProfile, strict bool) error {
	switch p.Voice {
	case VoicePersonal, VoiceCorporate, VoiceFlexible, VoiceTechnical:
	case "":
		return &SchemaError{Platform: id, Field: "voice", Reason: "missing"}
	default:
		return &SchemaError{Platform: id, Field: "voice", Reason: fmt.Sprintf("unknown voice %q", p.Voice)}
	}

	if p.Tone == "" {
		return &SchemaError{Platform: id, Field: "tone", Reason: "missing"}
	}

	switch p.CTAStyle {
	case CTAStyleExplicit, CTAStyleSoft, CTAStyleDiscussion, CTAStyleQuestion, CTAStyleNone:
	case "":
		return &SchemaError{Platform: id, Field: "cta_style", Reason: "missing"}
	default:
		return &SchemaError{Platform: id, Field: "cta_style", Reason: fmt.Sprintf("unknown style %q", p.CTAStyle)}
	}

	if p.WordCount.Max <= 0 {
		return &SchemaError{Platform: id, Field: "word_count", Reason: "missing or zero max"}
	}
	switch p.WordCount.Unit {
	case UnitWords, UnitTweets, UnitCaptionWords:
	case "":
		p.WordCount.Unit = UnitWords
	default:
		return &SchemaError{Platform: id, Field: "word_count.unit", Reason: fmt.Sprintf("unknown unit %q", p.WordCount.Unit)}
	}

	for field, b := range map[string]Bounds{
		"word_count": p.WordCount.Bounds(),
		"keywords":   p.Keywords,
		"hashtags":   p.Hashtags,
		"structure":  p.Structure,
	} {
		if b.Min < 0 {
			return &SchemaError{Platform: id, Field: field, Reason: "negative min"}
		}
		if b.Min > b.Max {
			return &SchemaError{Platform: id, Field: field, Reason: fmt.Sprintf("min %d exceeds max %d", b.Min, b.Max)}
		}
	}
	if p.Scoring.WordRange != nil && p.Scoring.WordRange.Min > p.Scoring.WordRange.Max {
		return &SchemaError{Platform: id, Field: "scoring.word_range", Reason: "min exceeds max"}
	}

	if strict && p.PromptTemplate == "" {
		return &SchemaError{Platform: id, Field: "prompt_template", Reason: "missing"}
	}

	// Every placeholder the template uses must be in the enumerated set, so a
	// bad template fails at load instead of at request time.
	if p.PromptTemplate != "" {
		for _, m := range placeholderPattern.FindAllStringSubmatch(p.PromptTemplate, -1) {
			name := m[1]
			known := false
			for _, v := range TemplateVariables {
				if name == v {
					known = true
					break
				}
			}
			if !known {
				return &SchemaError{
					Platform: id,
					Field:    "prompt_template",
					Reason:   fmt.Sprintf("unknown template variable {%s}", name),
				}
			}
		}
	}

	return nil
}
