package prompt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/content-agent/internal/library"
	"github.com/content-agent/pkg/logger"
)

// MissingVariableError reports a template variable with no value at render
// time. Load-time validation catches unknown placeholders, so this only fires
// for known variables whose request-supplied value is empty.
type MissingVariableError struct {
	Variable string
	Platform string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("prompt template for %q references {%s} but no value was provided", e.Platform, e.Variable)
}

// Request carries the inputs for one prompt build
type Request struct {
	Description     string
	Platform        string
	ContentType     string
	Primary         []string
	Secondary       []string
	ExternalContext string
}

// Builder assembles generation prompts from the rule library. The output is a
// deterministic function of the request and the loaded table: same inputs,
// same prompt, byte for byte.
type Builder struct {
	lib *library.Library
	log *logger.Logger
}

// New creates a prompt builder backed by the rule library
func New(lib *library.Library, log *logger.Logger) *Builder {
	return &Builder{
		lib: lib,
		log: log.WithComponent("prompt"),
	}
}

// Build assembles the full generation prompt for a request. The sections are
// appended in a fixed order; conditional sections appear only when the
// platform profile carries the corresponding data.
func (b *Builder) Build(req Request) (string, error) {
	profile, err := b.lib.Profile(req.Platform)
	if err != nil {
		return "", err
	}
	globals := b.lib.Globals()
	guardrails := b.lib.Guardrails()
	seo := b.lib.SEO()

	base, err := b.render(profile, req, globals.CTA)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(base)

	b.writeKeywordBlock(&sb, profile, req, seo)
	b.writeVoiceAndBrand(&sb, profile, globals)
	b.writeFramework(&sb, globals)
	b.writeEvidence(&sb, globals)
	b.writeStyle(&sb, profile)
	b.writeStructure(&sb, profile)
	b.writeVisual(&sb, profile)
	b.writeSEO(&sb, profile, seo)
	b.writeSpecialRules(&sb, profile)
	b.writePlatformRules(&sb, profile)
	b.writeCritical(&sb, profile, globals)
	b.writeGuardrails(&sb, guardrails, seo)
	b.writeHashtags(&sb, profile, globals)
	b.writeReminders(&sb, profile)
	b.writeFAQ(&sb, profile, guardrails)
	b.writeFamilyOverrides(&sb, profile)

	out := sb.String()
	if req.ExternalContext != "" {
		out = wrapContext(out, req.ExternalContext)
	}

	b.log.Debug().
		Str("platform", req.Platform).
		Int("prompt_chars", len(out)).
		Msg("Assembled prompt")
	return out, nil
}

// render substitutes the enumerated template variables into the platform's
// base template.
func (b *Builder) render(p *library.PlatformProfile, req Request, cta string) (string, error) {
	values := map[string]string{
		"description":        strings.TrimSpace(req.Description),
		"primary_keywords":   strings.Join(req.Primary, ", "),
		"secondary_keywords": strings.Join(req.Secondary, ", "),
		"cta":                cta,
		"word_count_min":     strconv.Itoa(p.WordCount.Min),
		"word_count_max":     strconv.Itoa(p.WordCount.Max),
	}

	out := p.PromptTemplate
	for name, value := range values {
		placeholder := "{" + name + "}"
		if !strings.Contains(out, placeholder) {
			continue
		}
		if value == "" {
			return "", &MissingVariableError{Variable: name, Platform: p.ID}
		}
		out = strings.ReplaceAll(out, placeholder, value)
	}
	return out, nil
}

func (b *Builder) writeKeywordBlock(sb *strings.Builder, p *library.PlatformProfile, req Request, seo library.SEO) {
	sb.WriteString("\n\nMANDATORY KEYWORD INCLUSION:\n")
	fmt.Fprintf(sb, "You MUST naturally include these primary keywords: %s\n", strings.Join(req.Primary, ", "))
	if len(req.Secondary) > 0 {
		fmt.Fprintf(sb, "Where it reads naturally, also work in: %s\n", strings.Join(req.Secondary, ", "))
	}
	fmt.Fprintf(sb, "Use between %d and %d keywords total. Never stuff keywords.\n", p.Keywords.Min, p.Keywords.Max)
	if seo.KeywordDensity.Max > 0 {
		fmt.Fprintf(sb, "Target keyword density: %s of total words.\n", densityLabel(seo.KeywordDensity))
	}
}

func (b *Builder) writeVoiceAndBrand(sb *strings.Builder, p *library.PlatformProfile, g library.Globals) {
	fmt.Fprintf(sb, "\nVOICE: Write in a %s voice with a %s tone.\n", p.Voice, p.Tone)
	if g.Brand.Name != "" {
		fmt.Fprintf(sb, "BRAND: You are writing for %s (%s).", g.Brand.Name, g.Brand.URL)
		if len(g.Brand.Regions) > 0 {
			fmt.Fprintf(sb, " Audience regions: %s.", strings.Join(g.Brand.Regions, ", "))
		}
		sb.WriteString("\n")
	}
	if g.Tone != "" {
		fmt.Fprintf(sb, "BRAND TONE: %s\n", g.Tone)
	}
}

func (b *Builder) writeFramework(sb *strings.Builder, g library.Globals) {
	if len(g.ContentFramework) == 0 {
		return
	}
	fmt.Fprintf(sb, "\nCONTENT FRAMEWORK: Structure the piece as %s.\n", strings.Join(g.ContentFramework, " -> "))
}

func (b *Builder) writeEvidence(sb *strings.Builder, g library.Globals) {
	if len(g.EvidenceSources) == 0 {
		return
	}
	fmt.Fprintf(sb, "\nEVIDENCE SOURCES: Cite data or findings from sources such as %s. Never invent statistics.\n",
		strings.Join(g.EvidenceSources, ", "))
}

func (b *Builder) writeStyle(sb *strings.Builder, p *library.PlatformProfile) {
	if p.Style == "" {
		return
	}
	fmt.Fprintf(sb, "\nSTYLE REQUIREMENT: %s\n", p.Style)
}

func (b *Builder) writeStructure(sb *strings.Builder, p *library.PlatformProfile) {
	if len(p.StructureOutline) == 0 {
		return
	}
	sb.WriteString("\nSTRUCTURE REQUIREMENT:\n")
	for i, s := range p.StructureOutline {
		fmt.Fprintf(sb, "%d. %s\n", i+1, s)
	}
}

func (b *Builder) writeVisual(sb *strings.Builder, p *library.PlatformProfile) {
	if len(p.VisualElements) == 0 {
		return
	}
	sb.WriteString("\nVISUAL REQUIREMENTS:\n")
	for _, v := range p.VisualElements {
		fmt.Fprintf(sb, "- %s\n", v)
	}
}

func (b *Builder) writeSEO(sb *strings.Builder, p *library.PlatformProfile, seo library.SEO) {
	if len(p.SEORequirements) == 0 && len(seo.PlacementZones) == 0 {
		return
	}
	sb.WriteString("\nSEO REQUIREMENTS:\n")
	for _, k := range sortedKeys(p.SEORequirements) {
		fmt.Fprintf(sb, "- %s: %s\n", k, p.SEORequirements[k])
	}
	if len(seo.PlacementZones) > 0 {
		fmt.Fprintf(sb, "- Place primary keywords in: %s\n", strings.Join(seo.PlacementZones, ", "))
	}
}

func (b *Builder) writeSpecialRules(sb *strings.Builder, p *library.PlatformProfile) {
	if len(p.SpecialRules) == 0 {
		return
	}
	sb.WriteString("\nSPECIAL RULES:\n")
	for _, rule := range p.SpecialRules {
		fmt.Fprintf(sb, "- %s\n", describeRule(rule))
	}
}

func (b *Builder) writePlatformRules(sb *strings.Builder, p *library.PlatformProfile) {
	if len(p.PlatformRules) == 0 {
		return
	}
	sb.WriteString("\nPLATFORM RULES:\n")
	for _, k := range sortedKeys(p.PlatformRules) {
		fmt.Fprintf(sb, "- %s: %s\n", k, p.PlatformRules[k])
	}
}

// writeCritical restates every hard constraint in one block. The bounds
// always appear as a MIN-MAX numeral pair so downstream checks can read them
// back.
func (b *Builder) writeCritical(sb *strings.Builder, p *library.PlatformProfile, g library.Globals) {
	sb.WriteString("\nCRITICAL REQUIREMENTS (non-negotiable):\n")
	fmt.Fprintf(sb, "- Length MUST be %d-%d %s.\n", p.WordCount.Min, p.WordCount.Max, unitLabel(p.WordCount.Unit))
	if p.CTAExempt() {
		sb.WriteString("- Do NOT include any call to action or promotional language.\n")
	} else {
		fmt.Fprintf(sb, "- Include this call to action (%s style): %s\n", p.CTAStyle, g.CTA)
	}
	if p.Hashtags.Max > 0 {
		fmt.Fprintf(sb, "- Use %d-%d hashtags.\n", p.Hashtags.Min, p.Hashtags.Max)
	} else {
		sb.WriteString("- Do not use hashtags.\n")
	}
	fmt.Fprintf(sb, "- Include %d-%d keywords, no more, no fewer.\n", p.Keywords.Min, p.Keywords.Max)
	if p.Structure.Max > 0 {
		fmt.Fprintf(sb, "- Structure the piece in %d-%d sections.\n", p.Structure.Min, p.Structure.Max)
	}
	fmt.Fprintf(sb, "- Keep the %s voice throughout.\n", p.Voice)
	sb.WriteString("- Output that violates any of these will be rejected.\n")
}

func (b *Builder) writeGuardrails(sb *strings.Builder, g library.Guardrails, seo library.SEO) {
	if len(g.Do) == 0 && len(g.Dont) == 0 {
		return
	}
	sb.WriteString("\nGUARDRAILS:\n")
	for _, d := range g.Do {
		fmt.Fprintf(sb, "DO: %s\n", d)
	}
	for _, d := range g.Dont {
		fmt.Fprintf(sb, "DON'T: %s\n", d)
	}
	if seo.KeywordDensity.Max > 0 {
		fmt.Fprintf(sb, "DO: keep keyword density at %s of total words.\n", densityLabel(seo.KeywordDensity))
	}
}

func (b *Builder) writeHashtags(sb *strings.Builder, p *library.PlatformProfile, g library.Globals) {
	if p.Hashtags.Max == 0 {
		return
	}
	tags := append(append([]string(nil), g.Hashtags...), p.SuggestedHashtags...)
	if len(tags) == 0 {
		return
	}
	fmt.Fprintf(sb, "\nSUGGESTED HASHTAGS: %s\n", strings.Join(dedupeStrings(tags), " "))
}

// writeFAQ requires an FAQ section on long-form platforms only.
func (b *Builder) writeFAQ(sb *strings.Builder, p *library.PlatformProfile, g library.Guardrails) {
	at := g.Validators.FAQMinWordCountAt
	if at == 0 || p.WordCount.Unit != library.UnitWords || p.WordCount.Min < at {
		return
	}
	sb.WriteString("\nFAQ SECTION:\n")
	fmt.Fprintf(sb, "End with an FAQ section of 5-7 question-and-answer pairs, at least %d words in total. ", g.Validators.FAQMinWords)
	sb.WriteString("Each question should be one a prospective customer would actually ask.\n")
}

// writeFamilyOverrides appends the format constraints tied to a platform
// family. These come last among the rule sections so they win over anything
// the generic sections implied.
func (b *Builder) writeFamilyOverrides(sb *strings.Builder, p *library.PlatformProfile) {
	switch p.Family {
	case "micro_content":
		sb.WriteString("\nTHREAD FORMAT:\n")
		fmt.Fprintf(sb, "Write %d-%d tweets, each prefixed \"Tweet N:\" on its own line. ", p.WordCount.Min, p.WordCount.Max)
		sb.WriteString("Every tweet MUST fit in 280 characters including the prefix. The first tweet is the hook.\n")
	case "video_content":
		sb.WriteString("\nVIDEO FORMAT:\n")
		sb.WriteString("Output two labeled parts. SCRIPT: a spoken script for a 30-60 second video. ")
		fmt.Fprintf(sb, "CAPTION: a caption of %d-%d words including the hashtags.\n", p.WordCount.Min, p.WordCount.Max)
	case "visual_content":
		if p.WordCount.Unit == library.UnitCaptionWords {
			sb.WriteString("\nCAPTION FORMAT:\n")
			fmt.Fprintf(sb, "Output a single labeled part. CAPTION: %d-%d words including the hashtags. ", p.WordCount.Min, p.WordCount.Max)
			sb.WriteString("Describe the accompanying visual in one bracketed line before the caption.\n")
		}
	}

	// The professional-network family carries extra voice discipline.
	if strings.HasPrefix(p.ID, "linkedin") {
		sb.WriteString("\nVOICE OVERRIDE:\n")
		sb.WriteString("Write strictly in the first person. No corporate \"we\". ")
		if p.ID == "linkedin_quick" {
			sb.WriteString("Open with a single bold contrarian sentence under 12 words.\n")
		} else {
			sb.WriteString("Open with a contrarian or counterintuitive observation.\n")
		}
	}
}

func (b *Builder) writeReminders(sb *strings.Builder, p *library.PlatformProfile) {
	sb.WriteString("\nBEFORE YOU FINISH:\n")
	fmt.Fprintf(sb, "- Re-count the length and confirm it is %d-%d %s.\n",
		p.WordCount.Min, p.WordCount.Max, unitLabel(p.WordCount.Unit))
	sb.WriteString("- Confirm every mandatory keyword appears at least once.\n")
	sb.WriteString("- Output only the content itself, no preamble or commentary.\n")
}

func wrapContext(prompt, context string) string {
	var sb strings.Builder
	sb.WriteString("BACKGROUND CONTEXT (reference only, do not quote verbatim):\n")
	sb.WriteString(context)
	sb.WriteString("\n\n---\n\n")
	sb.WriteString(prompt)
	return sb.String()
}

func describeRule(rule string) string {
	switch rule {
	case "no_links":
		return "Do not include any URLs or links in the body."
	case "minimal_emojis":
		return "Use at most 2 emojis."
	case "1_emoji_max":
		return "Use at most 1 emoji."
	case "280_chars_per_tweet":
		return "Every tweet must fit in 280 characters."
	case "video_script":
		return "Write a spoken video script, not prose."
	case "30_60_sec_video":
		return "The script must run 30-60 seconds when read aloud."
	case "visual_content":
		return "The text accompanies a visual; reference it, do not describe it at length."
	default:
		return rule
	}
}

// densityLabel formats a density band as whole percentages, e.g. "2%-5%".
func densityLabel(d library.DensityBand) string {
	return fmt.Sprintf("%.0f%%-%.0f%%", d.Min*100, d.Max*100)
}

func unitLabel(u library.CountUnit) string {
	switch u {
	case library.UnitTweets:
		return "tweets"
	case library.UnitCaptionWords:
		return "caption words"
	default:
		return "words"
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
