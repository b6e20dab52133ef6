package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/content-agent/internal/library"
	"github.com/content-agent/internal/models"
	"github.com/content-agent/pkg/logger"
)

// PassThreshold is the per-dimension pass mark. Scores are heuristic; the
// threshold is deliberately lenient so one weak dimension flags rather than
// fails a piece.
const PassThreshold = 0.7

var (
	hashtagPattern = regexp.MustCompile(`#\w+`)
	linkPattern    = regexp.MustCompile(`(?i)https?://|www\.`)
	emojiPattern   = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{2190}-\x{21FF}\x{FE0F}]`)
	tweetPattern   = regexp.MustCompile(`(?m)(?:Tweet \d+|^\d+/|^\d+\.)`)
	captionPattern = regexp.MustCompile(`(?im)(?:caption|description):\s*(.+)`)
	wordPattern    = regexp.MustCompile(`\S+`)
)

// Marker lexicons for the soft voice/tone/feature checks. Matching any marker
// counts; these are deliberately generous.
var (
	voiceMarkers = map[library.Voice][]string{
		library.VoicePersonal:  {"i ", "i'", "my ", "me ", "we learned", "in my experience"},
		library.VoiceCorporate: {"we ", "our ", "us ", "the team"},
		library.VoiceTechnical: {"code", "implementation", "api", "function", "error", "config"},
	}

	toneMarkers = map[string][]string{
		"professional":  {"strategy", "growth", "roi", "efficiency", "business", "results"},
		"educational":   {"learn", "how to", "step", "guide", "understand", "example"},
		"conversational": {"you", "let's", "honestly", "here's", "think about"},
		"entertainment": {"!", "fun", "wild", "crazy", "wait", "watch"},
		"inspirational": {"imagine", "transform", "dream", "possible", "journey"},
		"technical":     {"code", "implementation", "stack", "api", "performance"},
	}

	featureMarkers = map[string][]string{
		"thought_leadership":      {"in my experience", "i believe", "the industry", "most people"},
		"contrarian_insights":     {"unpopular", "contrary", "wrong", "myth", "actually", "stop"},
		"bold_contrarian_opening": {"unpopular", "stop", "wrong", "nobody", "myth"},
		"storytelling":            {"when i", "last year", "one day", "then", "story"},
		"personal_pov":            {"i ", "my ", "me "},
		"educational_content":     {"learn", "step", "how to", "guide"},
		"thread_format":           {"tweet"},
		"conversational":          {"you", "let's", "here's"},
		"open_ended_question":     {"?"},
		"quick_engagement":        {"?", "agree", "thoughts"},
		"direct_answers":          {"the answer", "you can", "use ", "instead"},
		"code_focused":            {"```", "code", "func", "class", "snippet"},
		"technical_qa":            {"error", "issue", "solution", "fix"},
		"video_script_caption":    {"script", "caption"},
		"visual_content_caption":  {"caption"},
		"seo_optimized":           {"keyword", "search", "guide"},
		"community_driven":        {"community", "you all", "everyone", "share"},
		"community_engagement":    {"what do you", "comment", "share", "discussion"},
	}
)

// Scorer computes per-dimension platform compliance scores. Every dimension
// returns a score in [0,1] with partial credit, never a hard error, so one
// malformed aspect of the text cannot hide the others.
type Scorer struct {
	log *logger.Logger
}

// New creates a platform metrics scorer
func New(log *logger.Logger) *Scorer {
	return &Scorer{log: log.WithComponent("metrics")}
}

// Score computes the full set of compliance dimensions for content generated
// for the given platform, against the selected keywords.
func (s *Scorer) Score(content string, p *library.PlatformProfile, keywords []string) *models.PlatformScores {
	lower := strings.ToLower(content)

	scores := &models.PlatformScores{
		Voice:          s.scoreVoice(lower, p),
		WordCount:      s.scoreWordCount(content, p),
		Keyword:        s.scoreKeywords(lower, p, keywords),
		Hashtag:        s.scoreHashtags(content, p),
		Structure:      s.scoreStructure(content, p),
		Tone:           s.scoreTone(lower, p),
		CTA:            s.scoreCTA(lower, p),
		SpecialRules:   s.scoreSpecialRules(content, lower, p),
		UniqueFeatures: s.scoreUniqueFeatures(lower, p),
	}

	all := []models.CheckResult{
		scores.Voice, scores.WordCount, scores.Keyword, scores.Hashtag,
		scores.Structure, scores.Tone, scores.CTA, scores.SpecialRules,
		scores.UniqueFeatures,
	}
	var sum float64
	passed := 0
	for _, c := range all {
		sum += c.Score
		if c.Passed() {
			passed++
		}
	}
	scores.Overall = models.OverallScore{
		Score:         sum / float64(len(all)),
		TotalMetrics:  len(all),
		PassedMetrics: passed,
	}

	s.log.Debug().
		Str("platform", p.ID).
		Float64("overall", scores.Overall.Score).
		Int("passed", passed).
		Msg("Scored content")
	return scores
}

// CountUnits counts the text in the platform's counting unit: plain words,
// numbered tweets, or words in the caption part only.
func CountUnits(content string, p *library.PlatformProfile) int {
	switch p.WordCount.Unit {
	case library.UnitTweets:
		return len(tweetPattern.FindAllString(content, -1))
	case library.UnitCaptionWords:
		m := captionPattern.FindStringSubmatch(content)
		if m == nil {
			// No labeled caption; fall back to counting everything so the
			// score degrades instead of zeroing out.
			return len(wordPattern.FindAllString(content, -1))
		}
		return len(wordPattern.FindAllString(m[1], -1))
	default:
		return len(wordPattern.FindAllString(content, -1))
	}
}

func (s *Scorer) scoreVoice(lower string, p *library.PlatformProfile) models.CheckResult {
	res := models.CheckResult{Required: string(p.Voice)}
	if p.Voice == library.VoiceFlexible {
		res.Score = 1.0
		return res
	}

	markers := voiceMarkers[p.Voice]
	for _, m := range markers {
		if strings.Contains(lower, m) {
			res.Found = append(res.Found, strings.TrimSpace(m))
		}
	}
	res.Score = markerCurve(len(res.Found), 2)
	return res
}

// markerCurve maps a marker count onto [0,1] linearly, saturating at full. No
// markers means no credit.
func markerCurve(count, full int) float64 {
	score := float64(count) / float64(full)
	if score > 1.0 {
		return 1.0
	}
	return score
}

func (s *Scorer) scoreWordCount(content string, p *library.PlatformProfile) models.CheckResult {
	r := p.ScoringWordRange()
	n := CountUnits(content, p)
	res := models.CheckResult{
		Required: rangeLabel(r, string(p.WordCount.Unit)),
		Actual:   n,
	}
	res.Score = bandScore(n, r)
	return res
}

// bandScore gives partial credit around a closed range: full inside, 0.8 when
// close underneath, 0.5 for anything non-empty, zero for nothing.
func bandScore(n int, r library.Bounds) float64 {
	switch {
	case r.Contains(n):
		return 1.0
	case n >= r.Min*8/10 && n <= r.Max*12/10:
		return 0.8
	case n > 0:
		return 0.5
	default:
		return 0.0
	}
}

func (s *Scorer) scoreKeywords(lower string, p *library.PlatformProfile, keywords []string) models.CheckResult {
	res := models.CheckResult{
		Required: rangeLabel(p.Keywords, ""),
		Detail:   make(map[string]float64, len(keywords)),
	}
	if len(keywords) == 0 {
		res.Score = 1.0
		return res
	}

	found := 0
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			found++
			res.Detail[k] = 1
			res.Found = append(res.Found, k)
		} else {
			res.Detail[k] = 0
		}
	}
	res.Actual = found
	res.Score = bandScore(found, p.Keywords)
	return res
}

func (s *Scorer) scoreHashtags(content string, p *library.PlatformProfile) models.CheckResult {
	tags := hashtagPattern.FindAllString(content, -1)
	res := models.CheckResult{
		Required: rangeLabel(p.Hashtags, ""),
		Actual:   len(tags),
		Found:    tags,
	}
	if p.Hashtags.Max == 0 {
		if len(tags) == 0 {
			res.Score = 1.0
		} else {
			res.Score = 0.3
		}
		return res
	}
	res.Score = bandScore(len(tags), p.Hashtags)
	return res
}

// scoreStructure counts structural sections: blank-line separated blocks for
// prose, numbered items for threads.
func (s *Scorer) scoreStructure(content string, p *library.PlatformProfile) models.CheckResult {
	var n int
	if p.WordCount.Unit == library.UnitTweets {
		n = len(tweetPattern.FindAllString(content, -1))
	} else {
		for _, block := range strings.Split(content, "\n\n") {
			if strings.TrimSpace(block) != "" {
				n++
			}
		}
	}
	res := models.CheckResult{
		Required: rangeLabel(p.Structure, "sections"),
		Actual:   n,
	}
	res.Score = bandScore(n, p.Structure)
	return res
}

func (s *Scorer) scoreTone(lower string, p *library.PlatformProfile) models.CheckResult {
	res := models.CheckResult{Required: p.Tone}
	markers, ok := toneMarkers[p.Tone]
	if !ok {
		res.Score = 1.0
		return res
	}
	for _, m := range markers {
		if strings.Contains(lower, m) {
			res.Found = append(res.Found, strings.TrimSpace(m))
		}
	}
	res.Score = markerCurve(len(res.Found), 3)
	return res
}

func (s *Scorer) scoreCTA(lower string, p *library.PlatformProfile) models.CheckResult {
	res := models.CheckResult{Required: string(p.CTAStyle)}
	if p.CTAExempt() {
		res.Score = 1.0
		return res
	}

	var markers []string
	switch p.CTAStyle {
	case library.CTAStyleDiscussion, library.CTAStyleQuestion:
		markers = []string{"?", "what do you think", "let me know", "share your", "agree"}
	case library.CTAStyleSoft:
		markers = []string{"check out", "learn more", "follow", "link in", "worth a look"}
	default:
		markers = []string{"book", "schedule", "sign up", "get started", "contact", "visit", "audit"}
	}
	for _, m := range markers {
		if strings.Contains(lower, m) {
			res.Found = append(res.Found, m)
		}
	}
	if len(res.Found) > 0 {
		res.Score = 1.0
	} else {
		res.Score = 0.3
	}
	return res
}

func (s *Scorer) scoreSpecialRules(content, lower string, p *library.PlatformProfile) models.CheckResult {
	res := models.CheckResult{Required: strings.Join(p.SpecialRules, ",")}
	if len(p.SpecialRules) == 0 {
		res.Score = 1.0
		return res
	}

	res.Detail = make(map[string]float64, len(p.SpecialRules))
	var sum float64
	for _, rule := range p.SpecialRules {
		score := scoreRule(rule, content, lower)
		res.Detail[rule] = score
		sum += score
	}
	res.Score = sum / float64(len(p.SpecialRules))
	return res
}

func scoreRule(rule, content, lower string) float64 {
	switch rule {
	case "no_links":
		if linkPattern.MatchString(content) {
			return 0.0
		}
		return 1.0
	case "minimal_emojis":
		if len(emojiPattern.FindAllString(content, -1)) <= 2 {
			return 1.0
		}
		return 0.3
	case "1_emoji_max":
		if len(emojiPattern.FindAllString(content, -1)) <= 1 {
			return 1.0
		}
		return 0.3
	case "280_chars_per_tweet":
		return scoreTweetLengths(content)
	case "video_script":
		if strings.Contains(lower, "script") {
			return 1.0
		}
		return 0.3
	case "30_60_sec_video":
		// A 30-60s script reads at roughly 75-180 words.
		n := len(wordPattern.FindAllString(content, -1))
		if n >= 60 && n <= 250 {
			return 1.0
		}
		return 0.5
	case "visual_content":
		if strings.Contains(lower, "caption") || strings.Contains(content, "[") {
			return 1.0
		}
		return 0.5
	default:
		return 1.0
	}
}

// scoreTweetLengths splits the text at tweet markers and scores the fraction
// of tweets within the 280-character limit.
func scoreTweetLengths(content string) float64 {
	idx := tweetPattern.FindAllStringIndex(content, -1)
	if len(idx) == 0 {
		return 0.5
	}
	ok := 0
	for i, loc := range idx {
		end := len(content)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		tweet := strings.TrimSpace(content[loc[0]:end])
		if len(tweet) <= 280 {
			ok++
		}
	}
	return float64(ok) / float64(len(idx))
}

func (s *Scorer) scoreUniqueFeatures(lower string, p *library.PlatformProfile) models.CheckResult {
	features := p.Scoring.UniqueFeatures
	res := models.CheckResult{Required: strings.Join(features, ",")}
	if len(features) == 0 {
		res.Score = 1.0
		return res
	}

	res.Detail = make(map[string]float64, len(features))
	matched := 0
	for _, f := range features {
		markers, ok := featureMarkers[f]
		if !ok {
			// Unknown tag, count it as satisfied rather than punishing
			// content for a lexicon gap.
			res.Detail[f] = 1
			matched++
			continue
		}
		hit := 0.0
		for _, m := range markers {
			if strings.Contains(lower, m) {
				hit = 1.0
				res.Found = append(res.Found, f)
				break
			}
		}
		res.Detail[f] = hit
		if hit > 0 {
			matched++
		}
	}
	res.Score = float64(matched) / float64(len(features))
	return res
}

func rangeLabel(r library.Bounds, unit string) string {
	s := fmt.Sprintf("%d-%d", r.Min, r.Max)
	if unit != "" {
		s += " " + unit
	}
	return s
}
