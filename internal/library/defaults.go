package library

import (
	"github.com/content-agent/internal/models"
)

// Shared template skeletons. Placeholders must stay within TemplateVariables.
const (
	longFormTemplate = `Write an in-depth article about: {description}

Primary keywords to work in naturally: {primary_keywords}
Secondary keywords: {secondary_keywords}

Target length: {word_count_min}-{word_count_max} words.
Close the article with this call to action: {cta}`

	postTemplate = `Write a post about: {description}

Primary keywords: {primary_keywords}
Secondary keywords: {secondary_keywords}

Target length: {word_count_min}-{word_count_max} words.
End with this call to action: {cta}`

	threadTemplate = `Write a thread about: {description}

Primary keywords: {primary_keywords}
Secondary keywords: {secondary_keywords}

The thread must be {word_count_min}-{word_count_max} numbered tweets.
Close the thread with this call to action: {cta}`

	captionTemplate = `Write a short video script plus caption about: {description}

Primary keywords: {primary_keywords}
Secondary keywords: {secondary_keywords}

The caption must be {word_count_min}-{word_count_max} words.
Work this call to action into the caption: {cta}`

	answerTemplate = `Write an authoritative answer about: {description}

Primary keywords: {primary_keywords}
Secondary keywords: {secondary_keywords}

Target length: {word_count_min}-{word_count_max} words.`
)

func bounds(min, max int) Bounds {
	return Bounds{Min: min, Max: max}
}

func wc(min, max int, unit CountUnit) WordCount {
	return WordCount{Min: min, Max: max, Unit: unit}
}

// defaultDocument is the compiled-in rule table, used when no library file is
// configured. A JSON document with the same shape overrides it entirely.
func defaultDocument() *Document {
	rangeOf := func(min, max int) *Bounds {
		b := bounds(min, max)
		return &b
	}

	return &Document{
		Version: "3.2",
		Globals: Globals{
			CTA: "Book a free automation audit at barrana.com",
			Brand: Brand{
				Name:    "Barrana",
				URL:     "https://www.barrana.com",
				Regions: []string{"North America", "Europe", "Middle East"},
			},
			Tone:             "Confident, practical, growth-focused",
			ContentFramework: []string{"Pain-Point", "Insight", "Solution", "CTA"},
			EvidenceSources:  []string{"McKinsey", "Gartner", "Harvard Business Review"},
			Hashtags:         []string{"#Barrana", "#AIAutomation", "#SmallBusiness"},
		},
		SEO: SEO{
			PrimaryKeywords: []string{
				"AI automation",
				"business process automation",
				"workflow optimization",
				"AI consulting",
				"digital transformation",
				"intelligent automation",
				"custom AI solutions",
			},
			SecondaryKeywords: []string{
				"productivity tools",
				"cost reduction",
				"operational efficiency",
				"AI integration",
				"machine learning solutions",
				"process improvement",
				"business intelligence",
			},
			KeywordDensity:   DensityBand{Min: 0.02, Max: 0.05},
			KeywordsPerPiece: bounds(3, 7),
			PlacementZones:   []string{"title", "first_paragraph", "headings", "conclusion"},
			RefreshPolicy: RefreshPolicy{
				Frequency:   models.RefreshMonthly,
				LastRefresh: "2025-06-01",
			},
		},
		Guardrails: Guardrails{
			Do: []string{
				"Lead with a concrete pain point the reader recognizes",
				"Back every claim with a named source or a number",
				"Write for busy operators, not for other marketers",
				"Keep the brand voice consistent across platforms",
			},
			Dont: []string{
				"Do not invent statistics or fabricate case studies",
				"Do not promise specific revenue outcomes",
				"Do not use clickbait or artificial urgency",
				"Do not mention competitors by name",
			},
			Validators: Validators{
				CTARequired:        true,
				KeywordDensityMin:  0.02,
				KeywordDensityMax:  0.05,
				FAQMinWords:        150,
				FAQMinWordCountAt:  800,
				MaxEmojiDefault:    2,
				SentenceLengthBand: bounds(8, 25),
			},
		},
		Runtime: Runtime{
			OutputSchema: map[string]string{
				"content": "string",
				"report":  "object",
			},
		},
		Platforms: map[string]*PlatformProfile{
			"linkedin": {
				Voice:     VoicePersonal,
				Tone:      "professional",
				WordCount: wc(250, 350, UnitWords),
				Keywords:  bounds(3, 5),
				Hashtags:  bounds(3, 5),
				Structure: bounds(3, 5),
				CTAStyle:  CTAStyleExplicit,
				Style:     "Thought leadership",
				StructureOutline: []string{
					"Contrarian hook", "Personal experience", "Insight with proof", "Call to action",
				},
				SpecialRules:      []string{"no_links"},
				KeywordAdditions:  []string{"professional networking", "B2B growth"},
				SuggestedHashtags: []string{"#AIAutomation", "#Leadership", "#SmallBusiness"},
				Family:            "medium_form",
				PromptTemplate:    postTemplate,
				Scoring: ScoringSpec{
					// Hand-tuned scoring range kept separate from the hard
					// bounds; the loader surfaces the drift as a warning.
					WordRange:      rangeOf(280, 320),
					UniqueFeatures: []string{"thought_leadership", "contrarian_insights", "professional_networking"},
				},
			},
			"linkedin_quick": {
				Voice:             VoicePersonal,
				Tone:              "professional",
				WordCount:         wc(80, 150, UnitWords),
				Keywords:          bounds(2, 3),
				Hashtags:          bounds(2, 3),
				Structure:         bounds(2, 3),
				CTAStyle:          CTAStyleSoft,
				SpecialRules:      []string{"no_links", "minimal_emojis"},
				SuggestedHashtags: []string{"#AIAutomation", "#Productivity"},
				Family:            "ultra_short_form",
				PromptTemplate:    postTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"quick_engagement", "bold_contrarian_opening", "open_ended_question"},
				},
			},
			"founder_blog": {
				Voice:             VoicePersonal,
				Tone:              "educational",
				WordCount:         wc(800, 1200, UnitWords),
				Keywords:          bounds(5, 7),
				Hashtags:          bounds(5, 7),
				Structure:         bounds(5, 7),
				CTAStyle:          CTAStyleExplicit,
				Style:             "Personal story with lessons",
				SEORequirements:   map[string]string{"meta_description": "under 160 characters", "title_keyword": "primary keyword in title"},
				SuggestedHashtags: []string{"#FounderLessons", "#AIAutomation"},
				Family:            "long_form",
				PromptTemplate:    longFormTemplate,
				Scoring: ScoringSpec{
					WordRange:      rangeOf(800, 1200),
					UniqueFeatures: []string{"personal_pov", "storytelling", "educational_content"},
				},
			},
			"medium": {
				Voice:             VoiceCorporate,
				Tone:              "educational",
				WordCount:         wc(900, 1200, UnitWords),
				Keywords:          bounds(5, 7),
				Hashtags:          bounds(5, 7),
				Structure:         bounds(5, 7),
				CTAStyle:          CTAStyleExplicit,
				Style:             "SEO-optimized article",
				StructureOutline:  []string{"Hook", "Problem", "Framework", "Examples", "Takeaways", "CTA"},
				SEORequirements:   map[string]string{"subtitle": "secondary keyword in subtitle", "headings": "keyword in at least two headings"},
				SuggestedHashtags: []string{"#ArtificialIntelligence", "#Automation", "#Business"},
				Family:            "long_form",
				PromptTemplate:    longFormTemplate,
				Scoring: ScoringSpec{
					WordRange:      rangeOf(900, 1200),
					UniqueFeatures: []string{"seo_optimized", "comprehensive_articles", "educational_content"},
				},
			},
			"substack": {
				Voice:             VoiceCorporate,
				Tone:              "educational",
				WordCount:         wc(1000, 1500, UnitWords),
				Keywords:          bounds(5, 7),
				Hashtags:          bounds(5, 7),
				Structure:         bounds(5, 7),
				CTAStyle:          CTAStyleExplicit,
				Style:             "Newsletter narrative",
				SuggestedHashtags: []string{"#Newsletter", "#AIAutomation"},
				Family:            "long_form",
				PromptTemplate:    longFormTemplate,
				Scoring: ScoringSpec{
					WordRange:      rangeOf(900, 1500),
					UniqueFeatures: []string{"newsletter_narrative", "educational_content", "comprehensive_articles"},
				},
			},
			"company_blog": {
				Voice:             VoiceCorporate,
				Tone:              "educational",
				WordCount:         wc(1500, 2000, UnitWords),
				Keywords:          bounds(5, 7),
				Hashtags:          bounds(5, 7),
				Structure:         bounds(5, 7),
				CTAStyle:          CTAStyleExplicit,
				Style:             "Comprehensive guide",
				VisualElements:    []string{"hero image", "process diagram", "comparison table"},
				SEORequirements:   map[string]string{"meta_description": "under 160 characters", "internal_links": "link related guides"},
				SuggestedHashtags: []string{"#AIAutomation", "#DigitalTransformation"},
				Family:            "long_form",
				PromptTemplate:    longFormTemplate,
				Scoring: ScoringSpec{
					WordRange:      rangeOf(1500, 2000),
					UniqueFeatures: []string{"comprehensive_guides", "detailed_analysis", "educational_content"},
				},
			},
			"slideshare": {
				Voice:             VoiceCorporate,
				Tone:              "professional",
				WordCount:         wc(100, 300, UnitWords),
				Keywords:          bounds(1, 2),
				Hashtags:          bounds(1, 2),
				Structure:         bounds(1, 2),
				CTAStyle:          CTAStyleExplicit,
				Style:             "Slide deck outline",
				VisualElements:    []string{"title slide", "one idea per slide", "closing CTA slide"},
				SpecialRules:      []string{"visual_content"},
				SuggestedHashtags: []string{"#Presentation"},
				Family:            "visual_content",
				PromptTemplate:    postTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"professional_presentations", "business_focus", "visual_content"},
				},
			},
			"product_hunt": {
				Voice:             VoiceCorporate,
				Tone:              "professional",
				WordCount:         wc(200, 400, UnitWords),
				Keywords:          bounds(2, 3),
				Hashtags:          bounds(2, 3),
				Structure:         bounds(2, 3),
				CTAStyle:          CTAStyleExplicit,
				PlatformRules:     map[string]string{"maker_comment": "write as the maker, answer why-now", "tagline": "include a one-line tagline"},
				SuggestedHashtags: []string{"#ProductHunt", "#Launch"},
				Family:            "short_form",
				PromptTemplate:    postTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"product_positioning", "launch_strategy", "startup_community"},
				},
			},
			"crunchbase": {
				Voice:             VoiceCorporate,
				Tone:              "professional",
				WordCount:         wc(100, 300, UnitWords),
				Keywords:          bounds(2, 3),
				Hashtags:          bounds(2, 3),
				Structure:         bounds(2, 3),
				CTAStyle:          CTAStyleExplicit,
				SuggestedHashtags: []string{"#CompanyNews"},
				Family:            "short_form",
				PromptTemplate:    postTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"company_positioning", "business_intelligence", "company_data"},
				},
			},
			"substack_quick": {
				Voice:             VoiceCorporate,
				Tone:              "educational",
				WordCount:         wc(200, 300, UnitWords),
				Keywords:          bounds(2, 3),
				Hashtags:          bounds(2, 3),
				Structure:         bounds(2, 3),
				CTAStyle:          CTAStyleSoft,
				SuggestedHashtags: []string{"#Notes"},
				Family:            "ultra_short_form",
				PromptTemplate:    postTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"quick_notes", "seed_ideas", "provocative_tone"},
				},
			},
			"twitter": {
				Voice:             VoiceFlexible,
				Tone:              "conversational",
				WordCount:         wc(8, 12, UnitTweets),
				Keywords:          bounds(1, 2),
				Hashtags:          bounds(1, 2),
				Structure:         bounds(1, 2),
				CTAStyle:          CTAStyleDiscussion,
				Style:             "Thread format",
				SpecialRules:      []string{"no_links", "280_chars_per_tweet"},
				SuggestedHashtags: []string{"#AI", "#Automation"},
				Family:            "micro_content",
				PromptTemplate:    threadTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"thread_format", "conversational"},
				},
			},
			"twitter_quick": {
				Voice:             VoiceFlexible,
				Tone:              "conversational",
				WordCount:         wc(1, 3, UnitTweets),
				Keywords:          bounds(2, 3),
				Hashtags:          bounds(2, 3),
				Structure:         bounds(2, 3),
				CTAStyle:          CTAStyleDiscussion,
				SpecialRules:      []string{"no_links", "280_chars_per_tweet", "1_emoji_max"},
				SuggestedHashtags: []string{"#AI"},
				Family:            "micro_content",
				PromptTemplate:    threadTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"mini_thread", "quick_engagement"},
				},
			},
			"tiktok": {
				Voice:             VoiceFlexible,
				Tone:              "entertainment",
				WordCount:         wc(70, 120, UnitCaptionWords),
				Keywords:          bounds(2, 3),
				Hashtags:          bounds(2, 3),
				Structure:         bounds(2, 3),
				CTAStyle:          CTAStyleSoft,
				SpecialRules:      []string{"video_script", "30_60_sec_video"},
				SuggestedHashtags: []string{"#AITok", "#SmallBusiness"},
				Family:            "video_content",
				PromptTemplate:    captionTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"video_script_caption", "entertainment"},
				},
			},
			"instagram": {
				Voice:             VoiceFlexible,
				Tone:              "entertainment",
				WordCount:         wc(100, 150, UnitCaptionWords),
				Keywords:          bounds(2, 3),
				Hashtags:          bounds(2, 3),
				Structure:         bounds(2, 3),
				CTAStyle:          CTAStyleSoft,
				VisualElements:    []string{"carousel", "before/after graphic"},
				SpecialRules:      []string{"visual_content"},
				SuggestedHashtags: []string{"#Automation", "#BusinessGrowth"},
				Family:            "visual_content",
				PromptTemplate:    captionTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"visual_content_caption", "lifestyle"},
				},
			},
			"facebook": {
				Voice:             VoiceFlexible,
				Tone:              "conversational",
				WordCount:         wc(100, 150, UnitWords),
				Keywords:          bounds(2, 3),
				Hashtags:          bounds(2, 3),
				Structure:         bounds(2, 3),
				CTAStyle:          CTAStyleSoft,
				SuggestedHashtags: []string{"#SmallBusiness"},
				Family:            "short_form",
				PromptTemplate:    postTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"community_focused", "social_engagement", "community_driven"},
				},
			},
			"pinterest": {
				Voice:             VoiceFlexible,
				Tone:              "inspirational",
				WordCount:         wc(100, 150, UnitWords),
				Keywords:          bounds(2, 3),
				Hashtags:          bounds(2, 3),
				Structure:         bounds(2, 3),
				CTAStyle:          CTAStyleSoft,
				VisualElements:    []string{"vertical pin graphic", "text overlay"},
				SpecialRules:      []string{"visual_content"},
				SuggestedHashtags: []string{"#BusinessTips"},
				Family:            "visual_content",
				PromptTemplate:    postTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"seo_optimized_pins", "visual_discovery"},
				},
			},
			"skool": {
				Voice:             VoiceFlexible,
				Tone:              "conversational",
				WordCount:         wc(200, 600, UnitWords),
				Keywords:          bounds(3, 5),
				Hashtags:          bounds(3, 5),
				Structure:         bounds(3, 5),
				CTAStyle:          CTAStyleExplicit,
				SuggestedHashtags: []string{"#Community"},
				Family:            "medium_form",
				PromptTemplate:    postTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"educational_lessons", "community_learning"},
				},
			},
			"stackoverflow": {
				Voice:          VoiceTechnical,
				Tone:           "technical",
				WordCount:      wc(150, 400, UnitWords),
				Keywords:       bounds(1, 2),
				Hashtags:       bounds(0, 0),
				Structure:      bounds(1, 2),
				CTAStyle:       CTAStyleNone, // the one CTA-exempt platform
				Family:         "medium_form",
				PromptTemplate: answerTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"direct_answers", "code_focused", "technical_qa"},
				},
			},
			"dev_to": {
				Voice:             VoiceFlexible,
				Tone:              "educational",
				WordCount:         wc(400, 800, UnitWords),
				Keywords:          bounds(3, 5),
				Hashtags:          bounds(3, 5),
				Structure:         bounds(3, 5),
				CTAStyle:          CTAStyleExplicit,
				SuggestedHashtags: []string{"#devops", "#automation", "#ai"},
				Family:            "medium_form",
				PromptTemplate:    postTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"technical_tutorials", "developer_community", "technical_content"},
				},
			},
			"reddit": {
				Voice:             VoicePersonal,
				Tone:              "conversational",
				WordCount:         wc(400, 600, UnitWords),
				Keywords:          bounds(3, 5),
				Hashtags:          bounds(0, 0),
				Structure:         bounds(3, 5),
				CTAStyle:          CTAStyleDiscussion,
				PlatformRules:     map[string]string{"subreddit_fit": "read like a community member, not an advertiser"},
				SuggestedHashtags: nil,
				Family:            "medium_form",
				PromptTemplate:    postTemplate,
				Scoring: ScoringSpec{
					WordRange:      rangeOf(400, 600),
					UniqueFeatures: []string{"conversational_discussion", "community_engagement", "community_driven"},
				},
			},
			"quora": {
				Voice:             VoicePersonal,
				Tone:              "educational",
				WordCount:         wc(500, 700, UnitWords),
				Keywords:          bounds(3, 5),
				Hashtags:          bounds(0, 0),
				Structure:         bounds(3, 5),
				CTAStyle:          CTAStyleExplicit,
				SuggestedHashtags: nil,
				Family:            "medium_form",
				PromptTemplate:    answerTemplate,
				Scoring: ScoringSpec{
					UniqueFeatures: []string{"authoritative_answers", "expertise_sharing", "educational_qa"},
				},
			},
		},
	}
}
