package engine

import (
	"context"
	"fmt"

	"github.com/content-agent/internal/keywords"
	"github.com/content-agent/internal/library"
	"github.com/content-agent/internal/models"
	"github.com/content-agent/internal/prompt"
	"github.com/content-agent/internal/snippets"
	"github.com/content-agent/internal/validate"
	"github.com/content-agent/pkg/logger"
)

// Generator produces content from an assembled prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request is one content generation request
type Request struct {
	Description  string
	Platform     string
	ContentType  string
	KeywordCount int
}

// Result carries everything produced for a request. Content and Report are
// nil when input validation blocked generation.
type Result struct {
	Input    *models.InputValidation   `json:"input"`
	Keywords *keywords.Selection       `json:"keywords,omitempty"`
	Prompt   string                    `json:"prompt,omitempty"`
	Content  string                    `json:"content,omitempty"`
	Report   *models.ValidationReport  `json:"report,omitempty"`
	Record   *models.ContentRecord     `json:"-"`
}

// Engine wires the pipeline together: keyword selection, context retrieval,
// prompt assembly, generation, then validation and scoring. It is stateless
// between requests; persistence belongs to the caller.
type Engine struct {
	lib       *library.Library
	selector  *keywords.Selector
	builder   *prompt.Builder
	validator *validate.Validator
	retriever *snippets.Manager
	gen       Generator
	maxCtx    int
	log       *logger.Logger
}

// New creates an engine. retriever and gen may be nil: without a retriever
// prompts carry no background context, without a generator only Preview and
// Check work.
func New(
	lib *library.Library,
	selector *keywords.Selector,
	builder *prompt.Builder,
	validator *validate.Validator,
	retriever *snippets.Manager,
	gen Generator,
	maxSnippets int,
	log *logger.Logger,
) *Engine {
	return &Engine{
		lib:       lib,
		selector:  selector,
		builder:   builder,
		validator: validator,
		retriever: retriever,
		gen:       gen,
		maxCtx:    maxSnippets,
		log:       log.WithComponent("engine"),
	}
}

// Preview runs the pipeline up to prompt assembly without calling the model
func (e *Engine) Preview(ctx context.Context, req Request) (*Result, error) {
	res := &Result{Input: e.validator.ValidateInput(req.Description, req.Platform)}
	if !res.Input.Valid {
		return res, nil
	}

	sel, err := e.selector.Select(req.Platform, req.ContentType, req.KeywordCount)
	if err != nil {
		return nil, err
	}
	res.Keywords = sel

	built, err := e.builder.Build(prompt.Request{
		Description:     req.Description,
		Platform:        req.Platform,
		ContentType:     req.ContentType,
		Primary:         sel.Primary,
		Secondary:       sel.Secondary,
		ExternalContext: e.retrieve(ctx, req.Description),
	})
	if err != nil {
		return nil, err
	}
	res.Prompt = built
	return res, nil
}

// Generate runs the full pipeline. A failing validation report does not fail
// the call: the result carries the report and a flagged record, the caller
// decides whether to retry or accept.
func (e *Engine) Generate(ctx context.Context, req Request) (*Result, error) {
	if e.gen == nil {
		return nil, fmt.Errorf("no generator configured")
	}

	res, err := e.Preview(ctx, req)
	if err != nil {
		return nil, err
	}
	if !res.Input.Valid {
		return res, nil
	}

	record := &models.ContentRecord{
		Description:     req.Description,
		Platform:        req.Platform,
		ContentType:     req.ContentType,
		Prompt:          res.Prompt,
		PrimaryKeywords: models.StringSlice(res.Keywords.Primary),
		Status:          models.RecordStatusGenerated,
	}
	res.Record = record

	content, err := e.gen.Generate(ctx, res.Prompt)
	if err != nil {
		record.Status = models.RecordStatusFailed
		record.ErrorMessage = err.Error()
		return res, fmt.Errorf("generation failed: %w", err)
	}
	res.Content = content
	record.Content = content

	report, err := e.validator.ValidateOutput(content, req.Platform, res.Keywords.Primary)
	if err != nil {
		return res, err
	}
	res.Report = report
	record.SetReport(report)

	e.log.Info().
		Str("platform", req.Platform).
		Bool("valid", report.Valid).
		Float64("score", record.OverallScore).
		Msg("Generated content")
	return res, nil
}

// Check validates existing content as if it had just been generated
func (e *Engine) Check(content, platform string, keywords []string) (*models.ValidationReport, error) {
	return e.validator.ValidateOutput(content, platform, keywords)
}

// retrieve collects background context for the prompt. Retrieval failures
// only degrade the prompt, they never fail the request.
func (e *Engine) retrieve(ctx context.Context, query string) string {
	if e.retriever == nil {
		return ""
	}
	found, errs := e.retriever.Retrieve(ctx, query, e.maxCtx)
	for _, err := range errs {
		e.log.Warn().Err(err).Msg("Snippet provider failed")
	}
	return snippets.Render(found)
}
