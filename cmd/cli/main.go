package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/content-agent/internal/ai"
	"github.com/content-agent/internal/config"
	"github.com/content-agent/internal/engine"
	"github.com/content-agent/internal/keywords"
	"github.com/content-agent/internal/library"
	"github.com/content-agent/internal/metrics"
	"github.com/content-agent/internal/models"
	"github.com/content-agent/internal/prompt"
	"github.com/content-agent/internal/snippets"
	"github.com/content-agent/internal/snippets/rss"
	"github.com/content-agent/internal/snippets/vector"
	"github.com/content-agent/internal/storage"
	"github.com/content-agent/internal/storage/sqlite"
	"github.com/content-agent/internal/validate"
	"github.com/content-agent/pkg/logger"
	"github.com/content-agent/pkg/ratelimit"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	lib     *library.Library
	repo    storage.Repository
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "content-agent",
		Short: "Multi-platform content generation backend",
		Long: `Generates platform-native marketing content with Claude AI,
validates it against per-platform rules, and scores compliance.`,
		PersistentPreRunE: initializeApp,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")

	rootCmd.AddCommand(platformsCmd())
	rootCmd.AddCommand(keywordsCmd())
	rootCmd.AddCommand(promptCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(libraryCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initializeApp(cmd *cobra.Command, args []string) error {
	var err error

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	if cfg.Library.Path != "" {
		lib, err = library.LoadFile(cfg.Library.Path, log)
		if err != nil {
			return fmt.Errorf("failed to load library: %w", err)
		}
	} else {
		lib = library.Default(log)
	}

	if cfg.Library.Sheets.Enabled {
		overlay, err := library.NewSheetsOverlay(cmd.Context(), library.SheetsConfig{
			SpreadsheetID:      cfg.Library.Sheets.SpreadsheetID,
			ServiceAccountJSON: cfg.Library.Sheets.ServiceAccountJSON,
			CredentialsFile:    cfg.Library.Sheets.CredentialsFile,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to connect to template spreadsheet: %w", err)
		}
		overrides, err := overlay.Fetch(cmd.Context())
		if err != nil {
			log.Warn().Err(err).Msg("Failed to fetch template overrides, using loaded templates")
		} else {
			lib.ApplyTemplates(overrides)
		}
	}

	repo, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// buildEngine assembles the pipeline. withGenerator also wires the model
// client and requires a valid API key.
func buildEngine(withGenerator bool) (*engine.Engine, error) {
	limiter := ratelimit.NewDefaultLimiter()

	var gen engine.Generator
	if withGenerator {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		gen = ai.NewClient(cfg.Anthropic, limiter, log)
	}

	var retriever *snippets.Manager
	if cfg.Retrieval.Enabled {
		retriever = snippets.NewManager()
		for _, p := range rss.NewMultiple(cfg.Retrieval.Feeds, limiter, log) {
			retriever.Register(p)
		}
		if cfg.Retrieval.Vector.Enabled {
			vp, err := vector.New(cfg.Retrieval.Vector, log)
			if err != nil {
				log.Warn().Err(err).Msg("Vector store unavailable, continuing without it")
			} else {
				retriever.Register(vp)
			}
		}
	}

	selector := keywords.New(lib, log)
	builder := prompt.New(lib, log)
	scorer := metrics.New(log)
	validator := validate.New(lib, scorer, log)

	return engine.New(lib, selector, builder, validator, retriever, gen, cfg.Retrieval.MaxSnippets, log), nil
}

// ============ PLATFORMS ============

func platformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms and their rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Library version %s, %d platforms\n\n", lib.Version(), len(lib.Platforms()))
			for _, id := range lib.Platforms() {
				p, err := lib.Profile(id)
				if err != nil {
					return err
				}
				fmt.Printf("%-16s %4d-%-4d %-13s voice=%-9s cta=%s\n",
					id, p.WordCount.Min, p.WordCount.Max, p.WordCount.Unit, p.Voice, p.CTAStyle)
			}
			for _, w := range lib.Warnings() {
				fmt.Printf("\nwarning: %s\n", w)
			}
			return nil
		},
	}
}

// ============ KEYWORDS ============

func keywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Keyword pool commands",
	}
	cmd.AddCommand(keywordsSelectCmd())
	cmd.AddCommand(keywordsShowCmd())
	cmd.AddCommand(keywordsRefreshCmd())
	return cmd
}

func keywordsSelectCmd() *cobra.Command {
	var platform, contentType string
	var count int

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Preview today's keyword selection for a platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			selector := keywords.New(lib, log)
			sel, err := selector.Select(platform, contentType, count)
			if err != nil {
				return err
			}
			fmt.Printf("Primary:   %s\n", strings.Join(sel.Primary, ", "))
			fmt.Printf("Secondary: %s\n", strings.Join(sel.Secondary, ", "))
			fmt.Printf("Pool size: %d\n", sel.PoolSize)
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "linkedin", "Target platform")
	cmd.Flags().StringVar(&contentType, "type", "", "Content type (technical, promotional)")
	cmd.Flags().IntVar(&count, "count", 0, "Keywords to select (default: platform minimum)")
	return cmd
}

func keywordsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current keyword pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool := lib.Pool()
			fmt.Printf("Primary:   %s\n", strings.Join(pool.Primary, ", "))
			fmt.Printf("Secondary: %s\n", strings.Join(pool.Secondary, ", "))
			fmt.Printf("Refresh:   %s (last %s)\n", pool.Frequency, pool.LastRefresh.Format("2006-01-02"))
			return nil
		},
	}
}

func keywordsRefreshCmd() *cobra.Command {
	var primary, secondary []string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Replace the keyword pool and snapshot the change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			selector := keywords.New(lib, log)
			if err := selector.Refresh(primary, secondary); err != nil {
				return err
			}

			pool := lib.Pool()
			snap := &models.PoolSnapshot{
				Primary:     models.StringSlice(pool.Primary),
				Secondary:   models.StringSlice(pool.Secondary),
				Frequency:   string(pool.Frequency),
				RefreshedAt: pool.LastRefresh,
			}
			if err := repo.SavePoolSnapshot(ctx, snap); err != nil {
				return fmt.Errorf("pool updated but snapshot failed: %w", err)
			}
			fmt.Printf("Keyword pool refreshed: %d primary, %d secondary\n", len(primary), len(secondary))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&primary, "primary", nil, "New primary keywords (required)")
	cmd.Flags().StringSliceVar(&secondary, "secondary", nil, "New secondary keywords")
	cmd.MarkFlagRequired("primary")
	return cmd
}

// ============ PROMPT / GENERATE ============

func promptCmd() *cobra.Command {
	var platform, contentType string

	cmd := &cobra.Command{
		Use:   "prompt [description]",
		Short: "Assemble and print the prompt without calling the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(false)
			if err != nil {
				return err
			}
			res, err := eng.Preview(cmd.Context(), engine.Request{
				Description: args[0],
				Platform:    platform,
				ContentType: contentType,
			})
			if err != nil {
				return err
			}
			if !res.Input.Valid {
				return fmt.Errorf("invalid input: %s", strings.Join(res.Input.Errors, "; "))
			}
			fmt.Println(res.Prompt)
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "linkedin", "Target platform")
	cmd.Flags().StringVar(&contentType, "type", "", "Content type (technical, promotional)")
	return cmd
}

func generateCmd() *cobra.Command {
	var platform, contentType string
	var keywordCount int

	cmd := &cobra.Command{
		Use:   "generate [description]",
		Short: "Generate, validate, and store content for a platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := buildEngine(true)
			if err != nil {
				return err
			}

			res, genErr := eng.Generate(ctx, engine.Request{
				Description:  args[0],
				Platform:     platform,
				ContentType:  contentType,
				KeywordCount: keywordCount,
			})
			if res != nil && res.Record != nil {
				if err := repo.CreateRecord(ctx, res.Record); err != nil {
					log.Warn().Err(err).Msg("Failed to persist record")
				}
			}
			if genErr != nil {
				return genErr
			}
			if !res.Input.Valid {
				return fmt.Errorf("invalid input: %s", strings.Join(res.Input.Errors, "; "))
			}

			fmt.Printf("\n=== Generated Content (%s) ===\n\n%s\n", platform, res.Content)
			printReport(res.Report)
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "linkedin", "Target platform")
	cmd.Flags().StringVar(&contentType, "type", "", "Content type (technical, promotional)")
	cmd.Flags().IntVar(&keywordCount, "keywords", 0, "Keywords to select (default: platform minimum)")
	return cmd
}

// ============ VALIDATE / SCORE ============

func validateCmd() *cobra.Command {
	var platform string
	var keywordList []string

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate existing content against a platform's rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read content file: %w", err)
			}
			eng, err := buildEngine(false)
			if err != nil {
				return err
			}
			report, err := eng.Check(string(content), platform, keywordList)
			if err != nil {
				return err
			}
			printReport(report)
			if !report.Valid {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "linkedin", "Target platform")
	cmd.Flags().StringSliceVar(&keywordList, "keywords", nil, "Keywords the content must include")
	return cmd
}

func scoreCmd() *cobra.Command {
	var platform string
	var keywordList []string

	cmd := &cobra.Command{
		Use:   "score [file]",
		Short: "Score content compliance for a platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read content file: %w", err)
			}
			p, err := lib.Profile(platform)
			if err != nil {
				return err
			}

			scores := metrics.New(log).Score(string(content), p, keywordList)
			printScores(scores)
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "linkedin", "Target platform")
	cmd.Flags().StringSliceVar(&keywordList, "keywords", nil, "Keywords the content should include")
	return cmd
}

// ============ LIBRARY ============

func libraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Rule library commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reload",
		Short: "Re-read the library file and swap the table atomically",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := lib.Reload(); err != nil {
				return err
			}
			fmt.Printf("Library reloaded, version %s\n", lib.Version())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "warnings",
		Short: "Show data-quality warnings from the last load",
		RunE: func(cmd *cobra.Command, args []string) error {
			warnings := lib.Warnings()
			if len(warnings) == 0 {
				fmt.Println("No warnings")
				return nil
			}
			for _, w := range warnings {
				fmt.Println(w)
			}
			return nil
		},
	})
	return cmd
}

// ============ HISTORY ============

func historyCmd() *cobra.Command {
	var platform, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent generation records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			records, err := repo.ListRecords(ctx, platform, models.RecordStatus(status), limit)
			if err != nil {
				return err
			}
			counts, err := repo.CountRecords(ctx)
			if err != nil {
				return err
			}

			for _, r := range records {
				fmt.Printf("#%-5d %-16s %-9s score=%.2f  %s\n",
					r.ID, r.Platform, r.Status, r.OverallScore, r.CreatedAt.Format("2006-01-02 15:04"))
			}
			fmt.Printf("\nTotals: generated=%d flagged=%d failed=%d\n",
				counts[models.RecordStatusGenerated],
				counts[models.RecordStatusFlagged],
				counts[models.RecordStatusFailed])
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "", "Filter by platform")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (generated, flagged, failed)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Max records to show")
	return cmd
}

// ============ OUTPUT HELPERS ============

func printReport(r *models.ValidationReport) {
	fmt.Printf("\n=== Validation Report ===\n")
	fmt.Printf("Valid: %v\n", r.Valid)
	fmt.Printf("Words: %d  Density: %.3f  CTA: %v\n",
		r.Metrics.WordCount, r.Metrics.KeywordDensity, r.Metrics.CTAIncluded)
	for _, issue := range r.Issues {
		fmt.Printf("issue: %s\n", issue)
	}
	for _, s := range r.Suggestions {
		fmt.Printf("suggestion: %s\n", s)
	}
	if r.Metrics.PlatformScores != nil {
		printScores(r.Metrics.PlatformScores)
	}
}

func printScores(s *models.PlatformScores) {
	fmt.Printf("\n=== Platform Scores ===\n")
	rows := []struct {
		name  string
		check models.CheckResult
	}{
		{"voice", s.Voice},
		{"word_count", s.WordCount},
		{"keywords", s.Keyword},
		{"hashtags", s.Hashtag},
		{"structure", s.Structure},
		{"tone", s.Tone},
		{"cta", s.CTA},
		{"special_rules", s.SpecialRules},
		{"unique_features", s.UniqueFeatures},
	}
	for _, row := range rows {
		mark := " "
		if row.check.Passed() {
			mark = "+"
		}
		fmt.Printf("[%s] %-16s %.2f (required %s)\n", mark, row.name, row.check.Score, row.check.Required)
	}
	fmt.Printf("Overall: %.2f (%d/%d passed)\n",
		s.Overall.Score, s.Overall.PassedMetrics, s.Overall.TotalMetrics)
}
