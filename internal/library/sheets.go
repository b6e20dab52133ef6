package library

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/content-agent/pkg/logger"
)

const templatesSheetName = "Templates"

// SheetsConfig holds configuration for the template spreadsheet
type SheetsConfig struct {
	SpreadsheetID      string
	ServiceAccountJSON string
	CredentialsFile    string
}

// SheetsOverlay pulls per-platform prompt template overrides from a Google
// spreadsheet. Content editors maintain templates there without a deploy; the
// overlay is applied on top of the loaded rule table and re-applied on demand.
type SheetsOverlay struct {
	service       *sheets.Service
	spreadsheetID string
	log           *logger.Logger
}

// NewSheetsOverlay creates a sheets client for the template spreadsheet. The
// overlay only ever reads, so the service account needs the read-only scope.
func NewSheetsOverlay(ctx context.Context, cfg SheetsConfig, log *logger.Logger) (*SheetsOverlay, error) {
	credsJSON := []byte(cfg.ServiceAccountJSON)
	if len(credsJSON) == 0 {
		if cfg.CredentialsFile == "" {
			return nil, fmt.Errorf("no Google credentials provided")
		}
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		credsJSON = data
	}

	creds, err := google.CredentialsFromJSON(ctx, credsJSON, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("invalid Google credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsOverlay{
		service:       srv,
		spreadsheetID: cfg.SpreadsheetID,
		log:           log.WithComponent("sheets-overlay"),
	}, nil
}

// Fetch reads the Templates sheet and returns platform -> template overrides.
// Expected layout: column A platform identifier, column B template text, row 1
// is a header. Blank rows and blank templates are skipped.
func (s *SheetsOverlay) Fetch(ctx context.Context) (map[string]string, error) {
	readRange := fmt.Sprintf("%s!A2:B", templatesSheetName)
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read templates sheet: %w", err)
	}

	overrides := make(map[string]string)
	for _, row := range resp.Values {
		if len(row) < 2 {
			continue
		}
		platform := strings.TrimSpace(fmt.Sprintf("%v", row[0]))
		template := strings.TrimSpace(fmt.Sprintf("%v", row[1]))
		if platform == "" || template == "" {
			continue
		}
		overrides[platform] = template
	}

	s.log.Debug().Int("templates", len(overrides)).Msg("Fetched template overrides")
	return overrides, nil
}

// ApplyTemplates overlays prompt templates onto the rule table. Each override
// goes through the same placeholder validation as a file load; a bad template
// is skipped with a warning and the loaded template stays in effect. Overrides
// for unknown platforms are reported, not applied. Profiles already handed out
// are never mutated: accepted overrides go into replacement records and the
// platform map is swapped in one step.
func (l *Library) ApplyTemplates(overrides map[string]string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	platforms := make(map[string]*PlatformProfile, len(l.doc.Platforms))
	for id, p := range l.doc.Platforms {
		platforms[id] = p
	}

	applied := 0
	for platform, template := range overrides {
		p, ok := platforms[platform]
		if !ok {
			l.log.Warn().Str("platform", platform).Msg("Template override for unknown platform, skipped")
			continue
		}

		candidate := *p
		candidate.PromptTemplate = template
		if verr := validateProfile(platform, &candidate, l.strict); verr != nil {
			l.log.Warn().Err(verr).Str("platform", platform).Msg("Template override rejected")
			continue
		}

		platforms[platform] = &candidate
		applied++
	}

	if applied > 0 {
		l.doc.Platforms = platforms
		l.log.Info().Int("applied", applied).Msg("Applied template overrides")
	}
	return applied, nil
}
