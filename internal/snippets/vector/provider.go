package vector

import (
	"context"
	"fmt"

	"github.com/abdul-hamid-achik/veclite"

	"github.com/content-agent/internal/config"
	"github.com/content-agent/internal/snippets"
	"github.com/content-agent/pkg/logger"
)

const notesCollection = "notes"

// Provider retrieves background snippets from a local vector store of
// curated notes (case studies, product facts, past high-performing content).
type Provider struct {
	vecdb     *veclite.DB
	coll      *veclite.Collection
	threshold float32
	log       *logger.Logger
}

// New opens the vector store and ensures the notes collection exists
func New(cfg config.VectorConfig, log *logger.Logger) (*Provider, error) {
	vecliteCfg, err := veclite.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load veclite config: %w", err)
	}
	embedder, err := veclite.NewEmbedderFromConfig(vecliteCfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	vecdb, err := veclite.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open veclite db: %w", err)
	}

	coll, err := vecdb.CreateCollection(notesCollection,
		veclite.WithDimension(embedder.Dimension()),
		veclite.WithDistanceType(veclite.DistanceCosine),
		veclite.WithHNSW(16, 200),
		veclite.WithTextIndex("text", "label"),
		veclite.WithEmbedder(embedder),
	)
	if err != nil {
		coll, err = vecdb.GetCollection(notesCollection)
		if err != nil {
			vecdb.Close()
			return nil, fmt.Errorf("get collection: %w", err)
		}
	}

	return &Provider{
		vecdb:     vecdb,
		coll:      coll,
		threshold: cfg.Threshold,
		log:       log.WithProvider("vector", notesCollection),
	}, nil
}

// Close closes the underlying store
func (p *Provider) Close() error {
	if p.vecdb != nil {
		return p.vecdb.Close()
	}
	return nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "notes"
}

// Type returns "vector"
func (p *Provider) Type() string {
	return "vector"
}

// AddNote inserts a curated note into the store
func (p *Provider) AddNote(ctx context.Context, text, label string) (uint64, error) {
	id, err := p.coll.InsertText(text, map[string]any{
		"text":  text,
		"label": label,
	})
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}
	if err := p.vecdb.Sync(); err != nil {
		return 0, fmt.Errorf("sync store: %w", err)
	}
	return id, nil
}

// Retrieve returns the notes most similar to the query
func (p *Provider) Retrieve(ctx context.Context, query string, limit int) ([]snippets.Snippet, error) {
	results, err := p.coll.SearchText(query,
		veclite.TopK(limit),
		veclite.Threshold(p.threshold),
	)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}

	out := make([]snippets.Snippet, 0, len(results))
	for _, r := range results {
		s := snippets.Snippet{
			SourceLabel: "notes",
			Score:       float64(r.Score),
		}
		if r.Record.Payload != nil {
			if text, ok := r.Record.Payload["text"].(string); ok {
				s.Text = text
			}
			if label, ok := r.Record.Payload["label"].(string); ok && label != "" {
				s.SourceLabel = label
			}
		}
		if s.Text == "" && r.Record.Content != "" {
			s.Text = r.Record.Content
		}
		if s.Text == "" {
			continue
		}
		out = append(out, s)
	}

	p.log.Debug().Int("count", len(out)).Msg("Retrieved vector snippets")
	return out, nil
}

// HealthCheck verifies the collection is readable
func (p *Provider) HealthCheck(ctx context.Context) error {
	if p.coll == nil {
		return fmt.Errorf("notes collection not open")
	}
	p.coll.Count()
	return nil
}

var _ snippets.Provider = (*Provider)(nil)
