package keywords

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/content-agent/internal/library"
	"github.com/content-agent/internal/models"
	"github.com/content-agent/pkg/logger"
)

// Content-type keyword additions, appended after the platform additions.
var contentTypeAdditions = map[string][]string{
	"technical":   {"implementation", "integration", "optimization", "automation"},
	"promotional": {"solution", "benefits", "results", "success"},
}

// Selection is the keyword set picked for one generation request
type Selection struct {
	Primary   []string `json:"primary_keywords"`
	Secondary []string `json:"secondary_keywords"`
	PoolSize  int      `json:"pool_size"`
}

// Selector picks keywords from the global pool for a platform and content
// type. Selection rotates deterministically by calendar day so the same
// request repeated within a day yields the same keywords, and different
// platforms rotate independently.
type Selector struct {
	lib *library.Library
	log *logger.Logger
	now func() time.Time
}

// New creates a keyword selector backed by the rule library
func New(lib *library.Library, log *logger.Logger) *Selector {
	return &Selector{
		lib: lib,
		log: log.WithComponent("keywords"),
		now: time.Now,
	}
}

// Select picks count primary and count secondary keywords for the platform.
// The primary candidate pool is the global primary pool, then the platform's
// keyword additions, then the content-type additions, deduplicated with first
// occurrence winning. Both lists rotate on the same day seed; a pool smaller
// than count returns the whole pool in rotated order.
func (s *Selector) Select(platform, contentType string, count int) (*Selection, error) {
	profile, err := s.lib.Profile(platform)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = profile.Keywords.Min
	}

	pool := s.lib.Pool()
	seed := s.seed(platform)

	candidates := make([]string, 0, len(pool.Primary)+len(profile.KeywordAdditions)+4)
	candidates = append(candidates, pool.Primary...)
	candidates = append(candidates, profile.KeywordAdditions...)
	candidates = append(candidates, contentTypeAdditions[contentType]...)
	candidates = dedupe(candidates)

	primary := rotate(candidates, seed)
	if count < len(primary) {
		primary = primary[:count]
	}
	secondary := rotate(pool.Secondary, seed)
	if count < len(secondary) {
		secondary = secondary[:count]
	}

	sel := &Selection{
		Primary:   primary,
		Secondary: secondary,
		PoolSize:  len(candidates),
	}

	s.log.Debug().
		Str("platform", platform).
		Str("content_type", contentType).
		Int("selected", len(sel.Primary)).
		Int("pool", sel.PoolSize).
		Msg("Selected keywords")
	return sel, nil
}

// Pool exposes the current keyword pool state
func (s *Selector) Pool() models.KeywordPool {
	return s.lib.Pool()
}

// NeedsRefresh reports whether the pool is stale per its refresh policy
func (s *Selector) NeedsRefresh() bool {
	pool := s.lib.Pool()
	return pool.NeedsRefresh(s.now())
}

// Refresh replaces the keyword pool and stamps the refresh date
func (s *Selector) Refresh(primary, secondary []string) error {
	if err := s.lib.UpdatePool(primary, secondary, s.now()); err != nil {
		return fmt.Errorf("failed to refresh keyword pool: %w", err)
	}
	return nil
}

// seed derives the rotation seed from the calendar day and the platform, so
// rotation advances daily and platforms do not move in lockstep.
func (s *Selector) seed(platform string) int64 {
	day := s.now().Format("20060102")
	h := fnv.New32a()
	h.Write([]byte(platform))

	var n int64
	for _, c := range day {
		n = n*10 + int64(c-'0')
	}
	return n*31 + int64(h.Sum32())
}

func rotate(in []string, seed int64) []string {
	out := make([]string, len(in))
	for i, j := range rand.New(rand.NewSource(seed)).Perm(len(in)) {
		out[i] = in[j]
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, k := range in {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
