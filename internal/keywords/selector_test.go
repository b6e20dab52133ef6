package keywords

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content-agent/internal/library"
	"github.com/content-agent/pkg/logger"
)

func testSelector(t *testing.T, now time.Time) *Selector {
	t.Helper()
	s := New(library.Default(logger.Default()), logger.Default())
	s.now = func() time.Time { return now }
	return s
}

func TestSelect(t *testing.T) {
	day := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	t.Run("returns requested count", func(t *testing.T) {
		s := testSelector(t, day)
		sel, err := s.Select("linkedin", "", 3)
		require.NoError(t, err)
		assert.Len(t, sel.Primary, 3)
		assert.NotEmpty(t, sel.Secondary)
	})

	t.Run("defaults to platform minimum", func(t *testing.T) {
		s := testSelector(t, day)
		sel, err := s.Select("linkedin", "", 0)
		require.NoError(t, err)
		assert.Len(t, sel.Primary, 3)
	})

	t.Run("same day same selection", func(t *testing.T) {
		s := testSelector(t, day)
		first, err := s.Select("linkedin", "technical", 4)
		require.NoError(t, err)
		second, err := s.Select("linkedin", "technical", 4)
		require.NoError(t, err)
		assert.Equal(t, first.Primary, second.Primary)
	})

	t.Run("selection rotates across days", func(t *testing.T) {
		a, err := testSelector(t, day).Select("linkedin", "", 5)
		require.NoError(t, err)
		b, err := testSelector(t, day.AddDate(0, 0, 1)).Select("linkedin", "", 5)
		require.NoError(t, err)
		assert.NotEqual(t, a.Primary, b.Primary)
	})

	t.Run("platforms rotate independently", func(t *testing.T) {
		s := testSelector(t, day)
		a, err := s.Select("linkedin", "", 5)
		require.NoError(t, err)
		b, err := s.Select("medium", "", 5)
		require.NoError(t, err)
		assert.NotEqual(t, a.Primary, b.Primary)
	})

	t.Run("no duplicates in selection", func(t *testing.T) {
		s := testSelector(t, day)
		sel, err := s.Select("linkedin", "technical", 10)
		require.NoError(t, err)

		seen := make(map[string]bool)
		for _, k := range sel.Primary {
			assert.False(t, seen[k], "duplicate keyword %q", k)
			seen[k] = true
		}
	})

	t.Run("secondary rotates with the day and truncates to count", func(t *testing.T) {
		s := testSelector(t, day)
		sel, err := s.Select("linkedin", "", 2)
		require.NoError(t, err)
		assert.Len(t, sel.Secondary, 2)
		for _, k := range sel.Secondary {
			assert.Contains(t, s.Pool().Secondary, k)
		}

		a, err := testSelector(t, day).Select("linkedin", "", 100)
		require.NoError(t, err)
		b, err := testSelector(t, day.AddDate(0, 0, 1)).Select("linkedin", "", 100)
		require.NoError(t, err)
		assert.ElementsMatch(t, a.Secondary, b.Secondary)
		assert.NotEqual(t, a.Secondary, b.Secondary)
	})

	t.Run("oversized count returns whole pool", func(t *testing.T) {
		s := testSelector(t, day)
		sel, err := s.Select("linkedin", "", 1000)
		require.NoError(t, err)
		assert.Len(t, sel.Primary, sel.PoolSize)
	})

	t.Run("content type expands the pool", func(t *testing.T) {
		s := testSelector(t, day)
		plain, err := s.Select("twitter", "", 1)
		require.NoError(t, err)
		technical, err := s.Select("twitter", "technical", 1)
		require.NoError(t, err)
		assert.Equal(t, plain.PoolSize+4, technical.PoolSize)
	})

	t.Run("unknown platform", func(t *testing.T) {
		s := testSelector(t, day)
		_, err := s.Select("myspace", "", 3)
		require.Error(t, err)

		var upErr *library.UnknownPlatformError
		assert.ErrorAs(t, err, &upErr)
	})
}

func TestRefresh(t *testing.T) {
	day := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	t.Run("stale pool needs refresh", func(t *testing.T) {
		// The built-in pool was last refreshed 2025-06-01, monthly policy.
		s := testSelector(t, day)
		assert.True(t, s.NeedsRefresh())
	})

	t.Run("refresh resets staleness", func(t *testing.T) {
		s := testSelector(t, day)
		require.NoError(t, s.Refresh([]string{"fresh keyword"}, nil))
		assert.False(t, s.NeedsRefresh())
		assert.Equal(t, []string{"fresh keyword"}, s.Pool().Primary)
	})

	t.Run("refresh requires primary keywords", func(t *testing.T) {
		s := testSelector(t, day)
		assert.Error(t, s.Refresh(nil, []string{"secondary"}))
	})
}
