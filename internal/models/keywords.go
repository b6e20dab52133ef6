package models

import (
	"time"
)

// RefreshFrequency controls how often the keyword pool should be refreshed
type RefreshFrequency string

const (
	RefreshDaily     RefreshFrequency = "daily"
	RefreshWeekly    RefreshFrequency = "weekly"
	RefreshMonthly   RefreshFrequency = "monthly"
	RefreshQuarterly RefreshFrequency = "quarterly"
)

// Days returns the refresh interval in days, or 0 for unknown frequencies
// (unknown means never refresh).
func (f RefreshFrequency) Days() int {
	switch f {
	case RefreshDaily:
		return 1
	case RefreshWeekly:
		return 7
	case RefreshMonthly:
		return 30
	case RefreshQuarterly:
		return 90
	default:
		return 0
	}
}

// KeywordPool is the global primary/secondary keyword phrase pool read by the
// keyword selector on every request and mutated only by an explicit update.
type KeywordPool struct {
	Primary     []string         `json:"primary_keywords"`
	Secondary   []string         `json:"secondary_keywords"`
	Frequency   RefreshFrequency `json:"refresh_frequency"`
	LastRefresh time.Time        `json:"last_refresh"`
}

// NeedsRefresh reports whether the pool is stale per its refresh policy.
func (p *KeywordPool) NeedsRefresh(now time.Time) bool {
	days := p.Frequency.Days()
	if days == 0 {
		return false
	}
	return now.Sub(p.LastRefresh) >= time.Duration(days)*24*time.Hour
}

// PoolSnapshot is a persisted keyword pool state, written whenever the pool
// is updated so refreshes are auditable.
type PoolSnapshot struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Primary     StringSlice `gorm:"type:json" json:"primary"`
	Secondary   StringSlice `gorm:"type:json" json:"secondary"`
	Frequency   string      `json:"frequency"`
	RefreshedAt time.Time   `gorm:"index" json:"refreshed_at"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
}
