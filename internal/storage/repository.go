package storage

import (
	"context"

	"github.com/content-agent/internal/models"
)

// Repository persists generated content records and keyword pool snapshots
type Repository interface {
	// Migrate creates or updates the schema
	Migrate() error

	// Close releases the underlying store
	Close() error

	// CreateRecord persists a generation record
	CreateRecord(ctx context.Context, record *models.ContentRecord) error

	// GetRecordByID retrieves a record by its ID
	GetRecordByID(ctx context.Context, id uint) (*models.ContentRecord, error)

	// ListRecords returns the most recent records, optionally filtered by
	// platform and status. Zero limit means a default page.
	ListRecords(ctx context.Context, platform string, status models.RecordStatus, limit int) ([]*models.ContentRecord, error)

	// CountRecords returns per-status record counts
	CountRecords(ctx context.Context) (map[models.RecordStatus]int64, error)

	// SavePoolSnapshot records a keyword pool refresh
	SavePoolSnapshot(ctx context.Context, snap *models.PoolSnapshot) error

	// LatestPoolSnapshot returns the most recent pool snapshot, nil when
	// none exists
	LatestPoolSnapshot(ctx context.Context) (*models.PoolSnapshot, error)
}
