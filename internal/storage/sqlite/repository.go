package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/content-agent/internal/models"
)

// Repository implements storage.Repository using SQLite
type Repository struct {
	db *gorm.DB
}

// New creates a new SQLite repository
func New(dsn string) (*Repository, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Repository{db: db}, nil
}

// Migrate runs database migrations
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&models.ContentRecord{},
		&models.PoolSnapshot{},
	)
}

// Close closes the database connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record operations

func (r *Repository) CreateRecord(ctx context.Context, record *models.ContentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *Repository) GetRecordByID(ctx context.Context, id uint) (*models.ContentRecord, error) {
	var record models.ContentRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) ListRecords(ctx context.Context, platform string, status models.RecordStatus, limit int) ([]*models.ContentRecord, error) {
	var records []*models.ContentRecord
	query := r.db.WithContext(ctx).Model(&models.ContentRecord{})

	if platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit <= 0 {
		limit = 20
	}

	if err := query.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) CountRecords(ctx context.Context) (map[models.RecordStatus]int64, error) {
	type row struct {
		Status models.RecordStatus
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.ContentRecord{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.RecordStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}

// Pool snapshot operations

func (r *Repository) SavePoolSnapshot(ctx context.Context, snap *models.PoolSnapshot) error {
	return r.db.WithContext(ctx).Create(snap).Error
}

func (r *Repository) LatestPoolSnapshot(ctx context.Context) (*models.PoolSnapshot, error) {
	var snap models.PoolSnapshot
	err := r.db.WithContext(ctx).Order("refreshed_at DESC").First(&snap).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
