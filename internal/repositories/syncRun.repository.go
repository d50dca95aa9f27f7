package repositories

import (
	"context"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

type SyncRunRepository interface {
	Create(ctx context.Context, tx *gorm.DB, run *SyncRun) error
	Latest(ctx context.Context, tx *gorm.DB, limit int) ([]*SyncRun, error)
}

type syncRunRepository struct {
	log logger.Logger
}

func NewSyncRunRepository() SyncRunRepository {
	return &syncRunRepository{
		log: logger.New("syncRunRepository"),
	}
}

func (r *syncRunRepository) Create(ctx context.Context, tx *gorm.DB, run *SyncRun) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Create(run).Error; err != nil {
		return log.Err("failed to record sync run", persistence(err))
	}

	return nil
}

func (r *syncRunRepository) Latest(ctx context.Context, tx *gorm.DB, limit int) ([]*SyncRun, error) {
	log := r.log.TraceFromContext(ctx).Function("Latest")

	if limit <= 0 {
		limit = 20
	}

	var runs []*SyncRun
	if err := tx.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, log.Err("failed to list sync runs", persistence(err))
	}

	return runs, nil
}
