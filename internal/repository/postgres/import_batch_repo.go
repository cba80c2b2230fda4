package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"padron/internal/domain"
	"padron/internal/port"
)

type importBatchRepo struct {
	db *sqlx.DB
}

// NewImportBatchRepo creates a new PostgreSQL-backed ImportBatchRepository.
func NewImportBatchRepo(db *sqlx.DB) port.ImportBatchRepository {
	return &importBatchRepo{db: db}
}

func (r *importBatchRepo) Create(ctx context.Context, batch *domain.ImportBatch) error {
	batch.ID = uuid.New()
	batch.StartedAt = time.Now().UTC()
	batch.Status = domain.ImportBatchRunning
	if batch.Errors == nil {
		batch.Errors = domain.BatchErrors{}
	}

	query := `INSERT INTO import_batches (id, session_id, file_name, storage_key, obra_social_id,
		mode, status, total, success_count, error_count, errors, created_by, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		batch.ID, batch.SessionID, batch.FileName, batch.StorageKey, batch.ObraSocialID,
		batch.Mode, batch.Status, batch.Total, batch.SuccessCount, batch.ErrorCount,
		batch.Errors, batch.CreatedBy, batch.StartedAt)
	if err != nil {
		return fmt.Errorf("importBatchRepo.Create: %w", err)
	}
	return nil
}

func (r *importBatchRepo) Complete(ctx context.Context, batch *domain.ImportBatch) error {
	now := time.Now().UTC()
	batch.CompletedAt = &now
	batch.Status = domain.ImportBatchCompleted
	if batch.Errors == nil {
		batch.Errors = domain.BatchErrors{}
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE import_batches SET status = $1, success_count = $2, error_count = $3,
		 errors = $4, completed_at = $5 WHERE id = $6`,
		batch.Status, batch.SuccessCount, batch.ErrorCount, batch.Errors, now, batch.ID)
	if err != nil {
		return fmt.Errorf("importBatchRepo.Complete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("importBatchRepo.Complete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *importBatchRepo) List(ctx context.Context, offset, limit int) ([]domain.ImportBatch, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM import_batches"); err != nil {
		return nil, 0, fmt.Errorf("importBatchRepo.List count: %w", err)
	}

	var batches []domain.ImportBatch
	err := r.db.SelectContext(ctx, &batches,
		`SELECT id, session_id, file_name, storage_key, obra_social_id, mode, status, total,
		 success_count, error_count, errors, created_by, started_at, completed_at
		 FROM import_batches ORDER BY started_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("importBatchRepo.List: %w", err)
	}
	return batches, total, nil
}
