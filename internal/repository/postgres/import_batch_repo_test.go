package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padron/internal/domain"
	"padron/internal/repository/postgres"
)

func TestImportBatchRepo_CreateAndComplete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewImportBatchRepo(db)

	mock.ExpectExec(`INSERT INTO import_batches`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "padron.xlsx", "rosters/x/padron.xlsx", int64(2),
			"all", domain.ImportBatchRunning, 3, 0, 0, []byte("[]"), "ana", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	batch := &domain.ImportBatch{
		SessionID: uuid.New(), FileName: "padron.xlsx", StorageKey: "rosters/x/padron.xlsx",
		ObraSocialID: 2, Mode: "all", Total: 3, CreatedBy: "ana",
	}
	require.NoError(t, repo.Create(context.Background(), batch))
	assert.Equal(t, domain.ImportBatchRunning, batch.Status)

	mock.ExpectExec(`UPDATE import_batches SET status`).
		WithArgs(domain.ImportBatchCompleted, 2, 1, []byte(`[{"row":2,"error":"boom"}]`), sqlmock.AnyArg(), batch.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	batch.SuccessCount = 2
	batch.ErrorCount = 1
	batch.Errors = domain.BatchErrors{{Row: 2, Error: "boom"}}
	require.NoError(t, repo.Complete(context.Background(), batch))
	assert.NotNil(t, batch.CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportBatchRepo_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewImportBatchRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM import_batches`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM import_batches ORDER BY started_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "session_id", "file_name", "storage_key", "obra_social_id", "mode", "status", "total",
			"success_count", "error_count", "errors", "created_by", "started_at", "completed_at",
		}).AddRow(uuid.New().String(), uuid.New().String(), "p.csv", "", 1, "new_only", "completed", 2,
			1, 1, []byte(`[{"row":1,"error":"row 1: missing required fields: dni"}]`), "", now, now))

	batches, total, err := repo.List(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, batches, 1)
	require.Len(t, batches[0].Errors, 1)
	assert.Equal(t, 1, batches[0].Errors[0].Row)
	assert.NoError(t, mock.ExpectationsWereMet())
}
