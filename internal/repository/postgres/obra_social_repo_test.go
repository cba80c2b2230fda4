package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padron/internal/domain"
	"padron/internal/repository/postgres"
)

func TestObraSocialRepo_ListActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewObraSocialRepo(db)

	mock.ExpectQuery(`FROM obras_sociales WHERE is_active = TRUE ORDER BY nombre`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "codigo", "nombre", "is_active", "created_at"}).
			AddRow(1, "OSDE", "OSDE", true, time.Now()).
			AddRow(2, "PAMI", "PAMI", true, time.Now()))

	obras, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, obras, 2)
	assert.Equal(t, "PAMI", obras[1].Nombre)
}

func TestObraSocialRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewObraSocialRepo(db)

	mock.ExpectQuery(`FROM obras_sociales WHERE id = \$1`).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrObraSocialNotFound)
}
