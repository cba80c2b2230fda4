package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"padron/internal/domain"
	"padron/internal/port"
)

type obraSocialRepo struct {
	db *sqlx.DB
}

// NewObraSocialRepo creates a new PostgreSQL-backed ObraSocialRepository.
func NewObraSocialRepo(db *sqlx.DB) port.ObraSocialRepository {
	return &obraSocialRepo{db: db}
}

func (r *obraSocialRepo) ListActive(ctx context.Context) ([]domain.ObraSocial, error) {
	var obras []domain.ObraSocial
	err := r.db.SelectContext(ctx, &obras,
		"SELECT id, codigo, nombre, is_active, created_at FROM obras_sociales WHERE is_active = TRUE ORDER BY nombre")
	if err != nil {
		return nil, fmt.Errorf("obraSocialRepo.ListActive: %w", err)
	}
	return obras, nil
}

func (r *obraSocialRepo) GetByID(ctx context.Context, id int64) (*domain.ObraSocial, error) {
	var obra domain.ObraSocial
	err := r.db.GetContext(ctx, &obra,
		"SELECT id, codigo, nombre, is_active, created_at FROM obras_sociales WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrObraSocialNotFound
		}
		return nil, fmt.Errorf("obraSocialRepo.GetByID: %w", err)
	}
	return &obra, nil
}
