package port

import (
	"context"

	"github.com/google/uuid"

	"padron/internal/domain"
)

// PatientRepository defines the contract for patient persistence.
// Lookups only consider patients that have not been soft-deleted.
type PatientRepository interface {
	FindActiveByDNIs(ctx context.Context, dnis []string) (map[string]uuid.UUID, error)
	Create(ctx context.Context, patient *domain.Patient) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

// ObraSocialRepository defines the contract for the obras sociales catalogue.
type ObraSocialRepository interface {
	ListActive(ctx context.Context) ([]domain.ObraSocial, error)
	GetByID(ctx context.Context, id int64) (*domain.ObraSocial, error)
}

// ImportBatchRepository defines the contract for import history.
type ImportBatchRepository interface {
	Create(ctx context.Context, batch *domain.ImportBatch) error
	Complete(ctx context.Context, batch *domain.ImportBatch) error
	List(ctx context.Context, offset, limit int) ([]domain.ImportBatch, int, error)
}
