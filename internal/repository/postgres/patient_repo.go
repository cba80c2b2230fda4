package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"padron/internal/domain"
	"padron/internal/port"
)

// patientUpdatable lists the columns UpdateFields may write.
var patientUpdatable = map[string]bool{
	"tipo_doc":          true,
	"dni":               true,
	"nro_doc":           true,
	"cuil":              true,
	"apellido":          true,
	"nombre":            true,
	"apellido_y_nombre": true,
	"fecha_nacimiento":  true,
	"sexo":              true,
	"telefono":          true,
	"celular":           true,
	"email":             true,
	"domicilio":         true,
	"localidad":         true,
	"provincia":         true,
	"codigo_postal":     true,
	"obra_social_id":    true,
	"nro_afiliado":      true,
	"plan":              true,
	"parentesco":        true,
	"consultas_maximas": true,
	"fecha_alta":        true,
	"observaciones":     true,
}

type patientRepo struct {
	db *sqlx.DB
}

// NewPatientRepo creates a new PostgreSQL-backed PatientRepository.
func NewPatientRepo(db *sqlx.DB) port.PatientRepository {
	return &patientRepo{db: db}
}

func (r *patientRepo) FindActiveByDNIs(ctx context.Context, dnis []string) (map[string]uuid.UUID, error) {
	found := make(map[string]uuid.UUID, len(dnis))
	if len(dnis) == 0 {
		return found, nil
	}

	query, args, err := sqlx.In(
		"SELECT id, dni FROM patients WHERE deleted_at IS NULL AND dni IN (?)", dnis)
	if err != nil {
		return nil, fmt.Errorf("patientRepo.FindActiveByDNIs build: %w", err)
	}

	var rows []struct {
		ID  uuid.UUID `db:"id"`
		DNI string    `db:"dni"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("patientRepo.FindActiveByDNIs: %w", err)
	}
	for _, row := range rows {
		found[row.DNI] = row.ID
	}
	return found, nil
}

func (r *patientRepo) Create(ctx context.Context, p *domain.Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO patients (id, tipo_doc, dni, nro_doc, cuil, apellido, nombre,
		apellido_y_nombre, fecha_nacimiento, sexo, telefono, celular, email, domicilio,
		localidad, provincia, codigo_postal, obra_social_id, nro_afiliado, plan, parentesco,
		consultas_maximas, fecha_alta, observaciones, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		$17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.TipoDoc, p.DNI, p.NroDoc, p.CUIL, p.Apellido, p.Nombre,
		p.ApellidoYNombre, nullIfEmpty(p.FechaNacimiento), p.Sexo, p.Telefono, p.Celular,
		p.Email, p.Domicilio, p.Localidad, p.Provincia, p.CodigoPostal,
		nullIfZero(p.ObraSocialID), p.NroAfiliado, p.Plan, p.Parentesco,
		p.ConsultasMaximas, nullIfEmpty(p.FechaAlta), p.Observaciones, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateDNI
		}
		return fmt.Errorf("patientRepo.Create: %w", err)
	}
	return nil
}

func (r *patientRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !patientUpdatable[col] {
			return fmt.Errorf("patientRepo.UpdateFields: column %q is not updatable", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+2)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, fields[col])
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(cols)+1))
	args = append(args, time.Now().UTC(), id)

	query := fmt.Sprintf("UPDATE patients SET %s WHERE id = $%d AND deleted_at IS NULL",
		strings.Join(sets, ", "), len(cols)+2)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateDNI
		}
		return fmt.Errorf("patientRepo.UpdateFields: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("patientRepo.UpdateFields rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
