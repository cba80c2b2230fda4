package service

import (
	"context"

	"github.com/google/uuid"

	"padron/internal/domain"
	"padron/internal/padron"
	"padron/internal/port"
)

// patientLookup resolves DNIs through the patient repository and counts the
// batches it serves.
type patientLookup struct {
	repo    port.PatientRepository
	batches int
}

func (l *patientLookup) FindActiveByIdentifiers(ctx context.Context, identifiers []string) (map[string]uuid.UUID, error) {
	l.batches++
	return l.repo.FindActiveByDNIs(ctx, identifiers)
}

// patientWriter persists records as patients.
type patientWriter struct {
	repo port.PatientRepository
}

func (w patientWriter) CreateRecord(ctx context.Context, rec padron.Record) (uuid.UUID, error) {
	p := toPatient(rec)
	if err := w.repo.Create(ctx, p); err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

func (w patientWriter) UpdateRecord(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return w.repo.UpdateFields(ctx, id, fields)
}

func toPatient(rec padron.Record) *domain.Patient {
	return &domain.Patient{
		TipoDoc:          rec.TipoDoc,
		DNI:              rec.DNI,
		NroDoc:           rec.NroDoc,
		CUIL:             rec.CUIL,
		Apellido:         rec.Apellido,
		Nombre:           rec.Nombre,
		ApellidoYNombre:  rec.ApellidoYNombre,
		FechaNacimiento:  rec.FechaNacimiento,
		Sexo:             rec.Sexo,
		Telefono:         rec.Telefono,
		Celular:          rec.Celular,
		Email:            rec.Email,
		Domicilio:        rec.Domicilio,
		Localidad:        rec.Localidad,
		Provincia:        rec.Provincia,
		CodigoPostal:     rec.CodigoPostal,
		ObraSocialID:     rec.ObraSocialID,
		NroAfiliado:      rec.NroAfiliado,
		Plan:             rec.Plan,
		Parentesco:       rec.Parentesco,
		ConsultasMaximas: rec.ConsultasMaximas,
		FechaAlta:        rec.FechaAlta,
		Observaciones:    rec.Observaciones,
	}
}
