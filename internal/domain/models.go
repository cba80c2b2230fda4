package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Patient is a clinic patient as stored in the patients table. Dates are kept
// as YYYY-MM-DD strings; an empty string is stored as NULL.
type Patient struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	TipoDoc          string     `db:"tipo_doc" json:"tipo_doc"`
	DNI              string     `db:"dni" json:"dni"`
	NroDoc           string     `db:"nro_doc" json:"nro_doc"`
	CUIL             string     `db:"cuil" json:"cuil"`
	Apellido         string     `db:"apellido" json:"apellido"`
	Nombre           string     `db:"nombre" json:"nombre"`
	ApellidoYNombre  string     `db:"apellido_y_nombre" json:"apellido_y_nombre"`
	FechaNacimiento  string     `db:"fecha_nacimiento" json:"fecha_nacimiento"`
	Sexo             string     `db:"sexo" json:"sexo"`
	Telefono         string     `db:"telefono" json:"telefono"`
	Celular          string     `db:"celular" json:"celular"`
	Email            string     `db:"email" json:"email"`
	Domicilio        string     `db:"domicilio" json:"domicilio"`
	Localidad        string     `db:"localidad" json:"localidad"`
	Provincia        string     `db:"provincia" json:"provincia"`
	CodigoPostal     string     `db:"codigo_postal" json:"codigo_postal"`
	ObraSocialID     int64      `db:"obra_social_id" json:"obra_social_id"`
	NroAfiliado      string     `db:"nro_afiliado" json:"nro_afiliado"`
	Plan             string     `db:"plan" json:"plan"`
	Parentesco       string     `db:"parentesco" json:"parentesco"`
	ConsultasMaximas int        `db:"consultas_maximas" json:"consultas_maximas"`
	FechaAlta        string     `db:"fecha_alta" json:"fecha_alta"`
	Observaciones    string     `db:"observaciones" json:"observaciones"`
	DeletedAt        *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// ObraSocial is a health-insurance provider a roster belongs to.
type ObraSocial struct {
	ID        int64     `db:"id" json:"id"`
	Codigo    string    `db:"codigo" json:"codigo"`
	Nombre    string    `db:"nombre" json:"nombre"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ImportBatch records one commit attempt of a roster import.
type ImportBatch struct {
	ID           uuid.UUID         `db:"id" json:"id"`
	SessionID    uuid.UUID         `db:"session_id" json:"session_id"`
	FileName     string            `db:"file_name" json:"file_name"`
	StorageKey   string            `db:"storage_key" json:"storage_key"`
	ObraSocialID int64             `db:"obra_social_id" json:"obra_social_id"`
	Mode         string            `db:"mode" json:"mode"`
	Status       ImportBatchStatus `db:"status" json:"status"`
	Total        int               `db:"total" json:"total"`
	SuccessCount int               `db:"success_count" json:"success_count"`
	ErrorCount   int               `db:"error_count" json:"error_count"`
	Errors       BatchErrors       `db:"errors" json:"errors"`
	CreatedBy    string            `db:"created_by" json:"created_by"`
	StartedAt    time.Time         `db:"started_at" json:"started_at"`
	CompletedAt  *time.Time        `db:"completed_at" json:"completed_at"`
}

// BatchError is a row that failed during an import batch.
type BatchError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// BatchErrors is stored as a JSONB array.
type BatchErrors []BatchError

// Value implements driver.Valuer.
func (e BatchErrors) Value() (driver.Value, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner.
func (e *BatchErrors) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*e = BatchErrors{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("BatchErrors.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(data, e)
}
