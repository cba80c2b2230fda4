package padron

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle stage of an import session.
type State string

const (
	// StateMapping: roster read, mapping editable, nothing converted yet.
	StateMapping State = "mapping"
	// StateConverted: records normalized and reconciled, commit allowed.
	StateConverted State = "converted"
	StateRunning   State = "running"
	StateCompleted State = "completed"
)

// Idle reports whether no commit has started.
func (s State) Idle() bool { return s == StateMapping || s == StateConverted }

// Session is one operator's walk through the pipeline for a single roster.
type Session struct {
	ID                uuid.UUID             `json:"id"`
	FileName          string                `json:"file_name"`
	TemplateName      string                `json:"template_name,omitempty"`
	StorageKey        string                `json:"storage_key,omitempty"`
	UploadedBy        string                `json:"uploaded_by,omitempty"`
	DestinationFields []string              `json:"destination_fields"`
	SourceColumns     []string              `json:"source_columns"`
	Rows              []Row                 `json:"rows"`
	Mapping           FieldMapping          `json:"mapping"`
	State             State                 `json:"state"`
	ObraSocialID      int64                 `json:"obra_social_id,omitempty"`
	Records           []Record              `json:"records,omitempty"`
	Result            *ReconciliationResult `json:"result,omitempty"`
	Mode              Mode                  `json:"mode,omitempty"`
	Progress          Progress              `json:"progress"`
	Outcome           *ImportOutcome        `json:"outcome,omitempty"`
	BatchID           *uuid.UUID            `json:"batch_id,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// NewSession starts a session from a discovery, with the auto-mapping applied.
func NewSession(fileName string, d *Discovery, now time.Time) *Session {
	return &Session{
		ID:                uuid.New(),
		FileName:          fileName,
		DestinationFields: d.DestinationFields,
		SourceColumns:     d.SourceColumns,
		Rows:              d.SourceRows,
		Mapping:           AutoMap(d.DestinationFields, d.SourceColumns),
		State:             StateMapping,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Preview returns up to n leading rows.
func (s *Session) Preview(n int) []Row {
	if n < 0 || n > len(s.Rows) {
		n = len(s.Rows)
	}
	return s.Rows[:n]
}

// HasField reports whether field is in the destination schema.
func (s *Session) HasField(field string) bool {
	for _, f := range s.DestinationFields {
		if f == field {
			return true
		}
	}
	return false
}

// HasColumn reports whether col is a source column.
func (s *Session) HasColumn(col string) bool {
	for _, c := range s.SourceColumns {
		if c == col {
			return true
		}
	}
	return false
}

// ResetConversion drops normalized records so the session can be converted
// again after a mapping change.
func (s *Session) ResetConversion() {
	s.Records = nil
	s.Result = nil
	s.ObraSocialID = 0
	s.State = StateMapping
}
