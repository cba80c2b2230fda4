package padron

import (
	"context"

	"github.com/google/uuid"
)

// LookupBatchSize is the largest identifier batch sent to an IdentifierLookup.
const LookupBatchSize = 100

// IdentifierLookup resolves DNIs to active patient IDs. Identifiers without
// an active patient are absent from the result.
type IdentifierLookup interface {
	FindActiveByIdentifiers(ctx context.Context, identifiers []string) (map[string]uuid.UUID, error)
}

// ExistingRecord pairs a record with the patient it matches.
type ExistingRecord struct {
	Record     Record    `json:"record"`
	ExistingID uuid.UUID `json:"existing_id"`
}

// ReconciliationResult partitions normalized records by whether their DNI
// already belongs to an active patient. Records without a DNI are kept apart
// in Unidentified.
type ReconciliationResult struct {
	NewRecords          []Record             `json:"new_records"`
	ExistingRecords     []ExistingRecord     `json:"existing_records"`
	Unidentified        []Record             `json:"unidentified"`
	ExistingIdentifiers map[string]uuid.UUID `json:"existing_identifiers"`
}

// Summary counts each partition.
type Summary struct {
	New          int `json:"new"`
	Existing     int `json:"existing"`
	Unidentified int `json:"unidentified"`
}

// Summary returns the partition sizes.
func (r *ReconciliationResult) Summary() Summary {
	if r == nil {
		return Summary{}
	}
	return Summary{New: len(r.NewRecords), Existing: len(r.ExistingRecords), Unidentified: len(r.Unidentified)}
}

// Reconcile looks up every distinct DNI in sequential batches of at most
// batchSize (LookupBatchSize when batchSize is out of range) and partitions
// records. A failing batch aborts the whole run with a *LookupError.
func Reconcile(ctx context.Context, records []Record, lookup IdentifierLookup, batchSize int) (*ReconciliationResult, error) {
	if batchSize <= 0 || batchSize > LookupBatchSize {
		batchSize = LookupBatchSize
	}

	var identifiers []string
	seen := make(map[string]bool)
	for _, rec := range records {
		if rec.DNI == "" || seen[rec.DNI] {
			continue
		}
		seen[rec.DNI] = true
		identifiers = append(identifiers, rec.DNI)
	}

	existing := make(map[string]uuid.UUID)
	for start, batch := 0, 1; start < len(identifiers); start, batch = start+batchSize, batch+1 {
		end := start + batchSize
		if end > len(identifiers) {
			end = len(identifiers)
		}
		found, err := lookup.FindActiveByIdentifiers(ctx, identifiers[start:end])
		if err != nil {
			return nil, &LookupError{Batch: batch, Size: end - start, Err: err}
		}
		for dni, id := range found {
			existing[dni] = id
		}
	}

	result := &ReconciliationResult{
		NewRecords:          []Record{},
		ExistingRecords:     []ExistingRecord{},
		Unidentified:        []Record{},
		ExistingIdentifiers: existing,
	}
	for _, rec := range records {
		if rec.DNI == "" {
			result.Unidentified = append(result.Unidentified, rec)
			continue
		}
		if id, ok := existing[rec.DNI]; ok {
			result.ExistingRecords = append(result.ExistingRecords, ExistingRecord{Record: rec, ExistingID: id})
			continue
		}
		result.NewRecords = append(result.NewRecords, rec)
	}
	return result, nil
}
