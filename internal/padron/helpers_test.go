package padron_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"padron/internal/padron"
)

func bytesReader(s string) *bytes.Reader { return bytes.NewReader([]byte(s)) }

// fakeLookup records each batch it receives.
type fakeLookup struct {
	existing map[string]uuid.UUID
	failOn   int
	batches  [][]string
}

func (f *fakeLookup) FindActiveByIdentifiers(_ context.Context, ids []string) (map[string]uuid.UUID, error) {
	f.batches = append(f.batches, append([]string(nil), ids...))
	if f.failOn > 0 && len(f.batches) == f.failOn {
		return nil, errors.New("connection reset")
	}
	out := make(map[string]uuid.UUID)
	for _, id := range ids {
		if u, ok := f.existing[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// fakeWriter stores created and updated records in memory.
type fakeWriter struct {
	mu        sync.Mutex
	created   []padron.Record
	updated   map[uuid.UUID]map[string]any
	rejectDNI map[string]bool
	failIDs   map[uuid.UUID]bool
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		updated:   make(map[uuid.UUID]map[string]any),
		rejectDNI: make(map[string]bool),
		failIDs:   make(map[uuid.UUID]bool),
	}
}

func (w *fakeWriter) CreateRecord(_ context.Context, rec padron.Record) (uuid.UUID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.rejectDNI[rec.DNI] {
		return uuid.Nil, fmt.Errorf("duplicate key value violates unique constraint")
	}
	w.created = append(w.created, rec)
	return uuid.New(), nil
}

func (w *fakeWriter) UpdateRecord(_ context.Context, id uuid.UUID, fields map[string]any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failIDs[id] {
		return errors.New("row locked")
	}
	w.updated[id] = fields
	return nil
}
