package padron

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Mode selects which partitions a commit writes.
type Mode string

const (
	ModeNewOnly        Mode = "new_only"
	ModeUpdateExisting Mode = "update_existing"
	ModeAll            Mode = "all"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNewOnly, ModeUpdateExisting, ModeAll:
		return m, nil
	}
	return "", fmt.Errorf("unknown import mode %q", s)
}

func (m Mode) creates() bool { return m == ModeNewOnly || m == ModeAll }
func (m Mode) updates() bool { return m == ModeUpdateExisting || m == ModeAll }

// RecordWriter persists records.
type RecordWriter interface {
	CreateRecord(ctx context.Context, rec Record) (uuid.UUID, error)
	UpdateRecord(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

// Progress is reported after every attempted record.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Errors  int `json:"errors"`
}

// RowError is a failed record in the outcome.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportOutcome summarizes a commit. SuccessCount plus the number of Errors
// equals the number of attempted records.
type ImportOutcome struct {
	SuccessCount int        `json:"success_count"`
	Created      int        `json:"created"`
	Updated      int        `json:"updated"`
	Errors       []RowError `json:"errors"`
}

type attemptKind int

const (
	attemptCreate attemptKind = iota
	attemptUpdate
)

type attempt struct {
	kind   attemptKind
	record Record
	target uuid.UUID
}

// plan lists the records a commit in mode would attempt: creates first, in row
// order, then updates.
func plan(result *ReconciliationResult, mode Mode) []attempt {
	if result == nil {
		return nil
	}
	var creates, updates []attempt
	if mode.creates() {
		for _, rec := range result.NewRecords {
			creates = append(creates, attempt{kind: attemptCreate, record: rec})
		}
		for _, rec := range result.Unidentified {
			creates = append(creates, attempt{kind: attemptCreate, record: rec})
		}
		sort.SliceStable(creates, func(i, j int) bool { return creates[i].record.Row < creates[j].record.Row })
	}
	if mode.updates() {
		for _, ex := range result.ExistingRecords {
			updates = append(updates, attempt{kind: attemptUpdate, record: ex.Record, target: ex.ExistingID})
		}
	}
	return append(creates, updates...)
}

// Commit writes the records selected by mode. Per-record failures are
// collected and never stop the run. onProgress, when set, is called after
// each record.
func Commit(ctx context.Context, result *ReconciliationResult, mode Mode, w RecordWriter, onProgress func(Progress)) ImportOutcome {
	attempts := plan(result, mode)
	outcome := ImportOutcome{Errors: []RowError{}}
	for i, a := range attempts {
		outcome = outcome.fold(a, run(ctx, w, a))
		if onProgress != nil {
			onProgress(Progress{Current: i + 1, Total: len(attempts), Errors: len(outcome.Errors)})
		}
	}
	return outcome
}

// Attempted returns how many records a commit in mode would attempt.
func Attempted(result *ReconciliationResult, mode Mode) int {
	return len(plan(result, mode))
}

func run(ctx context.Context, w RecordWriter, a attempt) error {
	switch a.kind {
	case attemptCreate:
		if missing := a.record.MissingRequired(); len(missing) > 0 {
			return &RowValidationError{Row: a.record.Row, Missing: missing}
		}
		if _, err := w.CreateRecord(ctx, a.record); err != nil {
			return &PersistenceError{Row: a.record.Row, Op: "create", Err: err}
		}
	case attemptUpdate:
		if err := w.UpdateRecord(ctx, a.target, a.record.UpdateFields()); err != nil {
			return &PersistenceError{Row: a.record.Row, Op: "update", Err: err}
		}
	}
	return nil
}

func (o ImportOutcome) fold(a attempt, err error) ImportOutcome {
	if err != nil {
		o.Errors = append(o.Errors, RowError{Row: a.record.Row, Error: err.Error()})
		return o
	}
	o.SuccessCount++
	if a.kind == attemptCreate {
		o.Created++
	} else {
		o.Updated++
	}
	return o
}
