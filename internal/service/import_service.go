package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"padron/internal/config"
	"padron/internal/csvexport"
	"padron/internal/domain"
	"padron/internal/metrics"
	"padron/internal/padron"
	"padron/internal/port"
)

// summaryErrorLines caps the row errors quoted in the summary email.
const summaryErrorLines = 10

// FileInput is an uploaded file held in memory.
type FileInput struct {
	Name string
	Data []byte
}

// UploadInput is the DTO for roster upload requests.
type UploadInput struct {
	Roster     FileInput
	Template   *FileInput
	UploadedBy string
}

// ConvertInput is the DTO for conversion requests.
type ConvertInput struct {
	ObraSocialID int64
}

// CommitInput is the DTO for commit requests.
type CommitInput struct {
	Mode        string
	NotifyEmail string
	CreatedBy   string
}

// ProgressView is the commit status of a session.
type ProgressView struct {
	State    padron.State          `json:"state"`
	Progress padron.Progress       `json:"progress"`
	Outcome  *padron.ImportOutcome `json:"outcome,omitempty"`
}

// RosterExport is a converted roster ready to be written as CSV.
type RosterExport struct {
	FileName string
	fields   []string
	records  []padron.Record
}

// NewRosterExport prepares the export of records under fields.
func NewRosterExport(fileName string, fields []string, records []padron.Record) *RosterExport {
	return &RosterExport{FileName: fileName, fields: fields, records: records}
}

// Write writes the CSV, BOM included, to w.
func (e *RosterExport) Write(w io.Writer) error {
	return csvexport.ExportRoster(w, e.fields, e.records)
}

// ImportService defines the roster import contract.
type ImportService interface {
	Upload(ctx context.Context, input UploadInput) (*padron.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*padron.Session, error)
	Discard(ctx context.Context, id uuid.UUID) error
	UpdateMapping(ctx context.Context, id uuid.UUID, mapping padron.FieldMapping) (*padron.Session, error)
	Suggest(ctx context.Context, id uuid.UUID, field string) ([]padron.Suggestion, error)
	Convert(ctx context.Context, id uuid.UUID, input ConvertInput) (*padron.Session, error)
	Commit(ctx context.Context, id uuid.UUID, input CommitInput) (*padron.ImportOutcome, error)
	StartCommit(ctx context.Context, id uuid.UUID, input CommitInput) (*padron.Session, error)
	Progress(ctx context.Context, id uuid.UUID) (*ProgressView, error)
	Export(ctx context.Context, id uuid.UUID) (*RosterExport, error)
	SourceURL(ctx context.Context, id uuid.UUID) (string, error)
	History(ctx context.Context, offset, limit int) ([]domain.ImportBatch, int, error)
	// Shutdown waits for background commits started by StartCommit.
	Shutdown(ctx context.Context) error
}

type importService struct {
	sessions port.SessionStore
	patients port.PatientRepository
	obras    port.ObraSocialRepository
	batches  port.ImportBatchRepository
	storage  port.ObjectStorage
	email    port.EmailSender
	metrics  *metrics.Import
	s3Cfg    *config.S3Config
	cfg      *config.ImportConfig
	log      zerolog.Logger
	now      func() time.Time

	// commitMu serializes state changes of idle sessions.
	commitMu sync.Mutex
	inflight sync.WaitGroup
}

// NewImportService creates a new ImportService implementation. storage and
// email may be nil: uploads are then not archived and no summary is sent.
func NewImportService(
	sessions port.SessionStore,
	patients port.PatientRepository,
	obras port.ObraSocialRepository,
	batches port.ImportBatchRepository,
	storage port.ObjectStorage,
	email port.EmailSender,
	m *metrics.Import,
	s3Cfg *config.S3Config,
	cfg *config.ImportConfig,
	log zerolog.Logger,
) ImportService {
	return &importService{
		sessions: sessions,
		patients: patients,
		obras:    obras,
		batches:  batches,
		storage:  storage,
		email:    email,
		metrics:  m,
		s3Cfg:    s3Cfg,
		cfg:      cfg,
		log:      log.With().Str("component", "import_service").Logger(),
		now:      time.Now,
	}
}

func (s *importService) Upload(ctx context.Context, input UploadInput) (*padron.Session, error) {
	if err := s.checkFile(input.Roster); err != nil {
		return nil, err
	}
	var template *padron.Input
	if input.Template != nil {
		if err := s.checkFile(*input.Template); err != nil {
			return nil, err
		}
		template = &padron.Input{Name: input.Template.Name, Data: input.Template.Data}
	}

	discovery, err := padron.Discover(padron.Input{Name: input.Roster.Name, Data: input.Roster.Data}, template)
	if err != nil {
		s.metrics.Upload(false, 0)
		s.log.Warn().Err(err).Str("file", input.Roster.Name).Msg("roster discovery failed")
		return nil, err
	}

	session := padron.NewSession(input.Roster.Name, discovery, s.now().UTC())
	session.UploadedBy = input.UploadedBy
	if input.Template != nil {
		session.TemplateName = input.Template.Name
	}

	if s.storage != nil {
		key := archiveKey(session.ID, input.Roster.Name)
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.s3Cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(input.Roster.Data),
			ContentType: contentType(input.Roster.Name),
			Size:        int64(len(input.Roster.Data)),
		})
		if err != nil {
			s.metrics.Upload(false, 0)
			s.log.Error().Err(err).Str("session_id", session.ID.String()).Msg("archiving roster failed")
			return nil, domain.ErrUploadFailed
		}
		session.StorageKey = key
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	s.metrics.Upload(true, discovery.RowCount)
	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("file", session.FileName).
		Int("rows", discovery.RowCount).
		Int("columns", len(discovery.SourceColumns)).
		Int("mapped", session.Mapping.Mapped()).
		Bool("template", discovery.TemplateUsed).
		Msg("roster uploaded")
	return session, nil
}

func (s *importService) Get(ctx context.Context, id uuid.UUID) (*padron.Session, error) {
	return s.sessions.Get(ctx, id)
}

func (s *importService) Discard(ctx context.Context, id uuid.UUID) error {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	if session.State == padron.StateRunning {
		return domain.ErrImportRunning
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	// Archived rosters of committed imports stay referenced by import history.
	if s.storage != nil && session.StorageKey != "" && session.BatchID == nil {
		if err := s.storage.Delete(ctx, s.s3Cfg.Bucket, session.StorageKey); err != nil {
			s.log.Warn().Err(err).Str("key", session.StorageKey).Msg("deleting archived roster failed")
		}
	}
	s.log.Info().Str("session_id", id.String()).Msg("session discarded")
	return nil
}

func (s *importService) UpdateMapping(ctx context.Context, id uuid.UUID, mapping padron.FieldMapping) (*padron.Session, error) {
	session, err := s.idleSession(ctx, id)
	if err != nil {
		return nil, err
	}

	for field, col := range mapping {
		if !session.HasField(field) {
			return nil, fmt.Errorf("%w: unknown destination field %q", domain.ErrInvalidMapping, field)
		}
		if col != "" && !session.HasColumn(col) {
			return nil, fmt.Errorf("%w: unknown source column %q", domain.ErrInvalidMapping, col)
		}
	}

	merged := session.Mapping.Clone()
	for field, col := range mapping {
		merged[field] = col
	}
	session.Mapping = merged
	session.ResetConversion()
	session.UpdatedAt = s.now().UTC()

	if err := s.saveIdle(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *importService) Suggest(ctx context.Context, id uuid.UUID, field string) ([]padron.Suggestion, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.HasField(field) {
		return nil, fmt.Errorf("%w: unknown destination field %q", domain.ErrInvalidMapping, field)
	}
	return padron.Suggest(field, session.SourceColumns, session.Mapping), nil
}

func (s *importService) Convert(ctx context.Context, id uuid.UUID, input ConvertInput) (*padron.Session, error) {
	session, err := s.idleSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.obras.GetByID(ctx, input.ObraSocialID); err != nil {
		return nil, err
	}

	records := padron.Normalize(session.Rows, session.Mapping, padron.NormalizeOptions{ObraSocialID: input.ObraSocialID})

	lookup := &patientLookup{repo: s.patients}
	result, err := padron.Reconcile(ctx, records, lookup, s.cfg.LookupBatchSize)
	s.metrics.LookupBatches(lookup.batches, err)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", id.String()).Msg("reconciliation failed")
		return nil, err
	}

	session.Records = records
	session.Result = result
	session.ObraSocialID = input.ObraSocialID
	session.State = padron.StateConverted
	session.UpdatedAt = s.now().UTC()
	if err := s.saveIdle(ctx, session); err != nil {
		return nil, err
	}

	sum := result.Summary()
	s.log.Info().
		Str("session_id", id.String()).
		Int("records", len(records)).
		Int("new", sum.New).
		Int("existing", sum.Existing).
		Int("unidentified", sum.Unidentified).
		Int("lookup_batches", lookup.batches).
		Msg("roster converted")
	return session, nil
}

func (s *importService) Commit(ctx context.Context, id uuid.UUID, input CommitInput) (*padron.ImportOutcome, error) {
	session, batch, mode, err := s.beginCommit(ctx, id, input)
	if err != nil {
		return nil, err
	}
	outcome := s.runCommit(ctx, session, batch, mode, input.NotifyEmail)
	return &outcome, nil
}

func (s *importService) StartCommit(ctx context.Context, id uuid.UUID, input CommitInput) (*padron.Session, error) {
	session, batch, mode, err := s.beginCommit(ctx, id, input)
	if err != nil {
		return nil, err
	}
	snapshot := *session

	// The commit outlives the request that started it.
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.runCommit(context.WithoutCancel(ctx), session, batch, mode, input.NotifyEmail)
	}()
	return &snapshot, nil
}

func (s *importService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	s.log.Info().Msg("waiting for running imports")
	select {
	case <-done:
		s.log.Info().Msg("running imports finished")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for running imports: %w", ctx.Err())
	}
}

// beginCommit moves a converted session to running and opens its batch.
func (s *importService) beginCommit(ctx context.Context, id uuid.UUID, input CommitInput) (*padron.Session, *domain.ImportBatch, padron.Mode, error) {
	mode, err := padron.ParseMode(input.Mode)
	if err != nil {
		return nil, nil, "", fmt.Errorf("%w: %q", domain.ErrInvalidImportMode, input.Mode)
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	session, err := s.idleSession(ctx, id)
	if err != nil {
		return nil, nil, "", err
	}
	if session.State != padron.StateConverted || session.Result == nil {
		return nil, nil, "", domain.ErrNotConverted
	}

	total := padron.Attempted(session.Result, mode)
	batch := &domain.ImportBatch{
		SessionID:    session.ID,
		FileName:     session.FileName,
		StorageKey:   session.StorageKey,
		ObraSocialID: session.ObraSocialID,
		Mode:         string(mode),
		Total:        total,
		CreatedBy:    input.CreatedBy,
	}
	if err := s.batches.Create(ctx, batch); err != nil {
		return nil, nil, "", fmt.Errorf("creating import batch: %w", err)
	}

	session.State = padron.StateRunning
	session.Mode = mode
	session.BatchID = &batch.ID
	session.Progress = padron.Progress{Total: total}
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, nil, "", fmt.Errorf("saving session: %w", err)
	}
	if err := s.sessions.SetProgress(ctx, session.ID, session.Progress); err != nil {
		s.log.Warn().Err(err).Str("session_id", id.String()).Msg("initial progress not stored")
	}

	s.log.Info().
		Str("session_id", id.String()).
		Str("batch_id", batch.ID.String()).
		Str("mode", string(mode)).
		Int("total", total).
		Msg("import started")
	return session, batch, mode, nil
}

func (s *importService) runCommit(ctx context.Context, session *padron.Session, batch *domain.ImportBatch, mode padron.Mode, notify string) padron.ImportOutcome {
	log := s.log.With().Str("session_id", session.ID.String()).Str("batch_id", batch.ID.String()).Logger()
	done := s.metrics.CommitStarted(mode)

	outcome := padron.Commit(ctx, session.Result, mode, patientWriter{repo: s.patients}, func(p padron.Progress) {
		if err := s.sessions.SetProgress(ctx, session.ID, p); err != nil {
			log.Warn().Err(err).Int("current", p.Current).Msg("progress not stored")
		}
		log.Debug().Int("current", p.Current).Int("total", p.Total).Int("errors", p.Errors).Msg("import progress")
	})
	done(outcome)

	batch.SuccessCount = outcome.SuccessCount
	batch.ErrorCount = len(outcome.Errors)
	batch.Errors = make(domain.BatchErrors, len(outcome.Errors))
	for i, e := range outcome.Errors {
		batch.Errors[i] = domain.BatchError{Row: e.Row, Error: e.Error}
	}
	if err := s.batches.Complete(ctx, batch); err != nil {
		log.Error().Err(err).Msg("completing import batch failed")
	}

	session.State = padron.StateCompleted
	session.Outcome = &outcome
	session.Progress = padron.Progress{Current: batch.Total, Total: batch.Total, Errors: len(outcome.Errors)}
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		log.Error().Err(err).Msg("saving completed session failed")
	}

	log.Info().
		Int("success", outcome.SuccessCount).
		Int("created", outcome.Created).
		Int("updated", outcome.Updated).
		Int("errors", len(outcome.Errors)).
		Msg("import completed")

	if notify != "" && s.email != nil {
		s.notify(ctx, notify, session, batch, outcome)
	}
	return outcome
}

func (s *importService) notify(ctx context.Context, to string, session *padron.Session, batch *domain.ImportBatch, outcome padron.ImportOutcome) {
	summary := port.ImportSummary{
		FileName:     session.FileName,
		Mode:         batch.Mode,
		Attempted:    batch.Total,
		SuccessCount: outcome.SuccessCount,
		Created:      outcome.Created,
		Updated:      outcome.Updated,
		ErrorCount:   len(outcome.Errors),
	}
	if obra, err := s.obras.GetByID(ctx, session.ObraSocialID); err == nil {
		summary.ObraSocial = obra.Nombre
	}
	for i, e := range outcome.Errors {
		if i == summaryErrorLines {
			break
		}
		summary.FirstErrors = append(summary.FirstErrors, e.Error)
	}
	if err := s.email.SendImportSummary(ctx, to, summary); err != nil {
		s.log.Warn().Err(err).Str("to", to).Msg("sending import summary failed")
	}
}

func (s *importService) Progress(ctx context.Context, id uuid.UUID) (*ProgressView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &ProgressView{State: session.State, Progress: session.Progress, Outcome: session.Outcome}
	if session.State == padron.StateRunning {
		p, err := s.sessions.GetProgress(ctx, id)
		switch {
		case err == nil:
			view.Progress = p
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}
	return view, nil
}

func (s *importService) Export(ctx context.Context, id uuid.UUID) (*RosterExport, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Result == nil {
		return nil, domain.ErrNotConverted
	}
	return NewRosterExport(csvexport.BuildFilename(session.FileName, s.now()), session.DestinationFields, session.Records), nil
}

func (s *importService) SourceURL(ctx context.Context, id uuid.UUID) (string, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if s.storage == nil || session.StorageKey == "" {
		return "", domain.ErrNotFound
	}
	url, err := s.storage.GetPresignedURL(ctx, s.s3Cfg.Bucket, session.StorageKey, s.s3Cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("presigning roster: %w", err)
	}
	return url, nil
}

func (s *importService) History(ctx context.Context, offset, limit int) ([]domain.ImportBatch, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.batches.List(ctx, offset, limit)
}

// idleSession loads a session that has no commit started or finished.
func (s *importService) idleSession(ctx context.Context, id uuid.UUID) (*padron.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch session.State {
	case padron.StateRunning:
		return nil, domain.ErrImportRunning
	case padron.StateCompleted:
		return nil, domain.ErrImportCompleted
	}
	return session, nil
}

// saveIdle stores a mapping or conversion change, unless a commit started or
// finished since the session was loaded.
func (s *importService) saveIdle(ctx context.Context, session *padron.Session) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if _, err := s.idleSession(ctx, session.ID); err != nil {
		return err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *importService) checkFile(f FileInput) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return domain.ErrUnsupportedFileType
	}
	if max := s.s3Cfg.MaxFileSizeMB * 1024 * 1024; max > 0 && int64(len(f.Data)) > max {
		return domain.ErrFileTooLarge
	}
	return nil
}

func contentType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return domain.AllowedFileTypes[domain.AllowedExtensions[ext]]
}

// archiveKey places the roster under its session: rosters/{id}/{name}.{ext}.
func archiveKey(id uuid.UUID, name string) string {
	ext := filepath.Ext(name)
	base := csvexport.SanitizeFilename(strings.TrimSuffix(filepath.Base(name), ext))
	return fmt.Sprintf("rosters/%s/%s%s", id, base, strings.ToLower(ext))
}
