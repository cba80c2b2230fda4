package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"padron/internal/domain"
	"padron/internal/padron"
	"padron/internal/service"
)

// MockImportService is a mock implementation of service.ImportService.
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) session(args mock.Arguments) (*padron.Session, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*padron.Session), args.Error(1)
}

func (m *MockImportService) Upload(ctx context.Context, input service.UploadInput) (*padron.Session, error) {
	return m.session(m.Called(ctx, input))
}

func (m *MockImportService) Get(ctx context.Context, id uuid.UUID) (*padron.Session, error) {
	return m.session(m.Called(ctx, id))
}

func (m *MockImportService) Discard(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockImportService) UpdateMapping(ctx context.Context, id uuid.UUID, mapping padron.FieldMapping) (*padron.Session, error) {
	return m.session(m.Called(ctx, id, mapping))
}

func (m *MockImportService) Suggest(ctx context.Context, id uuid.UUID, field string) ([]padron.Suggestion, error) {
	args := m.Called(ctx, id, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]padron.Suggestion), args.Error(1)
}

func (m *MockImportService) Convert(ctx context.Context, id uuid.UUID, input service.ConvertInput) (*padron.Session, error) {
	return m.session(m.Called(ctx, id, input))
}

func (m *MockImportService) Commit(ctx context.Context, id uuid.UUID, input service.CommitInput) (*padron.ImportOutcome, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*padron.ImportOutcome), args.Error(1)
}

func (m *MockImportService) StartCommit(ctx context.Context, id uuid.UUID, input service.CommitInput) (*padron.Session, error) {
	return m.session(m.Called(ctx, id, input))
}

func (m *MockImportService) Progress(ctx context.Context, id uuid.UUID) (*service.ProgressView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProgressView), args.Error(1)
}

func (m *MockImportService) Export(ctx context.Context, id uuid.UUID) (*service.RosterExport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RosterExport), args.Error(1)
}

func (m *MockImportService) SourceURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockImportService) History(ctx context.Context, offset, limit int) ([]domain.ImportBatch, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ImportBatch), args.Int(1), args.Error(2)
}

func (m *MockImportService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
