package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"padron/internal/domain"
)

// MockObraSocialRepo is a mock implementation of port.ObraSocialRepository.
type MockObraSocialRepo struct {
	mock.Mock
}

func (m *MockObraSocialRepo) ListActive(ctx context.Context) ([]domain.ObraSocial, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ObraSocial), args.Error(1)
}

func (m *MockObraSocialRepo) GetByID(ctx context.Context, id int64) (*domain.ObraSocial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ObraSocial), args.Error(1)
}
