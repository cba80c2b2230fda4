package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"padron/internal/service"
)

// MockObraSocialService is a mock implementation of service.ObraSocialService.
type MockObraSocialService struct {
	mock.Mock
}

func (m *MockObraSocialService) ListSelectable(ctx context.Context) ([]service.SelectableGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.SelectableGroup), args.Error(1)
}
