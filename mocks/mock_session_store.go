package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"padron/internal/padron"
)

// MockSessionStore is a mock implementation of port.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Get(ctx context.Context, id uuid.UUID) (*padron.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*padron.Session), args.Error(1)
}

func (m *MockSessionStore) Save(ctx context.Context, session *padron.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionStore) SetProgress(ctx context.Context, id uuid.UUID, p padron.Progress) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockSessionStore) GetProgress(ctx context.Context, id uuid.UUID) (padron.Progress, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(padron.Progress), args.Error(1)
}
