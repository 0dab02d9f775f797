package main

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/internal/store"
)

type mockStore struct {
	mock.Mock
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *mockStore) CreateLeads(ctx context.Context, leads []model.Lead) (int, error) {
	args := m.Called(ctx, leads)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *mockStore) GetLeadsByIDs(ctx context.Context, ids []string) ([]model.Lead, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *mockStore) ListLeads(ctx context.Context, filter store.ListFilter) ([]model.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *mockStore) UpdateLead(ctx context.Context, id string, upd store.LeadUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *mockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
