package pipeline

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/venue-scout/internal/extract"
	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/internal/store"
)

// --- Store mock ---

type mockStore struct {
	mock.Mock
}

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

// --- Extraction strategy fakes ---

// scriptedStrategy returns a canned record per URL and errors for anything
// unlisted, pushing those URLs down the ladder.
type scriptedStrategy struct {
	name    string
	records map[string]*extract.Extraction
}

func (s scriptedStrategy) Name() string { return s.name }

func (s scriptedStrategy) Extract(_ context.Context, site string) (*extract.Extraction, error) {
	rec, ok := s.records[site]
	if !ok {
		return nil, errors.New("connect: no route to host")
	}
	return rec, nil
}

// stubStrategy mimics the ladder's total final tier: a minimal record
// flagged as failed, for any URL.
type stubStrategy struct{}

func (stubStrategy) Name() string { return "stub" }

func (stubStrategy) Extract(_ context.Context, site string) (*extract.Extraction, error) {
	return &extract.Extraction{
		VenueName:   "Unknown Venue",
		Description: "extraction failed, record stubbed from domain",
		SourceURL:   site,
		Failed:      true,
	}, nil
}

// failingStrategy errors for every URL.
type failingStrategy struct{ err error }

func (s failingStrategy) Name() string { return "failing" }

func (s failingStrategy) Extract(context.Context, string) (*extract.Extraction, error) {
	return nil, s.err
}

// --- Ensure interface compliance ---
var (
	_ store.Store      = (*mockStore)(nil)
	_ extract.Strategy = scriptedStrategy{}
	_ extract.Strategy = stubStrategy{}
	_ extract.Strategy = failingStrategy{}
)
