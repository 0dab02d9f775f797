package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/venue-scout/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func intPtr(n int) *int { return &n }

// --- Create and Get ---

func TestSQLite_CreateLead_AssignsDefaults(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.CreateLead(ctx, model.Lead{Name: "Grand Oak Hall"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.LeadStatusNew, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
}

func TestSQLite_CreateAndGetLead_RoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	inHouse := false
	lead := model.Lead{
		ID:           "lead-1",
		Name:         "Grand Oak Hall",
		Website:      "https://grandoakhall.org",
		Address:      "400 Oak Avenue, Riverton, CO",
		ContactName:  "Maria Alvarez",
		ContactEmail: "events@grandoakhall.org",
		ContactPhone: "(555) 867-5309",
		Status:       model.LeadStatusEnriched,
		Enrichment: &model.EnrichmentData{
			VenueName:         "Grand Oak Hall",
			Capacity:          220,
			EventTypes:        []string{"Wedding", "Gala"},
			InHouseCatering:   &inHouse,
			PreferredCaterers: []string{"Rosemary & Rye"},
		},
		Score:        intPtr(85),
		ScoreLabel:   "high",
		SalesforceID: "003XX0000012345",
	}

	_, err := st.CreateLead(ctx, lead)
	require.NoError(t, err)

	got, err := st.GetLead(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "Grand Oak Hall", got.Name)
	assert.Equal(t, "https://grandoakhall.org", got.Website)
	assert.Equal(t, "400 Oak Avenue, Riverton, CO", got.Address)
	assert.Equal(t, "Maria Alvarez", got.ContactName)
	assert.Equal(t, "events@grandoakhall.org", got.ContactEmail)
	assert.Equal(t, "(555) 867-5309", got.ContactPhone)
	assert.Equal(t, model.LeadStatusEnriched, got.Status)
	assert.Equal(t, "high", got.ScoreLabel)
	assert.Equal(t, "003XX0000012345", got.SalesforceID)
	require.NotNil(t, got.Score)
	assert.Equal(t, 85, *got.Score)
	require.NotNil(t, got.Enrichment)
	assert.Equal(t, 220, got.Enrichment.Capacity)
	assert.Equal(t, []string{"Wedding", "Gala"}, got.Enrichment.EventTypes)
	assert.Equal(t, []string{"Rosemary & Rye"}, got.Enrichment.PreferredCaterers)
	require.NotNil(t, got.Enrichment.InHouseCatering)
	assert.False(t, *got.Enrichment.InHouseCatering)
}

func TestSQLite_GetLead_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetLead(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead not found")
}

func TestSQLite_CreateLeads_BatchAndFetch(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	leads := []model.Lead{
		{ID: "a", Name: "Alpha Hall", CreatedAt: base},
		{ID: "b", Name: "Bravo Barn", CreatedAt: base.Add(time.Minute)},
		{ID: "c", Name: "Cedar Loft", CreatedAt: base.Add(2 * time.Minute)},
	}
	n, err := st.CreateLeads(ctx, leads)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := st.GetLeadsByIDs(ctx, []string{"c", "a"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Rows come back in creation order regardless of the requested order.
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestSQLite_CreateLeads_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	n, err := st.CreateLeads(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLite_GetLeadsByIDs_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetLeadsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_GetLeadsByIDs_IgnoresUnknown(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateLead(ctx, model.Lead{ID: "known", Name: "Known Hall"})
	require.NoError(t, err)

	got, err := st.GetLeadsByIDs(ctx, []string{"known", "ghost"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "known", got[0].ID)
}

// --- Listing ---

func TestSQLite_ListLeads_FilterByStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, l := range []model.Lead{
		{ID: "n1", Name: "New One"},
		{ID: "n2", Name: "New Two"},
		{ID: "e1", Name: "Enriched One", Status: model.LeadStatusEnriched},
	} {
		_, err := st.CreateLead(ctx, l)
		require.NoError(t, err)
	}

	got, err := st.ListLeads(ctx, ListFilter{Status: model.LeadStatusEnriched})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)
}

func TestSQLite_ListLeads_MinScoreExcludesUnscored(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, l := range []model.Lead{
		{ID: "low", Name: "Low Venue", Score: intPtr(30)},
		{ID: "high", Name: "High Venue", Score: intPtr(70)},
		{ID: "unscored", Name: "Unscored Venue"},
	} {
		_, err := st.CreateLead(ctx, l)
		require.NoError(t, err)
	}

	got, err := st.ListLeads(ctx, ListFilter{MinScore: intPtr(50)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "high", got[0].ID)
}

func TestSQLite_ListLeads_NewestFirstWithLimitOffset(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		_, err := st.CreateLead(ctx, model.Lead{
			ID:        id,
			Name:      "Venue " + id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	page1, err := st.ListLeads(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "c", page1[0].ID)
	assert.Equal(t, "b", page1[1].ID)

	page2, err := st.ListLeads(ctx, ListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "a", page2[0].ID)
}

// --- Updates ---

func TestSQLite_UpdateLead_PartialWrite(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateLead(ctx, model.Lead{
		ID:           "lead-1",
		Name:         "Grand Oak Hall",
		ContactEmail: "original@grandoakhall.org",
	})
	require.NoError(t, err)

	err = st.UpdateLead(ctx, "lead-1", LeadUpdate{
		Status:     model.LeadStatusEnriched,
		Score:      intPtr(75),
		ScoreLabel: "high",
	})
	require.NoError(t, err)

	got, err := st.GetLead(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusEnriched, got.Status)
	require.NotNil(t, got.Score)
	assert.Equal(t, 75, *got.Score)
	assert.Equal(t, "high", got.ScoreLabel)
	// Untouched fields survive.
	assert.Equal(t, "Grand Oak Hall", got.Name)
	assert.Equal(t, "original@grandoakhall.org", got.ContactEmail)
}

func TestSQLite_UpdateLead_FillsEmptyAddress(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateLead(ctx, model.Lead{ID: "lead-1", Name: "River Venue"})
	require.NoError(t, err)

	err = st.UpdateLead(ctx, "lead-1", LeadUpdate{Address: "12 River Road, Dove Creek, CO"})
	require.NoError(t, err)

	got, err := st.GetLead(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "12 River Road, Dove Creek, CO", got.Address)
}

func TestSQLite_UpdateLead_PreservesCuratedAddress(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateLead(ctx, model.Lead{
		ID:      "lead-1",
		Name:    "Curated Venue",
		Address: "1 Curated Way, Denver, CO",
	})
	require.NoError(t, err)

	err = st.UpdateLead(ctx, "lead-1", LeadUpdate{
		Address:      "999 Scraped Blvd",
		ContactPhone: "(555) 000-1111",
	})
	require.NoError(t, err)

	got, err := st.GetLead(ctx, "lead-1")
	require.NoError(t, err)
	// The curated address wins; the rest of the update still lands.
	assert.Equal(t, "1 Curated Way, Denver, CO", got.Address)
	assert.Equal(t, "(555) 000-1111", got.ContactPhone)
}

func TestSQLite_UpdateLead_StoresEnrichment(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateLead(ctx, model.Lead{ID: "lead-1", Name: "Cedar Loft"})
	require.NoError(t, err)

	err = st.UpdateLead(ctx, "lead-1", LeadUpdate{
		Enrichment: &model.EnrichmentData{VenueName: "Cedar Loft", Capacity: 150},
	})
	require.NoError(t, err)

	got, err := st.GetLead(ctx, "lead-1")
	require.NoError(t, err)
	require.NotNil(t, got.Enrichment)
	assert.Equal(t, "Cedar Loft", got.Enrichment.VenueName)
	assert.Equal(t, 150, got.Enrichment.Capacity)
}

func TestSQLite_UpdateLead_ZeroUpdateIsNoop(t *testing.T) {
	st := newTestSQLiteStore(t)

	// A no-op update never touches the database, even for unknown ids.
	err := st.UpdateLead(context.Background(), "missing", LeadUpdate{})
	require.NoError(t, err)
}

func TestSQLite_UpdateLead_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateLead(context.Background(), "missing", LeadUpdate{ScoreLabel: "low"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead not found: missing")
}

// --- Lifecycle ---

func TestNewSQLite_CloseAndReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))
	_, err = st.CreateLead(ctx, model.Lead{ID: "persist-1", Name: "Persist Hall"})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st2, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st2.Close() }) //nolint:errcheck

	got, err := st2.GetLead(ctx, "persist-1")
	require.NoError(t, err)
	assert.Equal(t, "Persist Hall", got.Name)
}

func TestSQLite_Migrate_Idempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.Migrate(ctx))
	require.NoError(t, st.Migrate(ctx))

	_, err := st.CreateLead(ctx, model.Lead{Name: "Still Works Hall"})
	require.NoError(t, err)
}

func TestSQLite_Ping(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Ping(context.Background()))
}

// --- Helpers ---

type fakeResult struct {
	rowsAffected int64
	err          error
}

func (f *fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (f *fakeResult) RowsAffected() (int64, error) { return f.rowsAffected, f.err }

var _ sql.Result = (*fakeResult)(nil)

func TestCheckRowsAffected_ZeroRows(t *testing.T) {
	res := &fakeResult{rowsAffected: 0}
	err := checkRowsAffected(res, "lead", "abc-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead not found: abc-123")
}

func TestCheckRowsAffected_Error(t *testing.T) {
	res := &fakeResult{rowsAffected: 0, err: assert.AnError}
	err := checkRowsAffected(res, "lead", "abc-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows affected")
}

func TestCheckRowsAffected_Success(t *testing.T) {
	res := &fakeResult{rowsAffected: 1}
	require.NoError(t, checkRowsAffected(res, "lead", "abc-123"))
}

func TestLeadUpdate_IsZero(t *testing.T) {
	assert.True(t, LeadUpdate{}.IsZero())
	assert.False(t, LeadUpdate{Status: model.LeadStatusEnriched}.IsZero())
	assert.False(t, LeadUpdate{Score: intPtr(0)}.IsZero())
	assert.False(t, LeadUpdate{Enrichment: &model.EnrichmentData{}}.IsZero())
}
