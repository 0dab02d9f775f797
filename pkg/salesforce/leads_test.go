package salesforce

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/venue-scout/internal/model"
)

// mockClient implements Client for testing.
type mockClient struct {
	queryFn     func(ctx context.Context, soql string, out any) error
	insertOneFn func(ctx context.Context, sObjectName string, record map[string]any) (string, error)
	updateOneFn func(ctx context.Context, sObjectName string, id string, fields map[string]any) error
}

var _ Client = (*mockClient)(nil)

func (m *mockClient) Query(ctx context.Context, soql string, out any) error {
	if m.queryFn != nil {
		return m.queryFn(ctx, soql, out)
	}
	return nil
}

func (m *mockClient) InsertOne(ctx context.Context, sObjectName string, record map[string]any) (string, error) {
	if m.insertOneFn != nil {
		return m.insertOneFn(ctx, sObjectName, record)
	}
	return "00Q000000000001", nil
}

func (m *mockClient) UpdateOne(ctx context.Context, sObjectName string, id string, fields map[string]any) error {
	if m.updateOneFn != nil {
		return m.updateOneFn(ctx, sObjectName, id, fields)
	}
	return nil
}

func scoredLead(score int, label string) model.Lead {
	return model.Lead{
		ID:           "L1",
		Name:         "The Grand Hall",
		Website:      "https://grandhall.test",
		ContactName:  "Dana Reyes",
		ContactEmail: "dana@grandhall.test",
		ContactPhone: "555-0100",
		Score:        &score,
		ScoreLabel:   label,
		Enrichment: &model.EnrichmentData{
			Score: &model.LeadScore{
				Score:   score,
				Reasons: []string{"Contact email available", "No in-house catering"},
			},
		},
	}
}

func TestFindLeadByWebsite(t *testing.T) {
	t.Run("returns lead when found", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, soql string, out any) error {
				assert.Contains(t, soql, "Website = 'https://grandhall.test'")
				assert.Contains(t, soql, "SELECT Id, Company")

				leads := out.(*[]SFLead)
				*leads = []SFLead{{ID: "00Qxx", Company: "The Grand Hall"}}
				return nil
			},
		}

		lead, err := FindLeadByWebsite(context.Background(), mock, "https://grandhall.test")
		require.NoError(t, err)
		require.NotNil(t, lead)
		assert.Equal(t, "00Qxx", lead.ID)
	})

	t.Run("returns nil when not found", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, _ string, out any) error {
				leads := out.(*[]SFLead)
				*leads = []SFLead{}
				return nil
			},
		}

		lead, err := FindLeadByWebsite(context.Background(), mock, "https://nowhere.test")
		require.NoError(t, err)
		assert.Nil(t, lead)
	})

	t.Run("escapes single quotes", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, soql string, _ any) error {
				assert.Contains(t, soql, `o\'malley`)
				return nil
			},
		}

		_, err := FindLeadByWebsite(context.Background(), mock, "o'malley")
		require.NoError(t, err)
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		mock := &mockClient{
			queryFn: func(_ context.Context, _ string, _ any) error {
				return eris.New("boom")
			},
		}

		_, err := FindLeadByWebsite(context.Background(), mock, "x")
		assert.Error(t, err)
	})
}

func TestUpsertLead_InsertsWhenNew(t *testing.T) {
	var inserted map[string]any
	mock := &mockClient{
		queryFn: func(_ context.Context, _ string, out any) error {
			*(out.(*[]SFLead)) = nil
			return nil
		},
		insertOneFn: func(_ context.Context, sObjectName string, record map[string]any) (string, error) {
			assert.Equal(t, "Lead", sObjectName)
			inserted = record
			return "00Qnew", nil
		},
	}

	id, err := UpsertLead(context.Background(), mock, scoredLead(85, "high"))
	require.NoError(t, err)
	assert.Equal(t, "00Qnew", id)
	assert.Equal(t, "The Grand Hall", inserted["Company"])
	assert.Equal(t, "Dana Reyes", inserted["LastName"])
	assert.Equal(t, "dana@grandhall.test", inserted["Email"])
	assert.Equal(t, "555-0100", inserted["Phone"])
	assert.Contains(t, inserted["Description"], "Venue score: 85/100 (high)")
	assert.Contains(t, inserted["Description"], "No in-house catering")
}

func TestUpsertLead_UpdatesWhenExisting(t *testing.T) {
	var updatedID string
	mock := &mockClient{
		queryFn: func(_ context.Context, _ string, out any) error {
			*(out.(*[]SFLead)) = []SFLead{{ID: "00Qold"}}
			return nil
		},
		updateOneFn: func(_ context.Context, sObjectName string, id string, fields map[string]any) error {
			assert.Equal(t, "Lead", sObjectName)
			assert.Equal(t, "The Grand Hall", fields["Company"])
			updatedID = id
			return nil
		},
		insertOneFn: func(_ context.Context, _ string, _ map[string]any) (string, error) {
			t.Fatal("insert should not be called for existing lead")
			return "", nil
		},
	}

	id, err := UpsertLead(context.Background(), mock, scoredLead(72, "high"))
	require.NoError(t, err)
	assert.Equal(t, "00Qold", id)
	assert.Equal(t, "00Qold", updatedID)
}

func TestUpsertLead_DefaultsLastName(t *testing.T) {
	mock := &mockClient{
		insertOneFn: func(_ context.Context, _ string, record map[string]any) (string, error) {
			assert.Equal(t, "Unknown", record["LastName"])
			return "00Qnew", nil
		},
	}

	lead := model.Lead{ID: "L2", Name: "Barn at Elm Creek"}
	_, err := UpsertLead(context.Background(), mock, lead)
	require.NoError(t, err)
}

func TestUpsertLead_RequiresName(t *testing.T) {
	_, err := UpsertLead(context.Background(), &mockClient{}, model.Lead{ID: "L3"})
	assert.Error(t, err)
}

func TestLeadDescription_CapsReasons(t *testing.T) {
	score := 90
	lead := model.Lead{
		Score:      &score,
		ScoreLabel: "high",
		Enrichment: &model.EnrichmentData{
			Score: &model.LeadScore{
				Score:   90,
				Reasons: []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7"},
			},
		},
	}

	desc := leadDescription(lead)
	assert.Contains(t, desc, "r5")
	assert.NotContains(t, desc, "r6")
}

func TestLeadDescription_NoScore(t *testing.T) {
	assert.Empty(t, leadDescription(model.Lead{}))
}
