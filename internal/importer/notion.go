package importer

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/pkg/notionlead"
)

// ReadNotion pulls every venue from the Notion database and maps it to leads.
func ReadNotion(ctx context.Context, c notionlead.Client, dbID string) ([]model.Lead, error) {
	leads, err := notionlead.QueryVenueLeads(ctx, c, dbID)
	if err != nil {
		return nil, eris.Wrap(err, "importer: read notion")
	}
	return leads, nil
}
