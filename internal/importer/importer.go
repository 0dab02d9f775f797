// Package importer bulk-loads venue leads into the datastore from CSV,
// XLSX, FTP, and Notion sources.
package importer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/internal/store"
)

// Result summarizes one import.
type Result struct {
	Read       int `json:"read"`
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
}

// Importer loads leads into the datastore.
type Importer struct {
	store store.Store
	now   func() time.Time
}

// New creates an Importer writing to st.
func New(st store.Store) *Importer {
	return &Importer{store: st, now: time.Now}
}

// ImportLeads deduplicates leads by normalized website (leads without a
// website are always kept), fills in ids, status, and timestamps, and writes
// the batch to the datastore.
func (im *Importer) ImportLeads(ctx context.Context, leads []model.Lead) (Result, error) {
	res := Result{Read: len(leads)}

	seen := make(map[string]struct{}, len(leads))
	batch := make([]model.Lead, 0, len(leads))
	now := im.now()

	for _, lead := range leads {
		lead.Website = NormalizeWebsite(lead.Website)
		if lead.Website != "" {
			key := strings.ToLower(lead.Website)
			if _, dup := seen[key]; dup {
				res.Duplicates++
				continue
			}
			seen[key] = struct{}{}
		}

		if lead.ID == "" {
			lead.ID = uuid.New().String()
		}
		if lead.Status == "" {
			lead.Status = model.LeadStatusNew
		}
		if lead.CreatedAt.IsZero() {
			lead.CreatedAt = now
		}
		lead.UpdatedAt = now
		batch = append(batch, lead)
	}

	if len(batch) == 0 {
		return res, nil
	}

	n, err := im.store.CreateLeads(ctx, batch)
	if err != nil {
		return res, eris.Wrap(err, "importer: create leads")
	}
	res.Imported = n

	zap.L().Info("importer: leads imported",
		zap.Int("read", res.Read),
		zap.Int("imported", res.Imported),
		zap.Int("duplicates", res.Duplicates),
	)
	return res, nil
}

// NormalizeWebsite turns a bare domain into an https URL and trims
// whitespace. Empty input stays empty.
func NormalizeWebsite(raw string) string {
	w := strings.TrimSpace(raw)
	if w == "" {
		return ""
	}
	if !strings.HasPrefix(w, "http://") && !strings.HasPrefix(w, "https://") {
		w = "https://" + w
	}
	return w
}
