package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/venue-scout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	website          TEXT,
	address          TEXT,
	contact_name     TEXT,
	contact_email    TEXT,
	contact_phone    TEXT,
	status           TEXT NOT NULL DEFAULT 'new',
	enrichment       TEXT,
	lead_score       INTEGER,
	lead_score_label TEXT,
	salesforce_id    TEXT,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(lead_score);
CREATE INDEX IF NOT EXISTS idx_leads_website ON leads(website);
`

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	withDefaults(&lead)

	enrichmentJSON, err := marshalEnrichment(lead.Enrichment)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal enrichment")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads
		 (id, name, website, address, contact_name, contact_email, contact_phone,
		  status, enrichment, lead_score, lead_score_label, salesforce_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.Name, lead.Website, lead.Address,
		lead.ContactName, lead.ContactEmail, lead.ContactPhone,
		string(lead.Status), enrichmentJSON, lead.Score, lead.ScoreLabel,
		lead.SalesforceID, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert lead %s", lead.ID)
	}
	return &lead, nil
}

func (s *SQLiteStore) CreateLeads(ctx context.Context, leads []model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO leads
		 (id, name, website, address, contact_name, contact_email, contact_phone,
		  status, enrichment, lead_score, lead_score_label, salesforce_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	n := 0
	for i := range leads {
		lead := leads[i]
		withDefaults(&lead)
		enrichmentJSON, err := marshalEnrichment(lead.Enrichment)
		if err != nil {
			return n, eris.Wrapf(err, "sqlite: marshal enrichment for %s", lead.ID)
		}
		if _, err := stmt.ExecContext(ctx,
			lead.ID, lead.Name, lead.Website, lead.Address,
			lead.ContactName, lead.ContactEmail, lead.ContactPhone,
			string(lead.Status), enrichmentJSON, lead.Score, lead.ScoreLabel,
			lead.SalesforceID, lead.CreatedAt, lead.UpdatedAt,
		); err != nil {
			return n, eris.Wrapf(err, "sqlite: insert lead %s", lead.ID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit tx")
	}
	return n, nil
}

const sqliteLeadColumns = `id, name, website, address, contact_name, contact_email, contact_phone,
	status, enrichment, lead_score, lead_score_label, salesforce_id, created_at, updated_at`

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteLeadColumns+` FROM leads WHERE id = ?`, id)
	return scanLead(row)
}

func (s *SQLiteStore) GetLeadsByIDs(ctx context.Context, ids []string) ([]model.Lead, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteLeadColumns+` FROM leads WHERE id IN (`+placeholders+`) ORDER BY created_at`,
		args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get leads by ids")
	}
	defer rows.Close()
	return collectLeads(rows, "sqlite: get leads by ids iterate")
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter ListFilter) ([]model.Lead, error) {
	query := `SELECT ` + sqliteLeadColumns + ` FROM leads WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.MinScore != nil {
		query += ` AND lead_score >= ?`
		args = append(args, *filter.MinScore)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()
	return collectLeads(rows, "sqlite: list leads iterate")
}

func (s *SQLiteStore) UpdateLead(ctx context.Context, id string, upd LeadUpdate) error {
	if upd.IsZero() {
		return nil
	}

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if upd.Status != "" {
		sets = append(sets, "status = ?")
		args = append(args, string(upd.Status))
	}
	if upd.Enrichment != nil {
		enrichmentJSON, err := json.Marshal(upd.Enrichment)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal enrichment")
		}
		sets = append(sets, "enrichment = ?")
		args = append(args, string(enrichmentJSON))
	}
	if upd.ContactName != "" {
		sets = append(sets, "contact_name = ?")
		args = append(args, upd.ContactName)
	}
	if upd.ContactEmail != "" {
		sets = append(sets, "contact_email = ?")
		args = append(args, upd.ContactEmail)
	}
	if upd.ContactPhone != "" {
		sets = append(sets, "contact_phone = ?")
		args = append(args, upd.ContactPhone)
	}
	if upd.Address != "" {
		// Enrichment never overwrites a curated address.
		sets = append(sets, "address = CASE WHEN COALESCE(address, '') = '' THEN ? ELSE address END")
		args = append(args, upd.Address)
	}
	if upd.Score != nil {
		sets = append(sets, "lead_score = ?")
		args = append(args, *upd.Score)
	}
	if upd.ScoreLabel != "" {
		sets = append(sets, "lead_score_label = ?")
		args = append(args, upd.ScoreLabel)
	}
	if upd.SalesforceID != "" {
		sets = append(sets, "salesforce_id = ?")
		args = append(args, upd.SalesforceID)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead %s", id)
	}
	return checkRowsAffected(res, "lead", id)
}

// helpers

func withDefaults(lead *model.Lead) {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.Status == "" {
		lead.Status = model.LeadStatusNew
	}
	now := time.Now().UTC()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	if lead.UpdatedAt.IsZero() {
		lead.UpdatedAt = now
	}
}

func marshalEnrichment(e *model.EnrichmentData) (sql.NullString, error) {
	if e == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanLead(row scannable) (*model.Lead, error) {
	var l model.Lead
	var website, address, contactName, contactEmail, contactPhone sql.NullString
	var enrichment, scoreLabel, salesforceID sql.NullString
	var score sql.NullInt64

	err := row.Scan(&l.ID, &l.Name, &website, &address, &contactName, &contactEmail,
		&contactPhone, &l.Status, &enrichment, &score, &scoreLabel, &salesforceID,
		&l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("lead not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan lead")
	}

	l.Website = website.String
	l.Address = address.String
	l.ContactName = contactName.String
	l.ContactEmail = contactEmail.String
	l.ContactPhone = contactPhone.String
	l.ScoreLabel = scoreLabel.String
	l.SalesforceID = salesforceID.String
	if score.Valid {
		v := int(score.Int64)
		l.Score = &v
	}
	if enrichment.Valid && enrichment.String != "" {
		l.Enrichment = &model.EnrichmentData{}
		if err := json.Unmarshal([]byte(enrichment.String), l.Enrichment); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal enrichment")
		}
	}
	return &l, nil
}

func collectLeads(rows *sql.Rows, wrapMsg string) ([]model.Lead, error) {
	var leads []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), wrapMsg)
}
