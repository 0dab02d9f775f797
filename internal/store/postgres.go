package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-scout/internal/db"
	"github.com/sells-group/venue-scout/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// pgUniqueViolation is the SQLSTATE class 23 code for duplicate keys.
const pgUniqueViolation = "23505"

const postgresLeadColumns = `id, name, website, address, contact_name, contact_email, contact_phone,
	status, enrichment, lead_score, lead_score_label, salesforce_id, created_at, updated_at`

const (
	insertLeadSQL = `INSERT INTO leads (` + postgresLeadColumns + `)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	getLeadSQL       = `SELECT ` + postgresLeadColumns + ` FROM leads WHERE id = $1`
	getLeadsByIDsSQL = `SELECT ` + postgresLeadColumns + ` FROM leads WHERE id = ANY($1) ORDER BY created_at`
)

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_lead":      insertLeadSQL,
	"get_lead":         getLeadSQL,
	"get_leads_by_ids": getLeadsByIDsSQL,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for use by subsystems
// that need direct query access (e.g., bulk imports).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name             TEXT NOT NULL,
	website          TEXT,
	address          TEXT,
	contact_name     TEXT,
	contact_email    TEXT,
	contact_phone    TEXT,
	status           TEXT NOT NULL DEFAULT 'new',
	enrichment       JSONB,
	lead_score       INTEGER,
	lead_score_label TEXT,
	salesforce_id    TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(lead_score);
CREATE INDEX IF NOT EXISTS idx_leads_website ON leads(website);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	withDefaults(&lead)

	enrichmentJSON, err := marshalEnrichmentJSON(lead.Enrichment)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal enrichment")
	}

	_, err = s.pool.Exec(ctx, insertLeadSQL,
		lead.ID, lead.Name, lead.Website, lead.Address,
		lead.ContactName, lead.ContactEmail, lead.ContactPhone,
		string(lead.Status), enrichmentJSON, lead.Score, lead.ScoreLabel,
		lead.SalesforceID, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert lead %s", lead.ID)
	}
	return &lead, nil
}

// leadColumns is the COPY column order used by bulk inserts.
var leadColumns = []string{
	"id", "name", "website", "address", "contact_name", "contact_email",
	"contact_phone", "status", "enrichment", "lead_score", "lead_score_label",
	"salesforce_id", "created_at", "updated_at",
}

func (s *PostgresStore) CreateLeads(ctx context.Context, leads []model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(leads))
	for i := range leads {
		lead := leads[i]
		withDefaults(&lead)
		enrichmentJSON, err := marshalEnrichmentJSON(lead.Enrichment)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: marshal enrichment for %s", lead.ID)
		}
		rows = append(rows, []any{
			lead.ID, lead.Name, lead.Website, lead.Address,
			lead.ContactName, lead.ContactEmail, lead.ContactPhone,
			string(lead.Status), enrichmentJSON, lead.Score, lead.ScoreLabel,
			lead.SalesforceID, lead.CreatedAt, lead.UpdatedAt,
		})
	}

	// Fast path: plain COPY for a fresh batch. A re-import collides on id
	// and takes the temp-table upsert instead.
	n, err := db.CopyFrom(ctx, s.pool, "leads", leadColumns, rows)
	if err == nil {
		return int(n), nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return 0, eris.Wrap(err, "postgres: bulk insert leads")
	}

	n, err = db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "leads",
		Columns:      leadColumns,
		ConflictKeys: []string{"id"},
		// created_at survives re-imports.
		UpdateCols: []string{
			"name", "website", "address", "contact_name", "contact_email",
			"contact_phone", "status", "enrichment", "lead_score",
			"lead_score_label", "salesforce_id", "updated_at",
		},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: bulk upsert leads")
	}
	return int(n), nil
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	return scanPgLead(s.pool.QueryRow(ctx, getLeadSQL, id))
}

func (s *PostgresStore) GetLeadsByIDs(ctx context.Context, ids []string) ([]model.Lead, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, getLeadsByIDsSQL, ids)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get leads by ids")
	}
	defer rows.Close()
	return collectPgLeads(rows, "postgres: get leads by ids iterate")
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter ListFilter) ([]model.Lead, error) {
	query := `SELECT ` + postgresLeadColumns + ` FROM leads WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.MinScore != nil {
		query += fmt.Sprintf(` AND lead_score >= $%d`, argIdx)
		args = append(args, *filter.MinScore)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()
	return collectPgLeads(rows, "postgres: list leads iterate")
}

func (s *PostgresStore) UpdateLead(ctx context.Context, id string, upd LeadUpdate) error {
	if upd.IsZero() {
		return nil
	}

	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	argIdx := 2

	if upd.Status != "" {
		sets = append(sets, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(upd.Status))
		argIdx++
	}
	if upd.Enrichment != nil {
		enrichmentJSON, err := json.Marshal(upd.Enrichment)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal enrichment")
		}
		sets = append(sets, fmt.Sprintf("enrichment = $%d", argIdx))
		args = append(args, enrichmentJSON)
		argIdx++
	}
	if upd.ContactName != "" {
		sets = append(sets, fmt.Sprintf("contact_name = $%d", argIdx))
		args = append(args, upd.ContactName)
		argIdx++
	}
	if upd.ContactEmail != "" {
		sets = append(sets, fmt.Sprintf("contact_email = $%d", argIdx))
		args = append(args, upd.ContactEmail)
		argIdx++
	}
	if upd.ContactPhone != "" {
		sets = append(sets, fmt.Sprintf("contact_phone = $%d", argIdx))
		args = append(args, upd.ContactPhone)
		argIdx++
	}
	if upd.Address != "" {
		// Enrichment never overwrites a curated address.
		sets = append(sets, fmt.Sprintf("address = CASE WHEN COALESCE(address, '') = '' THEN $%d ELSE address END", argIdx))
		args = append(args, upd.Address)
		argIdx++
	}
	if upd.Score != nil {
		sets = append(sets, fmt.Sprintf("lead_score = $%d", argIdx))
		args = append(args, *upd.Score)
		argIdx++
	}
	if upd.ScoreLabel != "" {
		sets = append(sets, fmt.Sprintf("lead_score_label = $%d", argIdx))
		args = append(args, upd.ScoreLabel)
		argIdx++
	}
	if upd.SalesforceID != "" {
		sets = append(sets, fmt.Sprintf("salesforce_id = $%d", argIdx))
		args = append(args, upd.SalesforceID)
		argIdx++
	}

	args = append(args, id)
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET `+strings.Join(sets, ", ")+fmt.Sprintf(` WHERE id = $%d`, argIdx),
		args...)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("lead not found: %s", id)
	}
	return nil
}

// helpers

func marshalEnrichmentJSON(e *model.EnrichmentData) ([]byte, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal(e)
}

func scanPgLead(row scannable) (*model.Lead, error) {
	var l model.Lead
	var website, address, contactName, contactEmail, contactPhone *string
	var scoreLabel, salesforceID *string
	var enrichmentJSON []byte
	var score *int

	err := row.Scan(&l.ID, &l.Name, &website, &address, &contactName, &contactEmail,
		&contactPhone, &l.Status, &enrichmentJSON, &score, &scoreLabel, &salesforceID,
		&l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.New("lead not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan lead")
	}

	if website != nil {
		l.Website = *website
	}
	if address != nil {
		l.Address = *address
	}
	if contactName != nil {
		l.ContactName = *contactName
	}
	if contactEmail != nil {
		l.ContactEmail = *contactEmail
	}
	if contactPhone != nil {
		l.ContactPhone = *contactPhone
	}
	if scoreLabel != nil {
		l.ScoreLabel = *scoreLabel
	}
	if salesforceID != nil {
		l.SalesforceID = *salesforceID
	}
	l.Score = score
	if len(enrichmentJSON) > 0 {
		l.Enrichment = &model.EnrichmentData{}
		if err := json.Unmarshal(enrichmentJSON, l.Enrichment); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal enrichment")
		}
	}
	return &l, nil
}

func collectPgLeads(rows pgx.Rows, wrapMsg string) ([]model.Lead, error) {
	var leads []model.Lead
	for rows.Next() {
		l, err := scanPgLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), wrapMsg)
}
