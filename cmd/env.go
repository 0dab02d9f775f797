package main

import (
	"context"
	"os"
	"time"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-scout/internal/extract"
	"github.com/sells-group/venue-scout/internal/pipeline"
	"github.com/sells-group/venue-scout/internal/scoring"
	"github.com/sells-group/venue-scout/internal/store"
	sfpkg "github.com/sells-group/venue-scout/pkg/salesforce"
)

// pipelineEnv holds the initialized store and pipeline shared by the
// enrich and serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}

	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "venue-scout.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func newExtractor() *extract.Extractor {
	return extract.New(extract.Options{
		Timeout:           time.Duration(cfg.Extract.TimeoutSecs) * time.Second,
		UserAgent:         cfg.Extract.UserAgent,
		FallbackUserAgent: cfg.Extract.FallbackUserAgent,
		MinBodyBytes:      cfg.Extract.MinBodyBytes,
		MaxBodyBytes:      int64(cfg.Extract.MaxBodyKB) * 1024,
		RequestsPerSecond: cfg.Extract.RequestsPerSecond,
	})
}

func newScorer() (*scoring.Scorer, error) {
	weights, err := scoring.LoadRubric(cfg.Scoring.RubricPath)
	if err != nil {
		return nil, eris.Wrap(err, "load scoring rubric")
	}
	return scoring.New(weights)
}

// initPipeline sets up the store, runs migrations, and builds the
// enrichment pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	scorer, err := newScorer()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	p, err := pipeline.New(pipeline.Options{
		Store:       st,
		Extractor:   newExtractor(),
		Scorer:      scorer,
		Concurrency: cfg.Pipeline.Concurrency,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &pipelineEnv{Store: st, Pipeline: p}, nil
}

func initSalesforce() (sfpkg.Client, error) {
	if err := cfg.Validate("promote"); err != nil {
		return nil, err
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf, sfpkg.WithRateLimit(5)), nil
}
