package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/internal/store"
	"github.com/sells-group/venue-scout/internal/workflow"
)

var servePort int

// enrichRunner starts one enrichment run. It matches pipeline.Run so the
// handler tests can stub it.
type enrichRunner func(ctx context.Context, leadIDs []string, opts ...workflow.RunOption) (string, *model.Report, error)

// webServer exposes the enrichment pipeline over HTTP.
type webServer struct {
	store store.Store
	run   enrichRunner

	// baseCtx outlives individual requests so an accepted run is not
	// cancelled when the client disconnects.
	baseCtx context.Context
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server for enrichment requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		ws := &webServer{
			store:   env.Store,
			run:     env.Pipeline.Run,
			baseCtx: ctx,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           ws.router(cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func (ws *webServer) router(allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/api/enrich", ws.handleEnrich)
	r.Get("/api/leads", ws.handleLeads)

	return r
}

// requestLogger logs one line per request with method, path, and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// handleEnrich accepts {"lead_ids": [...]} and kicks off a pipeline run in
// the background. It answers 202 with the run id as soon as the run's first
// progress event carries it; run state is not persisted.
func (ws *webServer) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LeadIDs []string `json:"lead_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.LeadIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lead_ids is required"})
		return
	}

	idCh := make(chan string, 1)
	errCh := make(chan error, 1)
	var once sync.Once
	sink := func(ev workflow.Event) {
		once.Do(func() { idCh <- ev.RunID })
	}

	go func() {
		runID, report, err := ws.run(ws.baseCtx, req.LeadIDs, workflow.WithEventSink(sink))
		if err != nil {
			zap.L().Error("webhook enrichment failed",
				zap.String("run_id", runID),
				zap.Error(err),
			)
			errCh <- err
			return
		}
		zap.L().Info("webhook enrichment complete",
			zap.String("run_id", runID),
			zap.Int("processed", report.Processed),
			zap.Int("successful", report.Successful),
			zap.Int("failed", report.Failed),
			zap.Int("skipped", report.Skipped),
		)
	}()

	select {
	case runID := <-idCh:
		writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
	case err := <-errCh:
		// A run that failed on its first step still produced a run id
		// before the error landed; drain idCh so a started run always
		// answers 202. Only a run that never started gets a 500.
		select {
		case runID := <-idCh:
			writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}
}

func (ws *webServer) handleLeads(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{Limit: 50}
	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = model.LeadStatus(s)
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		filter.Limit = n
	}

	leads, err := ws.store.ListLeads(r.Context(), filter)
	if err != nil {
		zap.L().Error("list leads failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list leads failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"leads": leads, "count": len(leads)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
