package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/internal/store"
	"github.com/sells-group/venue-scout/internal/workflow"
)

var (
	enrichIDs      string
	enrichAllNew   bool
	enrichProgress bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run the enrichment pipeline for a batch of leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ids := splitIDs(enrichIDs)
		if len(ids) == 0 && !enrichAllNew {
			return eris.New("either --ids or --all-new is required")
		}
		if len(ids) > 0 && enrichAllNew {
			return eris.New("--ids and --all-new are mutually exclusive")
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if enrichAllNew {
			leads, err := env.Store.ListLeads(ctx, store.ListFilter{Status: model.LeadStatusNew})
			if err != nil {
				return eris.Wrap(err, "list new leads")
			}
			if len(leads) == 0 {
				fmt.Println("no leads with status=new")
				return nil
			}
			for _, lead := range leads {
				ids = append(ids, lead.ID)
			}
		}

		var opts []workflow.RunOption
		if enrichProgress {
			opts = append(opts, workflow.WithEventSink(consoleSink))
		}

		runID, report, err := env.Pipeline.Run(ctx, ids, opts...)
		if err != nil {
			var stepErr *workflow.StepError
			if errors.As(err, &stepErr) {
				zap.L().Error("enrichment run aborted",
					zap.String("run_id", stepErr.RunID),
					zap.String("failed_step", stepErr.StepID),
					zap.Error(stepErr.Cause),
				)
			}
			return err
		}

		fmt.Print(formatReport(runID, report))
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichIDs, "ids", "", "comma-separated lead ids")
	enrichCmd.Flags().BoolVar(&enrichAllNew, "all-new", false, "enrich every lead with status=new")
	enrichCmd.Flags().BoolVar(&enrichProgress, "progress", false, "print step progress events")
	rootCmd.AddCommand(enrichCmd)
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func consoleSink(ev workflow.Event) {
	if ev.Err != "" {
		fmt.Printf("[%s] %s: %s (%s)\n", ev.Status, ev.Step, ev.Message, ev.Err)
		return
	}
	fmt.Printf("[%s] %s: %s\n", ev.Status, ev.Step, ev.Message)
}

func formatReport(runID string, report *model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", runID)
	fmt.Fprintf(&b, "  processed:  %d\n", report.Processed)
	fmt.Fprintf(&b, "  successful: %d\n", report.Successful)
	fmt.Fprintf(&b, "  failed:     %d\n", report.Failed)
	fmt.Fprintf(&b, "  skipped:    %d\n", report.Skipped)
	for _, e := range report.Errors {
		fmt.Fprintf(&b, "  error: %s\n", e)
	}
	return b.String()
}
