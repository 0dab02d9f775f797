package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/internal/store"
	sfpkg "github.com/sells-group/venue-scout/pkg/salesforce"
)

var (
	promoteMinScore int
	promoteLimit    int
)

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Push high-scoring enriched leads to Salesforce",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sf, err := initSalesforce()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		leads, err := st.ListLeads(ctx, store.ListFilter{
			Status:   model.LeadStatusEnriched,
			MinScore: &promoteMinScore,
			Limit:    promoteLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list enriched leads")
		}
		if len(leads) == 0 {
			fmt.Printf("no enriched leads at or above score %d\n", promoteMinScore)
			return nil
		}

		pushed, failed := 0, 0
		for _, lead := range leads {
			sfID, err := sfpkg.UpsertLead(ctx, sf, lead)
			if err != nil {
				failed++
				zap.L().Error("promote: lead push failed",
					zap.String("lead_id", lead.ID),
					zap.Error(err),
				)
				continue
			}

			if err := st.UpdateLead(ctx, lead.ID, store.LeadUpdate{SalesforceID: sfID}); err != nil {
				zap.L().Warn("promote: could not record salesforce id",
					zap.String("lead_id", lead.ID),
					zap.String("salesforce_id", sfID),
					zap.Error(err),
				)
			}
			pushed++
		}

		zap.L().Info("promote complete", zap.Int("pushed", pushed), zap.Int("failed", failed))
		fmt.Printf("pushed %d leads to Salesforce (%d failed)\n", pushed, failed)
		return nil
	},
}

func init() {
	promoteCmd.Flags().IntVar(&promoteMinScore, "min-score", 70, "minimum lead score to promote")
	promoteCmd.Flags().IntVar(&promoteLimit, "limit", 100, "max leads to push")
	rootCmd.AddCommand(promoteCmd)
}
