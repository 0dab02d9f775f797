package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/internal/store"
)

var (
	leadsStatus string
	leadsLimit  int
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List leads with score and status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		filter := store.ListFilter{Limit: leadsLimit}
		if leadsStatus != "" {
			filter.Status = model.LeadStatus(leadsStatus)
		}

		leads, err := st.ListLeads(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "list leads")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tSCORE\tPOTENTIAL\tWEBSITE")
		for _, lead := range leads {
			score := "-"
			if lead.Score != nil {
				score = fmt.Sprintf("%d", *lead.Score)
			}
			label := lead.ScoreLabel
			if label == "" {
				label = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				lead.ID, lead.Name, lead.Status, score, label, lead.Website)
		}
		return w.Flush()
	},
}

func init() {
	leadsCmd.Flags().StringVar(&leadsStatus, "status", "", "filter by status (new|enriched|skipped|failed)")
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 50, "max leads to list")
	rootCmd.AddCommand(leadsCmd)
}
