package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/venue-scout/internal/model"
)

var (
	scoreLeadID   string
	scoreJSONPath string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Recompute a lead score from stored or supplied enrichment data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if (scoreLeadID == "") == (scoreJSONPath == "") {
			return eris.New("exactly one of --id or --json is required")
		}

		scorer, err := newScorer()
		if err != nil {
			return err
		}

		var data model.EnrichmentData
		switch {
		case scoreLeadID != "":
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			lead, err := st.GetLead(ctx, scoreLeadID)
			if err != nil {
				return eris.Wrap(err, "get lead")
			}
			if lead.Enrichment == nil {
				return eris.Errorf("lead %s has no enrichment data; run enrich first", scoreLeadID)
			}
			data = *lead.Enrichment
		default:
			raw, err := os.ReadFile(scoreJSONPath)
			if err != nil {
				return eris.Wrap(err, "read enrichment json")
			}
			if err := json.Unmarshal(raw, &data); err != nil {
				return eris.Wrap(err, "parse enrichment json")
			}
		}

		score := scorer.Score(data, time.Now().UTC())
		enc, err := json.MarshalIndent(score, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal score")
		}
		fmt.Println(string(enc))
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreLeadID, "id", "", "lead id to re-score from the datastore")
	scoreCmd.Flags().StringVar(&scoreJSONPath, "json", "", "path to an enrichment data JSON file")
	rootCmd.AddCommand(scoreCmd)
}
