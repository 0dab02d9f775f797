package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/venue-scout/internal/pipeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Run the extraction ladder on one URL and print the scored record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		scorer, err := newScorer()
		if err != nil {
			return err
		}

		result := newExtractor().Extract(ctx, args[0])

		out := struct {
			Success  bool   `json:"success"`
			Strategy string `json:"strategy"`
			Error    string `json:"error,omitempty"`
			Data     any    `json:"data"`
		}{
			Success:  result.Success,
			Strategy: result.Strategy,
			Error:    result.Err,
		}

		if result.Data != nil {
			data := pipeline.ToEnrichmentData(*result.Data)
			score := scorer.Score(data, time.Now().UTC())
			data.Score = &score
			out.Data = data
		}

		enc, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal extraction")
		}
		fmt.Println(string(enc))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
