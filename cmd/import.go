package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/venue-scout/internal/importer"
	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/pkg/notionlead"
)

var (
	importCSVPath  string
	importXLSXPath string
	importFTPURL   string
	importNotion   bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-load leads from CSV, XLSX, FTP, or Notion",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sources := 0
		for _, set := range []bool{importCSVPath != "", importXLSXPath != "", importFTPURL != "", importNotion} {
			if set {
				sources++
			}
		}
		if sources != 1 {
			return eris.New("exactly one of --csv, --xlsx, --ftp, or --notion is required")
		}

		var (
			leads []model.Lead
			err   error
		)
		switch {
		case importCSVPath != "":
			f, openErr := os.Open(importCSVPath)
			if openErr != nil {
				return eris.Wrap(openErr, "open csv")
			}
			defer f.Close() //nolint:errcheck
			leads, err = importer.ReadCSV(f)
		case importXLSXPath != "":
			leads, err = importer.ReadXLSX(importXLSXPath)
		case importFTPURL != "":
			leads, err = importer.ReadFTPCSV(ctx, importFTPURL, importer.FTPOptions{
				User:     cfg.Import.FTPUser,
				Password: cfg.Import.FTPPassword,
			})
		default:
			if err := cfg.Validate("notion"); err != nil {
				return err
			}
			client := notionlead.NewClient(cfg.Notion.Token)
			leads, err = importer.ReadNotion(ctx, client, cfg.Notion.VenueDB)
		}
		if err != nil {
			return eris.Wrap(err, "read leads")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		res, err := importer.New(st).ImportLeads(ctx, leads)
		if err != nil {
			return eris.Wrap(err, "import leads")
		}

		zap.L().Info("import complete",
			zap.Int("read", res.Read),
			zap.Int("imported", res.Imported),
			zap.Int("duplicates", res.Duplicates),
		)
		fmt.Printf("imported %d of %d leads (%d duplicates)\n", res.Imported, res.Read, res.Duplicates)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to a CSV file")
	importCmd.Flags().StringVar(&importXLSXPath, "xlsx", "", "path to an XLSX workbook")
	importCmd.Flags().StringVar(&importFTPURL, "ftp", "", "ftp:// URL of a CSV file")
	importCmd.Flags().BoolVar(&importNotion, "notion", false, "pull leads from the configured Notion database")
	rootCmd.AddCommand(importCmd)
}
