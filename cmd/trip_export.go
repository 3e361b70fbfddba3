package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sworrl/WanderMage-sub002/internal/export"
	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/pkg/notion"
)

var (
	exportFormat string
	exportDir    string
	exportStatus string
	exportYear   int
)

var tripExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the trip journal (xlsx, csv, or notion)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		name := exportFormat
		if name == "" {
			name = cfg.Export.Format
		}
		format, err := export.ParseFormat(name)
		if err != nil {
			return err
		}

		filter, err := tripFilter(exportStatus, exportYear, 0)
		if err != nil {
			return err
		}

		trips, err := apiClient().ListTrips(ctx, filter)
		if err != nil {
			return checkSession(err)
		}
		if len(trips) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No trips to export")
			return nil
		}

		if format == export.FormatNotion {
			if err := cfg.Validate("notion"); err != nil {
				return err
			}
			journal := export.NewJournal(notion.NewClient(cfg.Notion.Token), cfg.Notion.TripDB)
			res, err := journal.Sync(ctx, trips)
			if err != nil {
				return eris.Wrap(err, "trip export")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d trips to Notion (%d created, %d updated)\n",
				len(trips), res.Created, res.Updated)
			return nil
		}

		dir := exportDir
		if dir == "" {
			dir = cfg.Export.Dir
		}
		path := export.Filename(dir, format, time.Now())

		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "trip export: create file")
		}
		defer f.Close()

		if err := writeExport(f, format, trips); err != nil {
			return err
		}

		zap.L().Debug("journal written", zap.String("path", path), zap.Int("trips", len(trips)))
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d trips to %s\n", len(trips), path)
		return nil
	},
}

// writeExport writes the file-backed formats. Notion has its own path since
// it talks to an API rather than a writer.
func writeExport(w io.Writer, f export.Format, trips []model.Trip) error {
	switch f {
	case export.FormatXLSX:
		return export.WriteXLSX(w, trips)
	case export.FormatCSV:
		return export.WriteCSV(w, trips)
	default:
		return eris.Errorf("trip export: format %q is not file-backed", f)
	}
}

func init() {
	tripExportCmd.Flags().StringVar(&exportFormat, "format", "", "export format: xlsx, csv, or notion (default from config)")
	tripExportCmd.Flags().StringVar(&exportDir, "out", "", "output directory for file formats (default from config)")
	tripExportCmd.Flags().StringVar(&exportStatus, "status", "", "filter by status")
	tripExportCmd.Flags().IntVar(&exportYear, "year", 0, "filter by start year")
	tripCmd.AddCommand(tripExportCmd)
}
