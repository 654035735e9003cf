package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/myrjola/fraudintake/cmd/cli/store"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/repositories"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "report",
	Title: "Reports",
}

func init() {
	Export.Flags().String("out", "", "path to the CSV file, stdout when empty")
	Export.Flags().String("status", "", "only reports with this status")
	Export.Flags().String("state", "", "only reports from this state")
}

var Export = &cobra.Command{
	Use:     "export",
	GroupID: "report",
	Short:   "Export reports",
	Long:    "Writes reports as CSV, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var (
			out, _    = cmd.Flags().GetString("out")
			status, _ = cmd.Flags().GetString("status")
			state, _  = cmd.Flags().GetString("state")
		)
		var w io.Writer = os.Stdout
		if status != "" && !slices.Contains(models.ReportStatuses, models.ReportStatus(status)) {
			return errors.New("invalid status", slog.String("status", status))
		}

		ctx := cmd.Context()
		db, logger, err := store.Open(ctx, cmd)
		if err != nil {
			return err
		}
		defer store.Close(db)

		if out != "" {
			var f *os.File
			if f, err = os.Create(out); err != nil {
				return errors.Wrap(err, "create output file")
			}
			defer func() {
				_ = f.Close()
			}()
			w = f
		}

		cw := csv.NewWriter(w)
		if err = cw.Write([]string{"reference_id", "created_at", "status", "priority", "fraud_medium",
			"incident_type", "location_state", "location_city", "amount_involved"}); err != nil {
			return errors.Wrap(err, "write header")
		}
		count := 0
		filter := models.ReportFilter{ //nolint:exhaustruct // unset fields don't filter
			Status: models.ReportStatus(status),
			State:  state,
		}
		if err = repositories.NewReportRepository(db, logger).Export(ctx, filter, func(r models.Report) error {
			count++
			return cw.Write([]string{r.ReferenceID, r.CreatedAt.Format(time.RFC3339), string(r.Status),
				string(r.Priority), r.FraudMedium, r.IncidentType, r.LocationState, r.LocationCity,
				r.Amount.StringFixed(2)}) //nolint:mnd // paise
		}); err != nil {
			return err
		}
		cw.Flush()
		if err = cw.Error(); err != nil {
			return errors.Wrap(err, "flush csv")
		}
		_, _ = fmt.Fprintf(os.Stderr, "exported %d reports\n", count)
		return nil
	},
}

var Stats = &cobra.Command{
	Use:     "stats",
	GroupID: "report",
	Short:   "Print report statistics",
	Long:    "Prints totals and breakdowns by status, fraud medium and state",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		db, logger, err := store.Open(ctx, cmd)
		if err != nil {
			return err
		}
		defer store.Close(db)

		analytics, err := repositories.NewReportRepository(db, logger).Analytics(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0) //nolint:mnd // column padding
		_, _ = fmt.Fprintf(tw, "total reports\t%d\n", analytics.TotalReports)
		_, _ = fmt.Fprintf(tw, "total amount\t%s\n", analytics.TotalAmount.StringFixed(2)) //nolint:mnd // paise
		for _, section := range []struct {
			title  string
			counts []models.Count
		}{
			{"status", analytics.StatusBreakdown},
			{"fraud medium", analytics.FraudTypeBreakdown},
			{"state", analytics.StateBreakdown},
		} {
			_, _ = fmt.Fprintf(tw, "\n%s\t\n", section.title)
			for _, c := range section.counts {
				_, _ = fmt.Fprintf(tw, "  %s\t%s\n", c.Label, strconv.Itoa(c.Count))
			}
		}
		return errors.Wrap(tw.Flush(), "flush table")
	},
}
