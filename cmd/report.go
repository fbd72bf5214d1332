package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

var reportOpts struct {
	rangePreset string
	start, end  string
	out         string
	email       []string
	archive     bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a sales report and export, email or archive it",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportOpts.rangePreset, "range", services.RangeWeek, "today, week, month or custom")
	f.StringVar(&reportOpts.start, "start", "", "custom range start (YYYY-MM-DD)")
	f.StringVar(&reportOpts.end, "end", "", "custom range end, inclusive (YYYY-MM-DD)")
	f.StringVarP(&reportOpts.out, "out", "o", "", "write the report to a .csv or .pdf file")
	f.StringSliceVar(&reportOpts.email, "email", nil, "send the report to these addresses")
	f.BoolVar(&reportOpts.archive, "archive", false, "upload CSV and PDF to the report archive")
	rootCmd.AddCommand(reportCmd)
}

// cliSession runs reports with back-office rights.
var cliSession = &services.Session{UserID: "cli", Role: models.RoleAdmin}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	req := services.ReportRequest{Range: reportOpts.rangePreset}
	loc := a.reports.Location()
	if req.StartDate, err = parseDay(reportOpts.start, loc); err != nil {
		return err
	}
	if req.EndDate, err = parseDay(reportOpts.end, loc); err != nil {
		return err
	}

	report, err := a.reports.Generate(ctx, cliSession, req)
	if err != nil {
		return err
	}
	utils.InfoLogger.WithField("orders", report.TotalOrders).
		WithField("revenue", utils.FormatMoney(report.TotalRevenue)).
		Info("report generated")

	if reportOpts.out != "" {
		var body []byte
		switch filepath.Ext(reportOpts.out) {
		case ".csv":
			body, err = services.ExportCSV(report)
		case ".pdf":
			body, err = services.ExportPDF(report, "Sales report")
		default:
			return errors.Errorf("unsupported output %q, use .csv or .pdf", reportOpts.out)
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(reportOpts.out, body, 0o644); err != nil {
			return err
		}
	}
	if len(reportOpts.email) > 0 {
		if err := a.reports.Email(ctx, reportOpts.email, report); err != nil {
			return err
		}
	}
	if reportOpts.archive {
		keys, err := a.reports.Archive(ctx, report)
		if err != nil {
			return err
		}
		if keys == nil {
			return errors.New("reports.archive_bucket is not configured")
		}
		utils.InfoLogger.WithField("keys", keys).Info("report archived")
	}
	return nil
}

func parseDay(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid date %q", s)
	}
	return &t, nil
}
