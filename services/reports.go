package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-ordering/database"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type ReportStore interface {
	ListOrders(ctx context.Context, f database.OrderFilter) ([]models.Order, error)
}

type ReportRequest struct {
	Range            string
	StartDate        *time.Time
	EndDate          *time.Time
	ExcludeCancelled bool
	// CountGuests counts anonymous guests by name and phone instead of as one customer.
	CountGuests bool
}

// Location is the display timezone reports are bucketed in.
func (s *ReportService) Location() *time.Location {
	return s.loc
}

// ReportService generates, exports, mails and archives sales reports.
type ReportService struct {
	store   ReportStore
	mailer  Mailer
	archive ReportArchive
	loc     *time.Location
	now     func() time.Time

	// SendTimeout bounds fire-and-forget email sends.
	SendTimeout time.Duration
}

func NewReportService(store ReportStore, mailer Mailer, archive ReportArchive, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		store:       store,
		mailer:      mailer,
		archive:     archive,
		loc:         loc,
		now:         time.Now,
		SendTimeout: 30 * time.Second,
	}
}

func (s *ReportService) Generate(ctx context.Context, sess *Session, req ReportRequest) (ReportData, error) {
	if err := requireBackOffice(sess); err != nil {
		return ReportData{}, err
	}
	w, err := ResolveRange(req.Range, s.now(), s.loc, req.StartDate, req.EndDate)
	if err != nil {
		return ReportData{}, err
	}
	opts := ReportOptions{TopN: 10, ExcludeCancelled: req.ExcludeCancelled}
	if req.CountGuests {
		opts.CustomerPolicy = CustomerPolicyContact
	}
	return s.build(ctx, w, opts)
}

func (s *ReportService) build(ctx context.Context, w ReportWindow, opts ReportOptions) (ReportData, error) {
	orders, err := s.store.ListOrders(ctx, database.OrderFilter{From: w.From, To: w.To})
	if err != nil {
		return ReportData{}, err
	}
	return BuildReport(orders, w, opts), nil
}

// Yesterday builds the report of the previous calendar day.
func (s *ReportService) Yesterday(ctx context.Context) (ReportData, error) {
	now := s.now().In(s.loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	w := ReportWindow{From: end.AddDate(0, 0, -1), To: end, Location: s.loc}
	return s.build(ctx, w, ReportOptions{TopN: 10})
}

func (s *ReportService) FileName(ext string) string {
	return fmt.Sprintf("report_%s.%s", s.now().In(s.loc).Format("2006-01-02"), ext)
}

// Email sends the report synchronously.
func (s *ReportService) Email(ctx context.Context, to []string, r ReportData) error {
	if len(to) == 0 {
		return invalid("email", "at least one recipient is required")
	}
	subject, body := ReportEmail(r, s.now().In(s.loc))
	return s.mailer.Send(ctx, to, subject, body)
}

// EmailAsync sends in the background with its own timeout. Failures are logged.
func (s *ReportService) EmailAsync(to []string, r ReportData) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.SendTimeout)
		defer cancel()
		if err := s.Email(ctx, to, r); err != nil {
			utils.ErrorLogger.WithError(err).WithField("to", to).Error("report email failed")
			return
		}
		utils.InfoLogger.WithField("to", to).Info("report email sent")
	}()
}

// Archive uploads the CSV and PDF exports. It is a no-op without an archive.
func (s *ReportService) Archive(ctx context.Context, r ReportData) ([]string, error) {
	if s.archive == nil {
		return nil, nil
	}
	csvBody, err := ExportCSV(r)
	if err != nil {
		return nil, err
	}
	pdfBody, err := ExportPDF(r, "Sales report")
	if err != nil {
		return nil, err
	}

	prefix := "reports/" + r.From.In(s.loc).Format("2006/01/02") + "/"
	files := []struct {
		key, contentType string
		body             []byte
	}{
		{prefix + s.FileName("csv"), "text/csv; charset=utf-8", csvBody},
		{prefix + s.FileName("pdf"), "application/pdf", pdfBody},
	}
	var keys []string
	for _, f := range files {
		if err := s.archive.Put(ctx, f.key, f.body, f.contentType); err != nil {
			return keys, err
		}
		keys = append(keys, f.key)
	}
	utils.InfoLogger.WithFields(logrus.Fields{"keys": keys}).Info("report archived")
	return keys, nil
}
