package services

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/testutil"
)

func TestExportCSVLayout(t *testing.T) {
	r := ReportData{
		TotalRevenue:      dec("1234.5"),
		TotalOrders:       3,
		UniqueCustomers:   2,
		AverageOrderValue: dec("411.5"),
		TopProducts: []ProductStat{
			{Name: "Paella, large", Quantity: 4, Revenue: dec("56")},
		},
		DailyRevenue: []DailyStat{
			{Date: "2024-03-01", Revenue: dec("1234.5"), Orders: 3},
			{Date: "2024-03-02", Revenue: dec("0"), Orders: 0},
		},
	}
	body, err := ExportCSV(r)
	require.NoError(t, err)

	want := strings.Join([]string{
		"Report summary",
		"Total revenue,1234.50€",
		"Total orders,3",
		"Total customers,2",
		"Average order value,411.50€",
		"",
		"Top products",
		"Product,Sales,Revenue",
		`"Paella, large",4,56.00€`,
		"",
		"Daily revenue",
		"Date,Revenue,Orders",
		"2024-03-01,1234.50€,3",
		"2024-03-02,0.00€,0",
		"",
	}, "\n")
	assert.Equal(t, want, string(body))
}

func TestExportPDF(t *testing.T) {
	r := ReportData{
		TotalRevenue: dec("20"),
		TotalOrders:  2,
		TopProducts:  []ProductStat{{Name: "Crema catalana", Quantity: 2, Revenue: dec("10")}},
		DailyRevenue: []DailyStat{{Date: "2024-03-01", Revenue: dec("20"), Orders: 2}, {Date: "2024-03-02", Revenue: dec("0")}},
	}
	body, err := ExportPDF(r, "Sales report")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	// No revenue: the chart is skipped, the document is still produced.
	empty, err := ExportPDF(ReportData{DailyRevenue: []DailyStat{{Date: "2024-03-01", Revenue: dec("0")}}}, "Sales report")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF")))
}

func TestReportEmailEscapesAndTruncates(t *testing.T) {
	r := ReportData{TotalRevenue: dec("10")}
	for _, n := range []string{"<b>A</b>", "B", "C", "D", "E", "F"} {
		r.TopProducts = append(r.TopProducts, ProductStat{Name: n, Quantity: 1, Revenue: dec("1")})
	}
	subject, body := ReportEmail(r, time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC))
	assert.Equal(t, "Sales report - 05/03/2024", subject)
	assert.Contains(t, body, "&lt;b&gt;A&lt;/b&gt;")
	assert.Contains(t, body, "<strong>E</strong>")
	assert.NotContains(t, body, "<strong>F</strong>")
}

type mockMailer struct {
	mock.Mock
	sent chan struct{}
}

func (m *mockMailer) Send(ctx context.Context, to []string, subject, body string) error {
	args := m.Called(to, subject)
	if m.sent != nil {
		m.sent <- struct{}{}
	}
	return args.Error(0)
}

type memArchive struct {
	mu   sync.Mutex
	objs map[string]string
}

func (a *memArchive) Put(_ context.Context, key string, body []byte, contentType string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.objs == nil {
		a.objs = map[string]string{}
	}
	a.objs[key] = contentType
	return nil
}

func TestReportServiceGenerate(t *testing.T) {
	store := testutil.NewStore(t)
	loc := time.UTC
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, loc)
	paella := testutil.SeedProduct(t, store, "Paella", "12.00")
	coffee := testutil.SeedProduct(t, store, "Coffee", "1.50")

	testutil.SeedOrder(t, store, models.StatusDelivered, now.Add(-2*time.Hour), &models.GuestInfo{Name: "Ana", Phone: "1"},
		testutil.Line{Product: paella, Quantity: 1}, testutil.Line{Product: coffee, Quantity: 2})
	testutil.SeedOrder(t, store, models.StatusCancelled, now.Add(-time.Hour), &models.GuestInfo{Name: "Luis", Phone: "2"},
		testutil.Line{Product: coffee, Quantity: 1})
	testutil.SeedOrder(t, store, models.StatusDelivered, now.AddDate(0, 0, -2), nil,
		testutil.Line{Product: paella, Quantity: 2})

	archive := &memArchive{}
	svc := NewReportService(store, LogMailer{}, archive, loc)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	today, err := svc.Generate(ctx, staff, ReportRequest{Range: RangeToday})
	require.NoError(t, err)
	assert.Equal(t, 2, today.TotalOrders)
	assert.True(t, dec("16.50").Equal(today.TotalRevenue))
	assert.Equal(t, 1, today.UniqueCustomers)
	require.Len(t, today.DailyRevenue, 1)

	guests, err := svc.Generate(ctx, staff, ReportRequest{Range: RangeToday, CountGuests: true, ExcludeCancelled: true})
	require.NoError(t, err)
	assert.Equal(t, 1, guests.TotalOrders)
	assert.Equal(t, 1, guests.UniqueCustomers)

	week, err := svc.Generate(ctx, staff, ReportRequest{Range: RangeWeek})
	require.NoError(t, err)
	assert.Equal(t, 3, week.TotalOrders)
	assert.Equal(t, "Paella", week.TopProducts[0].Name)
	assert.Len(t, week.DailyRevenue, 8)

	_, err = svc.Generate(ctx, nil, ReportRequest{Range: RangeToday})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	keys, err := svc.Archive(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/2024/03/10/report_2024-03-10.csv", "reports/2024/03/10/report_2024-03-10.pdf"}, keys)
	assert.Equal(t, "application/pdf", archive.objs[keys[1]])

	assert.ErrorIs(t, svc.Email(ctx, []string{"boss@example.com"}, today), ErrMailerNotConfigured)
	assert.True(t, IsValidation(svc.Email(ctx, nil, today)))
}

func TestReportServiceYesterdayAndAsyncEmail(t *testing.T) {
	store := testutil.NewStore(t)
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	p := testutil.SeedProduct(t, store, "Paella", "12.00")
	testutil.SeedOrder(t, store, models.StatusDelivered, now.Add(-12*time.Hour), nil, testutil.Line{Product: p, Quantity: 1})
	testutil.SeedOrder(t, store, models.StatusDelivered, now.Add(-time.Hour), nil, testutil.Line{Product: p, Quantity: 1})

	mailer := &mockMailer{sent: make(chan struct{}, 1)}
	mailer.On("Send", []string{"boss@example.com"}, "Sales report - 10/03/2024").Return(nil)

	svc := NewReportService(store, mailer, nil, time.UTC)
	svc.now = func() time.Time { return now }

	r, err := svc.Yesterday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, r.TotalOrders)

	keys, err := svc.Archive(context.Background(), r)
	require.NoError(t, err)
	assert.Nil(t, keys)

	svc.EmailAsync([]string{"boss@example.com"}, r)
	select {
	case <-mailer.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("report email was not sent")
	}
	mailer.AssertExpectations(t)
}

func TestParseClock(t *testing.T) {
	h, m, err := parseClock("07:45")
	require.NoError(t, err)
	assert.Equal(t, uint(7), h)
	assert.Equal(t, uint(45), m)

	_, _, err = parseClock("25:00")
	assert.Error(t, err)
}

func TestNewSchedulerRejectsBadClock(t *testing.T) {
	svc := NewReportService(testutil.NewStore(t), LogMailer{}, nil, time.UTC)
	_, err := NewScheduler(SchedulerConfig{DailyReportAt: "noon"}, svc, nil, nil)
	assert.Error(t, err)

	s, err := NewScheduler(SchedulerConfig{DailyReportAt: "06:00"}, svc, nil, nil)
	require.NoError(t, err)
	s.Start()
	assert.NoError(t, s.Shutdown())
}
