package services

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

// ExportPDF renders the report with a daily revenue bar chart.
func ExportPDF(r ReportData, title string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s - %s", r.From.Format("2006-01-02 15:04"), r.To.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	summary := [][2]string{
		{"Total revenue", utils.FormatMoney(r.TotalRevenue)},
		{"Total orders", strconv.Itoa(r.TotalOrders)},
		{"Total customers", strconv.Itoa(r.UniqueCustomers)},
		{"Average order value", utils.FormatMoney(r.AverageOrderValue)},
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range summary {
		pdf.CellFormat(70, 7, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, tr(row[1]), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	if png, err := dailyRevenueChart(r.DailyRevenue); err != nil {
		utils.InfoLogger.WithError(err).Debug("skipping revenue chart")
	} else {
		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("daily-revenue", opts, bytes.NewReader(png))
		pdf.ImageOptions("daily-revenue", 10, pdf.GetY(), 190, 0, true, opts, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Top products", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(100, 7, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Sales", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Revenue", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, p := range r.TopProducts {
		pdf.CellFormat(100, 7, tr(p.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, strconv.Itoa(p.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, tr(utils.FormatMoney(p.Revenue)), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func dailyRevenueChart(days []DailyStat) ([]byte, error) {
	bars := make([]chart.Value, 0, len(days))
	hasRevenue := false
	for _, d := range days {
		v, _ := d.Revenue.Float64()
		if v > 0 {
			hasRevenue = true
		}
		label := d.Date
		if len(label) == len("2006-01-02") {
			label = label[5:]
		}
		bars = append(bars, chart.Value{Value: v, Label: label})
	}
	if !hasRevenue {
		return nil, fmt.Errorf("no revenue to chart")
	}

	barWidth := 600 / len(bars)
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 4 {
		barWidth = 4
	}
	graph := chart.BarChart{
		Title:      "Daily revenue",
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      900,
		Height:     400,
		BarWidth:   barWidth,
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
