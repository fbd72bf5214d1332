package services

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/yeremiapane/restaurant-ordering/utils"
)

// ExportCSV writes the summary block, the top products block and the daily
// revenue block, separated by blank lines.
func ExportCSV(r ReportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Report summary"},
		{"Total revenue", utils.FormatMoney(r.TotalRevenue)},
		{"Total orders", strconv.Itoa(r.TotalOrders)},
		{"Total customers", strconv.Itoa(r.UniqueCustomers)},
		{"Average order value", utils.FormatMoney(r.AverageOrderValue)},
		{},
		{"Top products"},
		{"Product", "Sales", "Revenue"},
	}
	for _, p := range r.TopProducts {
		rows = append(rows, []string{p.Name, strconv.Itoa(p.Quantity), utils.FormatMoney(p.Revenue)})
	}
	rows = append(rows,
		[]string{},
		[]string{"Daily revenue"},
		[]string{"Date", "Revenue", "Orders"},
	)
	for _, d := range r.DailyRevenue {
		rows = append(rows, []string{d.Date, utils.FormatMoney(d.Revenue), strconv.Itoa(d.Orders)})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
