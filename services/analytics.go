package services

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-ordering/models"
)

type RankBy int

const (
	RankByRevenue RankBy = iota
	RankByQuantity
)

// CustomerPolicy decides how guests without email or account are counted.
type CustomerPolicy int

const (
	// CustomerPolicyCollapseAnonymous counts every anonymous guest as one customer.
	CustomerPolicyCollapseAnonymous CustomerPolicy = iota
	// CustomerPolicyContact keys anonymous guests by name and phone.
	CustomerPolicyContact
)

// ReportWindow is the half-open interval [From, To).
type ReportWindow struct {
	From     time.Time
	To       time.Time
	Location *time.Location
}

func (w ReportWindow) location() *time.Location {
	if w.Location == nil {
		return time.UTC
	}
	return w.Location
}

func (w ReportWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

type ReportOptions struct {
	// TopN truncates the product ranking; zero keeps every product.
	TopN             int
	RankBy           RankBy
	ExcludeCancelled bool
	CustomerPolicy   CustomerPolicy
}

type ProductStat struct {
	Name     string          `json:"name"`
	Quantity int             `json:"sales"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type DailyStat struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type ReportData struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalOrders       int             `json:"total_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	ActiveOrders      int             `json:"active_orders"`
	UniqueCustomers   int             `json:"total_customers"`
	TopProducts       []ProductStat   `json:"top_products"`
	DailyRevenue      []DailyStat     `json:"daily_revenue"`
}

// BuildReport aggregates the orders that fall inside the window.
func BuildReport(orders []models.Order, w ReportWindow, opts ReportOptions) ReportData {
	loc := w.location()
	report := ReportData{
		From:              w.From,
		To:                w.To,
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		TopProducts:       []ProductStat{},
		DailyRevenue:      DailyBuckets(w.From, w.To, loc),
	}

	dayIndex := make(map[string]int, len(report.DailyRevenue))
	for i, d := range report.DailyRevenue {
		dayIndex[d.Date] = i
	}
	customers := make(map[string]struct{})
	var lines []models.OrderItem

	for i := range orders {
		o := &orders[i]
		if !w.Contains(o.CreatedAt) {
			continue
		}
		if opts.ExcludeCancelled && o.Status == models.StatusCancelled {
			continue
		}

		report.TotalOrders++
		report.TotalRevenue = report.TotalRevenue.Add(o.Total)
		if o.Status.IsActive() {
			report.ActiveOrders++
		}
		customers[customerKey(o, opts.CustomerPolicy)] = struct{}{}

		if idx, ok := dayIndex[o.CreatedAt.In(loc).Format(dateLayout)]; ok {
			report.DailyRevenue[idx].Revenue = report.DailyRevenue[idx].Revenue.Add(o.Total)
			report.DailyRevenue[idx].Orders++
		}
		lines = append(lines, o.Items...)
	}

	report.UniqueCustomers = len(customers)
	report.AverageOrderValue = AverageOrderValue(report.TotalRevenue, report.TotalOrders)
	report.TopProducts = RankProducts(lines, opts.RankBy, opts.TopN)
	return report
}

// AverageOrderValue is revenue / count, or zero for an empty window.
func AverageOrderValue(revenue decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return revenue.Div(decimal.NewFromInt(int64(count)))
}

const dateLayout = "2006-01-02"

// DailyBuckets returns one zero bucket per calendar day in loc, from the
// day of from through the day of the last instant before to.
func DailyBuckets(from, to time.Time, loc *time.Location) []DailyStat {
	buckets := []DailyStat{}
	if !to.After(from) {
		return buckets
	}
	first := from.In(loc)
	last := to.Add(-time.Nanosecond).In(loc)
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, loc)

	for i := 0; ; i++ {
		day := time.Date(first.Year(), first.Month(), first.Day()+i, 0, 0, 0, 0, loc)
		if day.After(lastDay) {
			break
		}
		buckets = append(buckets, DailyStat{Date: day.Format(dateLayout), Revenue: decimal.Zero})
	}
	return buckets
}

// RankProducts groups lines by display name and sorts them descending.
// Ties keep the order in which products were first seen.
func RankProducts(lines []models.OrderItem, by RankBy, topN int) []ProductStat {
	stats := []ProductStat{}
	index := make(map[string]int)
	for i := range lines {
		item := &lines[i]
		name := item.DisplayName()
		idx, ok := index[name]
		if !ok {
			idx = len(stats)
			index[name] = idx
			stats = append(stats, ProductStat{Name: name, Revenue: decimal.Zero})
		}
		stats[idx].Quantity += item.Quantity
		stats[idx].Revenue = stats[idx].Revenue.Add(item.LineTotal())
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if by == RankByQuantity {
			return stats[i].Quantity > stats[j].Quantity
		}
		return stats[i].Revenue.GreaterThan(stats[j].Revenue)
	})
	if topN > 0 && len(stats) > topN {
		stats = stats[:topN]
	}
	return stats
}

const anonymousCustomer = "anonymous"

func customerKey(o *models.Order, policy CustomerPolicy) string {
	g := o.Guest()
	if g != nil && g.Email != "" {
		return "email:" + strings.ToLower(g.Email)
	}
	if o.UserID != nil && *o.UserID != "" {
		return "user:" + *o.UserID
	}
	if policy == CustomerPolicyContact && g != nil {
		return "guest:" + strings.ToLower(strings.TrimSpace(g.Name)) + "|" + strings.TrimSpace(g.Phone)
	}
	return anonymousCustomer
}

// Range presets of the reports page.
const (
	RangeToday  = "today"
	RangeWeek   = "week"
	RangeMonth  = "month"
	RangeCustom = "custom"
)

// ResolveRange turns a preset into a window ending now. For custom ranges
// the end date is inclusive.
func ResolveRange(preset string, now time.Time, loc *time.Location, start, end *time.Time) (ReportWindow, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	w := ReportWindow{To: now, Location: loc}

	switch preset {
	case RangeToday:
		w.From = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	case RangeWeek:
		w.From = now.AddDate(0, 0, -7)
	case "", RangeMonth:
		w.From = now.AddDate(0, -1, 0)
	case RangeCustom:
		if start == nil {
			w.From = now.AddDate(0, -1, 0)
		} else {
			s := start.In(loc)
			w.From = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc)
		}
		if end != nil {
			e := end.In(loc)
			w.To = time.Date(e.Year(), e.Month(), e.Day()+1, 0, 0, 0, 0, loc)
		}
		if !w.To.After(w.From) {
			return ReportWindow{}, invalid("end_date", "must not be before start_date")
		}
	default:
		return ReportWindow{}, invalid("range", "unknown range "+preset)
	}
	return w, nil
}

// DashboardData backs the admin home page.
type DashboardData struct {
	TodayRevenue decimal.Decimal `json:"today_revenue"`
	TodayOrders  int             `json:"today_orders"`
	ActiveOrders int             `json:"active_orders"`
	RecentOrders []models.Order  `json:"recent_orders"`
	TopProducts  []ProductStat   `json:"top_products"`
}

// BuildDashboard summarises today's orders. recent must be newest first;
// active counts every in-flight order regardless of day.
func BuildDashboard(today []models.Order, active int, recent []models.Order) DashboardData {
	d := DashboardData{
		TodayRevenue: decimal.Zero,
		TodayOrders:  len(today),
		ActiveOrders: active,
		RecentOrders: recent,
	}
	if len(d.RecentOrders) > 5 {
		d.RecentOrders = d.RecentOrders[:5]
	}
	if d.RecentOrders == nil {
		d.RecentOrders = []models.Order{}
	}

	var lines []models.OrderItem
	for i := range today {
		d.TodayRevenue = d.TodayRevenue.Add(today[i].Total)
		lines = append(lines, today[i].Items...)
	}
	d.TopProducts = RankProducts(lines, RankByQuantity, 4)
	return d
}

type CustomerSummary struct {
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email,omitempty"`
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	LastOrder   time.Time       `json:"last_order"`
}

const (
	unknownCustomerName = "Unknown"
	unknownPhone        = "No phone"
)

// BuildCustomerRollup groups orders by guest name and phone, most recent
// customer first. search filters on name or phone, case-insensitively.
func BuildCustomerRollup(orders []models.Order, search string) []CustomerSummary {
	out := []CustomerSummary{}
	index := make(map[string]int)
	for i := range orders {
		o := &orders[i]
		name, phone, email := unknownCustomerName, unknownPhone, ""
		if g := o.Guest(); g != nil {
			if g.Name != "" {
				name = g.Name
			}
			if g.Phone != "" {
				phone = g.Phone
			}
			email = g.Email
		}
		key := name + "-" + phone
		idx, ok := index[key]
		if !ok {
			idx = len(out)
			index[key] = idx
			out = append(out, CustomerSummary{Name: name, Phone: phone, Email: email, TotalSpent: decimal.Zero})
		}
		c := &out[idx]
		c.TotalOrders++
		c.TotalSpent = c.TotalSpent.Add(o.Total)
		if o.CreatedAt.After(c.LastOrder) {
			c.LastOrder = o.CreatedAt
		}
		if c.Email == "" {
			c.Email = email
		}
	}

	if q := strings.ToLower(strings.TrimSpace(search)); q != "" {
		filtered := out[:0]
		for _, c := range out {
			if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(c.Phone, q) {
				filtered = append(filtered, c)
			}
		}
		out = filtered
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastOrder.After(out[j].LastOrder)
	})
	return out
}
