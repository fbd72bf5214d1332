package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ordering/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(name string, qty int, price string) models.OrderItem {
	return models.OrderItem{ProductName: name, Quantity: qty, UnitPrice: dec(price)}
}

func orderAt(at time.Time, status models.OrderStatus, total string, guest *models.GuestInfo, items ...models.OrderItem) models.Order {
	return models.Order{
		ID:        "id-" + at.Format(time.RFC3339Nano) + total,
		Status:    status,
		Total:     dec(total),
		CreatedAt: at,
		GuestInfo: models.NewGuestInfo(guest),
		Items:     items,
	}
}

func TestBuildReportTotalsAndAverage(t *testing.T) {
	loc := time.UTC
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, loc)
	w := ReportWindow{From: from, To: from.AddDate(0, 0, 7), Location: loc}

	orders := []models.Order{
		orderAt(from.Add(2*time.Hour), models.StatusDelivered, "10.00", nil, item("Burger", 1, "10.00")),
		orderAt(from.Add(26*time.Hour), models.StatusPending, "20.00", nil, item("Pizza", 2, "10.00")),
		orderAt(from.Add(50*time.Hour), models.StatusCancelled, "30.00", nil, item("Burger", 3, "10.00")),
		// outside the window
		orderAt(from.AddDate(0, 0, 7), models.StatusDelivered, "99.00", nil),
	}

	r := BuildReport(orders, w, ReportOptions{})
	assert.Equal(t, 3, r.TotalOrders)
	assert.True(t, dec("60").Equal(r.TotalRevenue))
	assert.True(t, dec("20").Equal(r.AverageOrderValue))
	assert.Equal(t, 1, r.ActiveOrders)
	assert.Equal(t, 1, r.UniqueCustomers)

	require.Len(t, r.DailyRevenue, 7)
	assert.Equal(t, "2024-03-01", r.DailyRevenue[0].Date)
	assert.Equal(t, "2024-03-07", r.DailyRevenue[6].Date)
	assert.Equal(t, 1, r.DailyRevenue[1].Orders)
	assert.True(t, dec("0").Equal(r.DailyRevenue[6].Revenue))

	require.Len(t, r.TopProducts, 2)
	assert.Equal(t, "Burger", r.TopProducts[0].Name)
	assert.Equal(t, 4, r.TopProducts[0].Quantity)

	excl := BuildReport(orders, w, ReportOptions{ExcludeCancelled: true})
	assert.Equal(t, 2, excl.TotalOrders)
	assert.True(t, dec("15").Equal(excl.AverageOrderValue))
}

func TestAverageOrderValueEmpty(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(AverageOrderValue(decimal.Zero, 0)))
}

func TestDailyBucketsFollowLocation(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	// 23:30 UTC is already the next day in Madrid.
	from := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	to := time.Date(2024, 6, 3, 22, 0, 0, 0, time.UTC)

	days := DailyBuckets(from, to, madrid)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-06-02", days[0].Date)
	assert.Equal(t, "2024-06-03", days[1].Date)

	assert.Empty(t, DailyBuckets(to, from, madrid))
}

func TestRankProductsTiesKeepFirstSeenOrder(t *testing.T) {
	lines := []models.OrderItem{
		item("Soup", 1, "5.00"),
		item("Salad", 1, "5.00"),
		item("Steak", 1, "20.00"),
		item("Salad", 1, "5.00"),
		item("Soup", 1, "5.00"),
	}
	byRevenue := RankProducts(lines, RankByRevenue, 0)
	require.Len(t, byRevenue, 3)
	assert.Equal(t, []string{"Steak", "Soup", "Salad"}, names(byRevenue))

	byQty := RankProducts(lines, RankByQuantity, 2)
	assert.Equal(t, []string{"Soup", "Salad"}, names(byQty))
}

func TestRankProductsUsesSnapshotNameForDeletedProduct(t *testing.T) {
	pid := "gone"
	lines := []models.OrderItem{
		{ProductID: &pid, ProductName: "Old special", Quantity: 2, UnitPrice: dec("4")},
		{ProductID: &pid, Quantity: 1, UnitPrice: dec("4")},
	}
	stats := RankProducts(lines, RankByQuantity, 0)
	assert.Equal(t, []string{"Old special", models.UnknownProductName}, names(stats))
}

func names(stats []ProductStat) []string {
	out := make([]string, 0, len(stats))
	for _, s := range stats {
		out = append(out, s.Name)
	}
	return out
}

func TestUniqueCustomersPolicy(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w := ReportWindow{From: from, To: from.AddDate(0, 0, 1)}
	user := "user-1"

	withUser := orderAt(from.Add(time.Hour), models.StatusDelivered, "5", nil)
	withUser.UserID = &user
	orders := []models.Order{
		orderAt(from.Add(time.Minute), models.StatusDelivered, "5", &models.GuestInfo{Name: "Ana", Email: "ANA@example.com"}),
		orderAt(from.Add(2*time.Minute), models.StatusDelivered, "5", &models.GuestInfo{Name: "Ana B", Email: "ana@example.com"}),
		orderAt(from.Add(3*time.Minute), models.StatusDelivered, "5", &models.GuestInfo{Name: "Luis", Phone: "600"}),
		orderAt(from.Add(4*time.Minute), models.StatusDelivered, "5", &models.GuestInfo{Name: "Marta", Phone: "700"}),
		withUser,
	}

	collapsed := BuildReport(orders, w, ReportOptions{})
	assert.Equal(t, 3, collapsed.UniqueCustomers)

	byContact := BuildReport(orders, w, ReportOptions{CustomerPolicy: CustomerPolicyContact})
	assert.Equal(t, 4, byContact.UniqueCustomers)
}

func TestResolveRange(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 5, 15, 13, 0, 0, 0, loc)

	today, err := ResolveRange(RangeToday, now, loc, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, loc), today.From)
	assert.Equal(t, now, today.To)

	week, err := ResolveRange(RangeWeek, now, loc, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -7), week.From)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, loc)
	end := time.Date(2024, 5, 3, 0, 0, 0, 0, loc)
	custom, err := ResolveRange(RangeCustom, now, loc, &start, &end)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 4, 0, 0, 0, 0, loc), custom.To)
	assert.Len(t, DailyBuckets(custom.From, custom.To, loc), 3)

	_, err = ResolveRange(RangeCustom, now, loc, &end, &start)
	assert.True(t, IsValidation(err))

	_, err = ResolveRange("decade", now, loc, nil, nil)
	assert.True(t, IsValidation(err))
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var recent []models.Order
	for i := 0; i < 7; i++ {
		recent = append(recent, orderAt(now.Add(-time.Duration(i)*time.Minute), models.StatusPending, "1", nil))
	}
	today := []models.Order{
		orderAt(now, models.StatusPending, "12.50", nil, item("A", 5, "1"), item("B", 4, "1"), item("C", 3, "1")),
		orderAt(now, models.StatusDelivered, "7.50", nil, item("D", 2, "1"), item("E", 1, "1")),
	}
	d := BuildDashboard(today, 3, recent)
	assert.Len(t, d.RecentOrders, 5)
	assert.Equal(t, 2, d.TodayOrders)
	assert.Equal(t, 3, d.ActiveOrders)
	assert.True(t, dec("20").Equal(d.TodayRevenue))
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(d.TopProducts))
}

func TestBuildCustomerRollup(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		orderAt(t0.Add(3*time.Hour), models.StatusDelivered, "10", &models.GuestInfo{Name: "Ana", Phone: "600"}),
		orderAt(t0.Add(2*time.Hour), models.StatusDelivered, "5", nil),
		orderAt(t0.Add(time.Hour), models.StatusDelivered, "7", &models.GuestInfo{Name: "Ana", Phone: "600", Email: "ana@example.com"}),
	}
	all := BuildCustomerRollup(orders, "")
	require.Len(t, all, 2)
	assert.Equal(t, "Ana", all[0].Name)
	assert.Equal(t, 2, all[0].TotalOrders)
	assert.True(t, dec("17").Equal(all[0].TotalSpent))
	assert.Equal(t, "ana@example.com", all[0].Email)
	assert.Equal(t, t0.Add(3*time.Hour), all[0].LastOrder)
	assert.Equal(t, "Unknown", all[1].Name)
	assert.Equal(t, "No phone", all[1].Phone)

	assert.Len(t, BuildCustomerRollup(orders, "ANA"), 1)
	assert.Len(t, BuildCustomerRollup(orders, "600"), 1)
	assert.Empty(t, BuildCustomerRollup(orders, "zzz"))
}
